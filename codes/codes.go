// Package codes defines the state-code catalog used to classify server
// ExceptionData payloads into a concrete DatabaseError subclass. The shape
// (exported Code string constants grouped by class) follows psql-wire's
// codes.Code table; the class groups themselves are this protocol's own —
// they follow the DatabaseError subclass errors.NewDatabaseError picks for
// each code prefix rather than the full Postgres SQLSTATE catalog, since no
// concrete per-errno state-code table survived the distillation of the
// original source.
package codes

// Code is an opaque, stable state identifier attached to an error.
type Code string

const (
	// Uncategorized is used when no more specific code has been attached.
	Uncategorized Code = "XX000"

	// Class 08 - connection/transport exceptions.
	ConnectionException Code = "08000"
	ConnectionFailure    Code = "08006"
	ConnectionDoesNotExist Code = "08003"

	// Class 0A - feature not supported.
	FeatureNotSupported Code = "0A000"

	// Class 22 - data exceptions (DataError).
	DataException        Code = "22000"
	StringDataRightTruncation Code = "22001"
	NumericValueOutOfRange    Code = "22003"
	InvalidDatetimeFormat     Code = "22007"
	DivisionByZero            Code = "22012"

	// Class 23 - integrity constraint violation (IntegrityError).
	IntegrityConstraintViolation Code = "23000"
	NotNullViolation             Code = "23502"
	ForeignKeyViolation          Code = "23503"
	UniqueViolation              Code = "23505"
	CheckViolation               Code = "23514"

	// Class 25 - invalid transaction state (OperationalError).
	InvalidTransactionState Code = "25000"
	ReadOnlySQLTransaction  Code = "25006"

	// Class 40 - transaction rollback (OperationalError).
	TransactionRollback Code = "40000"

	// Class 42 - syntax error or access rule violation (ProgrammingError).
	SyntaxErrorOrAccessRuleViolation Code = "42000"
	SyntaxError                      Code = "42601"
	UndefinedTable                   Code = "42P01"
	UndefinedColumn                  Code = "42703"

	// Class 53/57/58 - operator/system/resource errors (InternalError).
	InsufficientResources Code = "53000"
	OperatorIntervention  Code = "57000"
	SystemError           Code = "58000"

	// Class XX and others - internal error, registry/framing anomalies. No
	// DatabaseError subclass covers these prefixes, so errors.NewDatabaseError
	// gives a bare DatabaseError for them.
	InternalErrorCode  Code = "XX000"
	ProgramLimitExceeded Code = "54000"
	ClassNotFound        Code = "XX001"
	ProtocolViolation    Code = "08P01"
)
