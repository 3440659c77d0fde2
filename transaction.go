package wire

// TransactionMode selects how a started transaction treats writes,
// mirroring driver.connection.TransactionMode.
type TransactionMode int32

const (
	TransactionModeReadWrite               TransactionMode = 1
	TransactionModeReadOnly                TransactionMode = 2
	TransactionModeReadOnlyUsingSnapshot   TransactionMode = 3
)

// TransactionIsolationLevel selects the isolation guarantees a transaction
// runs under, mirroring driver.connection.TransactionIsolationLevel. The
// values are bit flags; Conn translates each into the SQL text DoqueDB
// accepts after "isolation level".
type TransactionIsolationLevel int32

const (
	TransactionReadUncommitted TransactionIsolationLevel = 0x1
	TransactionReadCommitted   TransactionIsolationLevel = 0x2
	TransactionRepeatableRead  TransactionIsolationLevel = 0x4
	TransactionSerializable    TransactionIsolationLevel = 0x8

	// TransactionUsingSnapshot is only valid paired with a read-only
	// transaction; set_transaction_isolation folds it into set_readonly(true)
	// instead of an explicit "isolation level" clause.
	TransactionUsingSnapshot TransactionIsolationLevel = 0x100
)
