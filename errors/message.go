package errors

import (
	"strconv"
	"strings"

	"github.com/doquedb-oss/doquedb-go/codes"
)

// messageEntry mirrors the original's MessageEntry: an errno paired with a
// message format string whose %N placeholders (1-indexed) are substituted
// with ExceptionData.Args at format time.
type messageEntry struct {
	errno  int32
	format string
}

// messageTable is English-only. The original selects between an English and
// a Japanese table based on the process locale; the Japanese table
// (exception/message_format_jp.py) did not survive distillation into this
// repository's source material, so only the English entries are carried
// here. An unrecognized errno falls back to a generic templated message
// rather than failing to format at all.
var messageTable = map[int32]messageEntry{
	1:  {1, "unexpected error"},
	2:  {2, "class not found: %1"},
	3:  {3, "connection does not exist"},
	4:  {4, "connection failure"},
	5:  {5, "protocol violation"},
	6:  {6, "feature not supported: %1"},
	7:  {7, "string data, right truncation: %1"},
	8:  {8, "numeric value out of range: %1"},
	9:  {9, "invalid datetime format: %1"},
	10: {10, "division by zero"},
	11: {11, "integrity constraint violation: %1"},
	12: {12, "not null violation: column %1"},
	13: {13, "foreign key violation: %1"},
	14: {14, "unique violation: %1"},
	15: {15, "check violation: %1"},
	16: {16, "invalid transaction state"},
	17: {17, "read only sql transaction"},
	18: {18, "transaction rollback: %1"},
	19: {19, "syntax error: %1"},
	20: {20, "undefined table: %1"},
	21: {21, "undefined column: %1"},
	22: {22, "insufficient resources"},
	23: {23, "operator intervention"},
	24: {24, "system error: %1"},
}

// makeErrorMessage mirrors the original's ErrorMessage.make_error_message:
// look up errno's format and substitute each %N (1-indexed) with args[N-1].
func makeErrorMessage(errno int32, args []string) string {
	entry, ok := messageTable[errno]
	format := entry.format
	if !ok {
		format = "server error " + strconv.FormatInt(int64(errno), 10)
		if len(args) > 0 {
			format += ": " + strings.Join(args, ", ")
		}
		return format
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(format) && format[j] >= '0' && format[j] <= '9' {
			j++
		}

		if j == i+1 {
			b.WriteByte(c)
			continue
		}

		n, err := strconv.Atoi(format[i+1 : j])
		if err != nil || n < 1 || n > len(args) {
			b.WriteString(format[i:j])
			i = j - 1
			continue
		}

		b.WriteString(args[n-1])
		i = j - 1
	}

	return b.String()
}

// MakeErrorMessage formats a server-reported errno/args pair into a
// human-readable message, mirroring ExceptionData.error_message.
func MakeErrorMessage(errno int32, args []string) string {
	return makeErrorMessage(errno, args)
}

// codeTable maps an errno to the SQLSTATE-like code NewDatabaseError
// classifies on, mirroring the original's errno -> state_code association
// baked into exceptions.py's per-errno raise sites.
var codeTable = map[int32]codes.Code{
	2:  codes.ClassNotFound,
	3:  codes.ConnectionDoesNotExist,
	4:  codes.ConnectionFailure,
	5:  codes.ProtocolViolation,
	6:  codes.FeatureNotSupported,
	7:  codes.StringDataRightTruncation,
	8:  codes.NumericValueOutOfRange,
	9:  codes.InvalidDatetimeFormat,
	10: codes.DivisionByZero,
	11: codes.IntegrityConstraintViolation,
	12: codes.NotNullViolation,
	13: codes.ForeignKeyViolation,
	14: codes.UniqueViolation,
	15: codes.CheckViolation,
	16: codes.InvalidTransactionState,
	17: codes.ReadOnlySQLTransaction,
	18: codes.TransactionRollback,
	19: codes.SyntaxError,
	20: codes.UndefinedTable,
	21: codes.UndefinedColumn,
	22: codes.InsufficientResources,
	23: codes.OperatorIntervention,
	24: codes.SystemError,
}

// CodeForErrno resolves a server-reported errno to the code NewDatabaseError
// classifies on. An unrecognized errno resolves to codes.Uncategorized,
// which NewDatabaseError falls back to a bare *DatabaseError for.
func CodeForErrno(errno int32) codes.Code {
	if code, ok := codeTable[errno]; ok {
		return code
	}

	return codes.Uncategorized
}

// NewExceptionError builds the classified error for a server-reported
// errno/args pair, mirroring how the original's RaiseClassInstance picks an
// exception class and formats its message for a given ExceptionData.
func NewExceptionError(errno int32, args []string) error {
	return NewDatabaseError(makeErrorMessage(errno, args), CodeForErrno(errno), errno)
}
