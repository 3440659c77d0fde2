package errors

// Severity represents the severity of a decorated error (see WithSeverity):
// ERROR, FATAL or WARNING. It is separate from the server's ErrorLevel; a
// Port decides reuse eligibility from the ErrorLevel object it reads, not
// from this value.
type Severity string

const (
	LevelError   Severity = "ERROR"
	LevelFatal   Severity = "FATAL"
	LevelWarning Severity = "WARNING"
)
