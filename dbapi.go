package wire

import (
	"time"

	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

// PEP-249-style module attributes, mirroring driver.dbapi's apilevel/
// threadsafety/paramstyle constants. This package does not implement
// PEP-249 itself (there is no Go analogue), but callers translating from a
// DB-API client can use these to check compatibility assumptions.
const (
	APILevel      = "2.0"
	ThreadSafety  = 0
	ParamStyle    = "qmark"
)

// Type markers mirroring driver.dbapi's STRING/BINARY/NUMBER/DATETIME/
// DECIMAL/LANGUAGE/WORD/ROWID type objects. They are values.DataType
// constants; Cursor.Description and SetInputSizes use values.SQLType, so
// these markers do not compare directly against those.
const (
	TypeString   = values.DataTypeString
	TypeBinary   = values.DataTypeBinary
	TypeNumber   = values.DataTypeDouble
	TypeDateTime = values.DataTypeDateTime
	TypeDecimal  = values.DataTypeDecimal
	TypeLanguage = values.DataTypeLanguage
	TypeWord     = values.DataTypeWord
	TypeRowID    = values.DataTypeInteger64
)

// DateFromTicks, TimeFromTicks, and TimestampFromTicks build parameter
// values from a Unix timestamp, mirroring dbapi.DateFromTicks/TimeFromTicks/
// TimestampFromTicks.
func DateFromTicks(ticks int64) values.Date {
	return values.Date{Value: time.Unix(ticks, 0).UTC()}
}

func TimeFromTicks(ticks int64) time.Time {
	return time.Unix(ticks, 0).UTC()
}

func TimestampFromTicks(ticks int64) values.DateTime {
	return values.DateTime{Value: time.Unix(ticks, 0).UTC()}
}
