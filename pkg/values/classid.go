// Package values implements the typed wire value model: every variant that
// can appear in a request or response payload, each able to read and write
// itself through a pkg/wire Reader/Writer, plus the class-id object registry
// that dispatches between them.
package values

// ClassID tags every self-describing wire object. The numbering is fixed by
// the protocol and carried over unchanged from the original implementation's
// Common::ClassID table.
type ClassID int32

const (
	ClassNone                     ClassID = 0
	ClassStatus                   ClassID = 1
	ClassInteger                  ClassID = 2
	ClassUnsignedInteger          ClassID = 3
	ClassInteger64                ClassID = 4
	ClassUnsignedInteger64        ClassID = 5
	ClassFloat                    ClassID = 6
	ClassDouble                   ClassID = 7
	ClassDecimal                  ClassID = 8
	ClassString                   ClassID = 9
	ClassDate                     ClassID = 10
	ClassDateTime                 ClassID = 11
	ClassIntegerArray             ClassID = 12
	ClassUnsignedIntegerArray     ClassID = 13
	ClassStringArray              ClassID = 14
	ClassDataArray                ClassID = 15
	ClassBinary                   ClassID = 16
	ClassNull                     ClassID = 17
	ClassExceptionData            ClassID = 18
	ClassCompressedString         ClassID = 21
	ClassCompressedBinary         ClassID = 22
	ClassRequest                  ClassID = 24
	ClassLanguage                 ClassID = 25
	ClassColumnMetaData           ClassID = 27
	ClassResultSetMetaData        ClassID = 28
	ClassWord                     ClassID = 29
	ClassErrorLevel               ClassID = 30
)

// DataType identifies the logical (as opposed to wire-class) type of a
// value; used by ColumnMetadata to describe a column independent of array
// cardinality.
type DataType int32

const (
	DataTypeData     DataType = 1000
	DataTypeInteger  DataType = 1001
	DataTypeInteger64 DataType = 1003
	DataTypeString   DataType = 1005
	DataTypeFloat    DataType = 1006
	DataTypeDouble   DataType = 1007
	DataTypeDecimal  DataType = 1008
	DataTypeDate     DataType = 1009
	DataTypeDateTime DataType = 1010
	DataTypeBinary   DataType = 1011
	DataTypeLanguage DataType = 1014
	DataTypeColumnMetaData DataType = 1015
	DataTypeWord     DataType = 1016
	DataTypeArray    DataType = 2000
	DataTypeNull     DataType = 3000
	DataTypeUndefined DataType = 9999
)

// SQLType identifies a column's SQL-visible type, independent of how it is
// represented on the wire.
type SQLType int32

const (
	SQLUnknown                      SQLType = 0
	SQLCharacter                     SQLType = 1
	SQLCharacterVarying              SQLType = 2
	SQLNationalCharacter             SQLType = 3
	SQLNationalCharacterVarying      SQLType = 4
	SQLBinary                        SQLType = 5
	SQLBinaryVarying                 SQLType = 6
	SQLCharacterLargeObject          SQLType = 7
	SQLNationalCharacterLargeObject  SQLType = 8
	SQLBinaryLargeObject             SQLType = 9
	SQLNumeric                       SQLType = 10
	SQLSmallInt                      SQLType = 11
	SQLInteger                       SQLType = 12
	SQLBigInt                        SQLType = 13
	SQLDecimal                       SQLType = 14
	SQLFloat                         SQLType = 15
	SQLReal                          SQLType = 16
	SQLDoublePrecision               SQLType = 17
	SQLBoolean                       SQLType = 18
	SQLDate                          SQLType = 19
	SQLTime                          SQLType = 20
	SQLTimestamp                     SQLType = 21
	SQLLanguage                      SQLType = 22
	SQLWord                          SQLType = 23
)
