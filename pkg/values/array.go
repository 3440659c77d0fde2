package values

import (
	"github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// columnFlag bits packed into ColumnMetadata.Flag, mirroring ColumnMetaData's
// private bit constants.
const (
	FlagAutoIncrement  int32 = 1 << 0
	FlagCaseInsensitive int32 = 1 << 1
	FlagUnsigned        int32 = 1 << 2
	FlagNotSearchable   int32 = 1 << 3
	FlagReadOnly        int32 = 1 << 4
	FlagNotNull         int32 = 1 << 5
	FlagUnique          int32 = 1 << 6
)

// ColumnMetadata describes one column of a result set, mirroring the
// original's ColumnMetaData.
type ColumnMetadata struct {
	Type             SQLType
	TypeName         string
	ColumnName       string
	TableName        string
	DatabaseName     string
	ColumnAliasName  string
	TableAliasName   string
	DisplaySize      int32
	Precision        int32
	Scale            int32
	Cardinality      int32
	Flag             int32
}

func (c *ColumnMetadata) ClassID() ClassID { return ClassColumnMetaData }

// IsArray reports whether the column holds an array (cardinality != 0).
func (c *ColumnMetadata) IsArray() bool { return c.Cardinality != 0 }

func (c *ColumnMetadata) has(flag int32) bool { return c.Flag&flag != 0 }

func (c *ColumnMetadata) IsAutoIncrement() bool   { return c.has(FlagAutoIncrement) }
func (c *ColumnMetadata) IsCaseInsensitive() bool { return c.has(FlagCaseInsensitive) }
func (c *ColumnMetadata) IsUnsigned() bool        { return c.has(FlagUnsigned) }
func (c *ColumnMetadata) IsNotSearchable() bool    { return c.has(FlagNotSearchable) }
func (c *ColumnMetadata) IsReadOnly() bool         { return c.has(FlagReadOnly) }
func (c *ColumnMetadata) IsNotNull() bool          { return c.has(FlagNotNull) }
func (c *ColumnMetadata) IsUnique() bool           { return c.has(FlagUnique) }

// sqlTypeToDataType mirrors ColumnMetaData.get_datatype's reverse lookup
// table from SQLType to DataType.
var sqlTypeToDataType = map[SQLType]DataType{
	SQLCharacter:                    DataTypeString,
	SQLCharacterVarying:             DataTypeString,
	SQLNationalCharacter:            DataTypeString,
	SQLNationalCharacterVarying:     DataTypeString,
	SQLBinary:                       DataTypeBinary,
	SQLBinaryVarying:                DataTypeBinary,
	SQLInteger:                      DataTypeInteger,
	SQLBigInt:                       DataTypeInteger64,
	SQLDecimal:                      DataTypeDecimal,
	SQLNumeric:                      DataTypeDecimal,
	SQLDoublePrecision:              DataTypeDouble,
	SQLDate:                         DataTypeDate,
	SQLTimestamp:                    DataTypeDateTime,
	SQLLanguage:                     DataTypeLanguage,
	SQLWord:                         DataTypeWord,
}

// DataType returns the DataType this column's SQL type maps onto, or
// DataTypeUndefined if there is no mapping (mirroring get_datatype).
func (c *ColumnMetadata) DataType() DataType {
	if c.Type == SQLUnknown {
		return DataTypeUndefined
	}

	if dt, ok := sqlTypeToDataType[c.Type]; ok {
		return dt
	}

	return DataTypeUndefined
}

// NewValue allocates the Value variant appropriate for this column,
// mirroring ColumnMetaData.get_datainstance: an array if Cardinality != 0,
// otherwise the scalar variant its DataType names.
func (c *ColumnMetadata) NewValue() Value {
	if c.IsArray() {
		return &DataArray{}
	}

	switch c.DataType() {
	case DataTypeString:
		return &String{}
	case DataTypeBinary:
		return &Binary{}
	case DataTypeInteger:
		return &Integer32{}
	case DataTypeInteger64:
		return &Integer64{}
	case DataTypeDecimal:
		return &Decimal{}
	case DataTypeDouble:
		return &Float64{}
	case DataTypeDate:
		return &Date{}
	case DataTypeDateTime:
		return &DateTime{}
	case DataTypeLanguage:
		return &LanguageSet{}
	case DataTypeWord:
		return &Word{}
	default:
		return nil
	}
}

func (c *ColumnMetadata) ReadFrom(r *wire.Reader) error {
	typ, err := r.ReadInt32()
	if err != nil {
		return err
	}
	c.Type = SQLType(typ)

	stringFieldCount, err := r.ReadInt32()
	if err != nil {
		return err
	}

	stringFields := []*string{&c.TypeName, &c.ColumnName, &c.TableName, &c.DatabaseName, &c.ColumnAliasName, &c.TableAliasName}
	for i := int32(0); i < stringFieldCount && i < int32(len(stringFields)); i++ {
		s, err := readUTF16String(r)
		if err != nil {
			return err
		}

		*stringFields[i] = s
	}

	intFieldCount, err := r.ReadInt32()
	if err != nil {
		return err
	}

	intFields := []*int32{&c.DisplaySize, &c.Precision, &c.Scale, &c.Cardinality}
	for i := int32(0); i < intFieldCount && i < int32(len(intFields)); i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}

		*intFields[i] = v
	}

	flag, err := r.ReadInt32()
	if err != nil {
		return err
	}
	c.Flag = flag

	return nil
}

func (c *ColumnMetadata) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(c.Type))

	w.WriteInt32(6)
	writeUTF16String(w, c.TypeName)
	writeUTF16String(w, c.ColumnName)
	writeUTF16String(w, c.TableName)
	writeUTF16String(w, c.DatabaseName)
	writeUTF16String(w, c.ColumnAliasName)
	writeUTF16String(w, c.TableAliasName)

	w.WriteInt32(4)
	w.WriteInt32(c.DisplaySize)
	w.WriteInt32(c.Precision)
	w.WriteInt32(c.Scale)
	w.WriteInt32(c.Cardinality)

	w.WriteInt32(c.Flag)
	return w.Error()
}

// ResultSetMetadata is an ordered sequence of ColumnMetadata describing
// every column of a result set.
type ResultSetMetadata struct {
	Columns []*ColumnMetadata
}

func (m *ResultSetMetadata) ClassID() ClassID { return ClassResultSetMetaData }

// NewRow allocates a DataArray row prototype with one element per column,
// mirroring ResultSetMetaData.create_tuple_data.
func (m *ResultSetMetadata) NewRow() *DataArray {
	row := &DataArray{Elements: make([]Value, len(m.Columns))}
	for i, col := range m.Columns {
		row.Elements[i] = col.NewValue()
	}

	return row
}

func (m *ResultSetMetadata) ReadFrom(r *wire.Reader) error {
	n, err := r.ReadInt32()
	if err != nil {
		return err
	}

	m.Columns = make([]*ColumnMetadata, n)
	for i := range m.Columns {
		col := &ColumnMetadata{}
		if err := col.ReadFrom(r); err != nil {
			return err
		}

		m.Columns[i] = col
	}

	return nil
}

func (m *ResultSetMetadata) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(len(m.Columns)))
	for _, col := range m.Columns {
		if err := col.WriteTo(w); err != nil {
			return err
		}
	}

	return w.Error()
}

// IntegerArray is a homogeneous array of signed 32-bit integers.
type IntegerArray struct {
	Elements []int32
}

func (a *IntegerArray) ClassID() ClassID { return ClassIntegerArray }

func (a *IntegerArray) ReadFrom(r *wire.Reader) error {
	n, err := r.ReadInt32()
	if err != nil {
		return err
	}

	a.Elements = make([]int32, n)
	for i := range a.Elements {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}

		a.Elements[i] = v
	}

	return nil
}

func (a *IntegerArray) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(len(a.Elements)))
	for _, v := range a.Elements {
		w.WriteInt32(v)
	}

	return w.Error()
}

// StringArray is a homogeneous array of UTF-16 strings.
type StringArray struct {
	Elements []string
}

func (a *StringArray) ClassID() ClassID { return ClassStringArray }

func (a *StringArray) ReadFrom(r *wire.Reader) error {
	n, err := r.ReadInt32()
	if err != nil {
		return err
	}

	a.Elements = make([]string, n)
	for i := range a.Elements {
		s, err := readUTF16String(r)
		if err != nil {
			return err
		}

		a.Elements[i] = s
	}

	return nil
}

func (a *StringArray) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(len(a.Elements)))
	for _, s := range a.Elements {
		writeUTF16String(w, s)
	}

	return w.Error()
}

// DataArray is a heterogeneous, self-describing sequence: each element
// carries its own class id on the wire, read back through the object
// registry rather than a fixed element type.
type DataArray struct {
	Elements []Value
}

func (a *DataArray) ClassID() ClassID { return ClassDataArray }

func (a *DataArray) ReadFrom(r *wire.Reader) error {
	n, err := r.ReadInt32()
	if err != nil {
		return err
	}

	elements := make([]Value, n)
	for i := range elements {
		v, err := ReadValue(r)
		if err != nil {
			return err
		}

		elements[i] = v
	}

	a.Elements = elements
	return nil
}

func (a *DataArray) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(len(a.Elements)))
	for _, v := range a.Elements {
		if err := WriteValue(w, v); err != nil {
			return err
		}
	}

	return w.Error()
}
