package values

import (
	"fmt"

	"github.com/doquedb-oss/doquedb-go/codes"
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// ErrClassNotFound is wrapped by the error New (and so ReadValue) returns
// when a class id has no registered factory. That error carries the
// codes.ClassNotFound code; it is neither an *errors.InterfaceError nor an
// *errors.UnexpectedError.
var ErrClassNotFound = fmt.Errorf("class not found")

// factories maps a wire class id to a constructor for its zero value. Both
// the signed and unsigned integer class ids resolve to the same Go type
// (Integer32/Integer64); only their Unsigned flag differs, and only when
// writing.
var factories = map[ClassID]func() Value{
	ClassInteger:           func() Value { return &Integer32{} },
	ClassUnsignedInteger:   func() Value { return &Integer32{Unsigned: true} },
	ClassInteger64:         func() Value { return &Integer64{} },
	ClassUnsignedInteger64: func() Value { return &Integer64{Unsigned: true} },
	ClassFloat:             func() Value { return &Float32{} },
	ClassDouble:            func() Value { return &Float64{} },
	ClassDecimal:           func() Value { return &Decimal{} },
	ClassString:            func() Value { return &String{} },
	ClassDate:              func() Value { return &Date{} },
	ClassDateTime:          func() Value { return &DateTime{} },
	ClassIntegerArray:      func() Value { return &IntegerArray{} },
	ClassStringArray:       func() Value { return &StringArray{} },
	ClassDataArray:         func() Value { return &DataArray{} },
	ClassBinary:            func() Value { return &Binary{} },
	ClassNull:              func() Value { return &Null{} },
	ClassExceptionData:     func() Value { return &ExceptionData{} },
	ClassRequest:           func() Value { return &Request{} },
	ClassLanguage:          func() Value { return &LanguageSet{} },
	ClassColumnMetaData:    func() Value { return &ColumnMetadata{} },
	ClassResultSetMetaData: func() Value { return &ResultSetMetadata{} },
	ClassWord:              func() Value { return &Word{} },
	ClassStatus:            func() Value { return &Status{} },
	ClassErrorLevel:        func() Value { return &ErrorLevel{} },
}

// New allocates a zero-value Value for the given class id, mirroring the
// original's Instance.get(id)/object_map.
func New(id ClassID) (Value, error) {
	factory, ok := factories[id]
	if !ok {
		return nil, dberrors.WithCode(
			fmt.Errorf("%w: class id %d", ErrClassNotFound, id),
			codes.ClassNotFound,
		)
	}

	return factory(), nil
}

// ReadValue reads a class id tag followed by its payload, allocating and
// populating the matching Value. It is the entry point every self-describing
// position on the wire (DataArray elements, result-set tuples, the object
// following an ErrorLevel) reads through. A ClassNone tag carries no
// payload and resolves to (nil, nil), mirroring Instance.get(0) returning
// None to signal end-of-data in InputStream.read_object.
func ReadValue(r *wire.Reader) (Value, error) {
	id, err := r.ReadClassID()
	if err != nil {
		return nil, err
	}

	if ClassID(id) == ClassNone {
		return nil, nil
	}

	v, err := New(ClassID(id))
	if err != nil {
		return nil, err
	}

	if err := v.ReadFrom(r); err != nil {
		return nil, err
	}

	return v, nil
}

// WriteValue writes v's class id tag followed by its payload. A nil v
// writes a bare ClassNone tag, mirroring OutputStream.write_object's
// "null -> ClassID.NONE" branch.
func WriteValue(w *wire.Writer, v Value) error {
	if v == nil {
		w.WriteClassID(int32(ClassNone))
		return w.Error()
	}

	w.WriteClassID(int32(v.ClassID()))
	return v.WriteTo(w)
}

// hostTypeVariant maps a caller-supplied Go scalar type to the wire Value
// variant it should bind to, supporting parameter binding where the caller
// passes a native Go value rather than constructing a Value explicitly.
func hostTypeVariant(v any) (Value, bool) {
	switch x := v.(type) {
	case nil:
		return &Null{}, true
	case int32:
		return NewInteger32(x), true
	case int:
		return NewInteger64(int64(x)), true
	case int64:
		return NewInteger64(x), true
	case float32:
		return NewFloat32(x), true
	case float64:
		return NewFloat64(x), true
	case string:
		return NewString(x), true
	case []byte:
		return NewBinary(x), true
	case bool:
		if x {
			return NewInteger32(1), true
		}
		return NewInteger32(0), true
	default:
		return nil, false
	}
}

// BindParameter converts a caller-supplied Go value into the wire Value
// variant used to bind it as a statement parameter, mirroring the
// object registry's second, host-language-type-keyed map.
func BindParameter(v any) (Value, error) {
	if value, ok := v.(Value); ok {
		return value, nil
	}

	value, ok := hostTypeVariant(v)
	if !ok {
		return nil, dberrors.WithCode(
			fmt.Errorf("%w: unsupported parameter type %T", ErrClassNotFound, v),
			codes.DataException,
		)
	}

	return value, nil
}
