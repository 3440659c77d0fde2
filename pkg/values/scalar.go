package values

import (
	"fmt"
	"time"
	"unicode/utf16"

	"github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// Integer32 is the wire representation of both the signed and unsigned
// 32-bit integer class ids: the protocol distinguishes them on the wire, but
// since value range rather than representation is the caller's contract,
// both decode into this one Go type (see the note on factories in
// registry.go).
type Integer32 struct {
	Value   int32
	Unsigned bool
}

// NewInteger32 wraps a signed 32-bit value.
func NewInteger32(v int32) *Integer32 { return &Integer32{Value: v} }

// NewUnsignedInteger32 wraps a value that should serialize with the unsigned
// class id.
func NewUnsignedInteger32(v int32) *Integer32 { return &Integer32{Value: v, Unsigned: true} }

func (d *Integer32) ClassID() ClassID {
	if d.Unsigned {
		return ClassUnsignedInteger
	}

	return ClassInteger
}

func (d *Integer32) ReadFrom(r *wire.Reader) (err error) {
	d.Value, err = r.ReadInt32()
	return err
}

func (d *Integer32) WriteTo(w *wire.Writer) error {
	w.WriteInt32(d.Value)
	return w.Error()
}

func (d *Integer32) String() string { return fmt.Sprintf("%d", d.Value) }

// Integer64 is the wire representation of both the signed and unsigned
// 64-bit integer class ids; see Integer32's doc comment for why both
// collapse onto a single Go type.
type Integer64 struct {
	Value    int64
	Unsigned bool
}

func NewInteger64(v int64) *Integer64 { return &Integer64{Value: v} }

func NewUnsignedInteger64(v int64) *Integer64 { return &Integer64{Value: v, Unsigned: true} }

func (d *Integer64) ClassID() ClassID {
	if d.Unsigned {
		return ClassUnsignedInteger64
	}

	return ClassInteger64
}

func (d *Integer64) ReadFrom(r *wire.Reader) (err error) {
	d.Value, err = r.ReadInt64()
	return err
}

func (d *Integer64) WriteTo(w *wire.Writer) error {
	w.WriteInt64(d.Value)
	return w.Error()
}

func (d *Integer64) String() string { return fmt.Sprintf("%d", d.Value) }

// Float32 is the wire representation of a single-precision float value
// (ClassFloat).
type Float32 struct {
	Value float32
}

func NewFloat32(v float32) *Float32 { return &Float32{Value: v} }

func (d *Float32) ClassID() ClassID { return ClassFloat }

func (d *Float32) ReadFrom(r *wire.Reader) (err error) {
	d.Value, err = r.ReadFloat32()
	return err
}

func (d *Float32) WriteTo(w *wire.Writer) error {
	w.WriteFloat32(d.Value)
	return w.Error()
}

func (d *Float32) String() string { return fmt.Sprintf("%v", d.Value) }

// Float64 is the wire representation of a double-precision float value
// (ClassDouble).
type Float64 struct {
	Value float64
}

func NewFloat64(v float64) *Float64 { return &Float64{Value: v} }

func (d *Float64) ClassID() ClassID { return ClassDouble }

func (d *Float64) ReadFrom(r *wire.Reader) (err error) {
	d.Value, err = r.ReadFloat64()
	return err
}

func (d *Float64) WriteTo(w *wire.Writer) error {
	w.WriteFloat64(d.Value)
	return w.Error()
}

func (d *Float64) String() string { return fmt.Sprintf("%v", d.Value) }

// String is the wire representation of a text value. The wire encoding is a
// length-prefixed run of UTF-16 code units (length is code-unit count, not
// byte count); the Go value itself is a native UTF-8 string, converted at
// the codec boundary.
type String struct {
	Value string
}

func NewString(v string) *String { return &String{Value: v} }

func (d *String) ClassID() ClassID { return ClassString }

func (d *String) ReadFrom(r *wire.Reader) error {
	s, err := readUTF16String(r)
	if err != nil {
		return err
	}

	d.Value = s
	return nil
}

func (d *String) WriteTo(w *wire.Writer) error {
	writeUTF16String(w, d.Value)
	return w.Error()
}

func (d *String) String() string { return d.Value }

// readUTF16String reads a UnicodeString: an int32 code-unit count followed
// by that many big-endian UTF-16 code units, preserving surrogate pairs
// verbatim rather than normalizing them.
func readUTF16String(r *wire.Reader) (string, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}

	units := make([]uint16, n)
	for i := int32(0); i < n; i++ {
		u, err := r.ReadChar()
		if err != nil {
			return "", err
		}

		units[i] = u
	}

	return string(utf16.Decode(units)), nil
}

func writeUTF16String(w *wire.Writer, s string) {
	units := utf16.Encode([]rune(s))
	w.WriteInt32(int32(len(units)))
	for _, u := range units {
		w.WriteChar(u)
	}
}

// Binary is the wire representation of an opaque byte payload
// (ClassBinary): an int32 length followed by that many raw bytes.
type Binary struct {
	Value []byte
}

func NewBinary(v []byte) *Binary { return &Binary{Value: v} }

func (d *Binary) ClassID() ClassID { return ClassBinary }

func (d *Binary) ReadFrom(r *wire.Reader) error {
	n, err := r.ReadInt32()
	if err != nil {
		return err
	}

	b, err := r.ReadBytes(int(n))
	if err != nil {
		return err
	}

	d.Value = b
	return nil
}

func (d *Binary) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(len(d.Value)))
	w.WriteBytes(d.Value)
	return w.Error()
}

func (d *Binary) String() string { return fmt.Sprintf("size=%d", len(d.Value)) }

// Date is the wire representation of a calendar date, stored as three
// separate int32 fields (year, month, day) rather than a packed integer.
type Date struct {
	Value time.Time
}

func NewDate(v time.Time) *Date { return &Date{Value: v} }

func (d *Date) ClassID() ClassID { return ClassDate }

func (d *Date) ReadFrom(r *wire.Reader) error {
	year, err := r.ReadInt32()
	if err != nil {
		return err
	}

	month, err := r.ReadInt32()
	if err != nil {
		return err
	}

	day, err := r.ReadInt32()
	if err != nil {
		return err
	}

	d.Value = time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
	return nil
}

func (d *Date) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(d.Value.Year()))
	w.WriteInt32(int32(d.Value.Month()))
	w.WriteInt32(int32(d.Value.Day()))
	return w.Error()
}

func (d *Date) String() string { return d.Value.Format("2006-01-02") }

// DateTime is the wire representation of a timestamp with millisecond
// precision. The wire always carries a trailing precision field, which the
// original hardcodes to 3 on write and discards on read; this implementation
// does the same.
type DateTime struct {
	Value time.Time
}

func NewDateTime(v time.Time) *DateTime { return &DateTime{Value: v} }

func (d *DateTime) ClassID() ClassID { return ClassDateTime }

func (d *DateTime) ReadFrom(r *wire.Reader) error {
	fields := make([]int32, 6)
	for i := range fields {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}

		fields[i] = v
	}

	millisecond, err := r.ReadInt32()
	if err != nil {
		return err
	}

	if _, err := r.ReadInt32(); err != nil { // precision, discarded
		return err
	}

	year, month, day, hour, minute, second := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
	d.Value = time.Date(int(year), time.Month(month), int(day), int(hour), int(minute), int(second), int(millisecond)*1_000_000, time.UTC)
	return nil
}

func (d *DateTime) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(d.Value.Year()))
	w.WriteInt32(int32(d.Value.Month()))
	w.WriteInt32(int32(d.Value.Day()))
	w.WriteInt32(int32(d.Value.Hour()))
	w.WriteInt32(int32(d.Value.Minute()))
	w.WriteInt32(int32(d.Value.Second()))
	w.WriteInt32(int32(d.Value.Nanosecond() / 1_000_000))
	w.WriteInt32(3)
	return w.Error()
}

func (d *DateTime) String() string {
	return d.Value.Format("2006-01-02 15:04:05.000")
}

// Null is the wire representation of a SQL NULL value: it carries no
// payload at all.
type Null struct{}

func (d *Null) ClassID() ClassID { return ClassNull }

func (d *Null) ReadFrom(r *wire.Reader) error { return nil }

func (d *Null) WriteTo(w *wire.Writer) error { return w.Error() }

func (d *Null) String() string { return "(null)" }
