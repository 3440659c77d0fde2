package values

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doquedb-oss/doquedb-go/codes"
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/wire"
	"github.com/shopspring/decimal"
)

const digitsPerGroup = 9

// decimalLiteral matches the literal grammar the constructor accepts:
// an optional sign, a non-zero-leading integer part (or a bare "0"), and an
// optional fractional part. Leading zeros ("0010") and a bare ".5" are
// rejected.
var decimalLiteral = regexp.MustCompile(`^[+-]?(0|[1-9]\d*)(\.\d+)?$`)

// Decimal is the wire representation of an arbitrary-precision fixed-point
// number: sign, precision, scale, and an ordered sequence of base-10^9 digit
// groups. The literal string is the source of truth for (de)serialization;
// shopspring/decimal backs arithmetic/comparison convenience only, it is
// never consulted for the wire codec itself.
type Decimal struct {
	literal   string
	precision int32
	scale     int32
}

// NewDecimal parses a decimal literal matching decimalLiteral, mirroring
// DecimalData.value's setter.
func NewDecimal(literal string) (*Decimal, error) {
	if !decimalLiteral.MatchString(literal) {
		return nil, dberrors.WithCode(
			fmt.Errorf("%q is not a valid decimal literal", literal),
			codes.DataException,
		)
	}

	sign := 0
	if literal[0] == '+' || literal[0] == '-' {
		sign = 1
	}

	precision := len(literal) - sign
	scale := 0

	if i := strings.IndexByte(literal, '.'); i >= 0 {
		intPart := literal[sign:i]
		fracPart := literal[i+1:]

		precision--        // drop the '.' itself from the digit count
		if intPart == "0" {
			precision-- // a leading "0" before the point isn't a significant digit
		}

		scale = len(fracPart)
	}

	return &Decimal{literal: literal, precision: int32(precision), scale: int32(scale)}, nil
}

// String returns the literal exactly as parsed.
func (d *Decimal) String() string { return d.literal }

// Decimal returns the shopspring/decimal value for arithmetic or comparison.
func (d *Decimal) Decimal() (decimal.Decimal, error) { return decimal.NewFromString(d.literal) }

func (d *Decimal) ClassID() ClassID { return ClassDecimal }

// ReadFrom decodes a digit-group payload back into a literal string,
// mirroring DecimalData.read_object.
func (d *Decimal) ReadFrom(r *wire.Reader) error {
	precision, err := r.ReadInt32()
	if err != nil {
		return err
	}

	scale, err := r.ReadInt32()
	if err != nil {
		return err
	}

	integerLen, err := r.ReadInt32()
	if err != nil {
		return err
	}

	fractionLen, err := r.ReadInt32()
	if err != nil {
		return err
	}

	negativeByte, err := r.ReadBytes(1)
	if err != nil {
		return err
	}

	groupCount, err := r.ReadInt32()
	if err != nil {
		return err
	}

	groups := make([]int32, groupCount)
	for i := range groups {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}

		groups[i] = v
	}

	var b strings.Builder
	if negativeByte[0] != 0 {
		b.WriteByte('-')
	}

	if integerLen > 0 {
		last := int((integerLen + digitsPerGroup - 1) / digitsPerGroup)

		if groups[0] > 0 {
			b.WriteString(strconv.FormatInt(int64(groups[0]), 10))
		}

		for i := 1; i < last; i++ {
			fmt.Fprintf(&b, "%09d", groups[i])
		}
	} else {
		b.WriteByte('0')
	}

	if fractionLen > 0 {
		b.WriteByte('.')

		var frac strings.Builder
		i := int((integerLen + digitsPerGroup - 1) / digitsPerGroup)
		remaining := int(fractionLen)
		for {
			fmt.Fprintf(&frac, "%09d", groups[i])
			i++
			remaining -= digitsPerGroup
			if remaining <= 0 {
				break
			}
		}

		s := frac.String()
		if len(s) > int(fractionLen) {
			s = s[:fractionLen]
		}

		b.WriteString(s)
	}

	d.literal = b.String()
	d.precision = precision
	d.scale = scale
	return nil
}

// WriteTo encodes the literal into its digit-group payload, mirroring
// DecimalData.write_object.
func (d *Decimal) WriteTo(w *wire.Writer) error {
	negative := strings.HasPrefix(d.literal, "-")

	literal := d.literal
	if negative || strings.HasPrefix(literal, "+") {
		literal = literal[1:]
	}

	integerPart := literal
	fractionPart := ""
	if i := strings.IndexByte(literal, '.'); i >= 0 {
		integerPart = literal[:i]
		fractionPart = literal[i+1:]
	}

	integerLen := int32(len(integerPart))
	fractionLen := int32(len(fractionPart))

	if integerPart == "0" {
		integerLen = 0
	}

	intDigitGroups := int((integerLen + digitsPerGroup - 1) / digitsPerGroup)
	fracDigitGroups := int((fractionLen + digitsPerGroup - 1) / digitsPerGroup)
	groups := make([]int32, intDigitGroups+fracDigitGroups)

	if integerLen > 0 {
		paddedLen := intDigitGroups * digitsPerGroup
		padded := strings.Repeat("0", paddedLen-len(integerPart)) + integerPart

		for i := 0; i < intDigitGroups; i++ {
			chunk := padded[i*digitsPerGroup : (i+1)*digitsPerGroup]
			v, err := strconv.ParseInt(chunk, 10, 32)
			if err != nil {
				return dberrors.WithCode(err, codes.DataException)
			}

			groups[i] = int32(v)
		}
	}

	if fractionLen > 0 {
		paddedLen := fracDigitGroups * digitsPerGroup
		padded := fractionPart + strings.Repeat("0", paddedLen-len(fractionPart))

		for i := 0; i < fracDigitGroups; i++ {
			chunk := padded[i*digitsPerGroup : (i+1)*digitsPerGroup]
			v, err := strconv.ParseInt(chunk, 10, 32)
			if err != nil {
				return dberrors.WithCode(err, codes.DataException)
			}

			groups[intDigitGroups+i] = int32(v)
		}
	}

	negativeByte := byte(0)
	if negative {
		negativeByte = 1
	}

	w.WriteInt32(d.precision)
	w.WriteInt32(d.scale)
	w.WriteInt32(integerLen)
	w.WriteInt32(fractionLen)
	w.WriteBytes([]byte{negativeByte})
	w.WriteInt32(int32(len(groups)))
	for _, g := range groups {
		w.WriteInt32(g)
	}

	return w.Error()
}
