// Package wire implements the low level big-endian primitive codec shared by
// every Port. Unlike the Postgres wire protocol this protocol does not frame
// each object in an outer length-prefixed message; objects are written back
// to back on the stream and self-delimit via their class id and per-type
// payload shape. The buffer-reuse and debug-tracing idioms below are adapted
// from psql-wire's pkg/buffer.Reader/Writer.
package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
)

// DefaultBufferSize is used whenever a non-positive buffer size is supplied
// to NewReader.
const DefaultBufferSize = 1 << 16 // 65536 bytes

// Reader reads big-endian primitives and self-describing objects off a
// buffered byte stream.
type Reader struct {
	logger *slog.Logger
	buf    *bufio.Reader
	scratch [8]byte
}

// NewReader constructs a Reader over the given transport. A nil logger
// discards debug traces.
func NewReader(logger *slog.Logger, r io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reader{logger: logger, buf: bufio.NewReaderSize(r, bufferSize)}
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewInsufficientData(0)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.buf, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadUint16 reads a big-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	if _, err := io.ReadFull(r.buf, r.scratch[:2]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(r.scratch[:2]), nil
}

// ReadChar reads a single UTF-16 code unit, the atomic unit of the String
// wire encoding.
func (r *Reader) ReadChar() (uint16, error) {
	return r.ReadUint16()
}

// ReadInt16 reads a big-endian signed 16-bit integer, used by LanguageTag's
// language/country code pair.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a big-endian signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	if _, err := io.ReadFull(r.buf, r.scratch[:4]); err != nil {
		return 0, err
	}

	return int32(binary.BigEndian.Uint32(r.scratch[:4])), nil
}

// ReadUint32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if _, err := io.ReadFull(r.buf, r.scratch[:4]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(r.scratch[:4]), nil
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	if _, err := io.ReadFull(r.buf, r.scratch[:8]); err != nil {
		return 0, err
	}

	return int64(binary.BigEndian.Uint64(r.scratch[:8])), nil
}

// ReadUint64 reads a big-endian unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if _, err := io.ReadFull(r.buf, r.scratch[:8]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(r.scratch[:8]), nil
}

// ReadFloat32 reads an IEEE 754 big-endian 32-bit float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE 754 big-endian 64-bit float.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// ReadClassID reads the 4-byte class id tag that precedes every
// self-describing object, translating an EOF at the very first byte into
// io.EOF (a clean stream close) and any other short read into
// ErrMissingClassID.
func (r *Reader) ReadClassID() (int32, error) {
	n, err := io.ReadFull(r.buf, r.scratch[:4])
	if err != nil {
		if n == 0 && err == io.EOF {
			return 0, io.EOF
		}

		return 0, NewMissingClassID()
	}

	return int32(binary.BigEndian.Uint32(r.scratch[:4])), nil
}

// Logger returns the slog.Logger frame reads should trace through.
func (r *Reader) Logger() *slog.Logger { return r.logger }
