package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
)

// Writer writes big-endian primitives to a buffered byte stream. Flush is
// the single commit point after which the server is expected to respond,
// mirroring psql-wire's Writer.End() framing lifecycle (adapted here without
// the outer message-length prefix, since this protocol does not frame at
// that granularity).
type Writer struct {
	logger  *slog.Logger
	buf     *bufio.Writer
	scratch [8]byte
	err     error
}

// NewWriter constructs a Writer over the given transport. A nil logger
// discards debug traces.
func NewWriter(logger *slog.Logger, w io.Writer) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Writer{logger: logger, buf: bufio.NewWriter(w)}
}

// Error returns the first error encountered by a prior write, if any.
func (w *Writer) Error() error { return w.err }

// WriteBytes writes raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}

	_, w.err = w.buf.Write(b)
}

// WriteUint16 writes a big-endian u16.
func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}

	binary.BigEndian.PutUint16(w.scratch[:2], v)
	_, w.err = w.buf.Write(w.scratch[:2])
}

// WriteChar writes a single UTF-16 code unit.
func (w *Writer) WriteChar(v uint16) { w.WriteUint16(v) }

// WriteInt16 writes a big-endian signed 16-bit integer, used by LanguageTag's
// language/country code pair.
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

// WriteInt32 writes a big-endian signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint32 writes a big-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}

	binary.BigEndian.PutUint32(w.scratch[:4], v)
	_, w.err = w.buf.Write(w.scratch[:4])
}

// WriteInt64 writes a big-endian signed 64-bit integer.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteUint64 writes a big-endian unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}

	binary.BigEndian.PutUint64(w.scratch[:8], v)
	_, w.err = w.buf.Write(w.scratch[:8])
}

// WriteFloat32 writes an IEEE 754 big-endian 32-bit float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE 754 big-endian 64-bit float.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteClassID writes the 4-byte class id tag that precedes a
// self-describing object.
func (w *Writer) WriteClassID(id int32) {
	w.WriteInt32(id)
}

// Flush commits everything written so far to the underlying transport. It is
// the single commit point; every request sequence ends with exactly one
// Flush.
func (w *Writer) Flush() error {
	if w.err != nil {
		err := w.err
		w.err = nil
		return err
	}

	w.logger.Debug("-> flushing port write buffer")
	return w.buf.Flush()
}
