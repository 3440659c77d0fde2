// Package mock provides an in-memory duplex transport standing in for a
// DoqueDB server during tests, adapted from the teacher's pkg/mock/buffer.go
// (a canned-message reader/writer pair) and internal/mock/client.go (a
// scripted peer driving a handshake over a net.Conn). Where the teacher
// scripts a PostgreSQL client talking to its own server, FakeServer scripts
// the DoqueDB server side of this client's wire protocol.
package mock

import (
	"net"
	"testing"

	"github.com/doquedb-oss/doquedb-go/pkg/values"
	wireio "github.com/doquedb-oss/doquedb-go/pkg/wire"
	"github.com/neilotoole/slogt"
)

// Pipe returns two connected net.Conn ends, one for the client under test
// and one for the FakeServer driving it.
func Pipe() (client net.Conn, server net.Conn) {
	return net.Pipe()
}

// FakeServer plays the server side of the wire protocol against a Port
// under test: it reads the typed requests a real DoqueDB server would
// receive and writes back whatever canned objects the test script supplies.
type FakeServer struct {
	conn   net.Conn
	reader *wireio.Reader
	writer *wireio.Writer
}

// NewFakeServer wraps conn (one end of a Pipe) as a FakeServer, feeding its
// reader/writer frame tracing into t.Log the way the teacher's
// pkg/mock/buffer.go wires slogt into its own codec-level test loggers.
func NewFakeServer(t *testing.T, conn net.Conn) *FakeServer {
	logger := slogt.New(t)
	return &FakeServer{
		conn:   conn,
		reader: wireio.NewReader(logger, conn, wireio.DefaultBufferSize),
		writer: wireio.NewWriter(logger, conn),
	}
}

// Handshake reads the master/slave id pair a Port.Open writes, then writes
// back the given response pair, mirroring port.connection's open sequence
// from the server's side.
func (s *FakeServer) Handshake(respondMasterID, respondSlaveID int32) (masterID, slaveID int32, err error) {
	masterID, err = s.reader.ReadInt32()
	if err != nil {
		return 0, 0, err
	}

	slaveID, err = s.reader.ReadInt32()
	if err != nil {
		return 0, 0, err
	}

	s.writer.WriteInt32(respondMasterID)
	s.writer.WriteInt32(respondSlaveID)
	if err := s.writer.Flush(); err != nil {
		return 0, 0, err
	}

	return masterID, slaveID, nil
}

// ReadValue reads one self-describing object off the transport, mirroring
// what a Port on the other end wrote via WriteValue.
func (s *FakeServer) ReadValue() (values.Value, error) {
	return values.ReadValue(s.reader)
}

// WriteValue writes v as the next self-describing object on the transport.
func (s *FakeServer) WriteValue(v values.Value) error {
	return values.WriteValue(s.writer, v)
}

// WriteStatus is a convenience for the common case of answering a request
// with a bare Status object.
func (s *FakeServer) WriteStatus(code values.StatusCode) error {
	return s.WriteValue(&values.Status{Code: code})
}

// Flush sends any buffered writes.
func (s *FakeServer) Flush() error { return s.writer.Flush() }

// Close closes the underlying connection.
func (s *FakeServer) Close() error { return s.conn.Close() }
