package wire

import (
	"fmt"
	"math"
	"net"

	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
	wireio "github.com/doquedb-oss/doquedb-go/pkg/wire"
	"go.uber.org/zap"
)

// Slave id sentinels, mirroring port.constants.ConnectionSlaveID.
const (
	SlaveIDMinimum   int32 = 0
	SlaveIDMaximum   int32 = math.MaxInt32
	SlaveIDAny       int32 = math.MinInt32
	SlaveIDUndefined int32 = -1
)

// isNormalSlaveID reports whether id falls in the range the handshake
// accepts as an assigned (rather than sentinel) slave id.
func isNormalSlaveID(id int32) bool {
	return id >= SlaveIDMinimum && id < SlaveIDMaximum
}

// Port wraps a single transport connection to the server: a paired
// reader/writer, the master/slave/worker id triple the handshake
// negotiates, and the reuse flag that determines whether a Port that saw an
// error may still be returned to its pool. It mirrors the original's
// client.Port together with port.connection.RemoteClientConnection.
type Port struct {
	conn     net.Conn
	reader   *wireio.Reader
	writer   *wireio.Writer
	logger   *zap.Logger

	masterID int32
	slaveID  int32
	workerID int32

	opened bool
	reuse  bool
}

// NewPort wraps conn as a Port that will request slaveID (SlaveIDAny on a
// Port's first use) and identify itself with masterID once opened.
func NewPort(conn net.Conn, masterID, slaveID int32, logger *zap.Logger) *Port {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Port{
		conn:     conn,
		reader:   wireio.NewReader(nil, conn, wireio.DefaultBufferSize),
		writer:   wireio.NewWriter(nil, conn),
		logger:   logger,
		masterID: masterID,
		slaveID:  slaveID,
		workerID: -1,
	}
}

// MasterID returns the raw master id the server answered with during Open:
// the protocol version in the low 16 bits, the authorization mode in the
// high byte.
func (p *Port) MasterID() int32 { return p.masterID }

// SlaveID returns the slave id the server assigned during Open.
func (p *Port) SlaveID() int32 { return p.slaveID }

// WorkerID returns the worker id this Port has been bound to, or -1.
func (p *Port) WorkerID() int32 { return p.workerID }

// SetWorkerID binds this Port to a worker id, mirroring Port.worker_id's
// setter.
func (p *Port) SetWorkerID(id int32) { p.workerID = id }

// IsReuse reports whether this Port may be returned to its pool after the
// last error it observed.
func (p *Port) IsReuse() bool { return p.reuse }

// Reset clears the reuse flag, mirroring Port.reset: called once a Port has
// actually been handed back for reuse so the next error starts from a clean
// slate.
func (p *Port) Reset() { p.reuse = false }

// Open performs the connection handshake: exchange master/slave ids and
// verify the server accepted the request, mirroring
// RemoteClientConnection.open.
func (p *Port) Open() (err error) {
	if p.opened {
		return &dberrors.UnexpectedError{Message: "port is already opened"}
	}

	defer func() {
		if err != nil {
			p.Close()
		}
	}()

	p.writer.WriteInt32(p.masterID)
	p.writer.WriteInt32(p.slaveID)
	if err := p.writer.Flush(); err != nil {
		return err
	}

	masterID, err := p.reader.ReadInt32()
	if err != nil {
		return err
	}

	slaveID, err := p.reader.ReadInt32()
	if err != nil {
		return err
	}

	if !isNormalSlaveID(slaveID) {
		return &dberrors.InterfaceError{Message: "connect doquedb failed"}
	}

	p.masterID = masterID
	p.slaveID = slaveID
	p.opened = true

	p.logger.Debug("port opened",
		zap.Int32("master_id", masterID), zap.Int32("slave_id", slaveID))
	return nil
}

// Close closes the underlying transport. It is safe to call more than once
// and on a Port that never finished Open.
func (p *Port) Close() error {
	if !p.opened && p.conn == nil {
		return nil
	}

	p.opened = false
	if p.conn == nil {
		return nil
	}

	conn := p.conn
	p.conn = nil
	p.logger.Debug("port closed")
	return conn.Close()
}

// Flush commits everything written to this Port's writer so far.
func (p *Port) Flush() error { return p.writer.Flush() }

// WriteValue writes v's class id tag and payload to this Port's writer,
// mirroring Port.write_object.
func (p *Port) WriteValue(v values.Value) error {
	return values.WriteValue(p.writer, v)
}

// ReadObject reads the next self-describing object off this Port's reader.
// An ErrorLevel object is not itself returned: it updates the reuse flag and
// is followed by an ExceptionData the server always sends immediately after
// it, which this classifies into the matching DatabaseError subclass and
// returns as an error. An ExceptionData encountered directly (with no
// preceding ErrorLevel) is classified the same way, with reuse left false,
// mirroring Port.read_object.
func (p *Port) ReadObject() (values.Value, error) {
	object, err := values.ReadValue(p.reader)
	if err != nil {
		return nil, err
	}

	if level, ok := object.(*values.ErrorLevel); ok {
		p.reuse = level.IsUserLevel()

		object, err = values.ReadValue(p.reader)
		if err != nil {
			return nil, err
		}

		exc, ok := object.(*values.ExceptionData)
		if !ok {
			return nil, &dberrors.UnexpectedError{
				Message: "expected ExceptionData to follow ErrorLevel",
			}
		}

		return nil, dberrors.NewExceptionError(exc.ErrNo, exc.Args)
	}

	if exc, ok := object.(*values.ExceptionData); ok {
		return nil, dberrors.NewExceptionError(exc.ErrNo, exc.Args)
	}

	return object, nil
}

// ReadInteger reads the next object and asserts it is an Integer32,
// mirroring Port.read_integerdata.
func (p *Port) ReadInteger() (int32, error) {
	object, err := p.ReadObject()
	if err != nil {
		return 0, err
	}

	v, ok := object.(*values.Integer32)
	if !ok {
		return 0, &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: fmt.Sprintf("expected to read Integer32 but object is %T", object),
		}}
	}

	return v.Value, nil
}

// ReadString reads the next object and asserts it is a String, mirroring
// Port.read_stringdata.
func (p *Port) ReadString() (string, error) {
	object, err := p.ReadObject()
	if err != nil {
		return "", err
	}

	v, ok := object.(*values.String)
	if !ok {
		return "", &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: fmt.Sprintf("expected to read String but object is %T", object),
		}}
	}

	return v.Value, nil
}

// ReadStatus reads the next object and asserts it is a Status, mirroring
// Port.read_status.
func (p *Port) ReadStatus() (values.StatusCode, error) {
	object, err := p.ReadObject()
	if err != nil {
		return 0, err
	}

	v, ok := object.(*values.Status)
	if !ok {
		return 0, &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: fmt.Sprintf("expected to read Status but object is %T", object),
		}}
	}

	return v.Code, nil
}
