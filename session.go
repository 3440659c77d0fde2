package wire

import (
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

// Session is a logical database session bound to one DataSource, mirroring
// the original's client.Session. A Session's control-plane requests
// (execute, prepare, close) each borrow a worker Port from the datasource's
// round-robin connection list rather than holding one of their own.
type Session struct {
	datasource *DataSource
	dbname     string
	username   string
	sessionID  int32

	prepared preparedStatementCache
}

// ID returns the server-assigned session id, or 0 for a session that has
// been closed.
func (s *Session) ID() int32 { return s.sessionID }

// IsValid reports whether this session still has a live server-side
// counterpart, mirroring Session.is_valid.
func (s *Session) IsValid() bool { return s.sessionID != 0 }

// Execute runs statement with the given bound parameters and returns a
// ResultSet streaming its output, mirroring Session.execute.
func (s *Session) Execute(statement string, parameters *values.DataArray) (*ResultSet, error) {
	if !s.IsValid() {
		return nil, &dberrors.InterfaceError{Message: "session is not valid"}
	}

	connection := s.datasource.clientConnection()
	if connection == nil {
		return nil, &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: "connection does not exist",
		}}
	}

	port, err := connection.BeginWorker()
	if err != nil {
		return nil, err
	}

	if err := s.writeExecute(port, values.RequestExecuteStatement, values.NewString(statement), parameters); err != nil {
		port.Close()
		return nil, err
	}

	return newResultSet(s.datasource, port), nil
}

// ExecutePrepare runs a statement previously prepared via
// CreatePreparedStatement, mirroring Session.execute_prepare.
func (s *Session) ExecutePrepare(prepare *PreparedStatement, parameters *values.DataArray) (*ResultSet, error) {
	if s.sessionID == 0 {
		return nil, &dberrors.InterfaceError{Message: "session is not available"}
	}

	connection := s.datasource.clientConnection()
	if connection == nil {
		return nil, &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: "connection does not exist",
		}}
	}

	port, err := connection.BeginWorker()
	if err != nil {
		return nil, err
	}

	if err := s.writeExecute(port, values.RequestExecutePrepareStatement, values.NewInteger32(prepare.ID()), parameters); err != nil {
		port.Close()
		return nil, err
	}

	return newResultSet(s.datasource, port), nil
}

func (s *Session) writeExecute(port *Port, request values.Request, statement values.Value, parameters *values.DataArray) error {
	if err := port.WriteValue(&request); err != nil {
		return err
	}

	if err := port.WriteValue(values.NewInteger32(s.sessionID)); err != nil {
		return err
	}

	if err := port.WriteValue(statement); err != nil {
		return err
	}

	// parameters is a concrete *values.DataArray: passed through the
	// values.Value interface directly, a nil pointer would arrive as a
	// non-nil interface wrapping nil and bypass WriteValue's nil check, so
	// convert explicitly to a true nil interface when there are none.
	var param values.Value
	if parameters != nil {
		param = parameters
	}

	if err := port.WriteValue(param); err != nil {
		return err
	}

	return port.Flush()
}

// CreatePreparedStatement asks the server to parse and cache statement,
// returning a handle to it, mirroring Session.create_prepare_statement. A
// prior prepare of the identical statement text is reused rather than
// re-issued to the server.
func (s *Session) CreatePreparedStatement(statement string) (*PreparedStatement, error) {
	if cached, ok := s.prepared.get(statement); ok {
		return cached, nil
	}

	if s.datasource.masterID < int32(ProtocolVersion3) {
		return nil, &dberrors.NotSupportedError{DatabaseError: dberrors.DatabaseError{
			Message: "protocol version older than 3 is not supported",
		}}
	}

	connection := s.datasource.clientConnection()
	if connection == nil {
		return nil, &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: "connection does not exist",
		}}
	}

	port, err := connection.BeginWorker()
	if err != nil {
		return nil, err
	}

	req := values.RequestPrepareStatement2
	if err := port.WriteValue(&req); err != nil {
		port.Close()
		return nil, err
	}

	if err := port.WriteValue(values.NewInteger32(s.sessionID)); err != nil {
		port.Close()
		return nil, err
	}

	if err := port.WriteValue(values.NewString(statement)); err != nil {
		port.Close()
		return nil, err
	}

	if err := port.Flush(); err != nil {
		port.Close()
		return nil, err
	}

	prepareID, err := port.ReadInteger()
	if err != nil {
		s.releasePort(port, err)
		return nil, err
	}

	if _, err := port.ReadStatus(); err != nil {
		s.releasePort(port, err)
		return nil, err
	}

	s.datasource.pushPort(port)

	prepare := &PreparedStatement{id: prepareID}
	s.prepared.set(statement, prepare)
	return prepare, nil
}

// erasePreparedStatement removes a prepared statement from the server,
// mirroring Session.erase_prepare_statement.
func (s *Session) erasePreparedStatement(prepareID int32) error {
	connection := s.datasource.clientConnection()
	if connection == nil {
		return &dberrors.OperationalError{DatabaseError: dberrors.DatabaseError{
			Message: "connection does not exist",
		}}
	}

	port, err := connection.BeginWorker()
	if err != nil {
		return err
	}

	req := values.RequestErasePrepareStatement2
	if err := port.WriteValue(&req); err != nil {
		port.Close()
		return err
	}

	if err := port.WriteValue(values.NewInteger32(s.sessionID)); err != nil {
		port.Close()
		return err
	}

	if err := port.WriteValue(values.NewInteger32(prepareID)); err != nil {
		port.Close()
		return err
	}

	if err := port.Flush(); err != nil {
		port.Close()
		return err
	}

	if _, err := port.ReadStatus(); err != nil {
		s.releasePort(port, err)
		return err
	}

	s.datasource.pushPort(port)
	return nil
}

// releasePort returns port to the pool if it is still reusable after err,
// otherwise closes it, mirroring the push_port-or-close branches repeated
// across Session's request methods.
func (s *Session) releasePort(port *Port, err error) {
	if port.IsReuse() {
		s.datasource.pushPort(port)
		return
	}

	port.Close()
}

// closeInternal ends the server-side session without removing it from the
// datasource's session map, mirroring Session.close_internal. It never
// returns an error.
func (s *Session) closeInternal() int32 {
	s.prepared.closeAll(s)

	id := s.sessionID
	if !s.IsValid() {
		return id
	}

	func() {
		connection := s.datasource.clientConnection()
		if connection == nil {
			return
		}

		port, err := connection.BeginWorker()
		if err != nil {
			return
		}

		req := values.RequestEndSession
		if err := port.WriteValue(&req); err != nil {
			port.Close()
			return
		}

		if err := port.WriteValue(values.NewInteger32(s.sessionID)); err != nil {
			port.Close()
			return
		}

		if err := port.Flush(); err != nil {
			port.Close()
			return
		}

		if _, err := port.ReadStatus(); err != nil {
			s.releasePort(port, err)
			return
		}

		s.datasource.pushPort(port)
	}()

	s.sessionID = 0
	return id
}

// Close ends the session and removes it from its datasource, mirroring
// Session.close.
func (s *Session) Close() {
	if s.sessionID == 0 {
		return
	}

	id := s.closeInternal()
	s.datasource.removeSession(id)
}
