package wire

import (
	"net"
	"os"
	"strconv"
	"sync"

	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DataSource sizing constants, carried over from client.datasource.DataSource
// (values taken from the JDBC driver, per the original's own comment).
const (
	// DatabaseAll addresses every database a server hosts.
	DatabaseAll = 0xffffffff
	// ConnectionThreshold is the number of sessions one control Connection
	// manages before a new one is spun up.
	ConnectionThreshold = 20
	// MaximumConnectionPoolCount is the idle-pool size carried over from the
	// original. pushPort does not consult it, so the pool is not bounded.
	MaximumConnectionPoolCount = 100
)

// DataSource is a factory for Ports, Connections, and Sessions against one
// server address. It owns the round-robin list of control Connections, the
// pool of idle worker Ports, and the set of live Sessions, mirroring the
// original's client.DataSource.
type DataSource struct {
	hostname string
	portnum  int

	logger *zap.Logger

	mu                sync.Mutex
	connectionList    []*Connection
	connectionElement int
	portPool          map[int32]*Port
	sessionMap        map[int32]*Session

	// resultSets counts ResultSets still holding a port outside the pool,
	// drained by Close before it tears the pool down.
	resultSets sync.WaitGroup

	protocolVersion int32
	masterID        int32
	authorization   int32
	closed          bool
}

// NewDataSource constructs a DataSource for the server listening at
// hostname:port. A nil logger discards lifecycle traces.
func NewDataSource(hostname string, port int, logger *zap.Logger) *DataSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DataSource{
		hostname: hostname,
		portnum:  port,
		logger:   logger,
		portPool: make(map[int32]*Port),
		sessionMap: make(map[int32]*Session),
	}
}

// MasterID returns the protocol version the server agreed to during Open.
func (ds *DataSource) MasterID() int32 {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.masterID
}

// newPort dials a fresh transport connection and wraps it as a Port
// requesting slaveID, mirroring DataSource.new_port.
func (ds *DataSource) newPort(slaveID int32) *Port {
	conn, err := net.Dial("tcp", net.JoinHostPort(ds.hostname, strconv.Itoa(ds.portnum)))
	if err != nil {
		return &Port{}
	}

	return NewPort(conn, ds.protocolVersion, slaveID, ds.logger)
}

// dialPort is like newPort but surfaces the dial error instead of returning
// an unusable zero-value Port; every entry point that must fail loudly on a
// connection error (Open, Shutdown) goes through this instead.
func (ds *DataSource) dialPort(slaveID int32) (*Port, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(ds.hostname, strconv.Itoa(ds.portnum)))
	if err != nil {
		return nil, err
	}

	return NewPort(conn, ds.protocolVersion, slaveID, ds.logger), nil
}

// Open negotiates the initial control Connection against protocolVersion,
// mirroring DataSource.open.
func (ds *DataSource) Open(protocolVersion int32) error {
	ds.mu.Lock()
	ds.protocolVersion = protocolVersion
	if authorization(protocolVersion) == AuthorizeModeNone {
		ds.protocolVersion |= AuthorizeModePassword
	}
	ds.mu.Unlock()

	port, err := ds.dialPort(SlaveIDAny)
	if err != nil {
		return err
	}

	if err := port.Open(); err != nil {
		return err
	}

	req := values.RequestBeginConnection
	if err := port.WriteValue(&req); err != nil {
		port.Close()
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = ds.hostname
	}

	if err := port.WriteValue(values.NewString(hostname)); err != nil {
		port.Close()
		return err
	}

	if err := port.Flush(); err != nil {
		port.Close()
		return err
	}

	if _, err := port.ReadStatus(); err != nil {
		port.Close()
		return err
	}

	ds.mu.Lock()
	ds.connectionList = append(ds.connectionList, newConnection(ds, port))
	ds.masterID = port.MasterID() & authorizeMaskMasterID
	ds.authorization = authorization(port.MasterID())
	ds.closed = false
	ds.mu.Unlock()

	ds.logger.Debug("datasource opened", zap.Int32("master_id", port.MasterID()))
	return nil
}

// CreateSession opens a new logical session against dbname, reopening the
// datasource first if every control Connection has gone stale, mirroring
// DataSource.create_session.
func (ds *DataSource) CreateSession(dbname, username, password string) (*Session, error) {
	ds.mu.Lock()
	masterID := ds.masterID
	protocolVersion := ds.protocolVersion
	ds.mu.Unlock()

	if masterID < int32(ProtocolVersion5) {
		username, password = "", ""
	}

	port, err := ds.beginWorkerWithRecovery(protocolVersion)
	if err != nil {
		return nil, err
	}

	sessionID, err := ds.negotiateSession(port, dbname, username, password)
	if err != nil {
		return nil, err
	}

	ds.pushPort(port)

	session := &Session{datasource: ds, dbname: dbname, username: username, sessionID: sessionID}

	ds.mu.Lock()
	ds.sessionMap[sessionID] = session
	ds.mu.Unlock()

	ds.maybeGrowConnections()
	return session, nil
}

func (ds *DataSource) beginWorkerWithRecovery(protocolVersion int32) (*Port, error) {
	connection := ds.clientConnection()
	if connection == nil {
		if err := ds.Open(protocolVersion); err != nil {
			return nil, err
		}

		connection = ds.clientConnection()
	}

	if connection == nil {
		return nil, &dberrors.UnexpectedError{Message: "failed to get client connection"}
	}

	port, err := connection.BeginWorker()
	if err == nil {
		return port, nil
	}

	if ds.sessionExists() {
		return nil, err
	}

	ds.Close()
	if err := ds.Open(protocolVersion); err != nil {
		return nil, err
	}

	connection = ds.clientConnection()
	if connection == nil {
		return nil, &dberrors.UnexpectedError{Message: "failed to get client connection"}
	}

	return connection.BeginWorker()
}

func (ds *DataSource) negotiateSession(port *Port, dbname, username, password string) (int32, error) {
	var req values.Request
	if username != "" && password != "" {
		req = values.RequestBeginSession2
	} else {
		req = values.RequestBeginSession
	}

	if err := port.WriteValue(&req); err != nil {
		port.Close()
		return 0, err
	}

	if err := port.WriteValue(values.NewString(dbname)); err != nil {
		port.Close()
		return 0, err
	}

	if username != "" && password != "" {
		if err := port.WriteValue(values.NewString(username)); err != nil {
			port.Close()
			return 0, err
		}

		if err := port.WriteValue(values.NewString(password)); err != nil {
			port.Close()
			return 0, err
		}
	}

	if err := port.Flush(); err != nil {
		port.Close()
		return 0, err
	}

	sessionID, err := port.ReadInteger()
	if err != nil {
		ds.releaseFailedPort(port, err)
		return 0, err
	}

	if _, err := port.ReadStatus(); err != nil {
		ds.releaseFailedPort(port, err)
		return 0, err
	}

	return sessionID, nil
}

func (ds *DataSource) releaseFailedPort(port *Port, err error) {
	switch err.(type) {
	case *dberrors.UnexpectedError:
		port.Close()
	default:
		if port.IsReuse() {
			ds.pushPort(port)
		} else {
			port.Close()
		}
	}
}

// clientConnection returns the next control Connection in round-robin
// order, mirroring DataSource.get_client_connection.
func (ds *DataSource) clientConnection() *Connection {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if len(ds.connectionList) == 0 {
		return nil
	}

	if ds.connectionElement >= len(ds.connectionList) {
		ds.connectionElement = 0
	}

	connection := ds.connectionList[ds.connectionElement]
	ds.connectionElement++
	return connection
}

// maybeGrowConnections spins up an additional control Connection once the
// live session count reaches ConnectionThreshold per existing Connection,
// mirroring DataSource.new_client_connection. Connections are only ever
// added here; none is removed when the session count drops again.
func (ds *DataSource) maybeGrowConnections() {
	ds.mu.Lock()
	size := len(ds.sessionMap)
	threshold := ConnectionThreshold * len(ds.connectionList)
	ds.mu.Unlock()

	if len(ds.connectionList) == 0 || size < threshold {
		return
	}

	connection := ds.clientConnection()
	if connection == nil {
		return
	}

	next, err := connection.BeginConnection()
	if err != nil {
		ds.logger.Warn("failed to grow connection pool", zap.Error(err))
		return
	}

	ds.mu.Lock()
	ds.connectionList = append(ds.connectionList, next)
	ds.mu.Unlock()
}

// popPort removes and returns an arbitrary Port from the idle pool, or nil
// if the pool is empty, mirroring DataSource.pop_port.
func (ds *DataSource) popPort() *Port {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for slaveID, port := range ds.portPool {
		delete(ds.portPool, slaveID)
		return port
	}

	return nil
}

// pushPort resets port for reuse and returns it to the idle pool, mirroring
// DataSource.push_port.
func (ds *DataSource) pushPort(port *Port) {
	port.Reset()

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.portPool[port.SlaveID()] = port
}

// trackResultSet registers a newly created ResultSet as holding a port
// outside the pool, so Close can wait for it to finish.
func (ds *DataSource) trackResultSet() { ds.resultSets.Add(1) }

// untrackResultSet marks one ResultSet's port as disposed of — pushed back
// to the pool or closed — so Close's wait no longer counts it. Safe to call
// more than once per ResultSet only through markDone's sync.Once guard.
func (ds *DataSource) untrackResultSet() { ds.resultSets.Done() }

func (ds *DataSource) sessionExists() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return len(ds.sessionMap) > 0
}

func (ds *DataSource) removeSession(id int32) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.sessionMap, id)
}

// IsServerAvailable asks the server, through whichever control Connection
// is next in rotation, whether it can accept new work, mirroring
// DataSource.is_server_available.
func (ds *DataSource) IsServerAvailable() (bool, error) {
	connection := ds.clientConnection()
	if connection == nil {
		return false, &dberrors.UnexpectedError{Message: "no client connection available"}
	}

	return connection.IsServerAvailable()
}

// Shutdown asks the server to stop, mirroring DataSource.shutdown. A
// rejected credential pair against a pre-user-management server is retried
// without credentials, matching the original's "old protocol" fallback.
func (ds *DataSource) Shutdown(username, password string) error {
	port, err := ds.dialPort(SlaveIDAny)
	if err != nil {
		return err
	}

	if err := port.Open(); err != nil {
		return err
	}

	if username != "" && password != "" {
		req := values.RequestShutdown2
		err := func() error {
			if err := port.WriteValue(&req); err != nil {
				return err
			}

			if err := port.WriteValue(values.NewString(username)); err != nil {
				return err
			}

			if err := port.WriteValue(values.NewString(password)); err != nil {
				return err
			}

			if err := port.Flush(); err != nil {
				return err
			}

			_, err := port.ReadStatus()
			return err
		}()

		port.Close()

		if dberrors.IsDatabaseError(err) {
			return ds.Shutdown("", "")
		}

		return err
	}

	req := values.RequestShutdown
	if err := port.WriteValue(&req); err != nil {
		port.Close()
		return err
	}

	if err := port.Flush(); err != nil {
		port.Close()
		return err
	}

	_, err = port.ReadStatus()
	port.Close()
	return err
}

// Close tears down every session, control Connection, and pooled Port this
// DataSource owns. Errors from closing pooled Ports are aggregated and
// returned; errors from closing sessions and control Connections are
// discarded, as in the original.
func (ds *DataSource) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.closed = true
	ds.mu.Unlock()

	// Wait for every live ResultSet to push its port back to the pool (or
	// close it) before tearing the pool down, mirroring psql-wire's
	// closing-flag-plus-WaitGroup shutdown: a ResultSet that disposed of
	// its port after the pool was swapped out would push into the fresh,
	// about-to-be-discarded map and leak the port forever.
	ds.resultSets.Wait()

	ds.mu.Lock()
	sessions := ds.sessionMap
	ds.sessionMap = make(map[int32]*Session)

	connections := ds.connectionList
	ds.connectionList = nil

	ports := ds.portPool
	ds.portPool = make(map[int32]*Port)
	ds.mu.Unlock()

	var err error
	for _, session := range sessions {
		session.closeInternal()
	}

	for _, connection := range connections {
		connection.Close()
	}

	for _, port := range ports {
		err = multierr.Append(err, port.Close())
	}

	return err
}
