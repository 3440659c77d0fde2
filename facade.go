package wire

import (
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"go.uber.org/zap"
)

// connConfig collects Open's optional settings, mirrored after the
// teacher's OptionFn pattern in options.go.
type connConfig struct {
	protocolVersion int32
	charset         string
	autocommit      bool
	logger          *zap.Logger
}

// ConnOption configures a Conn at Open time.
type ConnOption func(*connConfig)

// WithProtocolVersion pins the wire protocol version to negotiate, instead
// of CurrentProtocolVersion.
func WithProtocolVersion(version int32) ConnOption {
	return func(c *connConfig) { c.protocolVersion = version }
}

// WithCharset records the client character set DoqueDB should assume,
// mirroring Connection's charset attribute.
func WithCharset(charset string) ConnOption {
	return func(c *connConfig) { c.charset = charset }
}

// WithAutocommit turns on autocommit mode: Cursor.Execute never opens an
// implicit transaction, and Commit/Rollback/BeginTransaction all refuse to
// run.
func WithAutocommit(autocommit bool) ConnOption {
	return func(c *connConfig) { c.autocommit = autocommit }
}

// WithLogger attaches a zap logger to the connection's lifecycle events.
func WithLogger(logger *zap.Logger) ConnOption {
	return func(c *connConfig) { c.logger = logger }
}

// Conn is a DB-API-style connection to one DoqueDB database, mirroring the
// original's driver.connection.Connection. It owns at most one live Cursor
// at a time.
type Conn struct {
	hostname string
	portnum  int
	protocolVersion int32

	datasource *DataSource
	session    *Session

	username string
	password string
	masterID int32
	charset  string
	autocommit bool

	closed         bool
	readonly       bool
	setReadMode    bool
	inTransaction  bool
	isolationLevel TransactionIsolationLevel

	cursor *Cursor
}

// Open dials hostname:port, negotiates the wire protocol, and begins a
// session against dbname, mirroring the module-level connect() entry point
// the original's driver package exposes to DB-API callers.
func Open(hostname string, port int, dbname, username, password string, opts ...ConnOption) (*Conn, error) {
	cfg := connConfig{protocolVersion: int32(CurrentProtocolVersion)}
	for _, opt := range opts {
		opt(&cfg)
	}

	datasource := NewDataSource(hostname, port, cfg.logger)
	if err := datasource.Open(cfg.protocolVersion); err != nil {
		return nil, err
	}

	session, err := datasource.CreateSession(dbname, username, password)
	if err != nil {
		datasource.Close()
		return nil, err
	}

	return &Conn{
		hostname:        hostname,
		portnum:         port,
		protocolVersion: cfg.protocolVersion,
		datasource:      datasource,
		session:         session,
		username:        username,
		password:        password,
		masterID:        datasource.MasterID(),
		charset:         cfg.charset,
		autocommit:      cfg.autocommit,
		isolationLevel:  TransactionReadCommitted,
	}, nil
}

// Info returns the hostname, port, and the protocol version this connection
// requested when it was opened (see MasterID for what the server agreed to).
func (c *Conn) Info() (string, int, int32) { return c.hostname, c.portnum, c.protocolVersion }

// Username returns the user this connection authenticated as, or "" for an
// anonymous session.
func (c *Conn) Username() string { return c.username }

// MasterID returns the protocol version the server agreed to.
func (c *Conn) MasterID() int32 { return c.masterID }

// Charset returns the client character set recorded for this connection.
func (c *Conn) Charset() string { return c.charset }

// IsAutocommit reports whether this connection was opened in autocommit
// mode.
func (c *Conn) IsAutocommit() bool { return c.autocommit }

// InTransaction reports whether a transaction is currently open.
func (c *Conn) InTransaction() bool { return c.inTransaction }

// ReadOnly reports the transaction mode BeginTransaction will default to.
func (c *Conn) ReadOnly() bool { return c.readonly }

// IsolationLevel returns the isolation level BeginTransaction will default
// to.
func (c *Conn) IsolationLevel() TransactionIsolationLevel { return c.isolationLevel }

// Close ends this connection's cursor and session, mirroring
// Connection.close.
func (c *Conn) Close() {
	if c.closed {
		return
	}

	if c.cursor != nil && !c.cursor.IsClosed() {
		c.cursor.Close()
	}

	c.session.Close()
	c.datasource.Close()
	c.closed = true
}

// Commit commits the current transaction, mirroring Connection.commit.
func (c *Conn) Commit() error {
	if c.autocommit {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "autocommit is on. create new connection with autocommit false to use this method",
		}}
	}

	if c.closed {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "connection is closed. create new connection",
		}}
	}

	if !c.inTransaction {
		return nil
	}

	if c.cursor != nil && c.cursor.resultset != nil {
		c.cursor.resultset.Close()
	}

	rs, err := c.session.Execute("commit", nil)
	if err != nil {
		return &dberrors.InterfaceError{Message: "failed to commit"}
	}

	status, err := rs.GetStatus(false)
	rs.Close()
	if err != nil || status == RowStatusError {
		return &dberrors.InterfaceError{Message: "status error returned from doquedb"}
	}

	c.inTransaction = false
	return nil
}

// Rollback rolls back the current transaction, mirroring
// Connection.rollback.
func (c *Conn) Rollback() error {
	if c.autocommit {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "autocommit is on"}}
	}

	if c.closed {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "connection is closed"}}
	}

	if !c.inTransaction {
		return nil
	}

	if c.cursor != nil && c.cursor.resultset != nil {
		c.cursor.resultset.Close()
	}

	rs, err := c.session.Execute("rollback", nil)
	if err != nil {
		return &dberrors.InterfaceError{Message: "failed to rollback"}
	}

	status, err := rs.GetStatus(false)
	rs.Close()
	if err != nil || status == RowStatusError {
		return &dberrors.InterfaceError{Message: "status error returned from doquedb"}
	}

	c.inTransaction = false
	return nil
}

// Cursor creates this connection's single Cursor, mirroring
// Connection.cursor. A Conn holds at most one live Cursor; create a new
// Conn to run two cursors concurrently.
func (c *Conn) Cursor(prepared bool) (*Cursor, error) {
	if c.cursor != nil && !c.cursor.IsClosed() {
		return nil, &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "cursor already exists. make new connection or close cursor before creating new cursor",
		}}
	}

	c.cursor = newCursor(c, prepared)
	return c.cursor, nil
}

// BeginTransaction starts a transaction, defaulting to read-write unless
// this connection is in read-only mode, mirroring
// Connection.begin_transaction. Pass nil for mode to use that default.
func (c *Conn) BeginTransaction(mode *TransactionMode) error {
	if c.autocommit {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "autocommit is on"}}
	}

	resolved := TransactionModeReadWrite
	if mode != nil {
		resolved = *mode
	} else if c.readonly {
		if c.isolationLevel == TransactionUsingSnapshot {
			resolved = TransactionModeReadOnlyUsingSnapshot
		} else {
			resolved = TransactionModeReadOnly
		}
	}

	operation := "start transaction"
	switch resolved {
	case TransactionModeReadWrite:
		operation += " read write"
	case TransactionModeReadOnly:
		operation += " read only"
	case TransactionModeReadOnlyUsingSnapshot:
		operation += " read only, using snapshot"
	default:
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "argument is not a valid transaction mode",
		}}
	}

	switch c.isolationLevel {
	case TransactionReadCommitted:
		operation += ", isolation level read committed"
	case TransactionReadUncommitted:
		operation += ", isolation level read uncommitted"
	case TransactionRepeatableRead:
		operation += ", isolation level repeatable read"
	case TransactionSerializable:
		operation += ", isolation level serializable"
	case TransactionUsingSnapshot:
		// snapshot carries no isolation-level clause of its own.
	}

	rs, err := c.session.Execute(operation, nil)
	if err != nil {
		return err
	}

	status, err := rs.GetStatus(false)
	rs.Close()
	if err != nil || status == RowStatusError {
		return &dberrors.UnexpectedError{Message: "status error returned from doquedb"}
	}

	c.inTransaction = true
	return nil
}

// SetReadOnly switches the default transaction mode between read-only and
// read-write, mirroring Connection.set_readonly.
func (c *Conn) SetReadOnly(readonly bool) error {
	if c.closed {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "connection closed"}}
	}

	if c.inTransaction {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "already in transaction"}}
	}

	if c.isolationLevel == TransactionUsingSnapshot {
		if readonly {
			return nil
		}

		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "incompatible transaction"}}
	}

	if !c.setReadMode || c.readonly != readonly {
		operation := "set transaction read write"
		if readonly {
			operation = "set transaction read only"
		}

		rs, err := c.session.Execute(operation, nil)
		if err != nil {
			return err
		}

		status, err := rs.GetStatus(false)
		rs.Close()
		if err != nil || status == RowStatusError {
			return &dberrors.UnexpectedError{Message: "status error returned from doquedb"}
		}

		c.setReadMode = true
	}

	c.readonly = readonly
	return nil
}

// SetTransactionIsolation changes the isolation level BeginTransaction will
// default to, mirroring Connection.set_transaction_isolation.
func (c *Conn) SetTransactionIsolation(level TransactionIsolationLevel) error {
	if c.closed {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "connection already closed"}}
	}

	if c.inTransaction {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "already in transaction"}}
	}

	if level == TransactionUsingSnapshot {
		if err := c.SetReadOnly(true); err != nil {
			return err
		}

		c.isolationLevel = level
		return nil
	}

	operation := "set transaction isolation level "
	switch level {
	case TransactionReadCommitted:
		operation += "read committed"
	case TransactionReadUncommitted:
		operation += "read uncommitted"
	case TransactionRepeatableRead:
		operation += "repeatable read"
	case TransactionSerializable:
		operation += "serializable"
	default:
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "argument is not a valid isolation level",
		}}
	}

	rs, err := c.session.Execute(operation, nil)
	if err != nil {
		return err
	}

	status, err := rs.GetStatus(false)
	rs.Close()
	if err != nil || status == RowStatusError {
		return &dberrors.UnexpectedError{Message: "status error returned from doquedb"}
	}

	c.isolationLevel = level
	return nil
}
