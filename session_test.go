package wire

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doquedb-oss/doquedb-go/internal/mock"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

// openTestSession drives a real DataSource.Open+CreateSession against a
// loopback listener, returning the DataSource, the resulting Session, and
// the FakeServers wrapping the control and worker connections so a test can
// script further request/response cycles over the same sockets — the
// worker port negotiated here is pushed back into the pool by CreateSession,
// so any later Session call that needs a worker Port reuses this exact
// connection rather than dialing a fresh one.
func openTestSession(t *testing.T, listener net.Listener, slaveID, workerID, sessionID int32) (*DataSource, *Session, *mock.FakeServer, *mock.FakeServer) {
	t.Helper()

	protocolVersion := int32(CurrentProtocolVersion)

	accepted := make(chan net.Conn, 2)
	go func() {
		for i := 0; i < 2; i++ {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()

	host, portStr, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	ds := NewDataSource(host, port, nil)

	var controlFake *mock.FakeServer
	controlDone := make(chan struct{})
	go func() {
		defer close(controlDone)
		conn := <-accepted
		controlFake = scriptControlConnection(t, conn, protocolVersion, slaveID, workerID)
	}()

	require.NoError(t, ds.Open(protocolVersion))

	var workerFake *mock.FakeServer
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		conn := <-accepted
		workerFake = scriptWorkerConnection(t, conn, protocolVersion, slaveID, sessionID)
	}()

	session, err := ds.CreateSession("testdb", "", "")
	require.NoError(t, err)
	<-controlDone
	<-workerDone

	return ds, session, controlFake, workerFake
}

func TestSessionCreatePreparedStatementCachesByStatementText(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	_, session, controlFake, workerFake := openTestSession(t, listener, 5, 42, 100)

	const statement = "select 1"

	// CreatePreparedStatement's BeginWorker call reuses the pooled port via
	// the control connection's begin-worker exchange; the prepare request
	// itself then rides the worker connection that port is bound to.
	controlRound := make(chan struct{})
	go func() {
		defer close(controlRound)
		req, err := controlFake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, values.RequestBeginWorker, *req.(*values.Request))

		askedSlave, err := controlFake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, int32(5), askedSlave.(*values.Integer32).Value)

		require.NoError(t, controlFake.WriteValue(values.NewInteger32(5)))
		require.NoError(t, controlFake.WriteValue(values.NewInteger32(99)))
		require.NoError(t, controlFake.WriteStatus(values.StatusSuccess))
		require.NoError(t, controlFake.Flush())
	}()

	workerRound := make(chan struct{})
	go func() {
		defer close(workerRound)
		req, err := workerFake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, values.RequestPrepareStatement2, *req.(*values.Request))

		sessionID, err := workerFake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, int32(100), sessionID.(*values.Integer32).Value)

		text, err := workerFake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, statement, text.(*values.String).Value)

		require.NoError(t, workerFake.WriteValue(values.NewInteger32(7)))
		require.NoError(t, workerFake.WriteStatus(values.StatusSuccess))
		require.NoError(t, workerFake.Flush())
	}()

	prepare, err := session.CreatePreparedStatement(statement)
	require.NoError(t, err)
	assert.Equal(t, int32(7), prepare.ID())
	<-controlRound
	<-workerRound

	// A repeat prepare of the identical statement text must be served from
	// the cache: no further request is scripted, so this would hang or fail
	// against an unscripted server if the cache were bypassed.
	cached, err := session.CreatePreparedStatement(statement)
	require.NoError(t, err)
	assert.Same(t, prepare, cached)
}

func TestDataSourceShutdownRetriesOnClassifiedDatabaseError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	protocolVersion := int32(CurrentProtocolVersion)

	accepted := make(chan net.Conn, 2)
	go func() {
		for i := 0; i < 2; i++ {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()

	host, portStr, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	ds := NewDataSource(host, port, nil)

	// First attempt: the server rejects the credentialed shutdown request
	// with a classified errno (6 -> FeatureNotSupported -> *NotSupportedError),
	// mirroring an old, pre-user-management server's rejection. This must be
	// recognized through the whole DatabaseError subclass hierarchy, not only
	// the uncategorized fallback case, for the retry to fire at all.
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		conn := <-accepted
		fake := mock.NewFakeServer(t, conn)
		_, _, err := fake.Handshake(protocolVersion, 0)
		require.NoError(t, err)

		req, err := fake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, values.RequestShutdown2, *req.(*values.Request))

		_, err = fake.ReadValue() // username
		require.NoError(t, err)
		_, err = fake.ReadValue() // password
		require.NoError(t, err)

		require.NoError(t, fake.WriteValue(&values.ExceptionData{ErrNo: 6}))
		require.NoError(t, fake.Flush())
	}()

	// Retry: Shutdown calls itself with no credentials, dialing a fresh
	// connection and issuing the plain RequestShutdown the old protocol
	// understands.
	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		conn := <-accepted
		fake := mock.NewFakeServer(t, conn)
		_, _, err := fake.Handshake(protocolVersion, 0)
		require.NoError(t, err)

		req, err := fake.ReadValue()
		require.NoError(t, err)
		assert.Equal(t, values.RequestShutdown, *req.(*values.Request))

		require.NoError(t, fake.WriteStatus(values.StatusSuccess))
		require.NoError(t, fake.Flush())
	}()

	err = ds.Shutdown("admin", "secret")
	require.NoError(t, err)
	<-firstDone
	<-secondDone
}
