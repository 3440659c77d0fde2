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

// scriptControlConnection answers the Port handshake, the begin-connection
// request DataSource.Open issues, and the begin-worker request
// Connection.BeginWorker issues during CreateSession — all three ride the
// same persistent control connection.
// It returns the FakeServer so a caller can script further request/response
// cycles over the same connection (e.g. a later Session call that reuses
// this control connection's pooled worker port).
func scriptControlConnection(t *testing.T, conn net.Conn, protocolVersion, slaveID, workerID int32) *mock.FakeServer {
	t.Helper()

	fake := mock.NewFakeServer(t, conn)
	_, _, err := fake.Handshake(protocolVersion, 0)
	require.NoError(t, err)

	req, err := fake.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, values.RequestBeginConnection, *req.(*values.Request))

	_, err = fake.ReadValue() // hostname string
	require.NoError(t, err)

	require.NoError(t, fake.WriteStatus(values.StatusSuccess))
	require.NoError(t, fake.Flush())

	req, err = fake.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, values.RequestBeginWorker, *req.(*values.Request))

	askedSlave, err := fake.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, int32(SlaveIDAny), askedSlave.(*values.Integer32).Value)

	require.NoError(t, fake.WriteValue(values.NewInteger32(slaveID)))
	require.NoError(t, fake.WriteValue(values.NewInteger32(workerID)))
	require.NoError(t, fake.WriteStatus(values.StatusSuccess))
	require.NoError(t, fake.Flush())

	return fake
}

// scriptWorkerConnection answers the Port handshake for the freshly dialed
// worker connection, then the begin-session request DataSource.CreateSession
// issues over it.
// It returns the FakeServer so a caller can script further request/response
// cycles over the same connection (the worker port negotiated here is
// pushed back to the pool after CreateSession, so a later Session call
// reuses this exact connection rather than dialing a fresh one).
func scriptWorkerConnection(t *testing.T, conn net.Conn, protocolVersion, slaveID, sessionID int32) *mock.FakeServer {
	t.Helper()

	fake := mock.NewFakeServer(t, conn)
	_, _, err := fake.Handshake(protocolVersion, slaveID)
	require.NoError(t, err)

	req, err := fake.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, values.RequestBeginSession, *req.(*values.Request))

	dbname, err := fake.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, "testdb", dbname.(*values.String).Value)

	require.NoError(t, fake.WriteValue(values.NewInteger32(sessionID)))
	require.NoError(t, fake.WriteStatus(values.StatusSuccess))
	require.NoError(t, fake.Flush())

	return fake
}

func TestDataSourceOpenAndCreateSession(t *testing.T) {
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

	controlDone := make(chan struct{})
	go func() {
		defer close(controlDone)
		conn := <-accepted
		scriptControlConnection(t, conn, protocolVersion, 5, 42)
	}()

	require.NoError(t, ds.Open(protocolVersion))

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		conn := <-accepted
		scriptWorkerConnection(t, conn, protocolVersion, 5, 100)
	}()

	session, err := ds.CreateSession("testdb", "", "")
	require.NoError(t, err)
	<-controlDone
	<-workerDone

	assert.Equal(t, protocolVersion, ds.MasterID())
	assert.Equal(t, int32(100), session.ID())
	assert.True(t, session.IsValid())
}
