package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/internal/mock"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

func TestPortOpenHandshake(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _, err := fake.Handshake(int32(CurrentProtocolVersion), 7)
		assert.NoError(t, err)
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), SlaveIDAny, nil)
	require.NoError(t, port.Open())
	<-done

	assert.Equal(t, int32(7), port.SlaveID())
	assert.Equal(t, int32(CurrentProtocolVersion), port.MasterID())
}

func TestPortOpenRejectsOutOfRangeSlaveID(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _, _ = fake.Handshake(int32(CurrentProtocolVersion), SlaveIDUndefined)
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), SlaveIDAny, nil)
	err := port.Open()
	<-done

	require.Error(t, err)
	assert.IsType(t, &dberrors.InterfaceError{}, err)
}

func TestPortReadObjectClassifiesExceptionData(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		assert.NoError(t, fake.WriteValue(&values.ErrorLevel{Code: values.ErrorLevelUser}))
		assert.NoError(t, fake.WriteValue(&values.ExceptionData{ErrNo: 19, Args: []string{"bad sql"}}))
		assert.NoError(t, fake.Flush())
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), 1, nil)
	port.opened = true

	_, err := port.ReadObject()
	<-done

	require.Error(t, err)
	dbErr, ok := err.(*dberrors.ProgrammingError)
	require.True(t, ok, "expected *dberrors.ProgrammingError, got %T", err)
	assert.Equal(t, int32(19), dbErr.ErrNo)
	assert.True(t, port.IsReuse())
}

func TestPortReadObjectPassesThroughOrdinaryValue(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		assert.NoError(t, fake.WriteValue(values.NewInteger32(99)))
		assert.NoError(t, fake.Flush())
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), 1, nil)
	port.opened = true

	v, err := port.ReadObject()
	<-done

	require.NoError(t, err)
	assert.Equal(t, &values.Integer32{Value: 99}, v)
}
