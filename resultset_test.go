package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doquedb-oss/doquedb-go/internal/mock"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

func TestResultSetNextReadsMetadataThenRow(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		metadata := &values.ResultSetMetadata{Columns: []*values.ColumnMetadata{
			{Type: values.SQLInteger, ColumnName: "id"},
		}}
		require.NoError(t, fake.WriteValue(metadata))
		require.NoError(t, fake.WriteValue(&values.DataArray{Elements: []values.Value{values.NewInteger32(7)}}))
		require.NoError(t, fake.WriteValue(&values.DataArray{Elements: []values.Value{values.NewInteger32(8)}}))
		require.NoError(t, fake.WriteValue(&values.Status{Code: values.StatusSuccess}))
		require.NoError(t, fake.Flush())
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), 1, nil)
	port.opened = true

	ds := NewDataSource("127.0.0.1", 0, nil)
	rs := newResultSet(ds, port)

	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rs.Row(), 1)
	assert.Equal(t, &values.Integer32{Value: 7}, rs.Row()[0])

	ok, err = rs.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rs.Row(), 1)
	assert.Equal(t, &values.Integer32{Value: 8}, rs.Row()[0])

	ok, err = rs.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, RowStatusSuccess, rs.LastStatus())

	<-done
}

func TestResultSetGetStatusImmediateSuccess(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		require.NoError(t, fake.WriteValue(&values.Status{Code: values.StatusSuccess}))
		require.NoError(t, fake.Flush())
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), 1, nil)
	port.opened = true

	ds := NewDataSource("127.0.0.1", 0, nil)
	rs := newResultSet(ds, port)

	status, err := rs.GetStatus(false)
	require.NoError(t, err)
	assert.Equal(t, RowStatusSuccess, status)

	<-done
}

func TestResultSetCloseDrainsStatus(t *testing.T) {
	client, server := mock.Pipe()
	defer client.Close()
	defer server.Close()

	fake := mock.NewFakeServer(t, server)
	done := make(chan struct{})

	go func() {
		defer close(done)
		require.NoError(t, fake.WriteValue(&values.Status{Code: values.StatusSuccess}))
		require.NoError(t, fake.Flush())
	}()

	port := NewPort(client, int32(CurrentProtocolVersion), 1, nil)
	port.opened = true

	ds := NewDataSource("127.0.0.1", 0, nil)
	rs := newResultSet(ds, port)

	rs.Close()
	<-done

	assert.True(t, rs.IsClosed())
	assert.Nil(t, rs.Row())
}
