package values

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wireio "github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// roundTrip writes v through WriteValue and reads it back through ReadValue,
// returning the decoded Value.
func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	var buf bytes.Buffer
	w := wireio.NewWriter(nil, &buf)
	require.NoError(t, WriteValue(w, v))
	require.NoError(t, w.Flush())

	r := wireio.NewReader(nil, &buf, 0)
	got, err := ReadValue(r)
	require.NoError(t, err)
	return got
}

func TestRoundTripScalars(t *testing.T) {
	t.Run("Integer32", func(t *testing.T) {
		got := roundTrip(t, NewInteger32(-42))
		assert.Equal(t, &Integer32{Value: -42}, got)
	})

	t.Run("UnsignedInteger32", func(t *testing.T) {
		got := roundTrip(t, NewUnsignedInteger32(42))
		assert.Equal(t, &Integer32{Value: 42, Unsigned: true}, got)
	})

	t.Run("Integer64", func(t *testing.T) {
		got := roundTrip(t, NewInteger64(1<<40))
		assert.Equal(t, &Integer64{Value: 1 << 40}, got)
	})

	t.Run("Float32", func(t *testing.T) {
		got := roundTrip(t, NewFloat32(3.5))
		assert.Equal(t, &Float32{Value: 3.5}, got)
	})

	t.Run("Float64", func(t *testing.T) {
		got := roundTrip(t, NewFloat64(3.14159))
		assert.Equal(t, &Float64{Value: 3.14159}, got)
	})

	t.Run("String", func(t *testing.T) {
		got := roundTrip(t, NewString("こんにちは"))
		assert.Equal(t, &String{Value: "こんにちは"}, got)
	})

	t.Run("Binary", func(t *testing.T) {
		got := roundTrip(t, NewBinary([]byte{0x01, 0x02, 0xff}))
		assert.Equal(t, &Binary{Value: []byte{0x01, 0x02, 0xff}}, got)
	})

	t.Run("Date", func(t *testing.T) {
		got := roundTrip(t, NewDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got.(*Date).Value)
	})

	t.Run("DateTime", func(t *testing.T) {
		want := time.Date(2024, 3, 15, 10, 20, 30, 500_000_000, time.UTC)
		got := roundTrip(t, NewDateTime(want))
		assert.Equal(t, want, got.(*DateTime).Value)
	})
}

func TestRoundTripArrays(t *testing.T) {
	t.Run("IntegerArray", func(t *testing.T) {
		got := roundTrip(t, &IntegerArray{Elements: []int32{1, 2, 3}})
		assert.Equal(t, &IntegerArray{Elements: []int32{1, 2, 3}}, got)
	})

	t.Run("StringArray", func(t *testing.T) {
		got := roundTrip(t, &StringArray{Elements: []string{"a", "b"}})
		assert.Equal(t, &StringArray{Elements: []string{"a", "b"}}, got)
	})

	t.Run("DataArray", func(t *testing.T) {
		in := &DataArray{Elements: []Value{NewInteger32(7), NewString("x")}}
		got := roundTrip(t, in).(*DataArray)
		require.Len(t, got.Elements, 2)
		assert.Equal(t, &Integer32{Value: 7}, got.Elements[0])
		assert.Equal(t, &String{Value: "x"}, got.Elements[1])
	})
}

func TestRoundTripControl(t *testing.T) {
	t.Run("Status", func(t *testing.T) {
		got := roundTrip(t, NewStatus(StatusHasMoreData))
		assert.Equal(t, &Status{Code: StatusHasMoreData}, got)
	})

	t.Run("ErrorLevel", func(t *testing.T) {
		got := roundTrip(t, &ErrorLevel{Code: ErrorLevelUser})
		assert.True(t, got.(*ErrorLevel).IsUserLevel())
	})

	t.Run("ExceptionData", func(t *testing.T) {
		in := &ExceptionData{ErrNo: 19, Args: []string{"bad sql"}, ModuleName: "Opt", FileName: "f.cpp", LineNumber: 42}
		got := roundTrip(t, in).(*ExceptionData)
		assert.Equal(t, in, got)
		assert.Equal(t, "syntax error: bad sql", got.ErrorMessage())
	})

	t.Run("Request", func(t *testing.T) {
		req := RequestBeginWorker
		got := roundTrip(t, &req)
		assert.Equal(t, RequestBeginWorker, *got.(*Request))
	})
}

func TestReadValueClassNoneIsEndOfData(t *testing.T) {
	var buf bytes.Buffer
	w := wireio.NewWriter(nil, &buf)
	w.WriteClassID(int32(ClassNone))
	require.NoError(t, w.Flush())

	r := wireio.NewReader(nil, &buf, 0)
	v, err := ReadValue(r)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewUnknownClassID(t *testing.T) {
	_, err := New(ClassID(9999))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassNotFound)
}
