package wire

import (
	"sync"

	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

// RowStatus is the broader client-side result-set state, mirroring
// client.constants.StatusSet. It is distinct from values.StatusCode, the
// narrow wire payload: StatusSet additionally tracks DATA/META_DATA/
// END_OF_DATA/UNDEFINED states the server never sends as a literal Status
// object, only implies by which object arrives next.
type RowStatus int32

const (
	RowStatusUndefined   RowStatus = 0
	RowStatusData        RowStatus = 1
	RowStatusEndOfData   RowStatus = 2
	RowStatusSuccess     RowStatus = 3
	RowStatusCanceled    RowStatus = 4
	RowStatusError       RowStatus = 5
	RowStatusMetaData    RowStatus = 6
	RowStatusHasMoreData RowStatus = 7
)

// ResultSet iterates the tuples a statement execution produces, mirroring
// the original's ResultSet. Its core invariant lives in getNextTuple's
// deferred port disposition: depending on the status just observed, the
// port backing this result set is pushed back to the pool, closed, or held
// onto for the next read.
type ResultSet struct {
	datasource *DataSource
	port       *Port

	status   RowStatus
	metadata *values.ResultSetMetadata
	tuple    *values.DataArray

	row      *values.DataArray
	rowcount int

	closed   bool
	doneOnce sync.Once
}

// newResultSet wraps port as a ResultSet that reads from the worker that
// just began executing a statement. It registers with datasource so Close
// can wait for this ResultSet to dispose of its port before tearing the
// pool down.
func newResultSet(datasource *DataSource, port *Port) *ResultSet {
	datasource.trackResultSet()
	return &ResultSet{datasource: datasource, port: port, status: RowStatusData}
}

// markDone tells datasource this ResultSet no longer holds a port outside
// the pool. Idempotent: the port-disposition switch in getNextTuple and a
// caller's explicit Close can both reach here for the same ResultSet.
func (rs *ResultSet) markDone() {
	rs.doneOnce.Do(func() {
		rs.datasource.untrackResultSet()
	})
}

// Metadata returns the column metadata once it has been read, or nil before
// the first Next call observes it.
func (rs *ResultSet) Metadata() *values.ResultSetMetadata { return rs.metadata }

// LastStatus returns the most recently observed execution status.
func (rs *ResultSet) LastStatus() RowStatus { return rs.status }

// IsClosed reports whether Close has run.
func (rs *ResultSet) IsClosed() bool { return rs.closed }

// getNextTuple reads one object off the port and folds it into row (if
// non-nil), mirroring ResultSet.get_next_tuple including its finally-block
// port disposition. The Python original reads a DataArrayData directly into
// its caller-supplied tuple_ in place; since a Go read always allocates a
// fresh value, row is populated from the object just read rather than the
// one read on the previous call.
func (rs *ResultSet) getNextTuple(row *values.DataArray) (RowStatus, error) {
	if rs.port == nil {
		return rs.status, nil
	}

	status := RowStatusUndefined

	object, err := rs.port.ReadObject()

	var resultErr error
	if err != nil {
		rs.status = RowStatusError
		resultErr = err
	} else {
		switch v := object.(type) {
		case nil:
			status = RowStatusEndOfData
			rs.metadata = nil
			rs.tuple = nil
			if row != nil {
				row.Elements = nil
			}
		case *values.ResultSetMetadata:
			status = RowStatusMetaData
			rs.metadata = v
			rs.tuple = v.NewRow()
		case *values.Status:
			switch v.Code {
			case values.StatusSuccess:
				status = RowStatusSuccess
			case values.StatusCanceled:
				status = RowStatusCanceled
			case values.StatusHasMoreData:
				status = RowStatusHasMoreData
			}
		case *values.DataArray:
			status = RowStatusData
			rs.tuple = v
			if row != nil {
				row.Elements = v.Elements
			}
		}

		if status == RowStatusUndefined {
			rs.status = RowStatusError
			resultErr = &dberrors.InterfaceError{Message: "status undefined"}
		} else {
			rs.status = status
		}
	}

	switch rs.status {
	case RowStatusSuccess:
		rs.datasource.pushPort(rs.port)
		rs.port = nil
		rs.markDone()
	case RowStatusCanceled:
		if rs.port.MasterID()&authorizeMaskMasterID >= int32(ProtocolVersion3) {
			rs.datasource.pushPort(rs.port)
		} else {
			rs.port.Close()
		}
		rs.port = nil
		rs.markDone()
	case RowStatusError, RowStatusUndefined:
		if rs.port.IsReuse() {
			rs.datasource.pushPort(rs.port)
		} else {
			rs.port.Close()
		}
		rs.port = nil
		rs.markDone()
	}

	return status, resultErr
}

// GetStatus drains tuples until a terminal status is reached, mirroring
// ResultSet.get_status. skipAll additionally drains past a HAS_MORE_DATA
// status to the final status of a multi-statement execution.
func (rs *ResultSet) GetStatus(skipAll bool) (RowStatus, error) {
	for rs.status == RowStatusMetaData || rs.status == RowStatusData ||
		rs.status == RowStatusEndOfData ||
		(skipAll && rs.status == RowStatusHasMoreData) {
		if _, err := rs.getNextTuple(nil); err != nil {
			return rs.status, err
		}
	}

	return rs.status, nil
}

// Next advances the cursor to the next row, mirroring ResultSet.next. It
// returns false once the result set is exhausted; the caller should then
// inspect GetStatus/LastStatus to tell a clean end from an error.
func (rs *ResultSet) Next() (bool, error) {
	if rs.rowcount == -1 {
		return false, nil
	}

	if rs.row == nil {
		rs.row = &values.DataArray{}
	}

	var status RowStatus
	for {
		var err error
		status, err = rs.getNextTuple(rs.row)
		if err != nil {
			return false, err
		}

		if status != RowStatusMetaData {
			break
		}
	}

	if status != RowStatusData {
		rs.row = nil
		rs.rowcount = -1

		final, err := rs.GetStatus(false)
		if err != nil {
			return false, err
		}

		if final == RowStatusHasMoreData {
			if _, err := rs.GetStatus(true); err != nil {
				return false, err
			}
		}

		return false, nil
	}

	rs.rowcount++
	return true, nil
}

// Row returns the current row, populated by the most recent successful
// Next call.
func (rs *ResultSet) Row() []values.Value {
	if rs.row == nil {
		return nil
	}

	return rs.row.Elements
}

// Cancel asks the server to cancel the worker executing this result set,
// mirroring ResultSet.cancel.
func (rs *ResultSet) Cancel() error {
	connection := rs.datasource.clientConnection()
	if connection == nil || rs.port == nil {
		return &dberrors.UnexpectedError{Message: "no active connection to cancel against"}
	}

	return connection.CancelWorker(rs.port.WorkerID())
}

// Close drains any remaining status before releasing this result set,
// mirroring ResultSet.close: it never propagates an error from the drain,
// since a caller closing a result set has already gotten what it needs from
// it.
func (rs *ResultSet) Close() {
	if rs.port != nil {
		switch rs.status {
		case RowStatusData, RowStatusEndOfData, RowStatusMetaData, RowStatusHasMoreData:
			_, _ = rs.GetStatus(true)
		}
	}

	rs.status = RowStatusUndefined
	rs.metadata = nil
	rs.tuple = nil
	rs.row = nil
	rs.rowcount = 0
	rs.closed = true
	rs.markDone()
}
