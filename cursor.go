package wire

import (
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/values"
)

// ColumnDescription describes one column of a fetched result set, mirroring
// the seven-element tuples Cursor.description yields in the original.
type ColumnDescription struct {
	Name         string
	Type         values.SQLType
	DisplaySize  int32
	InternalSize int32
	Precision    int32
	Scale        int32
	NotNull      bool
}

// Cursor drives statement execution and row fetching against one Conn,
// mirroring the original's Cursor. A Conn holds at most one live Cursor at a
// time.
type Cursor struct {
	connection *Conn
	arraysize  int

	description []ColumnDescription
	metadata    *values.ResultSetMetadata
	resultset   *ResultSet

	closed bool

	prepared bool
}

func newCursor(conn *Conn, prepared bool) *Cursor {
	return &Cursor{connection: conn, arraysize: 1, prepared: prepared}
}

// ArraySize returns how many rows FetchMany reads when not given an
// explicit size.
func (c *Cursor) ArraySize() int { return c.arraysize }

// SetArraySize changes FetchMany's default row count.
func (c *Cursor) SetArraySize(n int) error {
	if n <= 0 {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "arraysize should be greater than 0",
		}}
	}

	c.arraysize = n
	return nil
}

// RowCount returns how many rows the active result set has produced so far,
// or -1 if no statement has been executed or the result set is exhausted.
func (c *Cursor) RowCount() int {
	if c.resultset == nil {
		return -1
	}

	return c.resultset.rowcount
}

// Description returns the column descriptions of the last executed
// statement's result set, or nil before any fetch.
func (c *Cursor) Description() []ColumnDescription { return c.description }

// IsClosed reports whether Close has run.
func (c *Cursor) IsClosed() bool { return c.closed }

// Close releases this cursor's result set, mirroring Cursor.close.
func (c *Cursor) Close() {
	if c.closed {
		return
	}

	if c.resultset != nil && !c.resultset.IsClosed() {
		c.resultset.Close()
		c.resultset = nil
	}

	c.arraysize = 1
	c.description = nil
	c.metadata = nil
	c.closed = true
}

func (c *Cursor) bindParameters(parameters []any) (*values.DataArray, error) {
	if len(parameters) == 0 {
		return nil, nil
	}

	array := &values.DataArray{Elements: make([]values.Value, len(parameters))}
	for i, p := range parameters {
		v, err := values.BindParameter(p)
		if err != nil {
			return nil, err
		}

		array.Elements[i] = v
	}

	return array, nil
}

// Execute runs operation with the given bound parameters, mirroring
// Cursor.execute.
func (c *Cursor) Execute(operation string, parameters []any) error {
	if c.closed {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "cursor closed"}}
	}

	if c.resultset != nil {
		c.resultset.Close()
	}

	if c.connection.masterID < int32(ProtocolVersion4) {
		return &dberrors.NotSupportedError{DatabaseError: dberrors.DatabaseError{
			Message: "protocol version is not supported",
		}}
	}

	if operation == "" {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "bad argument"}}
	}

	array, err := c.bindParameters(parameters)
	if err != nil {
		return err
	}

	if !c.connection.autocommit && !c.connection.inTransaction {
		if err := c.connection.BeginTransaction(nil); err != nil {
			return err
		}
	}

	var rs *ResultSet
	if c.prepared {
		prepare, err := c.preparedStatementFor(operation)
		if err != nil {
			return err
		}

		rs, err = c.connection.session.ExecutePrepare(prepare, array)
		if err != nil {
			return err
		}
	} else {
		rs, err = c.connection.session.Execute(operation, array)
		if err != nil {
			return err
		}
	}

	c.resultset = rs
	c.metadata = nil
	c.description = nil
	return nil
}

func (c *Cursor) preparedStatementFor(operation string) (*PreparedStatement, error) {
	return c.connection.session.CreatePreparedStatement(operation)
}

// ExecuteMany runs operation once per entry of paramSets, mirroring
// Cursor.executemany.
func (c *Cursor) ExecuteMany(operation string, paramSets [][]any) error {
	if len(paramSets) == 0 {
		return &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{Message: "bad argument"}}
	}

	for _, params := range paramSets {
		if err := c.Execute(operation, params); err != nil {
			return err
		}
	}

	return nil
}

func (c *Cursor) ensureDescription() {
	if c.metadata != nil || c.resultset == nil {
		return
	}

	metadata := c.resultset.Metadata()
	if metadata == nil {
		return
	}

	c.metadata = metadata
	c.description = make([]ColumnDescription, len(metadata.Columns))
	for i, col := range metadata.Columns {
		c.description[i] = ColumnDescription{
			Name:        col.ColumnName,
			Type:        col.Type,
			DisplaySize: col.DisplaySize,
			Precision:   col.Precision,
			Scale:       col.Scale,
			NotNull:     col.IsNotNull(),
		}
	}
}

// FetchOne reads the next row of the active result set, mirroring
// Cursor.fetchone. It returns (nil, nil) once the result set is exhausted.
func (c *Cursor) FetchOne() ([]values.Value, error) {
	if c.resultset == nil {
		return nil, &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "no results to read",
		}}
	}

	hasMore, err := c.resultset.Next()
	if err != nil {
		return nil, err
	}

	if !hasMore {
		return nil, nil
	}

	c.ensureDescription()
	return c.resultset.Row(), nil
}

// FetchMany reads up to size rows, or ArraySize rows if size is 0, mirroring
// Cursor.fetchmany.
func (c *Cursor) FetchMany(size int) ([][]values.Value, error) {
	if c.resultset == nil {
		return nil, &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "no results to read",
		}}
	}

	if size < 0 {
		return nil, &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "size should be greater or equal to 1",
		}}
	}

	if size == 0 {
		size = c.arraysize
	}

	var rows [][]values.Value
	for i := 0; i < size; i++ {
		row, err := c.FetchOne()
		if err != nil {
			return nil, err
		}

		if row == nil {
			break
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// FetchAll reads every remaining row, mirroring Cursor.fetchall.
func (c *Cursor) FetchAll() ([][]values.Value, error) {
	if c.resultset == nil {
		return nil, &dberrors.ProgrammingError{DatabaseError: dberrors.DatabaseError{
			Message: "no results to read",
		}}
	}

	var rows [][]values.Value
	for {
		row, err := c.FetchOne()
		if err != nil {
			return nil, err
		}

		if row == nil {
			break
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// SetInputSizes is unsupported; DoqueDB does not need pre-sized parameter
// buffers, mirroring Cursor.setinputsize.
func (c *Cursor) SetInputSizes(sizes []values.SQLType) error {
	return &dberrors.NotSupportedError{DatabaseError: dberrors.DatabaseError{Message: "not supported"}}
}

// SetOutputSize is unsupported, mirroring Cursor.setoutputsize.
func (c *Cursor) SetOutputSize(size int, column int) error {
	return &dberrors.NotSupportedError{DatabaseError: dberrors.DatabaseError{Message: "not supported"}}
}

// CallProc is unsupported: DoqueDB has no stored procedures, mirroring
// Cursor.callproc.
func (c *Cursor) CallProc(name string, parameters []any) error {
	return &dberrors.NotSupportedError{DatabaseError: dberrors.DatabaseError{
		Message: "does not support stored procedure",
	}}
}

// Cancel is unsupported at the cursor level, mirroring Cursor.cancel; use
// the ResultSet's own Cancel instead.
func (c *Cursor) Cancel() error {
	return &dberrors.NotSupportedError{DatabaseError: dberrors.DatabaseError{Message: "not supported"}}
}
