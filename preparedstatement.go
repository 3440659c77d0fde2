package wire

// PreparedStatement is an opaque handle to a statement the server has
// parsed and cached under an id, mirroring the original's PrepareStatement.
type PreparedStatement struct {
	id int32
}

// ID returns the server-assigned prepare id backing this handle.
func (p *PreparedStatement) ID() int32 { return p.id }

// close erases this statement from the server if it was ever created,
// swallowing any error, mirroring PrepareStatement.close (called once by
// Session when the statement is dropped from its cache).
func (p *PreparedStatement) close(session *Session) {
	if p.id == 0 {
		return
	}

	_ = session.erasePreparedStatement(p.id)
	p.id = 0
}
