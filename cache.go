package wire

import "sync"

// preparedStatementCache caches PreparedStatement handles by the SQL text
// they were created from, keyed the same way the original's
// Session.__prepared_map is, so repeated executions of identical SQL reuse
// one server-side prepare rather than parsing it again.
type preparedStatementCache struct {
	mu         sync.RWMutex
	statements map[string]*PreparedStatement
}

// get returns the cached PreparedStatement for statement, if any.
func (c *preparedStatementCache) get(statement string) (*PreparedStatement, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.statements[statement]
	return p, ok
}

// set binds prepare under statement, overriding any previous entry.
func (c *preparedStatementCache) set(statement string, prepare *PreparedStatement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.statements == nil {
		c.statements = make(map[string]*PreparedStatement)
	}

	c.statements[statement] = prepare
}

// closeAll erases every cached statement from the server, mirroring
// Session.close_prepare, and empties the cache.
func (c *preparedStatementCache) closeAll(session *Session) {
	c.mu.Lock()
	statements := c.statements
	c.statements = nil
	c.mu.Unlock()

	for _, prepare := range statements {
		prepare.close(session)
	}
}
