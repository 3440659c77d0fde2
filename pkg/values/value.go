package values

import "github.com/doquedb-oss/doquedb-go/pkg/wire"

// Value is satisfied by every wire-serializable object: scalars, arrays,
// metadata, status codes, and exceptions alike.
type Value interface {
	ClassID() ClassID
	ReadFrom(r *wire.Reader) error
	WriteTo(w *wire.Writer) error
}
