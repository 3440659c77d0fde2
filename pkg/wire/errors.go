package wire

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/doquedb-oss/doquedb-go/codes"
	dberrors "github.com/doquedb-oss/doquedb-go/errors"
)

// ErrMissingClassID is returned when a read_object call consumes fewer than
// four bytes before the stream ends.
var ErrMissingClassID = errors.New("class id truncated")

// NewMissingClassID decorates ErrMissingClassID with FATAL severity and the
// ConnectionFailure code. The errors package has no dedicated
// connection-ran-out type; callers receive this decorated error as is.
func NewMissingClassID() error {
	return dberrors.WithSeverity(dberrors.WithCode(ErrMissingClassID, codes.ConnectionFailure), dberrors.LevelFatal)
}

// ErrInsufficientData is returned by Reader.ReadBytes when asked for a
// negative length; a stream that ends early surfaces the transport's own
// read error instead.
var ErrInsufficientData = errors.New("insufficient data")

// NewInsufficientData constructs a new error wrapping ErrInsufficientData.
func NewInsufficientData(length int) error {
	err := fmt.Errorf("length: %d %w", length, ErrInsufficientData)
	return dberrors.WithSeverity(dberrors.WithCode(err, codes.ConnectionFailure), dberrors.LevelFatal)
}

// ErrMessageSizeExceeded reports a message larger than an allowed maximum.
// Reader does not enforce a maximum itself and never returns it.
var ErrMessageSizeExceeded = MessageSizeExceeded{Message: "maximum message size exceeded"}

// MessageSizeExceeded carries the offending size alongside the configured
// maximum so callers can log both.
type MessageSizeExceeded struct {
	Message string
	Size    int
	Max     int
}

func (err MessageSizeExceeded) Error() string { return err.Message }

func (err MessageSizeExceeded) Is(target error) bool {
	return reflect.TypeOf(target) == reflect.TypeOf(err)
}

// NewMessageSizeExceeded constructs a new error wrapping MessageSizeExceeded.
func NewMessageSizeExceeded(max, size int) error {
	err := MessageSizeExceeded{
		Message: fmt.Sprintf("message size %d, bigger than maximum allowed message size %d", size, max),
		Size:    size,
		Max:     max,
	}

	return dberrors.WithSeverity(dberrors.WithCode(err, codes.ProgramLimitExceeded), dberrors.LevelError)
}

// UnwrapMessageSizeExceeded reports whether err wraps a MessageSizeExceeded.
func UnwrapMessageSizeExceeded(err error) (result MessageSizeExceeded, _ bool) {
	return result, errors.As(err, &result)
}
