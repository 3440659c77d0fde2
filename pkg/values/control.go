package values

import (
	"github.com/doquedb-oss/doquedb-go/errors"
	"github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// StatusCode is the narrow, wire-serializable status carried by a Status
// value, mirroring the original's Status.status_map. This is distinct from
// the broader client-side result-set state machine (see RowStatus in the
// root package's resultset.go), which additionally tracks DATA/META_DATA/
// END_OF_DATA/UNDEFINED states that never appear as a Status payload.
type StatusCode int32

const (
	StatusSuccess     StatusCode = 0
	StatusError       StatusCode = 1
	StatusCanceled    StatusCode = 2
	StatusHasMoreData StatusCode = 3
	StatusUndefined   StatusCode = -1
)

// Status wraps a StatusCode as a wire Value.
type Status struct {
	Code StatusCode
}

func NewStatus(code StatusCode) *Status { return &Status{Code: code} }

func (s *Status) ClassID() ClassID { return ClassStatus }

func (s *Status) ReadFrom(r *wire.Reader) error {
	v, err := r.ReadInt32()
	if err != nil {
		return err
	}

	s.Code = StatusCode(v)
	return nil
}

func (s *Status) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(s.Code))
	return w.Error()
}

// ErrorLevelCode distinguishes a user-correctable error from a system
// failure, mirroring the original's ErrorLevel constants.
type ErrorLevelCode int32

const (
	ErrorLevelUser      ErrorLevelCode = 1
	ErrorLevelSystem    ErrorLevelCode = 2
	ErrorLevelUndefined ErrorLevelCode = -1
)

// ErrorLevel precedes an ExceptionData payload on the wire and determines
// whether the Port that produced it may be returned to the pool.
type ErrorLevel struct {
	Code ErrorLevelCode
}

func (l *ErrorLevel) ClassID() ClassID { return ClassErrorLevel }

// IsUserLevel reports whether the error originated from user input rather
// than a server-side fault, mirroring ErrorLevel.is_userlevel.
func (l *ErrorLevel) IsUserLevel() bool { return l.Code == ErrorLevelUser }

func (l *ErrorLevel) ReadFrom(r *wire.Reader) error {
	v, err := r.ReadInt32()
	if err != nil {
		return err
	}

	l.Code = ErrorLevelCode(v)
	return nil
}

func (l *ErrorLevel) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(l.Code))
	return w.Error()
}

// ExceptionData is the payload that follows an ErrorLevel when the server
// reports a failure: an errno, its format arguments, and the source
// location that raised it. It mirrors the original's ExceptionData. The
// client itself never constructs and sends one, but WriteTo still needs to
// round-trip symmetrically with ReadFrom: a mock server standing in for the
// real one writes ExceptionData to simulate a server-reported failure.
type ExceptionData struct {
	ErrNo      int32
	Args       []string
	ModuleName string
	FileName   string
	LineNumber int32
}

func (e *ExceptionData) ClassID() ClassID { return ClassExceptionData }

// ErrorMessage formats this exception's human-readable message, mirroring
// ExceptionData.error_message.
func (e *ExceptionData) ErrorMessage() string {
	return errors.MakeErrorMessage(e.ErrNo, e.Args)
}

func (e *ExceptionData) ReadFrom(r *wire.Reader) error {
	errno, err := r.ReadInt32()
	if err != nil {
		return err
	}

	argc, err := r.ReadInt32()
	if err != nil {
		return err
	}

	args := make([]string, argc)
	for i := range args {
		s, err := readUTF16String(r)
		if err != nil {
			return err
		}

		args[i] = s
	}

	moduleName, err := readUTF16String(r)
	if err != nil {
		return err
	}

	fileName, err := readUTF16String(r)
	if err != nil {
		return err
	}

	lineNumber, err := r.ReadInt32()
	if err != nil {
		return err
	}

	e.ErrNo = errno
	e.Args = args
	e.ModuleName = moduleName
	e.FileName = fileName
	e.LineNumber = lineNumber
	return nil
}

func (e *ExceptionData) WriteTo(w *wire.Writer) error {
	w.WriteInt32(e.ErrNo)
	w.WriteInt32(int32(len(e.Args)))
	for _, arg := range e.Args {
		writeUTF16String(w, arg)
	}

	writeUTF16String(w, e.ModuleName)
	writeUTF16String(w, e.FileName)
	w.WriteInt32(e.LineNumber)
	return w.Error()
}

// Request identifies the operation a BEGIN_WORKER-style message is asking
// the server to perform, mirroring the original's Request.request_map.
type Request int32

const (
	RequestBeginConnection         Request = 1
	RequestEndConnection           Request = 2
	RequestBeginSession            Request = 3
	RequestEndSession              Request = 4
	RequestBeginWorker             Request = 5
	RequestCancelWorker            Request = 6
	RequestShutdown                Request = 7
	RequestExecuteStatement        Request = 8
	RequestPrepareStatement        Request = 9
	RequestExecutePrepareStatement Request = 10
	RequestErasePrepareStatement   Request = 11
	RequestReuseConnection         Request = 12
	RequestNoReuseConnection       Request = 13
	RequestCheckAvailability       Request = 14
	RequestPrepareStatement2       Request = 15
	RequestErasePrepareStatement2  Request = 16
	RequestBeginSession2           Request = 17
	RequestEndSession2             Request = 18
	RequestCreateUser              Request = 19
	RequestDropUser                Request = 20
	RequestChangeOwnPassword       Request = 21
	RequestChangePassword          Request = 22
	RequestShutdown2               Request = 23
	RequestSync                    Request = 101
	RequestQueryProductVersion     Request = 201
	RequestUndefined                Request = -1
)

// AvailabilityTarget identifies what CHECK_AVAILABILITY should check.
type AvailabilityTarget int32

const (
	AvailabilityTargetServer   AvailabilityTarget = 0
	AvailabilityTargetDatabase AvailabilityTarget = 1
)

func (req *Request) ClassID() ClassID { return ClassRequest }

func (req *Request) ReadFrom(r *wire.Reader) error {
	v, err := r.ReadInt32()
	if err != nil {
		return err
	}

	*req = Request(v)
	return nil
}

func (req *Request) WriteTo(w *wire.Writer) error {
	w.WriteInt32(int32(*req))
	return w.Error()
}
