package vfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"syscall"
)

// Kind is the taxonomy of I/O failure kinds a backend can report. It is
// deliberately a closed set: backends are expected to map their native
// errors onto one of these on ingress rather than invent new kinds, so
// callers can dispatch on Kind alone.
type Kind int

// The error kinds, grouped as in spec §7.
const (
	KindOther Kind = iota
	KindNotFound
	KindExists
	KindIsDirectory
	KindNotDirectory
	KindNotEmpty
	KindRegular
	KindSymbolicLink
	KindPending
	KindClosed
	KindCancelled
	KindNotSupported
	KindPermissionDenied
	KindInvalidArg
	KindFailed

	// network family
	KindProxyFailed
	KindProxyAuthFailed
	KindProxyNeedAuth
	KindProxyNotAllowed
	KindBrokenPipe
	KindConnectionClosed
	KindConnectionRefused
	KindHostUnreachable
	KindNetworkUnreachable
	KindConnectionTimedOut
	KindAddressInUse

	// data family
	KindPartialInput
	KindInvalidData
	KindUnexpectedEOF

	// timing
	KindTimedOut
	KindWouldBlock
	KindWriteZero
	KindInterrupted

	KindOutOfMemory
)

// String renders a Kind using its symbolic name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Other"
}

var kindNames = map[Kind]string{
	KindOther:              "Other",
	KindNotFound:           "NotFound",
	KindExists:             "Exists",
	KindIsDirectory:        "IsDirectory",
	KindNotDirectory:       "NotDirectory",
	KindNotEmpty:           "NotEmpty",
	KindRegular:            "Regular",
	KindSymbolicLink:       "SymbolicLink",
	KindPending:            "Pending",
	KindClosed:             "Closed",
	KindCancelled:          "Cancelled",
	KindNotSupported:       "NotSupported",
	KindPermissionDenied:   "PermissionDenied",
	KindInvalidArg:         "InvalidArg",
	KindFailed:             "Failed",
	KindProxyFailed:        "ProxyFailed",
	KindProxyAuthFailed:    "ProxyAuthFailed",
	KindProxyNeedAuth:      "ProxyNeedAuth",
	KindProxyNotAllowed:    "ProxyNotAllowed",
	KindBrokenPipe:         "BrokenPipe",
	KindConnectionClosed:   "ConnectionClosed",
	KindConnectionRefused:  "ConnectionRefused",
	KindHostUnreachable:    "HostUnreachable",
	KindNetworkUnreachable: "NetworkUnreachable",
	KindConnectionTimedOut: "ConnectionTimedOut",
	KindAddressInUse:       "AddressInUse",
	KindPartialInput:       "PartialInput",
	KindInvalidData:        "InvalidData",
	KindUnexpectedEOF:      "UnexpectedEof",
	KindTimedOut:           "TimedOut",
	KindWouldBlock:         "WouldBlock",
	KindWriteZero:          "WriteZero",
	KindInterrupted:        "Interrupted",
	KindOutOfMemory:        "OutOfMemory",
}

// Error is the error type every backend and core operation returns. It
// carries a Kind, a human message and an optional chained cause,
// following the teacher's fs/fserrors Cause()-chasing idiom.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// NewError builds an Error with no chained cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error with a chained cause. If cause is nil, Wrap
// returns nil (mirrors errors.Wrap's nil-passthrough behavior).
func Wrap(kind Kind, cause error, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the chained cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Cause returns the chained cause, mirroring the teacher's fserrors
// Cause() accessor used by withMessage-style wrappers.
func (e *Error) Cause() error { return e.cause }

// Is reports whether the first *Error in err's chain carries the given
// Kind; any *Error further down the chain is not consulted.
func Is(err error, kind Kind) bool {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to KindOther if err
// isn't (or doesn't wrap) a *Error.
func KindOf(err error) Kind {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return KindOther
}

// Sentinel errors for the handful of conditions callers commonly test
// for directly, grounded on the teacher's fs.ErrorObjectNotFound /
// fs.ErrorDirNotFound / fs.ErrorIsDir style sentinels.
var (
	ErrNotFound     = NewError(KindNotFound, "not found")
	ErrExists       = NewError(KindExists, "already exists")
	ErrIsDirectory  = NewError(KindIsDirectory, "is a directory")
	ErrNotDirectory = NewError(KindNotDirectory, "not a directory")
	ErrNotEmpty     = NewError(KindNotEmpty, "directory not empty")
	ErrClosed       = NewError(KindClosed, "closed")
	ErrCancelled    = NewError(KindCancelled, "operation cancelled")
	ErrNotSupported = NewError(KindNotSupported, "not supported")
)

// FromOS maps a native OS error onto the Kind taxonomy. It is the single
// ingress point backends should use so that the core never has to
// translate further (spec §7's "backends surface their kind" policy).
func FromOS(err error, message string) *Error {
	if err == nil {
		return nil
	}
	if verr, ok := err.(*Error); ok {
		return verr
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		return Wrap(KindNotFound, err, message)
	case errors.Is(err, os.ErrExist):
		return Wrap(KindExists, err, message)
	case errors.Is(err, os.ErrPermission):
		return Wrap(KindPermissionDenied, err, message)
	case errors.Is(err, os.ErrClosed):
		return Wrap(KindClosed, err, message)
	case errors.Is(err, io.EOF):
		return Wrap(KindUnexpectedEOF, err, message)
	case errors.Is(err, io.ErrClosedPipe):
		return Wrap(KindBrokenPipe, err, message)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return Wrap(kindOfErrno(pathErr.Err), err, message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return Wrap(KindConnectionTimedOut, err, message)
		}
		return Wrap(KindFailed, err, message)
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return Wrap(kindOfErrno(errno), err, message)
	}

	return Wrap(KindFailed, err, message)
}

func kindOfErrno(err error) Kind {
	errno, ok := err.(syscall.Errno)
	if !ok {
		return KindFailed
	}
	switch errno {
	case syscall.ENOENT:
		return KindNotFound
	case syscall.EEXIST:
		return KindExists
	case syscall.EISDIR:
		return KindIsDirectory
	case syscall.ENOTDIR:
		return KindNotDirectory
	case syscall.ENOTEMPTY:
		return KindNotEmpty
	case syscall.EACCES, syscall.EPERM:
		return KindPermissionDenied
	case syscall.EINVAL:
		return KindInvalidArg
	case syscall.ENOTSUP:
		return KindNotSupported
	case syscall.EPIPE:
		return KindBrokenPipe
	case syscall.ECONNREFUSED:
		return KindConnectionRefused
	case syscall.ETIMEDOUT:
		return KindTimedOut
	case syscall.EWOULDBLOCK:
		return KindWouldBlock
	case syscall.EINTR:
		return KindInterrupted
	case syscall.EADDRINUSE:
		return KindAddressInUse
	case syscall.ENOMEM:
		return KindOutOfMemory
	case syscall.EXDEV:
		return KindNotSupported
	default:
		return KindFailed
	}
}
