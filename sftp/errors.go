package sftp

import (
	"errors"
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"
)

// Status is a protocol status code reported by the remote server in
// response to a failed operation. The values follow the SFTP status
// code assignments; codes 0-8 are universal, the rest are reported by
// servers speaking later protocol versions.
type Status uint32

const (
	StatusOK Status = iota
	StatusEOF
	StatusNoSuchFile
	StatusPermissionDenied
	StatusFailure
	StatusBadMessage
	StatusNoConnection
	StatusConnectionLost
	StatusOpUnsupported
	StatusInvalidHandle
	StatusNoSuchPath
	StatusFileAlreadyExists
	StatusWriteProtect
	StatusNoMedia
	StatusNoSpaceOnFilesystem
	StatusQuotaExceeded
	StatusUnknownPrincipal
	StatusLockConflict
	StatusDirNotEmpty
	StatusNotADirectory
	StatusInvalidFilename
	StatusLinkLoop
	StatusCannotDelete
	StatusInvalidParameter
	StatusFileIsADirectory
	StatusByteRangeLockConflict
	StatusByteRangeLockRefused
	StatusDeletePending
	StatusFileCorrupt
	StatusOwnerInvalid
	StatusGroupInvalid
	StatusNoMatchingByteRangeLock
)

var statusText = map[Status]string{
	StatusOK:                      "ok",
	StatusEOF:                     "end of file",
	StatusNoSuchFile:              "no such file",
	StatusPermissionDenied:        "permission denied",
	StatusFailure:                 "failure",
	StatusBadMessage:              "bad message",
	StatusNoConnection:            "no connection",
	StatusConnectionLost:          "connection lost",
	StatusOpUnsupported:           "operation unsupported",
	StatusInvalidHandle:           "invalid handle",
	StatusNoSuchPath:              "no such path",
	StatusFileAlreadyExists:       "file already exists",
	StatusWriteProtect:            "write protect",
	StatusNoMedia:                 "no media",
	StatusNoSpaceOnFilesystem:     "no space on filesystem",
	StatusQuotaExceeded:           "quota exceeded",
	StatusUnknownPrincipal:        "unknown principal",
	StatusLockConflict:            "lock conflict",
	StatusDirNotEmpty:             "directory not empty",
	StatusNotADirectory:           "not a directory",
	StatusInvalidFilename:         "invalid filename",
	StatusLinkLoop:                "link loop",
	StatusCannotDelete:            "cannot delete",
	StatusInvalidParameter:        "invalid parameter",
	StatusFileIsADirectory:        "file is a directory",
	StatusByteRangeLockConflict:   "byte range lock conflict",
	StatusByteRangeLockRefused:    "byte range lock refused",
	StatusDeletePending:           "delete pending",
	StatusFileCorrupt:             "file corrupt",
	StatusOwnerInvalid:            "owner invalid",
	StatusGroupInvalid:            "group invalid",
	StatusNoMatchingByteRangeLock: "no matching byte range lock",
}

// String returns a short description of the status code.
func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("status %d", uint32(s))
}

// StatusError is a remote failure: the server processed a request and
// answered with a non-OK status.
type StatusError struct {
	// Status is the code the server reported.
	Status Status

	// Path is the path the failing operation targeted, when known.
	Path string

	// Msg is the server-supplied message, when present.
	Msg string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	text := e.Status.String()
	if e.Msg != "" && e.Msg != text {
		text = fmt.Sprintf("%s: %s", text, e.Msg)
	}
	if e.Path != "" {
		return fmt.Sprintf("sftp: %s (%s)", text, e.Path)
	}
	return "sftp: " + text
}

// IsStatus reports whether err (or any error it wraps) is a
// StatusError carrying the given status code.
func IsStatus(err error, status Status) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// ErrNotConnected is returned when an operation needs a bound client
// but the ref was constructed without one. It is a usage fault in the
// calling code, never a remote failure, and nothing is sent on the
// wire before it is reported.
var ErrNotConnected = platformerrors.New(
	platformerrors.CodeInvalidInput,
	"file reference is not attached to a client",
)

// Classify maps a status error onto the shared structured error codes,
// preserving the original error chain for errors.Is and errors.As.
// Errors that are not status errors, and status codes with no defined
// mapping, pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}

	switch se.Status {
	case StatusNoSuchFile, StatusNoSuchPath:
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, "remote object not found")
	case StatusPermissionDenied, StatusWriteProtect:
		return platformerrors.Wrap(err, platformerrors.CodeForbidden, "remote server denied access")
	case StatusFileAlreadyExists:
		return platformerrors.Wrap(err, platformerrors.CodeAlreadyExists, "remote object already exists")
	case StatusNoConnection, StatusConnectionLost:
		return platformerrors.Wrap(err, platformerrors.CodeNetwork, "connection to remote server failed")
	case StatusOpUnsupported:
		return platformerrors.Wrap(err, platformerrors.CodeNotImplemented, "remote server does not support the operation")
	case StatusInvalidHandle, StatusInvalidFilename, StatusInvalidParameter:
		return platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "remote server rejected the request")
	case StatusDirNotEmpty, StatusNotADirectory, StatusFileIsADirectory,
		StatusLockConflict, StatusDeletePending, StatusCannotDelete:
		return platformerrors.Wrap(err, platformerrors.CodeConflict, "remote object state conflicts with the operation")
	case StatusNoSpaceOnFilesystem, StatusQuotaExceeded, StatusNoMedia:
		return platformerrors.Wrap(err, platformerrors.CodeUnavailable, "remote storage unavailable")
	default:
		return err
	}
}
