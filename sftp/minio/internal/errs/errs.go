// Package errs translates object-store errors into the status error
// taxonomy.
package errs

import (
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/minio/minio-go/v7"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// Translate converts a MinIO error into the error taxonomy the client
// contract promises: S3 API failures become status errors, transport
// failures are wrapped as retryable network errors.
func Translate(path string, err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)

	switch errResp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return &sftp.StatusError{Status: sftp.StatusNoSuchFile, Path: path}
	case "AccessDenied":
		return &sftp.StatusError{Status: sftp.StatusPermissionDenied, Path: path}
	}

	// Any other S3 response code is a server-side failure.
	if errResp.Code != "" {
		return &sftp.StatusError{
			Status: sftp.StatusFailure,
			Path:   path,
			Msg:    errResp.Code,
		}
	}

	return platformerrors.Wrap(err, platformerrors.CodeNetwork, "object store request failed")
}
