package minio

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/husttom/j2ssh-maverick/sftp"
	"github.com/husttom/j2ssh-maverick/sftp/minio/internal/errs"
	"github.com/husttom/j2ssh-maverick/sftp/minio/internal/pathutil"
)

// MinioClient implements sftp.Client against MinIO/S3-compatible
// storage. Directories are virtual: a path names a directory iff
// objects exist under its prefix, so directory removal deletes the
// prefix and empty directories cannot be observed.
//
// The working directory is fixed at "/" and path canonicalization is
// performed locally; an object store has no server-side resolution
// step.
//
// A MinioClient is safe for concurrent use.
//
//nolint:revive // MinioClient name is intentional to match naming pattern across client implementations
type MinioClient struct {
	client            *minio.Client
	bucket            string
	prefix            string // Optional prefix for all keys
	removeConcurrency int    // Max concurrent deletions for directory removal

	mu      sync.Mutex // guards handles
	handles map[string]string
}

// NewMinIO creates a MinIO-backed client.
// Returns error if configuration is invalid or connection fails.
func NewMinIO(cfg Config) (*MinioClient, error) {
	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var client *minio.Client
	var err error

	// Use provided client or create new one
	if cfg.Client != nil {
		client = cfg.Client
	} else {
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	// Normalize prefix: use forward slashes, trim trailing slash
	prefix := pathutil.NormalizePrefix(cfg.Prefix)

	// Set default remove concurrency if not specified
	removeConcurrency := cfg.RemoveConcurrency
	if removeConcurrency == 0 {
		removeConcurrency = 10
	}

	return &MinioClient{
		client:            client,
		bucket:            cfg.Bucket,
		prefix:            prefix,
		removeConcurrency: removeConcurrency,
		handles:           make(map[string]string),
	}, nil
}

// key maps a canonical absolute path onto the object key under the
// configured prefix.
func (m *MinioClient) key(p string) string {
	return pathutil.KeyFor(m.prefix, p)
}

// Getwd implements sftp.Client. Object stores have no notion of a
// session directory; the working directory is always the root.
func (m *MinioClient) Getwd() (string, error) {
	return "/", nil
}

// RealPath implements sftp.Client. Canonicalization is local: the
// store has no resolution round trip, and symbolic links do not exist,
// so cleaning the path is exact rather than an approximation.
func (m *MinioClient) RealPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/", nil
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p), nil
}

// Stat implements sftp.Client. Attributes are synthesized from object
// metadata: objects report as regular files with mode 0644, prefixes
// with content report as directories with mode 0755.
func (m *MinioClient) Stat(p string) (sftp.FileAttributes, error) {
	abs, err := m.RealPath(p)
	if err != nil {
		return sftp.FileAttributes{}, err
	}
	if abs == "/" {
		return directoryAttributes(), nil
	}

	ctx := context.Background()
	key := m.key(abs)

	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return sftp.FileAttributes{
			Size:        info.Size,
			Permissions: sftp.TypeRegular | 0o644,
			AccessTime:  info.LastModified,
			ModTime:     info.LastModified,
		}, nil
	}

	translated := errs.Translate(abs, err)
	if !sftp.IsStatus(translated, sftp.StatusNoSuchFile) {
		return sftp.FileAttributes{}, translated
	}

	// No object at the key; the path is a directory iff objects exist
	// under its prefix.
	isDir, err := m.prefixExists(ctx, abs, key)
	if err != nil {
		return sftp.FileAttributes{}, err
	}
	if isDir {
		return directoryAttributes(), nil
	}
	return sftp.FileAttributes{}, translated
}

// Lookup implements sftp.Client.
func (m *MinioClient) Lookup(p string) (*sftp.File, error) {
	abs, err := m.RealPath(p)
	if err != nil {
		return nil, err
	}
	attrs, err := m.Stat(abs)
	if err != nil {
		return nil, err
	}
	return sftp.NewFile(m, abs, sftp.WithAttributes(attrs)), nil
}

// Remove implements sftp.Client. Removing a missing object succeeds;
// S3 deletion is idempotent. The root is refused as a directory.
func (m *MinioClient) Remove(p string) error {
	abs, err := m.RealPath(p)
	if err != nil {
		return err
	}
	if abs == "/" {
		return &sftp.StatusError{
			Status: sftp.StatusFileIsADirectory,
			Path:   abs,
			Msg:    "cannot remove a directory",
		}
	}

	ctx := context.Background()
	if err := m.client.RemoveObject(ctx, m.bucket, m.key(abs), minio.RemoveObjectOptions{}); err != nil {
		return errs.Translate(abs, err)
	}
	return nil
}

// RemoveDirectory implements sftp.Client. The whole prefix is deleted
// with a bounded worker pool; directories are virtual, so emptiness is
// not checked. The root cannot be removed.
func (m *MinioClient) RemoveDirectory(p string) error {
	abs, err := m.RealPath(p)
	if err != nil {
		return err
	}
	if abs == "/" {
		return &sftp.StatusError{
			Status: sftp.StatusPermissionDenied,
			Path:   abs,
			Msg:    "cannot remove the root directory",
		}
	}
	key := m.key(abs)

	prefix := key
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.removeConcurrency)

	var listErr error
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			listErr = object.Err
			break
		}

		objectKey := object.Key
		eg.Go(func() error {
			if err := m.client.RemoveObject(egCtx, m.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
				return fmt.Errorf("remove object %s: %w", objectKey, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return errs.Translate(abs, err)
	}
	if listErr != nil {
		return errs.Translate(abs, listErr)
	}

	// Remove a directory marker object if one exists at the bare key.
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errs.Translate(abs, err)
	}
	return nil
}

// OpenFile implements sftp.Opener. The issued handle is an opaque
// token; the byte-level transfer path is not part of this client.
func (m *MinioClient) OpenFile(p string) (*sftp.File, error) {
	abs, err := m.RealPath(p)
	if err != nil {
		return nil, err
	}
	attrs, err := m.Stat(abs)
	if err != nil {
		return nil, err
	}
	if attrs.IsDirectory() {
		return nil, &sftp.StatusError{
			Status: sftp.StatusFileIsADirectory,
			Path:   abs,
			Msg:    "cannot open a directory for transfer",
		}
	}

	id := uuid.New()
	handle := id[:]
	m.mu.Lock()
	m.handles[string(handle)] = abs
	m.mu.Unlock()

	ref := sftp.NewFile(m, abs, sftp.WithAttributes(attrs))
	ref.SetHandle(handle)
	return ref, nil
}

// CloseFile implements sftp.Client.
func (m *MinioClient) CloseFile(f *sftp.File) error {
	handle := f.Handle()
	if handle == nil {
		return nil
	}

	m.mu.Lock()
	_, ok := m.handles[string(handle)]
	if ok {
		delete(m.handles, string(handle))
	}
	m.mu.Unlock()

	if !ok {
		return &sftp.StatusError{
			Status: sftp.StatusInvalidHandle,
			Path:   f.Path(),
			Msg:    "handle not issued by this client",
		}
	}
	f.SetHandle(nil)
	return nil
}

// prefixExists reports whether any object exists under the directory
// prefix for key.
func (m *MinioClient) prefixExists(ctx context.Context, abs, key string) (bool, error) {
	prefix := key
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := m.client.ListObjects(listCtx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
		MaxKeys:   1, // We only need to know if ANY object exists
	})

	firstObject, ok := <-objectsCh
	if !ok {
		return false, nil
	}
	if firstObject.Err != nil {
		return false, errs.Translate(abs, firstObject.Err)
	}
	return true, nil
}

func directoryAttributes() sftp.FileAttributes {
	return sftp.FileAttributes{Permissions: sftp.TypeDirectory | 0o755}
}

// Compile-time interface checks.
var (
	_ sftp.Client = (*MinioClient)(nil)
	_ sftp.Opener = (*MinioClient)(nil)
)
