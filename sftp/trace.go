package sftp

import (
	"time"

	"go.uber.org/zap"
)

// TracingClient wraps a Client and logs every remote round trip at
// debug level: the operation, its target path, the elapsed time, and
// the error if one occurred.
//
// Refs produced through the wrapper are rebound to it, so calls driven
// by the ref itself (Attributes, Parent, Delete, Close) stay traced.
type TracingClient struct {
	inner Client
	log   *zap.Logger

	// self is the value stamped into rebound refs. It is the opener
	// variant when the wrapped client opens handles.
	self Client
}

// NewTracingClient wraps inner with debug logging on log. A nil logger
// falls back to zap.NewNop.
//
// The wrapper mirrors the capabilities of the wrapped client: the
// returned value satisfies Opener exactly when inner does, so
// capability checks by type assertion see through it.
func NewTracingClient(inner Client, log *zap.Logger) Client {
	if log == nil {
		log = zap.NewNop()
	}
	t := &TracingClient{inner: inner, log: log}
	if op, ok := inner.(Opener); ok {
		o := &tracingOpener{TracingClient: t, opener: op}
		t.self = o
		return o
	}
	t.self = t
	return t
}

// Underlying returns the wrapped client.
func (t *TracingClient) Underlying() Client {
	return t.inner
}

func (t *TracingClient) trace(op, path string, start time.Time, err error) {
	t.log.Debug("sftp round trip",
		zap.String("op", op),
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
}

// rebind points a looked-up ref back at the wrapper so its follow-up
// calls are traced too.
func (t *TracingClient) rebind(f *File) *File {
	if f != nil {
		f.client = t.self
	}
	return f
}

// Getwd implements Client.
func (t *TracingClient) Getwd() (string, error) {
	start := time.Now()
	dir, err := t.inner.Getwd()
	t.trace("getwd", dir, start, err)
	return dir, err
}

// Lookup implements Client.
func (t *TracingClient) Lookup(path string) (*File, error) {
	start := time.Now()
	ref, err := t.inner.Lookup(path)
	t.trace("lookup", path, start, err)
	return t.rebind(ref), err
}

// RealPath implements Client.
func (t *TracingClient) RealPath(path string) (string, error) {
	start := time.Now()
	resolved, err := t.inner.RealPath(path)
	t.trace("realpath", path, start, err)
	return resolved, err
}

// Stat implements Client.
func (t *TracingClient) Stat(path string) (FileAttributes, error) {
	start := time.Now()
	attrs, err := t.inner.Stat(path)
	t.trace("stat", path, start, err)
	return attrs, err
}

// Remove implements Client.
func (t *TracingClient) Remove(path string) error {
	start := time.Now()
	err := t.inner.Remove(path)
	t.trace("remove", path, start, err)
	return err
}

// RemoveDirectory implements Client.
func (t *TracingClient) RemoveDirectory(path string) error {
	start := time.Now()
	err := t.inner.RemoveDirectory(path)
	t.trace("rmdir", path, start, err)
	return err
}

// CloseFile implements Client.
func (t *TracingClient) CloseFile(f *File) error {
	start := time.Now()
	err := t.inner.CloseFile(f)
	path := ""
	if f != nil {
		path = f.Path()
	}
	t.trace("close", path, start, err)
	return err
}

// tracingOpener extends the wrapper with the Opener capability for
// wrapped clients that open transfer handles.
type tracingOpener struct {
	*TracingClient
	opener Opener
}

// OpenFile implements Opener.
func (t *tracingOpener) OpenFile(path string) (*File, error) {
	start := time.Now()
	ref, err := t.opener.OpenFile(path)
	t.trace("open", path, start, err)
	return t.rebind(ref), err
}

// Compile-time interface checks.
var (
	_ Client = (*TracingClient)(nil)
	_ Client = (*tracingOpener)(nil)
	_ Opener = (*tracingOpener)(nil)
)
