package sftp

import (
	"bytes"
	"strings"

	"github.com/zeebo/xxh3"
)

// File is a reference to a single file or directory on the remote
// server. It carries the normalized absolute path, the filename
// derived from it, optionally cached attributes, and an optional open
// transfer handle.
//
// A File holds a non-owning back-reference to the Client that produced
// it; closing or discarding a File never tears down the client, and
// discarding an open File does not release its server-side handle.
// Only Close does.
type File struct {
	client       Client
	absolutePath string
	filename     string
	longname     string
	attrs        FileAttributes
	attrsLoaded  bool
	handle       []byte
}

// FileOption configures a File during construction.
type FileOption func(*File)

// WithAttributes pre-populates the ref's attributes, e.g. from a
// directory listing. The lazy fetch is skipped for a ref constructed
// this way.
func WithAttributes(attrs FileAttributes) FileOption {
	return func(f *File) {
		f.attrs = attrs
		f.attrsLoaded = true
	}
}

// WithLongname attaches the server-formatted listing line for the ref,
// as carried by directory listings.
func WithLongname(longname string) FileOption {
	return func(f *File) {
		f.longname = longname
	}
}

// NewFile builds a ref for path bound to client. The client may be nil,
// leaving a detached ref usable only for path and string queries; any
// operation needing the server then fails with ErrNotConnected.
//
// The path is normalized once, here: surrounding whitespace is
// trimmed and a single trailing "/" is dropped, except for the root
// path "/" which is kept verbatim. The path is not validated; an empty
// string degenerates to a ref with an empty name.
func NewFile(client Client, path string, opts ...FileOption) *File {
	f := &File{client: client}
	f.setPath(path)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// setPath normalizes path and derives the filename from it. The
// filename is fixed from this point on; it is never recomputed.
func (f *File) setPath(path string) {
	if path == "/" {
		f.absolutePath = "/"
		f.filename = "/"
		return
	}

	path = strings.TrimSpace(path)
	path = strings.TrimSuffix(path, "/")

	if i := strings.LastIndex(path, "/"); i > -1 {
		f.filename = path[i+1:]
	} else {
		// A bare name with no directory component.
		f.filename = path
	}
	f.absolutePath = path
}

// Name returns the last segment of the path, or "/" for the root.
func (f *File) Name() string {
	return f.filename
}

// Path returns the normalized absolute path.
func (f *File) Path() string {
	return f.absolutePath
}

// String returns the normalized absolute path.
func (f *File) String() string {
	return f.absolutePath
}

// Longname returns the server-formatted listing line for the ref, or
// "" when the ref was not produced by a directory listing.
func (f *File) Longname() string {
	return f.longname
}

// Client returns the client the ref is bound to, or nil for a detached
// ref.
func (f *File) Client() Client {
	return f.client
}

// Handle returns a copy of the open transfer handle, or nil when the
// ref is not open.
func (f *File) Handle() []byte {
	if f.handle == nil {
		return nil
	}
	return bytes.Clone(f.handle)
}

// SetHandle records the open transfer handle issued by the server. A
// nil handle marks the ref closed. Client implementations call this
// from their open and close operations; application code normally has
// no reason to.
func (f *File) SetHandle(handle []byte) {
	if handle == nil {
		f.handle = nil
		return
	}
	f.handle = bytes.Clone(handle)
}

// IsOpen reports whether the ref is bound to a client and holds an
// open transfer handle.
func (f *File) IsOpen() bool {
	return f.client != nil && f.handle != nil
}

// HasAttributes reports whether attributes are cached on the ref,
// either supplied at construction or loaded by a previous fetch.
func (f *File) HasAttributes() bool {
	return f.attrsLoaded
}

// Attributes returns the ref's attributes, fetching them from the
// server on first use. The result is cached: at most one fetch happens
// per ref, and the cache is never refreshed. Callers needing fresh
// metadata must resolve a new ref.
func (f *File) Attributes() (FileAttributes, error) {
	if f.attrsLoaded {
		return f.attrs, nil
	}
	if f.client == nil {
		return FileAttributes{}, ErrNotConnected
	}

	attrs, err := f.client.Stat(f.absolutePath)
	if err != nil {
		return FileAttributes{}, err
	}
	f.attrs = attrs
	f.attrsLoaded = true
	return f.attrs, nil
}

// Parent resolves the ref's parent directory. The parent of the root
// is (nil, nil). A bare relative name resolves against the client's
// default directory; every other path is canonicalized by the server
// before its parent is taken, so "." and ".." segments are resolved
// with server semantics rather than local string surgery.
func (f *File) Parent() (*File, error) {
	if f.client == nil {
		return nil, ErrNotConnected
	}

	// A bare name has no directory component; its parent is the
	// client's default directory, looked up fresh.
	if !strings.Contains(f.absolutePath, "/") {
		dir, err := f.client.Getwd()
		if err != nil {
			return nil, err
		}
		return f.client.Lookup(dir)
	}

	path, err := f.client.RealPath(f.absolutePath)
	if err != nil {
		return nil, err
	}

	if path == "/" {
		return nil, nil
	}

	// A literal dot entry must be re-resolved under its canonical path
	// before a parent can be taken.
	if f.filename == "." || f.filename == ".." {
		ref, err := f.client.Lookup(path)
		if err != nil {
			return nil, err
		}
		return ref.Parent()
	}

	idx := strings.LastIndex(path, "/")
	parent := path[:idx]
	if parent == "" {
		parent = "/"
	}
	return f.client.Lookup(parent)
}

// Equal reports whether other denotes the same remote object. Paths
// must match exactly; when both refs hold open handles the handle
// bytes must match as well. A ref with an open handle is never equal
// to one without, even on the same path: handle presence is part of
// the identity.
func (f *File) Equal(other *File) bool {
	if other == nil {
		return false
	}

	match := f.absolutePath == other.absolutePath
	if f.handle == nil && other.handle == nil {
		return match
	}
	if f.handle == nil || other.handle == nil {
		return false
	}
	return match && bytes.Equal(f.handle, other.handle)
}

// Hash returns a hash of the absolute path. The handle is deliberately
// excluded so that an open and a closed ref to the same path land in
// the same bucket.
func (f *File) Hash() uint64 {
	return xxh3.HashString(f.absolutePath)
}

// IsDirectory reports whether the ref denotes a directory. A symbolic
// link pointing at a directory reports false.
func (f *File) IsDirectory() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.IsDirectory(), nil
}

// IsFile reports whether the ref denotes a regular file.
func (f *File) IsFile() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.IsFile(), nil
}

// IsLink reports whether the ref denotes a symbolic link.
func (f *File) IsLink() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.IsLink(), nil
}

// IsFIFO reports whether the ref denotes a named pipe.
func (f *File) IsFIFO() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Permissions.IsFIFO(), nil
}

// IsBlockDevice reports whether the ref denotes a block device.
func (f *File) IsBlockDevice() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Permissions.IsBlockDevice(), nil
}

// IsCharDevice reports whether the ref denotes a character device.
func (f *File) IsCharDevice() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Permissions.IsCharDevice(), nil
}

// IsSocket reports whether the ref denotes a socket.
func (f *File) IsSocket() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Permissions.IsSocket(), nil
}

// CanRead reports whether any of the owner, group, or other read bits
// is set in the ref's permissions.
func (f *File) CanRead() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Permissions.CanRead(), nil
}

// CanWrite reports whether any of the owner, group, or other write
// bits is set in the ref's permissions.
func (f *File) CanWrite() (bool, error) {
	attrs, err := f.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Permissions.CanWrite(), nil
}

// Delete removes the object from the server, dispatching to the
// client's directory or file removal based on the ref's type.
func (f *File) Delete() error {
	if f.client == nil {
		return ErrNotConnected
	}

	dir, err := f.IsDirectory()
	if err != nil {
		return err
	}
	if dir {
		return f.client.RemoveDirectory(f.absolutePath)
	}
	return f.client.Remove(f.absolutePath)
}

// Close releases the ref's open handle through the client, which
// clears the handle on success. Closing a ref that was never opened
// succeeds.
func (f *File) Close() error {
	if f.client == nil {
		return ErrNotConnected
	}
	return f.client.CloseFile(f)
}
