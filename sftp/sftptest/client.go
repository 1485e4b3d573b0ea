// Package sftptest provides an in-memory fake of the sftp.Client
// contract plus a conformance suite for validating client
// implementations.
//
// The fake keeps its file tree in a go-billy memfs, so tests can seed
// and inspect remote state without a server:
//
//	client, err := sftptest.New(sftptest.Config{})
//	client.MustWriteFile("/data/report.csv", []byte("..."))
//
//	ref, err := client.Lookup("/data/report.csv")
//
// Implementation packages run the conformance suite with TestClient or
// TestClientWithConfig.
package sftptest

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// DefaultWorkingDirectory is the working directory reported by Getwd
// when Config leaves it unset.
const DefaultWorkingDirectory = "/home/user"

// Config holds fake client configuration.
type Config struct {
	// WorkingDirectory is the default directory reported by Getwd.
	// It must be absolute and is created when the client is built.
	// Defaults to DefaultWorkingDirectory.
	WorkingDirectory string
}

// Client is an in-memory sftp.Client backed by a billy memfs tree. It
// implements the server side of the contract faithfully enough for
// unit tests: canonical path resolution, status errors for missing and
// mistyped targets, and opaque transfer handles.
//
// A Client is not safe for concurrent use.
type Client struct {
	fs      billy.Filesystem
	wd      string
	handles map[string]string
}

// New builds an empty fake client. The working directory is created up
// front so bare-name parent resolution works immediately.
func New(cfg Config) (*Client, error) {
	wd := cfg.WorkingDirectory
	if wd == "" {
		wd = DefaultWorkingDirectory
	}
	if !strings.HasPrefix(wd, "/") {
		return nil, fmt.Errorf("working directory must be absolute: %q", wd)
	}
	wd = path.Clean(wd)

	memoryFS := memfs.New()
	if wd != "/" {
		if err := memoryFS.MkdirAll(wd, 0o755); err != nil {
			return nil, fmt.Errorf("create working directory: %w", err)
		}
	}

	return &Client{
		fs:      memoryFS,
		wd:      wd,
		handles: make(map[string]string),
	}, nil
}

// Underlying returns the backing billy filesystem for direct seeding
// and inspection.
func (c *Client) Underlying() billy.Filesystem {
	return c.fs
}

// MustWriteFile seeds a file at path with mode 0644, panicking on
// failure. Parent directories are created as needed.
func (c *Client) MustWriteFile(path string, data []byte) {
	if err := util.WriteFile(c.fs, c.abs(path), data, 0o644); err != nil {
		panic(fmt.Sprintf("sftptest: seed %s: %v", path, err))
	}
}

// MustMkdirAll seeds a directory tree at path with mode 0755,
// panicking on failure.
func (c *Client) MustMkdirAll(path string) {
	if err := c.fs.MkdirAll(c.abs(path), 0o755); err != nil {
		panic(fmt.Sprintf("sftptest: seed %s: %v", path, err))
	}
}

// MustSymlink seeds a symbolic link at link pointing to target,
// panicking on failure.
func (c *Client) MustSymlink(target, link string) {
	if err := c.fs.Symlink(target, c.abs(link)); err != nil {
		panic(fmt.Sprintf("sftptest: seed %s: %v", link, err))
	}
}

// OpenHandles returns the number of transfer handles currently open.
func (c *Client) OpenHandles() int {
	return len(c.handles)
}

// abs resolves p the way RealPath does. RealPath on the fake cannot
// fail, so the error is discarded.
func (c *Client) abs(p string) string {
	resolved, _ := c.RealPath(p)
	return resolved
}

// Getwd implements sftp.Client.
func (c *Client) Getwd() (string, error) {
	return c.wd, nil
}

// RealPath implements sftp.Client. The fake is its own server, so
// canonicalization is pure path math: relative paths resolve under the
// working directory and "." and ".." segments collapse. An empty path
// resolves to the working directory.
func (c *Client) RealPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return c.wd, nil
	}
	if !strings.HasPrefix(p, "/") {
		p = c.wd + "/" + p
	}
	return path.Clean(p), nil
}

// Stat implements sftp.Client. Symbolic links are reported as links
// rather than followed, matching directory-listing attribute
// semantics. The root directory is synthesized; memfs does not store
// an entry for it.
func (c *Client) Stat(p string) (sftp.FileAttributes, error) {
	abs := c.abs(p)
	if abs == "/" {
		return sftp.FileAttributes{Permissions: sftp.TypeDirectory | 0o755}, nil
	}

	info, err := c.fs.Lstat(abs)
	if err != nil {
		return sftp.FileAttributes{}, translate(abs, err)
	}
	return fileAttributes(info), nil
}

// Lookup implements sftp.Client. The returned ref is bound to the
// fake with attributes pre-populated and a rendered listing line
// attached.
func (c *Client) Lookup(p string) (*sftp.File, error) {
	abs := c.abs(p)
	attrs, err := c.Stat(abs)
	if err != nil {
		return nil, err
	}
	return sftp.NewFile(c, abs,
		sftp.WithAttributes(attrs),
		sftp.WithLongname(formatLongname(path.Base(abs), attrs)),
	), nil
}

// Remove implements sftp.Client. Directories are rejected with a
// file-is-a-directory status.
func (c *Client) Remove(p string) error {
	abs := c.abs(p)
	info, err := c.fs.Lstat(abs)
	if err != nil {
		return translate(abs, err)
	}
	if info.IsDir() {
		return &sftp.StatusError{
			Status: sftp.StatusFileIsADirectory,
			Path:   abs,
			Msg:    "cannot remove a directory",
		}
	}
	if err := c.fs.Remove(abs); err != nil {
		return translate(abs, err)
	}
	return nil
}

// RemoveDirectory implements sftp.Client. Only empty directories can
// be removed; files and populated directories are rejected with the
// matching status.
func (c *Client) RemoveDirectory(p string) error {
	abs := c.abs(p)
	if abs == "/" {
		return &sftp.StatusError{
			Status: sftp.StatusPermissionDenied,
			Path:   abs,
			Msg:    "cannot remove the root directory",
		}
	}

	info, err := c.fs.Lstat(abs)
	if err != nil {
		return translate(abs, err)
	}
	if !info.IsDir() {
		return &sftp.StatusError{
			Status: sftp.StatusNotADirectory,
			Path:   abs,
		}
	}

	entries, err := c.fs.ReadDir(abs)
	if err != nil {
		return translate(abs, err)
	}
	if len(entries) > 0 {
		return &sftp.StatusError{
			Status: sftp.StatusDirNotEmpty,
			Path:   abs,
		}
	}

	if err := c.fs.Remove(abs); err != nil {
		return translate(abs, err)
	}
	return nil
}

// OpenFile implements sftp.Opener. Only regular files can be opened;
// the issued handle is an opaque 16-byte token.
func (c *Client) OpenFile(p string) (*sftp.File, error) {
	abs := c.abs(p)
	attrs, err := c.Stat(abs)
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
	if !attrs.IsFile() {
		return nil, &sftp.StatusError{
			Status: sftp.StatusFailure,
			Path:   abs,
			Msg:    "not a regular file",
		}
	}

	id := uuid.New()
	handle := id[:]
	c.handles[string(handle)] = abs

	ref := sftp.NewFile(c, abs, sftp.WithAttributes(attrs))
	ref.SetHandle(handle)
	return ref, nil
}

// CloseFile implements sftp.Client. Closing a ref that holds no handle
// succeeds; a handle this client did not issue is rejected with an
// invalid-handle status.
func (c *Client) CloseFile(f *sftp.File) error {
	handle := f.Handle()
	if handle == nil {
		return nil
	}
	if _, ok := c.handles[string(handle)]; !ok {
		return &sftp.StatusError{
			Status: sftp.StatusInvalidHandle,
			Path:   f.Path(),
			Msg:    "handle not issued by this client",
		}
	}
	delete(c.handles, string(handle))
	f.SetHandle(nil)
	return nil
}

// translate maps billy filesystem errors onto status errors.
func translate(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &sftp.StatusError{Status: sftp.StatusNoSuchFile, Path: path}
	case errors.Is(err, os.ErrPermission):
		return &sftp.StatusError{Status: sftp.StatusPermissionDenied, Path: path}
	default:
		return &sftp.StatusError{
			Status: sftp.StatusFailure,
			Path:   path,
			Msg:    err.Error(),
		}
	}
}

// fileAttributes converts billy metadata, filling in permission bits
// memfs leaves unset on synthesized entries.
func fileAttributes(info os.FileInfo) sftp.FileAttributes {
	attrs := sftp.AttributesFromFileInfo(info)
	if attrs.Permissions&0o777 == 0 {
		if attrs.IsDirectory() {
			attrs.Permissions |= 0o755
		} else {
			attrs.Permissions |= 0o644
		}
	}
	return attrs
}

// formatLongname renders an ls -l style listing line.
func formatLongname(name string, attrs sftp.FileAttributes) string {
	return fmt.Sprintf("%s %4d %-8d %-8d %8d %s %s",
		attrs.Permissions, 1, attrs.UID, attrs.GID, attrs.Size,
		attrs.ModTime.Format("Jan _2 15:04"), name)
}

// Compile-time interface checks.
var (
	_ sftp.Client = (*Client)(nil)
	_ sftp.Opener = (*Client)(nil)
)
