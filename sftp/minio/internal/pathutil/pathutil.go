// Package pathutil maps absolute remote paths onto MinIO/S3 object
// keys.
package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePrefix normalizes the key prefix:
// - Converts backslashes to forward slashes
// - Removes leading and trailing slashes
// - Returns empty string if prefix is "." or empty.
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}

	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = filepath.Clean(prefix)
	prefix = filepath.ToSlash(prefix)
	prefix = strings.Trim(prefix, "/")

	return prefix
}

// KeyFor maps a canonical absolute path onto the object key under the
// given prefix. The root path maps to the prefix itself (the empty key
// when no prefix is set).
func KeyFor(prefix, path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return prefix
	}
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}
