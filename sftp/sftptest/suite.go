package sftptest

import (
	"testing"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// SuiteConfig adapts the conformance suite to backend behavior
// characteristics.
type SuiteConfig struct {
	// VirtualDirectories indicates directories exist only as prefixes
	// of stored objects (e.g. object stores). When true, the suite
	// skips laws that need real directory entries: stat of an empty
	// directory, empty/non-empty removal distinctions, and rejection
	// of Remove on a directory.
	VirtualDirectories bool

	// IdempotentDelete indicates Remove succeeds on missing targets
	// instead of reporting a no-such-file status.
	IdempotentDelete bool

	// SkipTests lists suite areas or subtests to skip, in
	// "Area" or "Area/SubTest" form (e.g. "Remove/NonEmptyDirectory").
	SkipTests []string
}

// POSIXConfig returns configuration for clients with real directory
// entries and strict delete semantics.
func POSIXConfig() SuiteConfig {
	return SuiteConfig{
		VirtualDirectories: false,
		IdempotentDelete:   false,
	}
}

// ObjectStoreConfig returns configuration for clients backed by
// S3-like object storage.
func ObjectStoreConfig() SuiteConfig {
	return SuiteConfig{
		VirtualDirectories: true,
		IdempotentDelete:   true,
	}
}

// Harness bundles a client under test with the hooks the suite uses to
// seed remote state. WriteFile must create missing parent directories;
// MkdirAll may be a no-op for backends with virtual directories.
type Harness struct {
	Client    sftp.Client
	WriteFile func(path string, data []byte) error
	MkdirAll  func(path string) error
}

func (h *Harness) seedFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := h.WriteFile(path, data); err != nil {
		t.Fatalf("seed %s: %v", path, err)
	}
}

func (h *Harness) seedDir(t *testing.T, path string) {
	t.Helper()
	if err := h.MkdirAll(path); err != nil {
		t.Fatalf("seed %s: %v", path, err)
	}
}

// TestClient runs the conformance suite against a client using
// POSIXConfig. The newHarness function must return a fresh, empty
// harness for each area; the suite seeds and removes state.
func TestClient(t *testing.T, newHarness func() *Harness) {
	TestClientWithConfig(t, newHarness, POSIXConfig())
}

// TestClientWithConfig runs the conformance suite with behavior
// configuration.
func TestClientWithConfig(t *testing.T, newHarness func() *Harness, config SuiteConfig) {
	t.Run("PathResolution", func(t *testing.T) {
		if config.skips("PathResolution") {
			t.Skip("Skipped by harness configuration")
			return
		}
		TestPathResolution(t, newHarness(), config)
	})

	t.Run("Stat", func(t *testing.T) {
		if config.skips("Stat") {
			t.Skip("Skipped by harness configuration")
			return
		}
		TestStat(t, newHarness(), config)
	})

	t.Run("Parents", func(t *testing.T) {
		if config.skips("Parents") {
			t.Skip("Skipped by harness configuration")
			return
		}
		TestParents(t, newHarness(), config)
	})

	t.Run("Remove", func(t *testing.T) {
		if config.skips("Remove") {
			t.Skip("Skipped by harness configuration")
			return
		}
		TestRemove(t, newHarness(), config)
	})

	t.Run("Handles", func(t *testing.T) {
		if config.skips("Handles") {
			t.Skip("Skipped by harness configuration")
			return
		}
		TestHandles(t, newHarness(), config)
	})
}

// skips reports whether SkipTests lists name, either a bare area or an
// area-qualified subtest.
func (c SuiteConfig) skips(name string) bool {
	for _, skip := range c.SkipTests {
		if skip == name {
			return true
		}
	}
	return false
}

// skipListed skips the running subtest when config lists its qualified
// "Area/SubTest" name.
func skipListed(t *testing.T, config SuiteConfig, fullName string) {
	t.Helper()
	if config.skips(fullName) {
		t.Skip("Skipped by harness configuration")
	}
}
