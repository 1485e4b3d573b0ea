package sftptest

import (
	"testing"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// TestStat verifies the Stat and Lookup laws of the client contract.
func TestStat(t *testing.T, h *Harness, config SuiteConfig) {
	content := []byte("conformance data")
	h.seedDir(t, "/suite")
	h.seedFile(t, "/suite/data.txt", content)

	t.Run("File", func(t *testing.T) {
		skipListed(t, config, "Stat/File")
		attrs, err := h.Client.Stat("/suite/data.txt")
		if err != nil {
			t.Fatalf("Stat(/suite/data.txt): got error %v, want nil", err)
		}
		if attrs.Size != int64(len(content)) {
			t.Errorf("Stat(): Size = %d, want %d", attrs.Size, len(content))
		}
		if !attrs.IsFile() {
			t.Errorf("Stat(): IsFile() = false, want true")
		}
		if attrs.IsDirectory() {
			t.Errorf("Stat(): IsDirectory() = true, want false")
		}
		if !attrs.Permissions.CanRead() {
			t.Errorf("Stat(): Permissions = %v, want a readable file", attrs.Permissions)
		}
	})

	t.Run("Directory", func(t *testing.T) {
		skipListed(t, config, "Stat/Directory")
		attrs, err := h.Client.Stat("/suite")
		if err != nil {
			t.Fatalf("Stat(/suite): got error %v, want nil", err)
		}
		if !attrs.IsDirectory() {
			t.Errorf("Stat(/suite): IsDirectory() = false, want true")
		}
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		skipListed(t, config, "Stat/EmptyDirectory")
		if config.VirtualDirectories {
			t.Skip("Skipping empty directory stat - backend has virtual directories")
			return
		}
		h.seedDir(t, "/suite/empty")
		attrs, err := h.Client.Stat("/suite/empty")
		if err != nil {
			t.Fatalf("Stat(/suite/empty): got error %v, want nil", err)
		}
		if !attrs.IsDirectory() {
			t.Errorf("Stat(/suite/empty): IsDirectory() = false, want true")
		}
	})

	t.Run("Root", func(t *testing.T) {
		skipListed(t, config, "Stat/Root")
		attrs, err := h.Client.Stat("/")
		if err != nil {
			t.Fatalf("Stat(/): got error %v, want nil", err)
		}
		if !attrs.IsDirectory() {
			t.Errorf("Stat(/): IsDirectory() = false, want true")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		skipListed(t, config, "Stat/Missing")
		_, err := h.Client.Stat("/suite/nope.txt")
		if err == nil {
			t.Fatalf("Stat(/suite/nope.txt): got nil error, want a no-such-file status")
		}
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Stat(/suite/nope.txt): got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		skipListed(t, config, "Stat/Lookup")
		ref, err := h.Client.Lookup("/suite/data.txt")
		if err != nil {
			t.Fatalf("Lookup(/suite/data.txt): got error %v, want nil", err)
		}
		if ref.Path() != "/suite/data.txt" {
			t.Errorf("Lookup(): Path() = %q, want %q", ref.Path(), "/suite/data.txt")
		}
		if ref.Name() != "data.txt" {
			t.Errorf("Lookup(): Name() = %q, want %q", ref.Name(), "data.txt")
		}
		if !ref.HasAttributes() {
			t.Errorf("Lookup(): HasAttributes() = false, want pre-populated attributes")
		}
	})

	t.Run("LookupResolvesRelative", func(t *testing.T) {
		skipListed(t, config, "Stat/LookupResolvesRelative")
		wd, err := h.Client.Getwd()
		if err != nil {
			t.Fatalf("Getwd(): got error %v, want nil", err)
		}
		h.seedFile(t, wd+"/rel.txt", content)
		ref, err := h.Client.Lookup("rel.txt")
		if err != nil {
			t.Fatalf("Lookup(rel.txt): got error %v, want nil", err)
		}
		resolved, err := h.Client.RealPath("rel.txt")
		if err != nil {
			t.Fatalf("RealPath(rel.txt): got error %v, want nil", err)
		}
		if ref.Path() != resolved {
			t.Errorf("Lookup(rel.txt): Path() = %q, want %q", ref.Path(), resolved)
		}
	})

	t.Run("LookupMissing", func(t *testing.T) {
		skipListed(t, config, "Stat/LookupMissing")
		_, err := h.Client.Lookup("/suite/nope.txt")
		if err == nil {
			t.Fatalf("Lookup(/suite/nope.txt): got nil error, want a no-such-file status")
		}
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Lookup(/suite/nope.txt): got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})
}
