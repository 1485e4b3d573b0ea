package sftptest

import (
	"testing"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// TestHandles verifies handle issuance and release for clients that
// implement the Opener capability.
func TestHandles(t *testing.T, h *Harness, config SuiteConfig) {
	opener, ok := h.Client.(sftp.Opener)
	if !ok {
		t.Skip("Client does not open transfer handles")
		return
	}

	h.seedDir(t, "/suite")
	h.seedFile(t, "/suite/open.txt", []byte("handle me"))

	t.Run("OpenIssuesHandle", func(t *testing.T) {
		skipListed(t, config, "Handles/OpenIssuesHandle")
		ref, err := opener.OpenFile("/suite/open.txt")
		if err != nil {
			t.Fatalf("OpenFile(): got error %v, want nil", err)
		}
		if !ref.IsOpen() {
			t.Errorf("IsOpen() = false after open, want true")
		}
		if ref.Handle() == nil {
			t.Errorf("Handle() = nil after open, want an issued handle")
		}
		if err := ref.Close(); err != nil {
			t.Errorf("Close(): got error %v, want nil", err)
		}
	})

	t.Run("CloseClearsHandle", func(t *testing.T) {
		skipListed(t, config, "Handles/CloseClearsHandle")
		ref, err := opener.OpenFile("/suite/open.txt")
		if err != nil {
			t.Fatalf("OpenFile(): got error %v, want nil", err)
		}
		if err := ref.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		if ref.IsOpen() {
			t.Errorf("IsOpen() = true after close, want false")
		}
		if ref.Handle() != nil {
			t.Errorf("Handle() = %v after close, want nil", ref.Handle())
		}
	})

	t.Run("CloseTwice", func(t *testing.T) {
		skipListed(t, config, "Handles/CloseTwice")
		ref, err := opener.OpenFile("/suite/open.txt")
		if err != nil {
			t.Fatalf("OpenFile(): got error %v, want nil", err)
		}
		if err := ref.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		if err := ref.Close(); err != nil {
			t.Errorf("Close() twice: got error %v, want nil", err)
		}
	})

	t.Run("OpenDirectoryFails", func(t *testing.T) {
		skipListed(t, config, "Handles/OpenDirectoryFails")
		_, err := opener.OpenFile("/suite")
		if !sftp.IsStatus(err, sftp.StatusFileIsADirectory) {
			t.Errorf("OpenFile(/suite): got %v, want status %v", err, sftp.StatusFileIsADirectory)
		}
	})

	t.Run("OpenMissingFails", func(t *testing.T) {
		skipListed(t, config, "Handles/OpenMissingFails")
		_, err := opener.OpenFile("/suite/nope.txt")
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("OpenFile(/suite/nope.txt): got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})

	t.Run("HandleIdentity", func(t *testing.T) {
		skipListed(t, config, "Handles/HandleIdentity")
		first, err := opener.OpenFile("/suite/open.txt")
		if err != nil {
			t.Fatalf("OpenFile(): got error %v, want nil", err)
		}
		second, err := opener.OpenFile("/suite/open.txt")
		if err != nil {
			t.Fatalf("OpenFile(): got error %v, want nil", err)
		}
		closed, err := h.Client.Lookup("/suite/open.txt")
		if err != nil {
			t.Fatalf("Lookup(): got error %v, want nil", err)
		}

		if first.Equal(second) {
			t.Errorf("Equal() = true for two separately opened refs, want false")
		}
		if first.Equal(closed) {
			t.Errorf("Equal() = true for an open and a closed ref, want false")
		}
		if first.Hash() != closed.Hash() {
			t.Errorf("Hash() differs for open and closed refs on the same path")
		}

		if err := first.Close(); err != nil {
			t.Errorf("Close(): got error %v, want nil", err)
		}
		if err := second.Close(); err != nil {
			t.Errorf("Close(): got error %v, want nil", err)
		}
	})
}
