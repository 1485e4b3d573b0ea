package sftptest

import (
	"testing"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// TestRemove verifies the Remove and RemoveDirectory laws of the
// client contract, including dispatch through the ref entity.
func TestRemove(t *testing.T, h *Harness, config SuiteConfig) {
	h.seedDir(t, "/suite")

	t.Run("File", func(t *testing.T) {
		skipListed(t, config, "Remove/File")
		h.seedFile(t, "/suite/del.txt", []byte("doomed"))
		if err := h.Client.Remove("/suite/del.txt"); err != nil {
			t.Fatalf("Remove(/suite/del.txt): got error %v, want nil", err)
		}
		_, err := h.Client.Stat("/suite/del.txt")
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Stat() after remove: got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		skipListed(t, config, "Remove/MissingFile")
		err := h.Client.Remove("/suite/ghost.txt")
		if config.IdempotentDelete {
			if err != nil {
				t.Errorf("Remove(/suite/ghost.txt): got error %v, want nil (idempotent delete)", err)
			}
			return
		}
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Remove(/suite/ghost.txt): got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})

	t.Run("DirectoryRejected", func(t *testing.T) {
		skipListed(t, config, "Remove/DirectoryRejected")
		if config.VirtualDirectories {
			t.Skip("Skipping directory rejection - backend has virtual directories")
			return
		}
		h.seedDir(t, "/suite/dir")
		err := h.Client.Remove("/suite/dir")
		if !sftp.IsStatus(err, sftp.StatusFileIsADirectory) {
			t.Errorf("Remove(/suite/dir): got %v, want status %v", err, sftp.StatusFileIsADirectory)
		}
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		skipListed(t, config, "Remove/EmptyDirectory")
		if config.VirtualDirectories {
			t.Skip("Skipping empty directory removal - backend has virtual directories")
			return
		}
		h.seedDir(t, "/suite/rmdir")
		if err := h.Client.RemoveDirectory("/suite/rmdir"); err != nil {
			t.Fatalf("RemoveDirectory(/suite/rmdir): got error %v, want nil", err)
		}
		_, err := h.Client.Stat("/suite/rmdir")
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Stat() after rmdir: got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})

	t.Run("NonEmptyDirectory", func(t *testing.T) {
		skipListed(t, config, "Remove/NonEmptyDirectory")
		if config.VirtualDirectories {
			t.Skip("Skipping non-empty directory law - backend has virtual directories")
			return
		}
		h.seedDir(t, "/suite/full")
		h.seedFile(t, "/suite/full/keep.txt", []byte("keep"))
		err := h.Client.RemoveDirectory("/suite/full")
		if !sftp.IsStatus(err, sftp.StatusDirNotEmpty) {
			t.Errorf("RemoveDirectory(/suite/full): got %v, want status %v", err, sftp.StatusDirNotEmpty)
		}
	})

	t.Run("NotADirectory", func(t *testing.T) {
		skipListed(t, config, "Remove/NotADirectory")
		if config.VirtualDirectories {
			t.Skip("Skipping not-a-directory law - backend has virtual directories")
			return
		}
		h.seedFile(t, "/suite/plain.txt", []byte("plain"))
		err := h.Client.RemoveDirectory("/suite/plain.txt")
		if !sftp.IsStatus(err, sftp.StatusNotADirectory) {
			t.Errorf("RemoveDirectory(/suite/plain.txt): got %v, want status %v", err, sftp.StatusNotADirectory)
		}
	})

	t.Run("DeleteViaRef", func(t *testing.T) {
		skipListed(t, config, "Remove/DeleteViaRef")
		h.seedFile(t, "/suite/refdel.txt", []byte("doomed"))
		ref, err := h.Client.Lookup("/suite/refdel.txt")
		if err != nil {
			t.Fatalf("Lookup(): got error %v, want nil", err)
		}
		if err := ref.Delete(); err != nil {
			t.Fatalf("Delete(): got error %v, want nil", err)
		}
		_, err = h.Client.Stat("/suite/refdel.txt")
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Stat() after Delete(): got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})

	t.Run("DeleteDirectoryViaRef", func(t *testing.T) {
		skipListed(t, config, "Remove/DeleteDirectoryViaRef")
		if config.VirtualDirectories {
			t.Skip("Skipping directory delete via ref - backend has virtual directories")
			return
		}
		h.seedDir(t, "/suite/refdir")
		ref, err := h.Client.Lookup("/suite/refdir")
		if err != nil {
			t.Fatalf("Lookup(): got error %v, want nil", err)
		}
		if err := ref.Delete(); err != nil {
			t.Fatalf("Delete(): got error %v, want nil", err)
		}
		_, err = h.Client.Stat("/suite/refdir")
		if !sftp.IsStatus(err, sftp.StatusNoSuchFile) {
			t.Errorf("Stat() after Delete(): got %v, want status %v", err, sftp.StatusNoSuchFile)
		}
	})
}
