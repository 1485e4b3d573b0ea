package sftptest

import (
	"testing"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// TestParents verifies parent resolution through the ref entity.
func TestParents(t *testing.T, h *Harness, config SuiteConfig) {
	h.seedDir(t, "/suite/nested")
	h.seedFile(t, "/suite/nested/leaf.txt", []byte("leaf"))

	t.Run("OfNestedFile", func(t *testing.T) {
		skipListed(t, config, "Parents/OfNestedFile")
		ref, err := h.Client.Lookup("/suite/nested/leaf.txt")
		if err != nil {
			t.Fatalf("Lookup(): got error %v, want nil", err)
		}
		parent, err := ref.Parent()
		if err != nil {
			t.Fatalf("Parent(): got error %v, want nil", err)
		}
		if parent == nil {
			t.Fatalf("Parent(): got nil ref, want /suite/nested")
		}
		if parent.Path() != "/suite/nested" {
			t.Errorf("Parent(): Path() = %q, want %q", parent.Path(), "/suite/nested")
		}
	})

	t.Run("OfTopLevel", func(t *testing.T) {
		skipListed(t, config, "Parents/OfTopLevel")
		ref, err := h.Client.Lookup("/suite")
		if err != nil {
			t.Fatalf("Lookup(/suite): got error %v, want nil", err)
		}
		parent, err := ref.Parent()
		if err != nil {
			t.Fatalf("Parent(): got error %v, want nil", err)
		}
		if parent == nil {
			t.Fatalf("Parent(): got nil ref, want the root")
		}
		if parent.Path() != "/" {
			t.Errorf("Parent(): Path() = %q, want %q", parent.Path(), "/")
		}
	})

	t.Run("OfRoot", func(t *testing.T) {
		skipListed(t, config, "Parents/OfRoot")
		ref, err := h.Client.Lookup("/")
		if err != nil {
			t.Fatalf("Lookup(/): got error %v, want nil", err)
		}
		parent, err := ref.Parent()
		if err != nil {
			t.Fatalf("Parent(): got error %v, want nil", err)
		}
		if parent != nil {
			t.Errorf("Parent() of root = %q, want nil", parent.Path())
		}
	})

	t.Run("OfBareName", func(t *testing.T) {
		skipListed(t, config, "Parents/OfBareName")
		wd, err := h.Client.Getwd()
		if err != nil {
			t.Fatalf("Getwd(): got error %v, want nil", err)
		}
		ref := sftp.NewFile(h.Client, "leaf.txt")
		parent, err := ref.Parent()
		if err != nil {
			t.Fatalf("Parent(): got error %v, want nil", err)
		}
		if parent == nil {
			t.Fatalf("Parent(): got nil ref, want the working directory")
		}
		if parent.Path() != wd {
			t.Errorf("Parent(): Path() = %q, want %q", parent.Path(), wd)
		}
	})

	t.Run("OfDotEntry", func(t *testing.T) {
		skipListed(t, config, "Parents/OfDotEntry")
		ref := sftp.NewFile(h.Client, "/suite/nested/.")
		parent, err := ref.Parent()
		if err != nil {
			t.Fatalf("Parent(): got error %v, want nil", err)
		}
		if parent == nil {
			t.Fatalf("Parent(): got nil ref, want /suite")
		}
		if parent.Path() != "/suite" {
			t.Errorf("Parent(): Path() = %q, want %q", parent.Path(), "/suite")
		}
	})

	t.Run("OfDotDotEntry", func(t *testing.T) {
		skipListed(t, config, "Parents/OfDotDotEntry")
		ref := sftp.NewFile(h.Client, "/suite/nested/..")
		parent, err := ref.Parent()
		if err != nil {
			t.Fatalf("Parent(): got error %v, want nil", err)
		}
		if parent == nil {
			t.Fatalf("Parent(): got nil ref, want the root")
		}
		if parent.Path() != "/" {
			t.Errorf("Parent(): Path() = %q, want %q", parent.Path(), "/")
		}
	})
}
