package sftptest

import (
	"path"
	"strings"
	"testing"
)

// TestPathResolution verifies the Getwd and RealPath laws of the
// client contract.
func TestPathResolution(t *testing.T, h *Harness, config SuiteConfig) {
	t.Run("WorkingDirectoryIsAbsolute", func(t *testing.T) {
		skipListed(t, config, "PathResolution/WorkingDirectoryIsAbsolute")
		wd, err := h.Client.Getwd()
		if err != nil {
			t.Fatalf("Getwd(): got error %v, want nil", err)
		}
		if !strings.HasPrefix(wd, "/") {
			t.Errorf("Getwd() = %q, want an absolute path", wd)
		}
	})

	t.Run("WorkingDirectoryIsCanonical", func(t *testing.T) {
		skipListed(t, config, "PathResolution/WorkingDirectoryIsCanonical")
		wd, err := h.Client.Getwd()
		if err != nil {
			t.Fatalf("Getwd(): got error %v, want nil", err)
		}
		resolved, err := h.Client.RealPath(wd)
		if err != nil {
			t.Fatalf("RealPath(%q): got error %v, want nil", wd, err)
		}
		if resolved != wd {
			t.Errorf("RealPath(%q) = %q, want the working directory unchanged", wd, resolved)
		}
	})

	t.Run("Root", func(t *testing.T) {
		skipListed(t, config, "PathResolution/Root")
		resolved, err := h.Client.RealPath("/")
		if err != nil {
			t.Fatalf("RealPath(/): got error %v, want nil", err)
		}
		if resolved != "/" {
			t.Errorf("RealPath(/) = %q, want %q", resolved, "/")
		}
	})

	t.Run("DotSegments", func(t *testing.T) {
		skipListed(t, config, "PathResolution/DotSegments")
		tests := []struct {
			in   string
			want string
		}{
			{"/a/./b", "/a/b"},
			{"/a/b/../c", "/a/c"},
			{"/a/b/..", "/a"},
			{"/..", "/"},
			{"/a/b/", "/a/b"},
		}
		for _, tt := range tests {
			resolved, err := h.Client.RealPath(tt.in)
			if err != nil {
				t.Errorf("RealPath(%q): got error %v, want nil", tt.in, err)
				continue
			}
			if resolved != tt.want {
				t.Errorf("RealPath(%q) = %q, want %q", tt.in, resolved, tt.want)
			}
		}
	})

	t.Run("RelativeResolvesUnderWorkingDirectory", func(t *testing.T) {
		skipListed(t, config, "PathResolution/RelativeResolvesUnderWorkingDirectory")
		wd, err := h.Client.Getwd()
		if err != nil {
			t.Fatalf("Getwd(): got error %v, want nil", err)
		}
		resolved, err := h.Client.RealPath("somename")
		if err != nil {
			t.Fatalf("RealPath(somename): got error %v, want nil", err)
		}
		if want := path.Join(wd, "somename"); resolved != want {
			t.Errorf("RealPath(somename) = %q, want %q", resolved, want)
		}
	})
}
