package sftptest

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/util"

	"github.com/husttom/j2ssh-maverick/sftp"
)

// newFakeHarness returns a harness factory seeding the fake through
// its backing filesystem.
func newFakeHarness() func() *Harness {
	return func() *Harness {
		client, err := New(Config{})
		if err != nil {
			panic(err)
		}
		return &Harness{
			Client: client,
			WriteFile: func(p string, data []byte) error {
				return util.WriteFile(client.fs, client.abs(p), data, 0o644)
			},
			MkdirAll: func(p string) error {
				return client.fs.MkdirAll(client.abs(p), 0o755)
			},
		}
	}
}

// TestFakeClient runs the conformance suite against the fake. The fake
// models real directory entries and strict delete semantics, so the
// full POSIX configuration applies.
func TestFakeClient(t *testing.T) {
	TestClient(t, newFakeHarness())
}

// TestTracedFakeClient runs the suite through the tracing wrapper. The
// wrapper mirrors the fake's capabilities, so every law, the handle
// laws included, holds against it unchanged.
func TestTracedFakeClient(t *testing.T) {
	TestClient(t, func() *Harness {
		h := newFakeHarness()()
		h.Client = sftp.NewTracingClient(h.Client, nil)
		return h
	})
}

// coreOnly narrows a client to the base contract, hiding the Opener
// capability.
type coreOnly struct{ sftp.Client }

// TestTracedClientSkipsHandleLaws wraps a client without the Opener
// capability. The wrapper must hide the capability too, so the handle
// laws skip instead of failing on unsupported opens.
func TestTracedClientSkipsHandleLaws(t *testing.T) {
	h := newFakeHarness()()
	h.Client = sftp.NewTracingClient(coreOnly{h.Client}, nil)
	TestHandles(t, h, POSIXConfig())
}

// countingClient records how often each resolution call reaches the
// wrapped client.
type countingClient struct {
	sftp.Client
	getwdCalls    int
	realPathCalls int
}

func (c *countingClient) Getwd() (string, error) {
	c.getwdCalls++
	return c.Client.Getwd()
}

func (c *countingClient) RealPath(p string) (string, error) {
	c.realPathCalls++
	return c.Client.RealPath(p)
}

// TestSuiteConfig_SkipsSubtests lists subtests in "Area/SubTest" form
// and verifies the listed laws never reach the client while unlisted
// ones still run.
func TestSuiteConfig_SkipsSubtests(t *testing.T) {
	h := newFakeHarness()()
	counting := &countingClient{Client: h.Client}
	h.Client = counting

	config := POSIXConfig()
	config.SkipTests = []string{
		"Stat", "Parents", "Remove", "Handles",
		"PathResolution/WorkingDirectoryIsCanonical",
		"PathResolution/Root",
		"PathResolution/DotSegments",
		"PathResolution/RelativeResolvesUnderWorkingDirectory",
	}
	TestClientWithConfig(t, func() *Harness { return h }, config)

	// WorkingDirectoryIsAbsolute is not listed and needs Getwd.
	if counting.getwdCalls == 0 {
		t.Error("Getwd round trips = 0, want the unlisted subtest to run")
	}
	if counting.realPathCalls != 0 {
		t.Errorf("RealPath round trips = %d, want 0 with every resolving subtest skipped", counting.realPathCalls)
	}
}

func TestNew_DefaultWorkingDirectory(t *testing.T) {
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	wd, err := client.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if wd != DefaultWorkingDirectory {
		t.Errorf("Getwd() = %q, want %q", wd, DefaultWorkingDirectory)
	}

	// The working directory exists up front.
	attrs, err := client.Stat(wd)
	if err != nil {
		t.Fatalf("Stat(%q) error = %v", wd, err)
	}
	if !attrs.IsDirectory() {
		t.Errorf("Stat(%q) IsDirectory() = false, want true", wd)
	}
}

func TestNew_CleansWorkingDirectory(t *testing.T) {
	client, err := New(Config{WorkingDirectory: "/srv/data/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	wd, _ := client.Getwd()
	if wd != "/srv/data" {
		t.Errorf("Getwd() = %q, want %q", wd, "/srv/data")
	}
}

func TestNew_RejectsRelativeWorkingDirectory(t *testing.T) {
	if _, err := New(Config{WorkingDirectory: "home/user"}); err == nil {
		t.Fatal("New() with relative working directory succeeded, want error")
	}
}

func TestClient_SymlinkReportedAsLink(t *testing.T) {
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.MustWriteFile("/data/target.txt", []byte("payload"))
	client.MustSymlink("/data/target.txt", "/data/alias")

	ref, err := client.Lookup("/data/alias")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	isLink, err := ref.IsLink()
	if err != nil {
		t.Fatalf("IsLink() error = %v", err)
	}
	if !isLink {
		t.Error("IsLink() = false, want true")
	}

	// The link itself is described, not its target.
	isFile, err := ref.IsFile()
	if err != nil {
		t.Fatalf("IsFile() error = %v", err)
	}
	if isFile {
		t.Error("IsFile() = true, want false")
	}
}

func TestClient_LookupAttachesLongname(t *testing.T) {
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.MustWriteFile("/data/report.csv", []byte("a,b,c"))

	ref, err := client.Lookup("/data/report.csv")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	longname := ref.Longname()
	if !strings.HasPrefix(longname, "-rw-r--r--") {
		t.Errorf("Longname() = %q, want ls -l style mode prefix", longname)
	}
	if !strings.HasSuffix(longname, "report.csv") {
		t.Errorf("Longname() = %q, want trailing filename", longname)
	}
}

func TestClient_OpenHandleAccounting(t *testing.T) {
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.MustWriteFile("/a.txt", []byte("a"))
	client.MustWriteFile("/b.txt", []byte("b"))

	refA, err := client.OpenFile("/a.txt")
	if err != nil {
		t.Fatalf("OpenFile(/a.txt) error = %v", err)
	}
	refB, err := client.OpenFile("/b.txt")
	if err != nil {
		t.Fatalf("OpenFile(/b.txt) error = %v", err)
	}
	if got := client.OpenHandles(); got != 2 {
		t.Errorf("OpenHandles() = %d, want 2", got)
	}

	if err := refA.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := client.OpenHandles(); got != 1 {
		t.Errorf("OpenHandles() = %d, want 1", got)
	}

	if err := refB.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := client.OpenHandles(); got != 0 {
		t.Errorf("OpenHandles() = %d, want 0", got)
	}
}

func TestClient_RejectsForeignHandle(t *testing.T) {
	issuer, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	other, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	issuer.MustWriteFile("/data.txt", []byte("payload"))

	ref, err := issuer.OpenFile("/data.txt")
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	err = other.CloseFile(ref)
	if !sftp.IsStatus(err, sftp.StatusInvalidHandle) {
		t.Errorf("CloseFile() on foreign client error = %v, want invalid handle status", err)
	}

	// The rejected close leaves the handle intact.
	if !ref.IsOpen() {
		t.Error("IsOpen() = false after rejected close, want true")
	}
	if got := issuer.OpenHandles(); got != 1 {
		t.Errorf("issuer OpenHandles() = %d, want 1", got)
	}
}

func TestClient_UnderlyingSeeding(t *testing.T) {
	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := util.WriteFile(client.Underlying(), "/raw/seeded.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("seed through Underlying() error = %v", err)
	}

	if _, err := client.Lookup("/raw/seeded.txt"); err != nil {
		t.Errorf("Lookup() after raw seed error = %v", err)
	}
}
