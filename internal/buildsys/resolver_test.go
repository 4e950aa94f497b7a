// SPDX-License-Identifier: MPL-2.0

package buildsys

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gdmach-cli/internal/testutil"

	"github.com/charmbracelet/log"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: shell-script executables are Unix-only")
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	objdir := testutil.NewObjdir(t, "geckodriver", "firefox")
	r := NewResolver(ResolverConfig{Objdir: objdir, AppName: "firefox", GOOS: "linux"})

	tests := []struct {
		name string
		want string
	}{
		{name: "geckodriver", want: filepath.Join(objdir, "dist", "bin", "geckodriver")},
		{name: AppBinary, want: filepath.Join(objdir, "dist", "bin", "firefox")},
		{name: "firefox", want: filepath.Join(objdir, "dist", "bin", "firefox")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.BinaryPath(tt.name)
			if err != nil {
				t.Fatalf("BinaryPath(%q) error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("BinaryPath(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolver_NotFound(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	objdir := testutil.NewObjdir(t, "firefox")
	binDir := filepath.Join(objdir, "dist", "bin")
	testutil.MustMkdirAll(t, filepath.Join(binDir, "xpcshell"), 0o755)
	if err := os.WriteFile(filepath.Join(binDir, "plain"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(ResolverConfig{Objdir: objdir, GOOS: "linux"})

	tests := []struct {
		name      string
		wantCause string
	}{
		{name: "geckodriver", wantCause: "no such file"},
		{name: "xpcshell", wantCause: "is a directory"},
		{name: "plain", wantCause: "not executable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := r.Resolve(tt.name)
			if !errors.Is(err, ErrBinaryNotFound) {
				t.Fatalf("Resolve(%q) error = %v, want ErrBinaryNotFound", tt.name, err)
			}
			var notFound *BinaryNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("Resolve(%q) error = %T, want *BinaryNotFoundError", tt.name, err)
			}
			if notFound.Name != tt.name {
				t.Errorf("Name = %q, want %q", notFound.Name, tt.name)
			}
			if want := filepath.Join(binDir, tt.name); notFound.Path != want {
				t.Errorf("Path = %q, want %q", notFound.Path, want)
			}
			if !strings.Contains(err.Error(), tt.wantCause) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantCause)
			}
			if !strings.Contains(notFound.Help(), "./mach build") {
				t.Errorf("Help() = %q, want build instructions", notFound.Help())
			}
		})
	}

	_, err := r.Resolve("geckodriver")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error does not wrap fs.ErrNotExist: %v", err)
	}
}

func TestResolver_PlatformPaths(t *testing.T) {
	t.Parallel()

	objdir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(objdir, "dist", "Nightly.app", "Contents", "MacOS"), 0o755)

	tests := []struct {
		name string
		cfg  ResolverConfig
		bin  string
		want string
	}{
		{
			name: "windows appends exe",
			cfg:  ResolverConfig{Objdir: objdir, GOOS: "windows"},
			bin:  "geckodriver",
			want: filepath.Join(objdir, "dist", "bin", "geckodriver.exe"),
		},
		{
			name: "darwin app inside discovered bundle",
			cfg:  ResolverConfig{Objdir: objdir, AppName: "firefox", GOOS: "darwin"},
			bin:  AppBinary,
			want: filepath.Join(objdir, "dist", "Nightly.app", "Contents", "MacOS", "firefox"),
		},
		{
			name: "darwin app inside configured bundle",
			cfg:  ResolverConfig{Objdir: objdir, AppName: "firefox", MacBundle: "NightlyDebug.app", GOOS: "darwin"},
			bin:  AppBinary,
			want: filepath.Join(objdir, "dist", "NightlyDebug.app", "Contents", "MacOS", "firefox"),
		},
		{
			name: "darwin driver stays in bin dir",
			cfg:  ResolverConfig{Objdir: objdir, GOOS: "darwin"},
			bin:  "geckodriver",
			want: filepath.Join(objdir, "dist", "bin", "geckodriver"),
		},
		{
			name: "custom bin dir",
			cfg:  ResolverConfig{Objdir: objdir, BinDir: "dist/firefox", GOOS: "linux"},
			bin:  "geckodriver",
			want: filepath.Join(objdir, "dist", "firefox", "geckodriver"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewResolver(tt.cfg).candidatePath(tt.bin)
			if got != tt.want {
				t.Errorf("candidatePath(%q) = %q, want %q", tt.bin, got, tt.want)
			}
		})
	}
}

func TestResolver_DebugLogsBinaryDetails(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	objdir := testutil.NewObjdir(t, "geckodriver")

	bin, err := NewResolver(ResolverConfig{Objdir: objdir, GOOS: "linux", Logger: logger}).Resolve("geckodriver")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if bin.Size == 0 || bin.ModTime.IsZero() {
		t.Errorf("Binary = %+v, want size and modification time", bin)
	}

	out := buf.String()
	for _, want := range []string{"resolved binary", "geckodriver", "size=", "built="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
