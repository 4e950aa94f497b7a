// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNewObjdir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping: shell-script executables are Unix-only")
	}

	objdir := NewObjdir(t, "geckodriver", "firefox")
	for _, name := range []string{"geckodriver", "firefox"} {
		info, err := os.Stat(filepath.Join(objdir, "dist", "bin", name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Errorf("%s is not executable", name)
		}
	}
}

func TestMustChdir(t *testing.T) {
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	restore := MustChdir(t, dir)
	wd, _ := os.Getwd()
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(wd)
	if got != want {
		t.Errorf("wd = %q, want %q", got, want)
	}

	restore()
	if wd, _ := os.Getwd(); wd != orig {
		t.Errorf("wd after restore = %q, want %q", wd, orig)
	}
}
