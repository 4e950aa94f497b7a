// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
// The test fails immediately if the directory change fails.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// WriteExecutable writes a shell script named name into dir and marks it
// executable. It returns the script's path.
func WriteExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()
	MustMkdirAll(t, dir, 0o755)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write executable %s: %v", path, err)
	}
	return path
}

// NewObjdir creates an object directory under a temporary directory with
// the named executables installed in dist/bin. Each one prints its own
// name and arguments. It returns the objdir path.
func NewObjdir(t testing.TB, binaries ...string) string {
	t.Helper()
	objdir := filepath.Join(t.TempDir(), "obj-test")
	binDir := filepath.Join(objdir, "dist", "bin")
	MustMkdirAll(t, binDir, 0o755)
	for _, name := range binaries {
		file := name
		if runtime.GOOS == "windows" {
			file += ".exe"
		}
		WriteExecutable(t, binDir, file, `echo "`+name+` $*"`)
	}
	return objdir
}
