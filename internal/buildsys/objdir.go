// SPDX-License-Identifier: MPL-2.0

package buildsys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gdmach-cli/internal/issue"
)

// ObjdirEnvVar names the environment variable that points at the objdir.
const ObjdirEnvVar = "MOZ_OBJDIR"

// ErrObjdirNotFound is returned when no build object directory can be located.
var ErrObjdirNotFound = errors.New("object directory not found")

// ObjdirOptions lists the places an object directory may come from, in
// precedence order.
type ObjdirOptions struct {
	// Flag is the --objdir value.
	Flag string
	// Getenv reads the environment. Nil means os.Getenv.
	Getenv func(string) string
	// Config is the build.objdir config value.
	Config string
	// WorkDir is scanned for obj-* directories. Empty means the current directory.
	WorkDir string
}

// FindObjdir returns the absolute path of the build object directory.
//
// The first non-empty of Flag, $MOZ_OBJDIR and Config wins and must exist.
// Otherwise the lexically first obj-* directory in WorkDir is used.
func FindObjdir(opts ObjdirOptions) (string, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}

	explicit := []struct {
		source string
		value  string
	}{
		{"--objdir", opts.Flag},
		{ObjdirEnvVar, getenv(ObjdirEnvVar)},
		{"build.objdir", opts.Config},
	}
	for _, e := range explicit {
		if e.value == "" {
			continue
		}
		dir := e.value
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(workDir, dir)
		}
		if !isDir(dir) {
			return "", issue.NewErrorContext().
				WithOperation("locate object directory").
				WithResource(dir).
				WithSuggestion(fmt.Sprintf("Check the value of %s", e.source)).
				WithSuggestion("Run './mach build' to create the object directory").
				Wrap(ErrObjdirNotFound).
				BuildError()
		}
		return filepath.Clean(dir), nil
	}

	matches, err := filepath.Glob(filepath.Join(workDir, "obj-*"))
	if err != nil {
		return "", fmt.Errorf("failed to scan for object directories: %w", err)
	}
	slices.Sort(matches)
	for _, m := range matches {
		if isDir(m) {
			return m, nil
		}
	}

	return "", issue.NewErrorContext().
		WithOperation("locate object directory").
		WithResource(workDir).
		WithSuggestion("Pass --objdir or set " + ObjdirEnvVar).
		WithSuggestion("Set build.objdir in the gdmach config file").
		WithSuggestion("Run './mach build' from the source directory first").
		Wrap(ErrObjdirNotFound).
		BuildError()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
