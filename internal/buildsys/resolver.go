// SPDX-License-Identifier: MPL-2.0

package buildsys

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const (
	// AppBinary is the logical name of the application binary.
	AppBinary = "app"

	// DefaultBinDir is where the build installs binaries, relative to the objdir.
	DefaultBinDir = "dist/bin"
)

// ErrBinaryNotFound is the sentinel wrapped by BinaryNotFoundError.
var ErrBinaryNotFound = errors.New("binary not found")

type (
	// Binary is a built executable found in the object directory.
	Binary struct {
		Name    string
		Path    string
		Size    int64
		ModTime time.Time
	}

	// BinaryNotFoundError reports a binary missing from the object directory.
	BinaryNotFoundError struct {
		Name  string
		Path  string
		Cause error
	}

	// Resolver locates built binaries inside an object directory.
	Resolver struct {
		objdir    string
		binDir    string
		appName   string
		macBundle string
		goos      string
		logger    *log.Logger
	}

	// ResolverConfig configures a Resolver.
	ResolverConfig struct {
		// Objdir is the absolute object directory path.
		Objdir string
		// BinDir is relative to Objdir. Empty means DefaultBinDir.
		BinDir string
		// AppName is the file name AppBinary maps to, e.g. "firefox".
		AppName string
		// MacBundle is the .app bundle holding the application on macOS.
		// Empty means the first *.app bundle found.
		MacBundle string
		// GOOS overrides the host operating system.
		GOOS string
		// Logger receives debug output. Nil discards it.
		Logger *log.Logger
	}
)

// Error implements the error interface.
func (e *BinaryNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("binary not found: %s: %v", e.Path, e.Cause)
	}
	return "binary not found: " + e.Path
}

// Unwrap returns ErrBinaryNotFound so callers can use errors.Is.
func (e *BinaryNotFoundError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrBinaryNotFound, e.Cause}
	}
	return []error{ErrBinaryNotFound}
}

// Help returns the remediation text shown to the user.
func (e *BinaryNotFoundError) Help() string {
	return "It looks like your program isn't built. You can run |./mach build| to build it."
}

// NewResolver creates a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.BinDir == "" {
		cfg.BinDir = DefaultBinDir
	}
	if cfg.GOOS == "" {
		cfg.GOOS = goruntime.GOOS
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Resolver{
		objdir:    cfg.Objdir,
		binDir:    cfg.BinDir,
		appName:   cfg.AppName,
		macBundle: cfg.MacBundle,
		goos:      cfg.GOOS,
		logger:    cfg.Logger,
	}
}

// Objdir returns the object directory the resolver searches.
func (r *Resolver) Objdir() string { return r.objdir }

// BinaryPath resolves name to the absolute path of a built executable.
func (r *Resolver) BinaryPath(name string) (string, error) {
	bin, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return bin.Path, nil
}

// Resolve finds a built binary by name. AppBinary resolves to the
// configured application.
func (r *Resolver) Resolve(name string) (Binary, error) {
	path := r.candidatePath(name)

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return Binary{}, &BinaryNotFoundError{Name: name, Path: path, Cause: unwrapPathError(err)}
	case info.IsDir():
		return Binary{}, &BinaryNotFoundError{Name: name, Path: path, Cause: errors.New("is a directory")}
	case r.goos != "windows" && info.Mode().Perm()&0o111 == 0:
		return Binary{}, &BinaryNotFoundError{Name: name, Path: path, Cause: errors.New("not executable")}
	}

	bin := Binary{Name: name, Path: path, Size: info.Size(), ModTime: info.ModTime()}
	r.logger.Debug("resolved binary",
		"name", name,
		"path", path,
		"size", humanize.Bytes(uint64(max(bin.Size, 0))),
		"built", humanize.Time(bin.ModTime),
	)
	return bin, nil
}

func (r *Resolver) candidatePath(name string) string {
	fileName := name
	if name == AppBinary && r.appName != "" {
		fileName = r.appName
	}

	if name == AppBinary && r.goos == "darwin" {
		if p, ok := r.macAppPath(fileName); ok {
			return p
		}
	}

	if r.goos == "windows" && filepath.Ext(fileName) == "" {
		fileName += ".exe"
	}
	return filepath.Join(r.objdir, filepath.FromSlash(r.binDir), fileName)
}

// macAppPath finds the application inside a dist/*.app bundle.
func (r *Resolver) macAppPath(fileName string) (string, bool) {
	dist := filepath.Join(r.objdir, "dist")
	if r.macBundle != "" {
		return filepath.Join(dist, r.macBundle, "Contents", "MacOS", fileName), true
	}
	bundles, err := filepath.Glob(filepath.Join(dist, "*.app"))
	if err != nil || len(bundles) == 0 {
		return "", false
	}
	slices.Sort(bundles)
	return filepath.Join(bundles[0], "Contents", "MacOS", fileName), true
}

// unwrapPathError drops the *fs.PathError wrapper, whose path duplicates
// the one BinaryNotFoundError already reports.
func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
