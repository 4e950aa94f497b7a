// SPDX-License-Identifier: MPL-2.0

package debugger

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"strings"
)

const (
	// KeepLooking tries every default candidate until one is installed.
	KeepLooking SearchPolicy = "keep-looking"
	// OnlyFirst considers only the first default candidate for the platform.
	OnlyFirst SearchPolicy = "only-first"
)

// ErrInvalidSearchPolicy is returned when a SearchPolicy value is not recognized.
var ErrInvalidSearchPolicy = errors.New("invalid debugger search policy")

type (
	// SearchPolicy controls how the default debugger is picked.
	SearchPolicy string

	// Definition describes how a debugger wraps the program it debugs.
	Definition struct {
		// Name is the command name looked up on PATH.
		Name string
		// Args are placed between the debugger and the debugged program.
		Args []string
		// Interactive debuggers take over the terminal.
		Interactive bool
		// RequiresEscapedArgs is set for debuggers that re-parse the
		// arguments of the program they launch.
		RequiresEscapedArgs bool
	}

	// Info is a debugger resolved to a concrete executable.
	Info struct {
		Name                string
		Path                string
		Args                []string
		Interactive         bool
		RequiresEscapedArgs bool
	}

	// Resolver finds debuggers on the host.
	Resolver struct {
		known    map[string]Definition
		goos     string
		lookPath func(string) (string, error)
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

// builtins mirrors the debuggers the build tooling knows how to drive.
var builtins = []Definition{
	{Name: "gdb", Args: []string{"-q", "--args"}, Interactive: true},
	{Name: "cgdb", Args: []string{"-q", "--args"}, Interactive: true},
	{Name: "rust-gdb", Args: []string{"-q", "--args"}, Interactive: true},
	{Name: "lldb", Args: []string{"--"}, Interactive: true, RequiresEscapedArgs: true},
	{Name: "rust-lldb", Args: []string{"--"}, Interactive: true, RequiresEscapedArgs: true},
	{Name: "rr", Args: []string{"record"}},
	{Name: "devenv.exe", Args: []string{"-debugexe"}, Interactive: true},
	{Name: "wdexpress.exe", Args: []string{"-debugexe"}, Interactive: true},
	{Name: "valgrind"},
}

// defaultCandidates lists the preferred debuggers per operating system.
var defaultCandidates = map[string][]string{
	"darwin":  {"lldb", "gdb"},
	"windows": {"devenv.exe", "wdexpress.exe"},
}

// IsValid reports whether the policy is a known value.
func (p SearchPolicy) IsValid() (bool, []error) {
	switch p {
	case KeepLooking, OnlyFirst:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidSearchPolicy, string(p))}
	}
}

// WithDefinitions registers extra debuggers, overriding builtins of the same name.
func WithDefinitions(defs ...Definition) Option {
	return func(r *Resolver) {
		for _, d := range defs {
			if d.Name != "" {
				r.known[d.Name] = d
			}
		}
	}
}

// WithGOOS makes the resolver pick defaults for another operating system.
func WithGOOS(goos string) Option {
	return func(r *Resolver) { r.goos = goos }
}

// WithLookPath replaces exec.LookPath for PATH searches.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Resolver) { r.lookPath = fn }
}

// NewResolver creates a Resolver seeded with the builtin debugger table.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		known:    make(map[string]Definition, len(builtins)),
		goos:     goruntime.GOOS,
		lookPath: exec.LookPath,
	}
	for _, d := range builtins {
		r.known[d.Name] = d
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultName returns the name of the default debugger for the platform.
//
// With OnlyFirst the first candidate is returned only if it is installed.
// With KeepLooking each candidate is tried in order. An empty name means
// nothing usable was found.
func (r *Resolver) DefaultName(policy SearchPolicy) string {
	for _, name := range r.Candidates() {
		if _, err := r.lookPath(name); err == nil {
			return name
		}
		if policy == OnlyFirst {
			return ""
		}
	}
	return ""
}

// Candidates returns the default debugger names for the platform, most
// preferred first.
func (r *Resolver) Candidates() []string {
	if names, ok := defaultCandidates[r.goos]; ok {
		return slices.Clone(names)
	}
	return []string{"gdb", "lldb"}
}

// Info resolves name to an executable and returns its launch prefix, with
// extraArgs appended after the debugger's own fixed arguments.
//
// The name may be a path to an executable file or a command on PATH. For
// paths and unknown commands the table entry is chosen by base name. The
// second result is false when the debugger cannot be found.
func (r *Resolver) Info(name string, extraArgs []string) (Info, bool) {
	if strings.TrimSpace(name) == "" {
		return Info{}, false
	}

	path := ""
	if isExecutableFile(name) {
		path = name
	} else if found, err := r.lookPath(name); err == nil {
		path = found
	}
	if path == "" {
		return Info{}, false
	}

	def := r.lookup(name, path)
	args := make([]string, 0, len(def.Args)+len(extraArgs))
	args = append(args, def.Args...)
	args = append(args, extraArgs...)

	return Info{
		Name:                def.Name,
		Path:                path,
		Args:                args,
		Interactive:         def.Interactive,
		RequiresEscapedArgs: def.RequiresEscapedArgs,
	}, true
}

// Known returns the registered debugger definitions sorted by name.
func (r *Resolver) Known() []Definition {
	defs := make([]Definition, 0, len(r.known))
	for _, d := range r.known {
		defs = append(defs, d)
	}
	slices.SortFunc(defs, func(a, b Definition) int { return strings.Compare(a.Name, b.Name) })
	return defs
}

// Available reports whether the named debugger can be found on the host.
func (r *Resolver) Available(name string) (string, bool) {
	info, ok := r.Info(name, nil)
	return info.Path, ok
}

func (r *Resolver) lookup(name, path string) Definition {
	if def, ok := r.known[name]; ok {
		return def
	}
	base := strings.ToLower(filepath.Base(path))
	if def, ok := r.known[base]; ok {
		return def
	}
	if def, ok := r.known[strings.TrimSuffix(base, ".exe")]; ok {
		return def
	}
	return Definition{Name: base}
}

func isExecutableFile(path string) bool {
	if !strings.ContainsRune(path, os.PathSeparator) && !strings.ContainsRune(path, '/') {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if goruntime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
