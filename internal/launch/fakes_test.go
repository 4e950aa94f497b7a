// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"

	"gdmach-cli/internal/debugger"
	"gdmach-cli/internal/runtime"
)

type (
	notBuiltError struct{ name string }

	fakeBinaries struct {
		paths map[string]string
		calls []string
	}

	fakeDebuggers struct {
		defaultName string
		installed   map[string]debugger.Info
		policies    []debugger.SearchPolicy
	}

	spyRunner struct {
		requests []runtime.Request
		result   *runtime.Result
	}
)

func (e *notBuiltError) Error() string { return e.name + " is not built" }
func (e *notBuiltError) Help() string  { return "run ./mach build" }

func newFakeBinaries() *fakeBinaries {
	return &fakeBinaries{paths: map[string]string{
		DefaultDriver: "/build/geckodriver",
		DefaultApp:    "/build/firefox",
	}}
}

func (f *fakeBinaries) BinaryPath(name string) (string, error) {
	f.calls = append(f.calls, name)
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", &notBuiltError{name: name}
}

func newFakeDebuggers() *fakeDebuggers {
	return &fakeDebuggers{
		defaultName: "gdb",
		installed: map[string]debugger.Info{
			"gdb":  {Name: "gdb", Path: "/usr/bin/gdb", Args: []string{"-q", "--args"}, Interactive: true},
			"lldb": {Name: "lldb", Path: "/usr/bin/lldb", Args: []string{"--"}, Interactive: true, RequiresEscapedArgs: true},
			"rr":   {Name: "rr", Path: "/usr/bin/rr", Args: []string{"record"}},
		},
	}
}

func (f *fakeDebuggers) DefaultName(policy debugger.SearchPolicy) string {
	f.policies = append(f.policies, policy)
	return f.defaultName
}

func (f *fakeDebuggers) Info(name string, extraArgs []string) (debugger.Info, bool) {
	info, ok := f.installed[name]
	if !ok {
		return debugger.Info{}, false
	}
	info.Args = append(append([]string{}, info.Args...), extraArgs...)
	return info, true
}

func (s *spyRunner) Run(_ context.Context, req runtime.Request) *runtime.Result {
	s.requests = append(s.requests, req)
	if s.result == nil {
		return runtime.NewSuccessResult()
	}
	return s.result
}
