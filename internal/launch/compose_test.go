// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"slices"
	"testing"

	"gdmach-cli/internal/debugger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompose_NoDebugger(t *testing.T) {
	t.Parallel()

	c := NewComposer(newFakeBinaries(), newFakeDebuggers(), ComposerConfig{})
	plan, err := c.Compose(Request{PassthroughArgs: []string{"-v"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/build/geckodriver", "-v", "--binary", "/build/firefox"}, plan.Args)
	assert.Equal(t, "/build/geckodriver", plan.Executable)
	assert.Nil(t, plan.Debugger)
}

func TestCompose_BinaryOverride(t *testing.T) {
	t.Parallel()

	bins := newFakeBinaries()
	delete(bins.paths, DefaultApp)
	c := NewComposer(bins, newFakeDebuggers(), ComposerConfig{})

	plan, err := c.Compose(Request{BinaryOverride: "../nightly/firefox"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/build/geckodriver", "--binary", "../nightly/firefox"}, plan.Args)
	assert.Equal(t, []string{DefaultDriver}, bins.calls, "the app must not be resolved when overridden")
}

func TestCompose_Debugger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
		cfg  ComposerConfig
		want []string
	}{
		{
			name: "debug flag uses default",
			req:  Request{Debug: true, PassthroughArgs: []string{"-vv"}},
			want: []string{"/usr/bin/gdb", "-q", "--args", "/build/geckodriver", "-vv", "--binary", "/build/firefox"},
		},
		{
			name: "named debugger",
			req:  Request{DebuggerName: "lldb"},
			want: []string{"/usr/bin/lldb", "--", "/build/geckodriver", "--binary", "/build/firefox"},
		},
		{
			name: "debugger args alone imply default debugger",
			req:  Request{DebuggerArgs: `-ex 'break main'`},
			want: []string{"/usr/bin/gdb", "-q", "--args", "-ex", "break main", "/build/geckodriver", "--binary", "/build/firefox"},
		},
		{
			name: "explicit empty debugger args",
			req:  Request{DebuggerArgsSet: true},
			want: []string{"/usr/bin/gdb", "-q", "--args", "/build/geckodriver", "--binary", "/build/firefox"},
		},
		{
			name: "configured default debugger",
			req:  Request{Debug: true},
			cfg:  ComposerConfig{DefaultDebugger: "rr"},
			want: []string{"/usr/bin/rr", "record", "/build/geckodriver", "--binary", "/build/firefox"},
		},
		{
			name: "named debugger beats configured default",
			req:  Request{DebuggerName: "lldb", DebuggerArgs: "-o run"},
			cfg:  ComposerConfig{DefaultDebugger: "rr"},
			want: []string{"/usr/bin/lldb", "--", "-o", "run", "/build/geckodriver", "--binary", "/build/firefox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan, err := NewComposer(newFakeBinaries(), newFakeDebuggers(), tt.cfg).Compose(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Args)
			require.NotNil(t, plan.Debugger)
			assert.Equal(t, tt.want[0], plan.Executable)
		})
	}
}

func TestCompose_EscapedArgs(t *testing.T) {
	t.Parallel()

	req := Request{PassthroughArgs: []string{`--profile=C:\moz\p`}, BinaryOverride: `C:\ff\firefox.exe`}

	lldb := req
	lldb.DebuggerName = "lldb"
	lldb.DebuggerArgs = `-o 'settings set a\b'`
	plan, err := NewComposer(newFakeBinaries(), newFakeDebuggers(), ComposerConfig{}).Compose(lldb)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/usr/bin/lldb", "--", "-o", `settings set a\b`,
		"/build/geckodriver", `--profile=C:\\moz\\p`, "--binary", `C:\\ff\\firefox.exe`,
	}, plan.Args, "only the debugged program's arguments are escaped")
	assert.Equal(t, `C:\ff\firefox.exe`, plan.App)

	gdb := req
	gdb.DebuggerName = "gdb"
	plan, err = NewComposer(newFakeBinaries(), newFakeDebuggers(), ComposerConfig{}).Compose(gdb)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/usr/bin/gdb", "-q", "--args",
		"/build/geckodriver", `--profile=C:\moz\p`, "--binary", `C:\ff\firefox.exe`,
	}, plan.Args)
}

func TestCompose_DefaultDebuggerSearchPolicy(t *testing.T) {
	t.Parallel()

	dbg := newFakeDebuggers()
	_, err := NewComposer(newFakeBinaries(), dbg, ComposerConfig{}).Compose(Request{Debug: true})
	require.NoError(t, err)
	assert.Equal(t, []debugger.SearchPolicy{debugger.KeepLooking}, dbg.policies)

	dbg = newFakeDebuggers()
	_, err = NewComposer(newFakeBinaries(), dbg, ComposerConfig{Search: debugger.OnlyFirst}).Compose(Request{Debug: true})
	require.NoError(t, err)
	assert.Equal(t, []debugger.SearchPolicy{debugger.OnlyFirst}, dbg.policies)
}

func TestCompose_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(*fakeBinaries, *fakeDebuggers)
		req      Request
		sentinel error
		check    func(t *testing.T, err error)
	}{
		{
			name:     "driver missing",
			setup:    func(b *fakeBinaries, _ *fakeDebuggers) { delete(b.paths, DefaultDriver) },
			sentinel: ErrBinaryNotFound,
			check: func(t *testing.T, err error) {
				var resErr *ResolutionError
				require.ErrorAs(t, err, &resErr)
				assert.Equal(t, DefaultDriver, resErr.Name)
				assert.True(t, resErr.Driver)
				assert.Contains(t, resErr.Hint, "--enable-geckodriver")
			},
		},
		{
			name:     "app missing",
			setup:    func(b *fakeBinaries, _ *fakeDebuggers) { delete(b.paths, DefaultApp) },
			sentinel: ErrBinaryNotFound,
			check: func(t *testing.T, err error) {
				var resErr *ResolutionError
				require.ErrorAs(t, err, &resErr)
				assert.Equal(t, DefaultApp, resErr.Name)
				assert.False(t, resErr.Driver)
				assert.Equal(t, "run ./mach build", resErr.Hint, "the resolver's own help is used")
			},
		},
		{
			name:     "no default debugger",
			setup:    func(_ *fakeBinaries, d *fakeDebuggers) { d.defaultName = "" },
			req:      Request{Debug: true},
			sentinel: ErrDebuggerUnavailable,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "Could not find a suitable debugger in your PATH.", err.Error())
			},
		},
		{
			name:     "named debugger missing",
			req:      Request{DebuggerName: "windbg"},
			sentinel: ErrDebuggerUnavailable,
			check: func(t *testing.T, err error) {
				var dbgErr *DebuggerUnavailableError
				require.ErrorAs(t, err, &dbgErr)
				assert.Equal(t, "windbg", dbgErr.Name)
			},
		},
		{
			name:     "pipe in debugger args",
			req:      Request{DebuggerArgs: "foo | bar"},
			sentinel: ErrArgumentParse,
			check: func(t *testing.T, err error) {
				var parseErr *ArgumentParseError
				require.ErrorAs(t, err, &parseErr)
				c, ok := parseErr.Char()
				assert.True(t, ok)
				assert.Equal(t, '|', c)
				assert.Contains(t, err.Error(), "'|'")
			},
		},
		{
			name:     "unterminated quote",
			req:      Request{DebuggerArgs: `-ex "run`},
			sentinel: ErrArgumentParse,
			check: func(t *testing.T, err error) {
				var parseErr *ArgumentParseError
				require.ErrorAs(t, err, &parseErr)
				_, ok := parseErr.Char()
				assert.False(t, ok)
			},
		},
		{
			name:     "missing debugger reported before bad args",
			req:      Request{DebuggerName: "windbg", DebuggerArgs: "a;b"},
			sentinel: ErrDebuggerUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bins, dbg := newFakeBinaries(), newFakeDebuggers()
			if tt.setup != nil {
				tt.setup(bins, dbg)
			}
			plan, err := NewComposer(bins, dbg, ComposerConfig{}).Compose(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "error %v should wrap %v", err, tt.sentinel)
			assert.Empty(t, plan.Args)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestCompose_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		passthrough := rapid.SliceOf(rapid.String()).Draw(rt, "passthrough")
		override := rapid.SampledFrom([]string{"", "/opt/firefox/firefox", "relative/bin"}).Draw(rt, "override")
		dbgName := rapid.SampledFrom([]string{"", "gdb", "lldb", "rr"}).Draw(rt, "debugger")
		debug := rapid.Bool().Draw(rt, "debug")

		req := Request{
			BinaryOverride:  override,
			PassthroughArgs: passthrough,
			Debug:           debug,
			DebuggerName:    dbgName,
		}
		c := NewComposer(newFakeBinaries(), newFakeDebuggers(), ComposerConfig{})

		plan, err := c.Compose(req)
		if err != nil {
			rt.Fatalf("Compose() error: %v", err)
		}

		app := "/build/firefox"
		if override != "" {
			app = override
		}
		target := append(append([]string{"/build/geckodriver"}, passthrough...), "--binary", app)

		want := target
		if debug || dbgName != "" {
			name := dbgName
			if name == "" {
				name = "gdb"
			}
			info, _ := newFakeDebuggers().Info(name, nil)
			if info.RequiresEscapedArgs {
				target = escapeArgs(target)
			}
			want = append(append([]string{info.Path}, info.Args...), target...)
		}
		if !slices.Equal(plan.Args, want) {
			rt.Fatalf("Args = %q, want %q", plan.Args, want)
		}

		again, err := c.Compose(req)
		if err != nil {
			rt.Fatalf("second Compose() error: %v", err)
		}
		if !slices.Equal(plan.Args, again.Args) {
			rt.Fatalf("Compose() is not idempotent: %q then %q", plan.Args, again.Args)
		}
	})
}

func TestCompose_PassthroughNotAliased(t *testing.T) {
	t.Parallel()

	passthrough := make([]string, 1, 8)
	passthrough[0] = "-v"
	plan, err := NewComposer(newFakeBinaries(), newFakeDebuggers(), ComposerConfig{}).Compose(Request{PassthroughArgs: passthrough})
	require.NoError(t, err)

	plan.Args[1] = "changed"
	assert.Equal(t, "-v", passthrough[0])
}
