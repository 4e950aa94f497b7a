// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"testing"

	"gdmach-cli/internal/issue"

	"github.com/charmbracelet/fang"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.0"
		Commit = "9f1c2ab"
		BuildDate = "2026-03-02T08:00:00Z"

		got := getVersionString()
		want := "v0.3.0 (commit: 9f1c2ab, built: 2026-03-02T08:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		// Test binaries report Main.Version == "(devel)".
		Version = "dev"

		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := NewRootCommand(NewApp(Dependencies{}))
	for _, name := range []string{"driver-run", "geckodriver", "driver-test", "geckodriver-test", "debuggers", "config"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantEmpty bool
		want      string
	}{
		{
			name:      "already reported",
			err:       &ExitError{Code: 4},
			wantEmpty: true,
		},
		{
			name: "service error with catalog entry",
			err:  &ExitError{Code: 1, Err: newServiceError(errors.New("boom"), issue.MakeNotFoundId, "")},
			want: "boom",
		},
		{
			name: "actionable error",
			err: issue.NewErrorContext().
				WithOperation("locate object directory").
				WithSuggestion("Pass --objdir").
				Wrap(errors.New("nope")).
				BuildError(),
			want: "Pass --objdir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := NewApp(Dependencies{IsTerminal: func(any) bool { return false }})
			var buf bytes.Buffer
			app.handleError(&buf, fang.Styles{}, tt.err)

			if tt.wantEmpty {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.want)) {
				t.Errorf("output is missing %q:\n%s", tt.want, buf.String())
			}
		})
	}
}
