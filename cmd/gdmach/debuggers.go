// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"gdmach-cli/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newDebuggersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "debuggers",
		Short: "List the debuggers gdmach knows and which are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDebuggers(cmd, app)
		},
	}
}

func listDebuggers(cmd *cobra.Command, app *App) error {
	s, err := app.loadSession(cmd.Context())
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}
	policy, err := app.searchPolicy(s)
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	resolver := app.debuggerResolver(s)
	candidates := resolver.Candidates()
	chosen := s.cfg.Debugger.Default
	if chosen == "" {
		chosen = resolver.DefaultName(policy)
	}

	rows := [][]string{{"NAME", "ARGS", "PATH", ""}}
	for _, d := range resolver.Known() {
		path, ok := resolver.Available(d.Name)
		if !ok {
			path = "-"
		}
		var notes []string
		if d.Name == chosen {
			notes = append(notes, "default")
		} else if slices.Contains(candidates, d.Name) {
			notes = append(notes, "candidate")
		}
		if d.Interactive {
			notes = append(notes, "interactive")
		}
		rows = append(rows, []string{d.Name, strings.Join(d.Args, " "), path, strings.Join(notes, ", ")})
	}

	out := cmd.OutOrStdout()
	widths := columnWidths(rows)
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			style := tableCellStyle
			if i == 0 {
				style = tableHeaderStyle
			}
			cells[j] = style.Width(widths[j] + 2).Render(cell)
		}
		fmt.Fprintln(out, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
	}

	if chosen == "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, WarningStyle.Render("No default debugger found on PATH (looked for "+strings.Join(candidates, ", ")+")."))
	}
	return nil
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], lipgloss.Width(cell))
		}
	}
	return widths
}
