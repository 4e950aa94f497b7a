// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"gdmach-cli/internal/config"
	"gdmach-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `gdmach config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the gdmach configuration",
		Long: `Inspect and create the gdmach configuration.

gdmach reads config.cue, or config.toml, from $XDG_CONFIG_HOME/gdmach and
then from the current directory. GDMACH_* environment variables override
file values, e.g. GDMACH_BUILD_OBJDIR for build.objdir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where gdmach looks for its config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema config files are checked against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.Schema())
			return nil
		},
	})

	cfgCmd.AddCommand(newConfigInitCommand())

	return cfgCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		format string
		force  bool
		stdout bool
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := config.Format(format)
			if stdout {
				data, err := config.Generate(config.DefaultConfig(), f)
				if err != nil {
					return newServiceError(err, 0, "")
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path, err := config.WriteDefault(dir, f, force)
			if errors.Is(err, config.ErrConfigExists) {
				err = fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if err != nil {
				return newServiceError(err, 0, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Created")+" "+path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "file format: cue or toml")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the file instead of writing it")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write to (default is the gdmach config directory)")

	return cmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	s, err := app.loadSession(cmd.Context())
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	out := cmd.OutOrStdout()
	source := s.cfgPath
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(out, "# source: "+source)

	data, err := config.GenerateTOML(s.cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	out := cmd.OutOrStdout()
	if app.flags.configPath != "" {
		fmt.Fprintln(out, app.flags.configPath)
		return nil
	}

	found := false
	for _, c := range config.Candidates("") {
		mark := SubtitleStyle.Render("(missing)")
		if info, err := os.Stat(c); err == nil && !info.IsDir() && !found {
			mark = SuccessStyle.Render("(used)")
			found = true
		}
		fmt.Fprintln(out, CmdStyle.Render(c)+" "+mark)
	}
	return nil
}
