// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/internal/config"
	"github.com/invowk/umlgraph/internal/issue"
)

// newConfigCommand creates the `umlgraph config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage umlgraph configuration",
		Long: `Manage umlgraph configuration.

Configuration is stored in:
  - Linux: ~/.config/umlgraph/config.cue
  - macOS: ~/Library/Application Support/umlgraph/config.cue
  - Windows: %APPDATA%\umlgraph\config.cue

A config.cue in the working directory is used when the user file does not
exist. Environment variables such as UMLGRAPH_TRANSFORM_CYCLE_POLICY
override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions(cmd.Context()))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	opts := loadOptions(ctx)

	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		if rootFlagsFromContext(ctx).verbose {
			renderIssue(cmd.ErrOrStderr(), issue.ConfigLoadFailedId, "")
		}
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	path, err := config.Locate(opts)
	if err == nil && path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("codec"))
	fmt.Fprintf(out, "  apply_sorting: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Codec.ApplySorting)))
	fmt.Fprintf(out, "  includes_primitives: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Codec.IncludesPrimitives)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("transform"))
	fmt.Fprintf(out, "  dependency_kinds: %s\n", valueStyle.Render(strings.Join(cfg.Transform.DependencyKinds, ", ")))
	fmt.Fprintf(out, "  cycle_policy: %s\n", valueStyle.Render(cfg.Transform.CyclePolicy))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("naming"))
	fmt.Fprintf(out, "  separator: %s\n", valueStyle.Render(fmt.Sprintf("%q", cfg.Naming.Separator)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

// initConfig writes the defaults to the --config path, or to the user
// config directory when none is given.
func initConfig(cmd *cobra.Command) error {
	opts := loadOptions(cmd.Context())
	path := opts.ConfigFilePath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(opts); err != nil {
			return err
		}
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration already exists at %s\n", warningIcon, path)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", successIcon, path)
	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	opts := loadOptions(cmd.Context())

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config directory: %s\n", cfgDir)

	path, err := config.Locate(opts)
	if err != nil {
		return err
	}
	if path == "" {
		defaultPath, err := config.DefaultPath(opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Config file: %s %s\n", defaultPath, SubtitleStyle.Render("(not created)"))
		return nil
	}
	fmt.Fprintf(out, "Config file: %s\n", path)
	return nil
}
