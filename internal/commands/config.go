package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/intakechat/internal/config"
	"github.com/diogo/intakechat/internal/render"
)

// newConfigCmd creates the config command and its subcommands
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change intakechat settings.

Settings live in ~/.intakechat/config.json. Environment variables with the
INTAKECHAT_ prefix (and OPENAI_API_KEY) override the file.`,
		// Replaces the root hook: config edits need no log file or theme
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, a)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: fmt.Sprintf(`Change one setting and save the config file.

Valid keys:
  %s

TUI themes: %s`, strings.Join(config.SettableKeys(), "\n  "), strings.Join(render.TUIThemeNames(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, a, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command, a *app) error {
	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return err
	}

	rows := []struct {
		key   string
		value any
	}{
		{"api_key", cfg.MaskedAPIKey()},
		{"assistant_id", cfg.AssistantID},
		{"base_url", cfg.BaseURL},
		{"poll_interval", cfg.PollInterval},
		{"request_timeout", cfg.RequestTimeout},
		{"log_file", cfg.LogFile},
		{"log_level", cfg.LogLevel},
		{"copy_to_clipboard", cfg.CopyToClipboard},
		{"tui_theme", cfg.TUITheme},
		{"markdown.style", cfg.Markdown.Style},
		{"markdown.enable_emoji", cfg.Markdown.EnableEmoji},
		{"markdown.preserve_newlines", cfg.Markdown.PreserveNewLines},
		{"markdown.table_wrap", cfg.Markdown.TableWrap},
		{"markdown.inline_table_links", cfg.Markdown.InlineTableLinks},
	}

	out := cmd.OutOrStdout()
	for _, r := range rows {
		fmt.Fprintf(out, "%-28s %v\n", r.key, r.value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, a *app, key, value string) error {
	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (valid: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}

	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	if a.configPath == "" {
		if _, err := config.EnsureConfigDir(); err != nil {
			return err
		}
	}

	// file values only, so environment overrides are not persisted
	cfg, err := config.LoadFileConfigFrom(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfigTo(cfg, path); err != nil {
		return err
	}

	shown := value
	if key == "api_key" {
		shown = cfg.MaskedAPIKey()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, shown)
	return nil
}
