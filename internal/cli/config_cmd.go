package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/logging"
)

// setting maps a config file key onto a SelectionSettings field.
type setting struct {
	key string
	get func(config.SelectionSettings) string
	set func(*config.SelectionSettings, string) error
}

var settingKeys = []setting{
	{
		key: "word_delimiters",
		get: func(s config.SelectionSettings) string { return strconv.Quote(s.WordDelimiters) },
		set: func(s *config.SelectionSettings, v string) error {
			s.WordDelimiters = v
			return nil
		},
	},
	{
		key: "trim_block_selection",
		get: func(s config.SelectionSettings) string { return strconv.FormatBool(s.TrimBlockSelection) },
		set: func(s *config.SelectionSettings, v string) (err error) {
			s.TrimBlockSelection, err = strconv.ParseBool(v)
			return err
		},
	},
	{
		key: "copy_on_select",
		get: func(s config.SelectionSettings) string { return strconv.FormatBool(s.CopyOnSelect) },
		set: func(s *config.SelectionSettings, v string) (err error) {
			s.CopyOnSelect, err = strconv.ParseBool(v)
			return err
		},
	},
	{
		key: "multi_click_ms",
		get: func(s config.SelectionSettings) string { return strconv.Itoa(s.MultiClickMs) },
		set: func(s *config.SelectionSettings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("multi_click_ms must be a positive integer, got %q", v)
			}
			s.MultiClickMs = n
			return nil
		},
	},
	{
		key: "width_method",
		get: func(s config.SelectionSettings) string { return s.WidthMethod },
		set: func(s *config.SelectionSettings, v string) error {
			if v != "grapheme" && v != "wcwidth" {
				return fmt.Errorf("width_method must be grapheme or wcwidth, got %q", v)
			}
			s.WidthMethod = v
			return nil
		},
	},
	{
		key: "scrollback",
		get: func(s config.SelectionSettings) string { return strconv.Itoa(s.Scrollback) },
		set: func(s *config.SelectionSettings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("scrollback must be a non-negative integer, got %q", v)
			}
			s.Scrollback = n
			return nil
		},
	},
	{
		key: "default_fg",
		get: func(s config.SelectionSettings) string { return s.DefaultFg },
		set: func(s *config.SelectionSettings, v string) error {
			s.DefaultFg = v
			return nil
		},
	},
	{
		key: "default_bg",
		get: func(s config.SelectionSettings) string { return s.DefaultBg },
		set: func(s *config.SelectionSettings, v string) error {
			s.DefaultBg = v
			return nil
		},
	},
}

func lookupSetting(key string) (setting, bool) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	for _, s := range settingKeys {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

func settingKeyCompletions(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	keys := make([]string, 0, len(settingKeys))
	for _, s := range settingKeys {
		keys = append(keys, s.key)
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func buildConfigCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change selection settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Paths.ConfigPath)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective selection settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range settingKeys {
				if _, err := fmt.Fprintf(out, "%s = %s\n", s.key, s.get(cfg.Selection)); err != nil {
					return err
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one selection setting",
		Long: `Change one selection setting and write it to the config file. A
running viewer picks the change up without restarting.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := lookupSetting(args[0])
			if !ok {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := s.set(&cfg.Selection, args[1]); err != nil {
				return err
			}
			if err := cfg.SaveSelectionSettings(); err != nil {
				return fmt.Errorf("save %s: %w", cfg.Paths.ConfigPath, err)
			}
			logging.Info("%s", logging.Fields("op", "config.set", "key", s.key))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", s.key, s.get(cfg.Selection))
			return err
		},
	})
	return cmd
}
