package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/xvierd/pomo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit timer settings",
	Long: `Show the configuration, or change a single value with "pomo config set".
Durations use Go syntax such as 25m or 1h; the day start uses HH:MM.`,
	// Config commands must work even when the stored configuration is
	// invalid, so they skip service initialization.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app.config = cfg
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		printConfig(cmd.OutOrStdout(), app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), args[1]
		if !config.IsKey(key) {
			return unknownKeyError(key)
		}

		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Set(path, key, value)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s = %v\n", key, config.Values(cfg)[key])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

// printConfig lists every key grouped by section.
func printConfig(w io.Writer, cfg *config.Config) {
	values := config.Values(cfg)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	section := ""
	for _, k := range keys {
		sec, name, _ := strings.Cut(k, ".")
		if sec != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  [%s]\n", sec)
			section = sec
		}
		fmt.Fprintf(w, "    %-28s %v\n", name, values[k])
	}
}

// suggestKeys returns the config keys closest to a mistyped one.
func suggestKeys(key string, limit int) []string {
	matches := fuzzy.Find(key, config.Keys())
	if len(matches) == 0 {
		// Fall back to matching the part after the section.
		if _, name, ok := strings.Cut(key, "."); ok {
			matches = fuzzy.Find(name, config.Keys())
		}
	}
	out := make([]string, 0, limit)
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func unknownKeyError(key string) error {
	if s := suggestKeys(key, 3); len(s) > 0 {
		return fmt.Errorf("unknown config key %q, did you mean %s?", key, strings.Join(s, ", "))
	}
	return fmt.Errorf("unknown config key %q (run \"pomo config\" to list keys)", key)
}
