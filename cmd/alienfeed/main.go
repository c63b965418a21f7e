package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glabrego/alienfeed/internal/config"
	"github.com/glabrego/alienfeed/internal/logging"
)

type rootOptions struct {
	configDir  string
	profile    string
	logLevel   string
	logConsole bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "alienfeed",
		Short:         "Terminal reader for Reddit link feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "config directory (default: $ALIENFEED_CONFIG_DIR or the user config dir)")
	root.PersistentFlags().StringVar(&opts.profile, "profile", os.Getenv("ALIENFEED_PROFILE"), "profile to open instead of the active one (env ALIENFEED_PROFILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", os.Getenv("ALIENFEED_LOG_LEVEL"), "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.logConsole, "log-console", false, "log to stderr instead of the log file (headless commands only)")

	root.AddCommand(exportCmd(opts))
	root.AddCommand(exportBookmarksCmd(opts))
	root.AddCommand(importCmd(opts))
	return root
}

// loadConfig resolves the config dir and applies the --profile override. The
// override is never written back to config.yaml.
func loadConfig(opts *rootOptions) (config.Config, error) {
	dir := opts.configDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultDir(); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if opts.profile != "" {
		if err := cfg.OverrideProfile(opts.profile); err != nil {
			return config.Config{}, fmt.Errorf("select profile %q: %w", opts.profile, err)
		}
	}
	return cfg, nil
}

func loggingOptions(opts *rootOptions, cfg config.Config, headless bool) logging.Options {
	level := opts.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	return logging.Options{
		Level:   level,
		Path:    cfg.LogPath(),
		Console: headless && opts.logConsole,
	}
}
