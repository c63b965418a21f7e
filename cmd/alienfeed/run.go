package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/alienfeed/internal/app"
	"github.com/glabrego/alienfeed/internal/logging"
	"github.com/glabrego/alienfeed/internal/tui"
)

var errImportCancelled = errors.New("import cancelled")

// runTUI opens the active profile and runs the program. A profile switch ends
// the program; the loop then reopens everything against the new profile.
func runTUI(opts *rootOptions) error {
	for {
		next, err := runProfile(opts)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		opts.afterSwitch()
	}
}

// afterSwitch drops the startup profile override, whether it came from
// --profile or ALIENFEED_PROFILE. The switch itself was saved to config.yaml.
func (o *rootOptions) afterSwitch() {
	o.profile = ""
}

func runProfile(opts *rootOptions) (string, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return "", err
	}
	logger, closer, err := logging.Setup(loggingOptions(opts, cfg, false))
	if err != nil {
		return "", err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	rt, err := app.Open(ctx, cfg, logger)
	if err != nil {
		cancel()
		return "", fmt.Errorf("storage init error: %w", err)
	}
	defer rt.Close()

	items, err := rt.Service.ListItems(ctx, cfg.General.BlockedDomains)
	cancel()
	if err != nil {
		return "", fmt.Errorf("cannot load stored articles: %w", err)
	}

	rt.Start()
	model := tui.NewModel(rt.Service, rt.State, cfg, items)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	rt.Stop()
	if err != nil {
		return "", fmt.Errorf("tui error: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return "", nil
	}
	if err := m.Err(); err != nil {
		logger.Error().Err(err).Str("profile", cfg.ActiveProfile).Msg("fatal error")
		return "", err
	}
	if next := m.NextProfile(); next != "" {
		logger.Info().Str("from", cfg.ActiveProfile).Str("to", next).Msg("switching profile")
		return next, nil
	}
	return "", nil
}

func exportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a full database backup into the backups directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(ctx context.Context, rt *app.Runtime) error {
				path, err := rt.Service.Backup(ctx, rt.Config.BackupsDir())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
				return nil
			})
		},
	}
}

func exportBookmarksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export-bookmarks",
		Short: "Write bookmarked articles to an HTML file in the backups directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(ctx context.Context, rt *app.Runtime) error {
				path, err := rt.Service.ExportBookmarks(ctx, rt.Config.BackupsDir())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmarks exported to %s\n", path)
				return nil
			})
		},
	}
}

func importCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <backup.db>",
		Short: "Replace the active profile's database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, closer, err := logging.Setup(loggingOptions(opts, cfg, true))
			if err != nil {
				return err
			}
			defer closer.Close()

			dest := cfg.DatabasePath(cfg.Active())
			if !yes {
				question := fmt.Sprintf("Replace %s with %s?", dest, args[0])
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
					return errImportCancelled
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := app.ImportDatabase(ctx, args[0], dest); err != nil {
				return err
			}
			logger.Info().Str("src", args[0]).Str("dest", dest).Msg("database imported")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into profile %s\n", args[0], cfg.ActiveProfile)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// withRuntime opens the active profile without starting the fetcher.
func withRuntime(opts *rootOptions, fn func(context.Context, *app.Runtime) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closer, err := logging.Setup(loggingOptions(opts, cfg, true))
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	rt, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
