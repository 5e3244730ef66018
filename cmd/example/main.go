package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/managed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Replay the managed pointer lifecycle demo",
		Long: `Replays a sequence of managed.Ptr operations on dogs that announce their
creation and destruction, so the order of lifecycle events can be checked.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Log handle lifecycle events to stderr")
	cmd.Flags().BoolP("interactive", "i", false, "Step through the demo in a TUI")
	cmd.Flags().String("log-level", "debug", "Log level when verbose (debug, info, warn, error)")

	return cmd
}

func run(cfg *config) error {
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if cfg.Interactive {
		if !stdoutTTY {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		// The TUI owns the screen, so logs would only corrupt it.
		return runInteractive()
	}

	log, err := cfg.logger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck
	managed.SetLogger(log)

	var mark func(string) string
	if stdoutTTY {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
		mark = func(s string) string { return style.Render(s) }
	}
	newScenario(os.Stdout, mark).runAll()
	return nil
}
