// Package cmd wires configuration, storage, and the engine components into
// the interactive terminal application.
package cmd

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soothhq/sooth/internal/breathing"
	"github.com/soothhq/sooth/internal/chat"
	"github.com/soothhq/sooth/internal/clock"
	"github.com/soothhq/sooth/internal/config"
	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/mood"
	"github.com/soothhq/sooth/internal/notify"
	"github.com/soothhq/sooth/internal/store"
	"github.com/soothhq/sooth/internal/streak"
	"github.com/soothhq/sooth/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "sooth",
	Short: "A quiet companion for checking in with yourself",
	Long: `Sooth is a terminal companion for daily check-ins: talk through what
is on your mind, log your mood, and follow a guided breathing exercise.
Everything stays on your machine.

Running sooth with no arguments starts the interactive session.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.New(log.Config{Level: cfg.Level()})

	st, err := store.Open(cfg.DataDir, logger)
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return fmt.Errorf("%s is in use by another sooth instance", cfg.DataDir)
		}
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	ctx := cmd.Context()
	clk := clock.System{}
	queue := &notify.Queue{}
	tracker := streak.New(st, queue, logger)

	m, err := tui.New(ctx, tui.Deps{
		Session: chat.NewSession(uuid.New(), st, clk, logger),
		Client:  chat.NewClient(cfg.ServerURL, logger),
		Tracker: tracker,
		Journal: mood.New(st, queue, logger),
		Breath:  breathing.New(tracker, queue, logger),
		Queue:   queue,
		KV:      st,
		Clock:   clk,
		Logger:  logger,
		Theme:   cfg.Theme,
	})
	if err != nil {
		return err
	}

	// The model holds the same ctx, so tea.Quit and external cancellation
	// share one shutdown path.
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
