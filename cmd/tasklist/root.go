package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/log"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/store"
	"github.com/sandeepkv93/tasklist/internal/update"
	"github.com/sandeepkv93/tasklist/internal/views"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg update.RuntimeConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "tasklist",
		Short:         "Todo list in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  tasklist

  # Scriptable commands
  tasklist add "buy milk"
  tasklist list --status active
  tasklist clear-completed
`),
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("TASKLIST_CONFIG"), "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the SQLite database (default .tasklist.db)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newClearCompletedCmd(a))
	return cmd
}

// loadConfig layers defaults, the YAML file, the environment and flags, in
// that order.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := update.LoadRuntimeConfigFile(a.configPath, update.DefaultRuntimeConfig())
	if err != nil {
		return err
	}
	cfg = update.RuntimeConfigFromEnv(cfg)
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg
	if cmd.Flags().Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
		log.SetLevel(log.ParseLevel(a.logLevel))
		return nil
	}
	log.InitFromEnvFallback(cfg.LogLevel)
	return nil
}

func (a *app) openService() (*store.Service, io.Closer, error) {
	repo, err := storage.OpenSQLite(a.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", a.cfg.DBPath, err)
	}
	svc, err := store.NewService(repo)
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return svc, repo, nil
}

func (a *app) runTUI(ctx context.Context) error {
	if a.cfg.LogFile != "" {
		f, err := tea.LogToFile(a.cfg.LogFile, "tasklist")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	svc, closer, err := a.openService()
	if err != nil {
		return err
	}
	defer closer.Close()

	views.ApplyColorProfile()
	m := update.NewModelWithConfig(svc, a.cfg).WithContext(ctx)
	log.Infof("starting tui on %s", a.cfg.DBPath)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := a.openService()
			if err != nil {
				return err
			}
			defer closer.Close()

			created, err := svc.Insert(cmd.Context(), model.Task{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", created.ID, created.Text)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := model.ParseStatusFilter(status)
			if err != nil {
				return err
			}
			svc, closer, err := a.openService()
			if err != nil {
				return err
			}
			defer closer.Close()

			tasks, err := svc.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range tasks {
				box := "[ ]"
				if t.Done {
					box = "[x]"
				}
				fmt.Fprintf(out, "%s %s\t%s\n", box, t.Text, t.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (all|active|completed)")
	return cmd
}

func newClearCompletedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closer, err := a.openService()
			if err != nil {
				return err
			}
			defer closer.Close()

			ids, err := svc.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d task(s)\n", len(ids))
			return nil
		},
	}
}
