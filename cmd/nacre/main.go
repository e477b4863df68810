package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nacre-sh/nacre/internal/agent"
	"github.com/nacre-sh/nacre/internal/capture"
	"github.com/nacre-sh/nacre/internal/chat"
	"github.com/nacre-sh/nacre/internal/config"
	"github.com/nacre-sh/nacre/internal/history"
	"github.com/nacre-sh/nacre/internal/logging"
	"github.com/nacre-sh/nacre/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	var exitCode int
	root := newRootCmd(&exitCode)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nacre:", err)
		return 1
	}
	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		agentAddr   string
		shellCmd    string
		historyPath string
		logLevel    string
	)

	root := &cobra.Command{
		Use:           "nacre",
		Short:         "Terminal session manager with an embedded agent chat",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadOrDefault()
			if cmd.Flags().Changed("agent") {
				cfg.Agent.Address = agentAddr
			}
			if cmd.Flags().Changed("shell") {
				cfg.Shell.Command = shellCmd
			}
			if cmd.Flags().Changed("history") {
				cfg.History.Path = historyPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			code, err := runSession(cfg)
			if err != nil {
				return err
			}
			*exitCode = code
			return nil
		},
	}

	root.Flags().StringVar(&agentAddr, "agent", "127.0.0.1:50051", "agent service address")
	root.Flags().StringVar(&shellCmd, "shell", "", "shell to spawn (default $SHELL)")
	root.Flags().StringVar(&historyPath, "history", "", "command history database path")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return root
}

func runSession(cfg *config.Config) (int, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		File:        cfg.Logging.File,
	})
	if err != nil {
		return 0, fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	fmt.Printf("nacre · type %s at the prompt to chat · log: %s\n",
		cfg.Shell.Trigger, logging.DefaultFile())

	var engineOpts []capture.Option
	if cfg.History.Enabled {
		store, err := openHistory(cfg.History.Path, logger.Logger)
		if err != nil {
			// History is best-effort; the session runs without it.
			logger.Warn("history store unavailable", zap.Error(err))
		} else {
			defer store.Close()
			engineOpts = append(engineOpts, capture.WithOnFinalize(store.Record))
		}
	}

	client := agent.NewClient(cfg.Agent.Address, agent.RetryPolicy{
		MaxRetries:     cfg.Agent.MaxRetries,
		BaseDelay:      agent.DefaultRetryPolicy().BaseDelay,
		ConnectTimeout: cfg.Agent.ConnectTimeout,
		RequestTimeout: cfg.Agent.RequestTimeout,
	}, logger.Logger)
	defer client.Close()

	sess := session.New(session.Config{
		ShellCommand: cfg.Shell.Command,
		TriggerKey:   cfg.Shell.TriggerRune(),
		Engine:       capture.NewEngine(logger.Logger, engineOpts...),
		Bridge:       chat.NewBridge(client, logger.Logger),
		Logger:       logger.Logger,
	})
	return sess.Run()
}

// openHistory opens the configured history database, defaulting to
// ~/.nacre/history.db.
func openHistory(path string, logger *zap.Logger) (*history.Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".nacre")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
		path = filepath.Join(dir, "history.db")
	}
	return history.Open(path, logger)
}
