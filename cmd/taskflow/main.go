package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/tui/internal/api"
	"taskflow/tui/internal/command"
	"taskflow/tui/internal/config"
	"taskflow/tui/internal/logging"
	"taskflow/tui/internal/session"
	"taskflow/tui/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag before urfave/cli so it stays a plain print
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskflow %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	app := command.BuildApp(command.Deps{
		LoadConfig:  config.LoadConfig,
		RunUI:       runUI,
		SignOut:     signOut,
		CurrentUser: currentUser,
	})

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildClient(cfg config.Config) (*api.Client, *session.Store, error) {
	sessions, err := session.NewStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate session store: %w", err)
	}

	log := logging.NewLogger(logging.Options{
		Level:     cfg.LogLevel,
		Writer:    logging.OpenLogFile(cfg.LogFile),
		Component: "taskflow",
	})

	client := api.NewClient(cfg.APIBaseURL, sessions, log, cfg.RequestTimeout)
	return client, sessions, nil
}

func runUI(ctx context.Context, cfg config.Config) error {
	client, sessions, err := buildClient(cfg)
	if err != nil {
		return err
	}

	log := logging.NewLogger(logging.Options{
		Level:     cfg.LogLevel,
		Writer:    logging.OpenLogFile(cfg.LogFile),
		Component: "ui",
	})

	app := ui.NewApp(client, sessions, log)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run application: %w", err)
	}
	return nil
}

func signOut(cfg config.Config) error {
	client, _, err := buildClient(cfg)
	if err != nil {
		return err
	}
	return client.SignOut()
}

func currentUser(cfg config.Config) (string, error) {
	_, sessions, err := buildClient(cfg)
	if err != nil {
		return "", err
	}
	sess, err := sessions.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", errors.New("not signed in")
		}
		return "", err
	}
	return fmt.Sprintf("%s <%s>", sess.DisplayName(), sess.Email), nil
}
