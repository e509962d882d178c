package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"taskflow/tui/internal/config"
)

type Deps struct {
	LoadConfig  func() config.Config
	RunUI       func(context.Context, config.Config) error
	SignOut     func(config.Config) error
	CurrentUser func(config.Config) (string, error)
}

func BuildApp(deps Deps) *cli.App {
	return &cli.App{
		Name:  "taskflow",
		Usage: "task dashboard and assistant",
		Action: func(ctx *cli.Context) error {
			cfg := loadConfig(deps)
			return runUI(ctx.Context, deps, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "whoami",
				Usage: "print the signed-in user",
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					name, err := currentUser(deps, cfg)
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, name)
					return nil
				},
			},
			{
				Name:  "signout",
				Usage: "discard the stored session",
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					return signOut(deps, cfg)
				},
			},
		},
	}
}

func loadConfig(deps Deps) config.Config {
	if deps.LoadConfig != nil {
		return deps.LoadConfig()
	}
	return config.LoadConfig()
}

func runUI(ctx context.Context, deps Deps, cfg config.Config) error {
	if deps.RunUI == nil {
		return errors.New("ui runner is not configured")
	}
	return deps.RunUI(ctx, cfg)
}

func signOut(deps Deps, cfg config.Config) error {
	if deps.SignOut == nil {
		return errors.New("sign-out runner is not configured")
	}
	return deps.SignOut(cfg)
}

func currentUser(deps Deps, cfg config.Config) (string, error) {
	if deps.CurrentUser == nil {
		return "", errors.New("current-user runner is not configured")
	}
	return deps.CurrentUser(cfg)
}
