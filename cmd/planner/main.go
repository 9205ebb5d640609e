package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/course-planner/pkg/config"
	"github.com/noah-isme/course-planner/pkg/logger"
)

var (
	Version = "dev"

	cfg  *config.Config
	logr *zap.Logger
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "planner"
	app.Usage = "generate ranked weekly timetables from a course catalog"
	app.Commands = append(
		app.Commands,
		&generateCommand,
		&inspectCommand,
		&pruneCommand,
	)
	app.Before = func(ctx *cli.Context) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		if ctx.Bool(verboseFlag.Name) {
			cfg.Log.Level = "debug"
		} else if cfg.Log.Level == "" || cfg.Log.Level == "info" {
			cfg.Log.Level = "warn"
		}
		cfg.Log.Format = "console"
		l, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logr = l
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if logr != nil {
			_ = logr.Sync()
		}
		return nil
	}
	app.Flags = []cli.Flag{verboseFlag}
	return app
}
