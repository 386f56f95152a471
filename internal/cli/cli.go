// Package cli wires configuration, storage and servers behind the
// innosistemas command line.
package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"innosistemas/api/internal/logging"
)

func Run(ctx context.Context, args []string) error {
	var logLevel, logFormat string
	app := &cli.Command{
		Name:  "innosistemas",
		Usage: "Course team formation API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Usage:       "Log level [debug|info|warn|error]",
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Sources:     cli.EnvVars("LOG_FORMAT"),
				Usage:       "Log format [console|json]",
				Value:       "console",
				Destination: &logFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return ctx, err
			}
			format, err := logging.ParseFormat(logFormat)
			if err != nil {
				return ctx, err
			}
			logger := logging.New(os.Stderr, level, format)
			ctx = ctxlog.With(ctx, logger)
			ctxlog.From(ctx).Debug("logger configured", "level", logLevel, "format", logFormat)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdMigrate(),
			cmdSeed(),
			cmdWhoami(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		ctxlog.From(ctx).Error("command failed", "error", goerr.Wrap(err, "failed to run app"))
		return err
	}
	return nil
}
