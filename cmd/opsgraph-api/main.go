package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/opsgraph/opsgraph/pkg/cmd"
	"github.com/opsgraph/opsgraph/pkg/log"
	"github.com/opsgraph/opsgraph/pkg/otelhelper"
)

const defaultPort = 8090

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "opsgraph-api",
		Usage:                 "Compose monitoring graphs and run their flows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Persistence URL (file path, postgres:// or redis://)",
				Value:   "./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "service-url",
				Usage:    "Base URL of the analysis/notification service",
				Required: true,
				Sources:  cli.EnvVars("SERVICE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Optional cron expression for periodic execution",
				Sources: cli.EnvVars("EXECUTION_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing opsgraph API")

			persist, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persist.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			api := NewAPI(logger, persist, eventBus, command.String("service-url"))

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "opsgraph-api")
				if err != nil {
					return err
				}

				api.tracer = tracer
			}

			return api.Start(ctx, int(command.Int("port")), command.String("schedule"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
