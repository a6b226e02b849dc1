// Package main runs the Flowgraph API server: execution control endpoints,
// webhook ingress, and the cron scheduler.
package main

import (
	"context"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/flowgraph-io/flowgraph/pkg/cmd"
	"github.com/flowgraph-io/flowgraph/pkg/log"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
	"github.com/flowgraph-io/flowgraph/pkg/queue"
	"github.com/flowgraph-io/flowgraph/pkg/scheduler"
	"github.com/flowgraph-io/flowgraph/pkg/services"
	"github.com/flowgraph-io/flowgraph/pkg/web"
)

const defaultPort = 9090

func main() {
	command := &cli.Command{
		Name:                  "flowgraph-api",
		Usage:                 "Run and observe workflow executions",
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
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "queue-url",
				Usage:   "Queue connection URL (memory://, kafka://, redis://)",
				Value:   "memory://",
				Sources: cli.EnvVars("QUEUE_URL"),
			},
			&cli.StringFlag{
				Name:    "files-path",
				Usage:   "Directory backing the uploaded files store",
				Value:   "./data",
				Sources: cli.EnvVars("FILES_PATH"),
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
			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing Flowgraph API")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			jobQueue, err := queue.NewFromURL(command.String("queue-url"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := jobQueue.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close queue", "error", err)
				}
			}()

			files := file.NewFileStore(command.String("files-path"))
			registry := cmd.NewRegistry(logger, files)

			workflows := persistence.WorkflowRepository()
			executions := persistence.ExecutionRepository()

			executionService := services.NewExecution(workflows, executions, jobQueue, logger)

			cronScheduler := scheduler.NewScheduler(workflows, executions, jobQueue, logger)
			if err := cronScheduler.Start(ctx); err != nil {
				return err
			}

			defer cronScheduler.Stop()

			handlers := web.NewAPIHandlers(
				executionService,
				workflows,
				registry,
				validator.New(validator.WithRequiredStructEnabled()),
				logger,
			)

			app := web.NewApp(handlers)

			return app.Listen(":" + strconv.Itoa(command.Int("port")))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
