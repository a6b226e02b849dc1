// Package main runs a Flowgraph worker: it consumes execution jobs from the
// queue and drives the graph traversal engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowgraph-io/flowgraph/pkg/cmd"
	"github.com/flowgraph-io/flowgraph/pkg/log"
	"github.com/flowgraph-io/flowgraph/pkg/persistence/file"
	"github.com/flowgraph-io/flowgraph/pkg/queue"
	"github.com/flowgraph-io/flowgraph/pkg/services"
	"github.com/flowgraph-io/flowgraph/pkg/tracer"
	"github.com/flowgraph-io/flowgraph/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "flowgraph-worker",
		Usage:                 "Process queued workflow executions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
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
				Name:    "worker-id",
				Usage:   "Stable worker identifier, random when omitted",
				Sources: cli.EnvVars("WORKER_ID"),
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

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = uuid.NewString()[:8]
			}

			logger := log.WithModule("worker").With("worker_id", workerID)
			logger.InfoContext(ctx, "Initializing Flowgraph worker")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(context.Background()); err != nil {
					logger.Error("Failed to close persistence", "error", err)
				}
			}()

			jobQueue, err := queue.NewFromURL(command.String("queue-url"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := jobQueue.Close(); err != nil {
					logger.Error("Failed to close queue", "error", err)
				}
			}()

			files := file.NewFileStore(command.String("files-path"))
			registry := cmd.NewRegistry(logger, files)

			executor := workflow.NewExecutor(
				persistence.WorkflowRepository(),
				persistence.ExecutionRepository(),
				registry,
				logger,
			)

			var workerTracer trace.Tracer

			if command.Bool("tracing") {
				workerTracer, err = tracer.NewTracer(ctx, "flowgraph-worker")
				if err != nil {
					return err
				}
			}

			worker := services.NewWorker(jobQueue, jobQueue, executor, workerID, workerTracer, logger)
			if err := worker.Run(ctx); err != nil {
				return err
			}

			logger.InfoContext(ctx, "Worker started, waiting for jobs")
			<-ctx.Done()
			logger.Info("Shutting down worker")

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
