// Package main provides the opsgraph API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/opsgraph/opsgraph/pkg/agents"
	"github.com/opsgraph/opsgraph/pkg/engine"
	"github.com/opsgraph/opsgraph/pkg/eventbus"
	"github.com/opsgraph/opsgraph/pkg/graph"
	"github.com/opsgraph/opsgraph/pkg/persistence"
	"github.com/opsgraph/opsgraph/pkg/scheduler"
	"github.com/opsgraph/opsgraph/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	serviceURL  string
	validate    *validator.Validate
	tracer      trace.Tracer
	engine      *engine.Engine
}

func NewAPI(
	logger *slog.Logger,
	persist persistence.Persistence,
	eventBus eventbus.EventBus,
	serviceURL string,
) *API {
	return &API{
		logger:      logger,
		persistence: persist,
		eventBus:    eventBus,
		serviceURL:  serviceURL,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App(ctx context.Context) *fiber.App {
	store := graph.NewStore(a.persistence, a.logger)
	a.restoreGraph(ctx, store)

	client := agents.NewClient(a.serviceURL, a.logger)

	options := []engine.Option{
		engine.WithResultsStore(a.persistence),
		engine.WithEventPublisher(a.eventBus),
	}
	if a.tracer != nil {
		options = append(options, engine.WithTracer(a.tracer))
	}

	eng := engine.NewEngine(store, client, a.logger, options...)

	handlers := web.NewAPIHandlers(store, eng, client, a.persistence, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("opsgraph API")
	})

	handlers.Register(app)

	a.engine = eng

	if err := a.subscribeEventLog(ctx); err != nil {
		a.logger.WarnContext(ctx, "Event log subscription failed", "error", err)
	}

	return app
}

func (a *API) Start(ctx context.Context, port int, schedule string) error {
	app := a.App(ctx)

	if schedule != "" {
		sched := scheduler.NewScheduler(a.engine, a.logger)
		if err := sched.Start(ctx, schedule); err != nil {
			return err
		}

		defer sched.Stop()
	}

	return app.Listen(":" + strconv.Itoa(port))
}

// restoreGraph loads the stored graph into the store. A missing or corrupt
// stored graph degrades to an empty one, logged, never fatal.
func (a *API) restoreGraph(ctx context.Context, store *graph.Store) {
	stored, err := a.persistence.LoadGraph(ctx)

	switch {
	case err == nil:
		store.Restore(stored)
		a.logger.InfoContext(ctx, "Graph restored",
			"nodes", len(stored.Nodes), "edges", len(stored.Edges))
	case persistence.IsGraphNotFound(err):
		a.logger.InfoContext(ctx, "No stored graph, starting empty")
	default:
		a.logger.WarnContext(ctx, "Stored graph unreadable, starting empty", "error", err)
	}
}
