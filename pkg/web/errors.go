package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/opsgraph/opsgraph/pkg/engine"
	"github.com/opsgraph/opsgraph/pkg/persistence"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleExecuteError maps engine errors onto problem responses. Validation
// and no-active-flows are user-facing notices, not server faults.
func handleExecuteError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrValidation):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("graph_validation_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case errors.Is(err, engine.ErrNoActiveFlows):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("no_active_flows").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case errors.Is(err, engine.ErrExecutionInProgress):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("execution_in_progress").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	default:
		return internalError(c, err)
	}
}

// handleResultsError maps result-store errors onto problem responses.
func handleResultsError(c fiber.Ctx, err error) error {
	if persistence.IsResultsNotFound(err) {
		return notFound(c, "No execution results stored yet")
	}

	return internalError(c, err)
}
