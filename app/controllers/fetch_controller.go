package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/internal/pkg/syncagent"
)

// HandleFetch triggers a fetch run for one object type. The run executes in
// the background; the response only acknowledges the trigger.
func HandleFetch(c *fiber.Ctx) error {
	objectType := c.Params("objecttype")
	mode := c.Params("mode")

	switch objectType {
	case syncagent.ObjectTypeCustomers,
		syncagent.ObjectTypeSubscriptions,
		syncagent.ObjectTypeInvoices,
		syncagent.ObjectTypeEvents:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "unknown object type: " + objectType,
		})
	}

	switch mode {
	case syncagent.ReadModeFull, syncagent.ReadModeIncremental:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "unknown read mode: " + mode,
		})
	}

	agent, err := newSyncAgent()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": err.Error(),
		})
	}

	// The run outlives the request; failures surface through logs, the run
	// journal and the status endpoint.
	go func() {
		if err := agent.Fetch(context.Background(), objectType, mode); err != nil {
			log.Errorf("[Fetch] %s run %s failed: %v", objectType, agent.CorrelationKey(), err)
		}
	}()

	return c.JSON(fiber.Map{"ok": true})
}
