package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/app/models"
	"github.com/hullsync/chargebee-connector/internal/pkg/database"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
	"github.com/hullsync/chargebee-connector/internal/pkg/runlog"
)

const recentRunsLimit = 20

// HandleStatus reports connector health to the caller and the platform,
// along with the most recent runs from the journal.
func HandleStatus(c *fiber.Ctx) error {
	agent, err := newSyncAgent()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":   hull.StatusError,
			"messages": []string{err.Error()},
		})
	}

	status := agent.ConnectorStatus(c.Context())

	runs := []models.SyncRun{}
	if db := database.GetDB(); db != nil {
		runs, err = runlog.NewRepository(db).Recent(c.Context(), recentRunsLimit)
		if err != nil {
			log.Warnf("[Status] reading recent runs failed: %v", err)
			runs = []models.SyncRun{}
		}
	}

	return c.JSON(fiber.Map{
		"status":      status.Status,
		"messages":    status.Messages,
		"recent_runs": runs,
	})
}
