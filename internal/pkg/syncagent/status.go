package syncagent

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// ConnectorStatus computes the connector health and reports it to the
// platform. A failed report degrades the returned status to error.
func (a *Agent) ConnectorStatus(ctx context.Context) hull.Status {
	status := hull.Status{Status: hull.StatusOK, Messages: []string{}}

	if a.settings.ChargebeeSite == "" {
		status.Status = hull.StatusSetupRequired
		status.Messages = append(status.Messages, connector.StatusNoSite)
	}
	if a.settings.ChargebeeAPIKey == "" {
		status.Status = hull.StatusSetupRequired
		status.Messages = append(status.Messages, connector.StatusNoAPIKey)
	}

	if err := a.writer.PutStatus(ctx, status); err != nil {
		log.Errorf("[SyncAgent] status report failed: %v", err)
		return hull.Status{
			Status:   hull.StatusError,
			Messages: []string{connector.ErrUnhandledGeneric},
		}
	}
	return status
}
