package controllers

import (
	"github.com/hullsync/chargebee-connector/internal/pkg/cache"
	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/database"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
	"github.com/hullsync/chargebee-connector/internal/pkg/runlog"
	"github.com/hullsync/chargebee-connector/internal/pkg/syncagent"
)

// newSyncAgent wires a fresh agent per request so each triggered run gets
// its own correlation key.
func newSyncAgent() (*syncagent.Agent, error) {
	settings, err := connector.FromEnv()
	if err != nil {
		return nil, err
	}

	reader := chargebee.NewClient(settings.ChargebeeSite, settings.ChargebeeAPIKey)
	writer := hull.NewClient(settings.HullOrgURL, settings.ConnectorID, settings.HullSecret)

	var recorder syncagent.RunRecorder
	if db := database.GetDB(); db != nil {
		recorder = runlog.NewRepository(db)
	}

	return syncagent.New(settings, reader, writer, cache.GetClient(), recorder), nil
}
