package syncagent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/lease"
)

// FetchCustomers reads customers updated since the last run and writes them
// as user and account profiles.
func (a *Agent) FetchCustomers(ctx context.Context, mode string) error {
	const objectType = ObjectTypeCustomers
	runID := a.recordStart(ctx, objectType, mode)

	if a.noopIncoming() {
		log.Infof("[SyncAgent] %s", connector.SkipNoop)
		a.recordFinish(ctx, runID, runStatusSkipped, 0, 0, nil)
		return nil
	}

	l, err := lease.Acquire(ctx, a.redis, a.lockKey(objectType), entityLeaseTTL)
	if errors.Is(err, lease.ErrHeld) {
		log.Infof("[SyncAgent] %s fetch already running, skipping", objectType)
		a.recordFinish(ctx, runID, runStatusSkipped, 0, 0, nil)
		return nil
	}
	if err != nil {
		a.recordFinish(ctx, runID, runStatusFailed, 0, 0, err)
		return err
	}
	defer a.release(ctx, l)

	runStart := time.Now().UTC()
	updatedAfter := a.readWatermark(ctx, objectType, mode)
	log.Infof("[SyncAgent] fetching %s updated after %s (run %s)",
		objectType, updatedAfter.Format(time.RFC3339), a.correlationKey)

	items, pages := 0, 0
	offset := ""
	for {
		res := a.reader.ListCustomers(ctx, chargebee.ListParams{
			UpdatedAfter:   updatedAfter,
			Offset:         offset,
			IncludeDeleted: true,
		})
		if !res.Success {
			err := fmt.Errorf("%s: %s", connector.ErrAPIRead(objectType), res.Error)
			log.Errorf("[SyncAgent] %v", err)
			a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
			return err
		}
		pages++

		for i := range res.List {
			if err := a.applyOperations(ctx, a.mapper.CustomerOps(&res.List[i].Customer)); err != nil {
				a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
				return err
			}
			items++
		}

		if res.NextOffset == "" {
			break
		}
		offset = res.NextOffset
	}

	a.commitWatermark(ctx, objectType, runStart)
	a.recordFinish(ctx, runID, runStatusSucceeded, items, pages, nil)
	log.Infof("[SyncAgent] fetched %d %s in %d pages", items, objectType, pages)
	return nil
}
