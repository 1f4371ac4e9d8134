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
	"github.com/hullsync/chargebee-connector/internal/pkg/mapping"
)

// FetchSubscriptions reads subscriptions updated since the last run, tracks
// an event per subscription on the owning user and refreshes the account's
// subscription slots when enabled.
func (a *Agent) FetchSubscriptions(ctx context.Context, mode string) error {
	const objectType = ObjectTypeSubscriptions
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
		res := a.reader.ListSubscriptions(ctx, chargebee.ListParams{
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
			if err := a.syncSubscription(ctx, &res.List[i]); err != nil {
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

// syncSubscription tracks the subscription event on the user identified
// through the bundled customer, then refreshes the account slots.
func (a *Agent) syncSubscription(ctx context.Context, entry *chargebee.SubscriptionEntry) error {
	if a.settings.IncomingResolutionUser != connector.ResolutionNone {
		claims := a.mapper.CustomerUserClaims(&entry.Customer)
		if err := a.writer.UserTrack(ctx, claims, a.mapper.SubscriptionUserEvent(&entry.Subscription)); err != nil {
			return err
		}
	}
	if a.aggregateSubscriptions() {
		return a.writeSubscriptionAggregates(ctx, &entry.Customer)
	}
	return nil
}

// writeSubscriptionAggregates rewrites the slot namespaces on the customer's
// account from the cached subscription history, one traits call per slot.
func (a *Agent) writeSubscriptionAggregates(ctx context.Context, customer *chargebee.Customer) error {
	history, err := a.customerSubscriptionsCached(ctx, customer.ID)
	if err != nil {
		return err
	}
	sorted := mapping.SortSubscriptionsByDate(history)

	claims := a.mapper.CustomerAccountClaims(customer)
	for _, slot := range mapping.SubscriptionSlots(sorted) {
		attrs := a.mapper.SubscriptionSlotAttributes(slot.Index, slot.Subscription)
		if err := a.writer.AccountTraits(ctx, claims, attrs); err != nil {
			return err
		}
	}
	return nil
}
