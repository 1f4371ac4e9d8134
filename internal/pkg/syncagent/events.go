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

// FetchEvents polls the subscribed billing events since the last run and
// translates them into profile writes. Customers touched by invoice or
// subscription events are fanned out afterwards: their complete histories
// are refetched and the account aggregates rebuilt.
func (a *Agent) FetchEvents(ctx context.Context) error {
	const objectType = ObjectTypeEvents
	runID := a.recordStart(ctx, objectType, ReadModeIncremental)

	l, err := lease.Acquire(ctx, a.redis, a.lockKey(objectType), eventsLeaseTTL)
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
	watermark := a.eventsWatermark(ctx)
	log.Infof("[SyncAgent] fetching %s occurred after %s (run %s)",
		objectType, watermark.Format(time.RFC3339), a.correlationKey)

	invoiceCustomers := map[string]struct{}{}
	subscriptionCustomers := map[string]struct{}{}

	items, pages := 0, 0
	offset := ""
	for {
		res := a.reader.ListEvents(ctx, chargebee.EventListParams{
			OccurredAfter: watermark,
			EventTypes:    chargebee.SyncEventTypes(),
			Offset:        offset,
		})
		if !res.Success {
			err := fmt.Errorf("%s: %s", connector.ErrAPIRead(objectType), res.Error)
			log.Errorf("[SyncAgent] %v", err)
			a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
			return err
		}
		pages++

		for i := range res.List {
			ev := &res.List[i].Event
			// The API filter is inclusive; drop anything at or before the
			// watermark that was already handled by the previous run.
			if ev.OccurredAt < watermark.Unix() {
				continue
			}
			if err := a.applyOperations(ctx, a.mapper.EventOps(ev)); err != nil {
				a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
				return err
			}
			items++

			switch {
			case mapping.IsInvoiceEvent(ev) && a.aggregateInvoices():
				if ev.Content.Invoice != nil {
					invoiceCustomers[ev.Content.Invoice.CustomerID] = struct{}{}
				}
			case mapping.IsSubscriptionEvent(ev) && a.aggregateSubscriptions():
				if ev.Content.Subscription != nil {
					subscriptionCustomers[ev.Content.Subscription.CustomerID] = struct{}{}
				}
			}
		}

		if err := l.Refresh(ctx); err != nil {
			log.Warnf("[SyncAgent] %s lease refresh failed: %v", objectType, err)
		}
		if res.NextOffset == "" {
			break
		}
		offset = res.NextOffset
	}

	for customerID := range invoiceCustomers {
		history, err := a.CustomerInvoices(ctx, customerID)
		if err != nil {
			a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
			return err
		}
		ops := a.mapper.CustomerInvoicesAccountOps(customerID, history)
		if err := a.applyOperations(ctx, ops); err != nil {
			a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
			return err
		}
		if err := l.Refresh(ctx); err != nil {
			log.Warnf("[SyncAgent] %s lease refresh failed: %v", objectType, err)
		}
	}

	for customerID := range subscriptionCustomers {
		history, err := a.CustomerSubscriptions(ctx, customerID)
		if err != nil {
			a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
			return err
		}
		ops := a.mapper.CustomerSubscriptionsAccountOps(customerID, history)
		if err := a.applyOperations(ctx, ops); err != nil {
			a.recordFinish(ctx, runID, runStatusFailed, items, pages, err)
			return err
		}
		if err := l.Refresh(ctx); err != nil {
			log.Warnf("[SyncAgent] %s lease refresh failed: %v", objectType, err)
		}
	}

	a.commitWatermark(ctx, objectType, runStart)
	a.recordFinish(ctx, runID, runStatusSucceeded, items, pages, nil)
	log.Infof("[SyncAgent] handled %d %s in %d pages (%d invoice, %d subscription fan-outs)",
		items, objectType, pages, len(invoiceCustomers), len(subscriptionCustomers))
	return nil
}
