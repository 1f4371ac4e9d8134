package syncagent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
	"github.com/hullsync/chargebee-connector/internal/pkg/lease"
	"github.com/hullsync/chargebee-connector/internal/pkg/mapping"
)

// FetchInvoices reads invoices updated since the last run, tracks an event
// per invoice and refreshes the account's invoice aggregates when enabled.
func (a *Agent) FetchInvoices(ctx context.Context, mode string) error {
	const objectType = ObjectTypeInvoices
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
		res := a.reader.ListInvoices(ctx, chargebee.ListParams{
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
			invoice := &res.List[i].Invoice
			if err := a.syncInvoice(ctx, invoice); err != nil {
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

func (a *Agent) syncInvoice(ctx context.Context, invoice *chargebee.Invoice) error {
	if a.settings.IncomingResolutionUser != connector.ResolutionNone {
		claims := hull.UserClaims{AnonymousID: mapping.AnonymousID(invoice.CustomerID)}
		if err := a.writer.UserTrack(ctx, claims, a.mapper.InvoiceUserEvent(invoice)); err != nil {
			return err
		}
	}
	if a.aggregateInvoices() {
		return a.writeInvoiceAggregates(ctx, invoice.CustomerID)
	}
	return nil
}

// writeInvoiceAggregates refreshes the first and latest invoice namespaces
// on the customer's account from the cached invoice history. The second-last
// namespace is only rebuilt by the event fan-out, which sees full histories.
func (a *Agent) writeInvoiceAggregates(ctx context.Context, customerID string) error {
	history, err := a.customerInvoicesCached(ctx, customerID)
	if err != nil {
		return err
	}
	sorted := mapping.SortInvoicesByDate(history)
	if len(sorted) == 0 {
		return nil
	}

	attrs := hull.Attributes{}
	for k, v := range a.mapper.InvoiceAggregationAttributes(mapping.InvoiceAggregationFirst, &sorted[0]) {
		attrs[k] = v
	}
	for k, v := range a.mapper.InvoiceAggregationAttributes(mapping.InvoiceAggregationLast, &sorted[len(sorted)-1]) {
		attrs[k] = v
	}

	claims := hull.AccountClaims{
		ExternalID:  customerID,
		AnonymousID: mapping.AnonymousID(customerID),
	}
	return a.writer.AccountTraits(ctx, claims, attrs)
}
