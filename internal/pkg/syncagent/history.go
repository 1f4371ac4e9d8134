package syncagent

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/internal/pkg/cache"
	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
)

// CustomerInvoices reads the complete invoice history of one customer.
func (a *Agent) CustomerInvoices(ctx context.Context, customerID string) ([]chargebee.Invoice, error) {
	var invoices []chargebee.Invoice
	offset := ""
	for {
		res := a.reader.ListInvoices(ctx, chargebee.ListParams{
			UpdatedAfter: watermarkFloor,
			Offset:       offset,
			CustomerIDs:  []string{customerID},
		})
		if !res.Success {
			return nil, fmt.Errorf("%s: %s", connector.ErrAPIRead(ObjectTypeInvoices), res.Error)
		}
		for _, entry := range res.List {
			invoices = append(invoices, entry.Invoice)
		}
		if res.NextOffset == "" {
			return invoices, nil
		}
		offset = res.NextOffset
	}
}

// CustomerSubscriptions reads the complete subscription history of one
// customer.
func (a *Agent) CustomerSubscriptions(ctx context.Context, customerID string) ([]chargebee.Subscription, error) {
	var subs []chargebee.Subscription
	offset := ""
	for {
		res := a.reader.ListSubscriptions(ctx, chargebee.ListParams{
			UpdatedAfter: watermarkFloor,
			Offset:       offset,
			CustomerIDs:  []string{customerID},
		})
		if !res.Success {
			return nil, fmt.Errorf("%s: %s", connector.ErrAPIRead(ObjectTypeSubscriptions), res.Error)
		}
		for _, entry := range res.List {
			subs = append(subs, entry.Subscription)
		}
		if res.NextOffset == "" {
			return subs, nil
		}
		offset = res.NextOffset
	}
}

// customerInvoicesCached serves the invoice history from a short-lived cache
// so a burst of updates for one customer does not refetch per invoice.
func (a *Agent) customerInvoicesCached(ctx context.Context, customerID string) ([]chargebee.Invoice, error) {
	key := a.historyKey(customerID, ObjectTypeInvoices)

	var cached []chargebee.Invoice
	err := cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warnf("[SyncAgent] history cache read failed for %s: %v", key, err)
	}

	history, err := a.CustomerInvoices(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, history, historyTTL); err != nil {
		log.Warnf("[SyncAgent] history cache write failed for %s: %v", key, err)
	}
	return history, nil
}

func (a *Agent) customerSubscriptionsCached(ctx context.Context, customerID string) ([]chargebee.Subscription, error) {
	key := a.historyKey(customerID, ObjectTypeSubscriptions)

	var cached []chargebee.Subscription
	err := cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warnf("[SyncAgent] history cache read failed for %s: %v", key, err)
	}

	history, err := a.CustomerSubscriptions(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, history, historyTTL); err != nil {
		log.Warnf("[SyncAgent] history cache write failed for %s: %v", key, err)
	}
	return history, nil
}
