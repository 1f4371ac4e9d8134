package syncagent

import (
	"context"

	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// InvoicePreview returns the aggregated account attributes one customer's
// complete invoice history would produce, without writing anything.
func (a *Agent) InvoicePreview(ctx context.Context, customerID string) (hull.Attributes, int, error) {
	history, err := a.CustomerInvoices(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}
	ops := a.mapper.CustomerInvoicesAccountOps(customerID, history)
	return ops[0].Attributes, len(history), nil
}

// SubscriptionPreview returns the slot-sampled account attributes one
// customer's complete subscription history would produce, without writing
// anything.
func (a *Agent) SubscriptionPreview(ctx context.Context, customerID string) (hull.Attributes, int, error) {
	history, err := a.CustomerSubscriptions(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}
	ops := a.mapper.CustomerSubscriptionsAccountOps(customerID, history)
	return ops[0].Attributes, len(history), nil
}
