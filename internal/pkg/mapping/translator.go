package mapping

import (
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// EventOps translates one billing event into CRM write operations. Event
// types without a handler produce no operations.
func (m *Mapper) EventOps(ev *chargebee.Event) []IncomingOperation {
	var ops []IncomingOperation

	switch ev.EventType {
	case chargebee.EventCustomerCreated,
		chargebee.EventCustomerChanged,
		chargebee.EventCustomerDeleted:
		ops = append(ops, m.CustomerOps(ev.Content.Customer)...)

	case chargebee.EventInvoiceGenerated,
		chargebee.EventInvoiceUpdated,
		chargebee.EventInvoiceDeleted:
		invoice := ev.Content.Invoice
		if m.userResolution != connector.ResolutionNone && invoice != nil {
			event := m.InvoiceUserEvent(invoice)
			ops = append(ops, IncomingOperation{
				Scope:      ScopeUser,
				Action:     ActionTrack,
				UserClaims: hull.UserClaims{AnonymousID: AnonymousID(invoice.CustomerID)},
				Event:      &event,
			})
		}

	case chargebee.EventSubscriptionCreated,
		chargebee.EventSubscriptionChanged,
		chargebee.EventSubscriptionDeleted,
		chargebee.EventSubscriptionCancelled:
		sub := ev.Content.Subscription
		if m.userResolution != connector.ResolutionNone && sub != nil {
			event := m.SubscriptionUserEvent(sub)
			ops = append(ops, IncomingOperation{
				Scope:      ScopeUser,
				Action:     ActionTrack,
				UserClaims: hull.UserClaims{AnonymousID: AnonymousID(sub.CustomerID)},
				Event:      &event,
			})
		}

	default:
		log.Debugf("[Mapping] no handler for event type '%s'", ev.EventType)
	}

	return ops
}

// IsSubscriptionEvent reports whether the event belongs to the subscription
// family.
func IsSubscriptionEvent(ev *chargebee.Event) bool {
	return strings.HasPrefix(string(ev.EventType), "subscription_")
}

// IsInvoiceEvent reports whether the event belongs to the invoice family.
func IsInvoiceEvent(ev *chargebee.Event) bool {
	return strings.HasPrefix(string(ev.EventType), "invoice_")
}
