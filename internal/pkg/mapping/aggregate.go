package mapping

import (
	"encoding/json"
	"sort"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// maxSubscriptionSlots caps how many subscriptions are written per account.
// Larger histories are sampled: the five oldest plus the latest.
const maxSubscriptionSlots = 5

// SortInvoicesByDate orders invoices ascending by their wire date. Invoices
// without a date keep their input order after the dated ones.
func SortInvoicesByDate(invoices []chargebee.Invoice) []chargebee.Invoice {
	sorted := append([]chargebee.Invoice(nil), invoices...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, iok := rawDate(sorted[i].Fields())
		dj, jok := rawDate(sorted[j].Fields())
		if iok && jok {
			return di < dj
		}
		return iok && !jok
	})
	return sorted
}

// SortSubscriptionsByDate orders subscriptions the same way. Subscriptions
// carry no date field on the wire, so in practice input order is preserved;
// the stable sort keeps that guarantee.
func SortSubscriptionsByDate(subs []chargebee.Subscription) []chargebee.Subscription {
	sorted := append([]chargebee.Subscription(nil), subs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, iok := rawDate(sorted[i].Fields())
		dj, jok := rawDate(sorted[j].Fields())
		if iok && jok {
			return di < dj
		}
		return iok && !jok
	})
	return sorted
}

func rawDate(fields map[string]any) (float64, bool) {
	v, ok := fields["date"]
	if !ok || v == nil {
		return 0, false
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// SubscriptionSlot pairs a subscription with the sample slot it occupies.
type SubscriptionSlot struct {
	Index        int
	Subscription *chargebee.Subscription
}

// SubscriptionSlots samples a date-sorted subscription history into at most
// six slots: up to five oldest subscriptions at 0..4 and, when the history
// is longer, the latest one at slot 5.
func SubscriptionSlots(sorted []chargebee.Subscription) []SubscriptionSlot {
	if len(sorted) > maxSubscriptionSlots {
		slots := make([]SubscriptionSlot, 0, maxSubscriptionSlots+1)
		for i := 0; i < maxSubscriptionSlots; i++ {
			slots = append(slots, SubscriptionSlot{Index: i, Subscription: &sorted[i]})
		}
		slots = append(slots, SubscriptionSlot{
			Index:        maxSubscriptionSlots,
			Subscription: &sorted[len(sorted)-1],
		})
		return slots
	}

	slots := make([]SubscriptionSlot, 0, len(sorted))
	for i := range sorted {
		slots = append(slots, SubscriptionSlot{Index: i, Subscription: &sorted[i]})
	}
	return slots
}

// CustomerInvoicesAccountOps folds a customer's complete invoice history
// into one account traits operation carrying the first, second-last (when
// the history has at least two invoices) and latest invoice namespaces.
func (m *Mapper) CustomerInvoicesAccountOps(customerID string, invoices []chargebee.Invoice) []IncomingOperation {
	sorted := SortInvoicesByDate(invoices)

	combined := hull.Attributes{}
	if len(sorted) > 0 {
		merge(combined, m.InvoiceAggregationAttributes(InvoiceAggregationFirst, &sorted[0]))
	}
	if len(sorted) > 1 {
		merge(combined, m.InvoiceAggregationAttributes(InvoiceAggregationSecondLast, &sorted[len(sorted)-2]))
	}
	if len(sorted) > 0 {
		merge(combined, m.InvoiceAggregationAttributes(InvoiceAggregationLast, &sorted[len(sorted)-1]))
	}

	return []IncomingOperation{{
		Scope:         ScopeAccount,
		Action:        ActionTraits,
		AccountClaims: hull.AccountClaims{AnonymousID: AnonymousID(customerID)},
		Attributes:    combined,
	}}
}

// CustomerSubscriptionsAccountOps folds a customer's complete subscription
// history into one account traits operation with slot-sampled namespaces.
func (m *Mapper) CustomerSubscriptionsAccountOps(customerID string, subs []chargebee.Subscription) []IncomingOperation {
	sorted := SortSubscriptionsByDate(subs)

	combined := hull.Attributes{}
	for _, slot := range SubscriptionSlots(sorted) {
		merge(combined, m.SubscriptionSlotAttributes(slot.Index, slot.Subscription))
	}

	return []IncomingOperation{{
		Scope:         ScopeAccount,
		Action:        ActionTraits,
		AccountClaims: hull.AccountClaims{AnonymousID: AnonymousID(customerID)},
		Attributes:    combined,
	}}
}

func merge(dst, src hull.Attributes) {
	for k, v := range src {
		dst[k] = v
	}
}
