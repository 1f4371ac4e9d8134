package mapping

import (
	"fmt"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// InvoiceAggregation selects which aggregate namespace an invoice's
// attributes are written to.
type InvoiceAggregation string

const (
	InvoiceAggregationFirst      InvoiceAggregation = "first"
	InvoiceAggregationSecondLast InvoiceAggregation = "second_last"
	InvoiceAggregationLast       InvoiceAggregation = "last"
)

func (a InvoiceAggregation) group() string {
	switch a {
	case InvoiceAggregationFirst:
		return attributeGroup + "_first_invoice"
	case InvoiceAggregationSecondLast:
		return attributeGroup + "_sl_invoice"
	default:
		return attributeGroup + "_latest_invoice"
	}
}

// InvoiceUserEvent maps an invoice onto an "Invoice updated" user event.
func (m *Mapper) InvoiceUserEvent(inv *chargebee.Invoice) hull.Event {
	eventID := fmt.Sprintf("%s-%d", inv.ID, inv.ResourceVersion)
	createdAt := isoString(inv.UpdatedAt)

	props := map[string]any{}
	applyRules(inv.Fields(), invoiceEventRules, func(k string, v any) {
		props[k] = v
	})

	return hull.Event{
		Name:       "Invoice updated",
		CreatedAt:  createdAt,
		Properties: props,
		Context: hull.EventContext{
			CreatedAt: createdAt,
			EventID:   eventID,
			IP:        0,
			Source:    "chargebee",
		},
	}
}

// InvoiceAggregationAttributes maps an invoice onto account attributes in
// the namespace of the given aggregation. List fields stay raw arrays here,
// unlike in event properties.
func (m *Mapper) InvoiceAggregationAttributes(agg InvoiceAggregation, inv *chargebee.Invoice) hull.Attributes {
	attrs := hull.Attributes{}
	if inv == nil {
		return attrs
	}
	group := agg.group()
	applyRules(inv.Fields(), invoiceTraitRules, func(k string, v any) {
		attrs[group+"/"+k] = v
	})
	return attrs
}
