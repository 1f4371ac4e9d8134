package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
)

func decodeInvoice(t *testing.T, raw string) *chargebee.Invoice {
	t.Helper()
	var inv chargebee.Invoice
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))
	return &inv
}

const invoiceFixture = `{
	"id": "inv-1",
	"customer_id": "cust-1",
	"subscription_id": "sub-1",
	"recurring": true,
	"status": "paid",
	"date": 1578145800,
	"due_date": 1578750600,
	"paid_at": null,
	"updated_at": 1578232200,
	"resource_version": 123456789,
	"total": 4900,
	"line_items": [
		{"id": "li-1", "quantity": 1, "amount": 2900, "description": "Pro Plan"},
		{"id": "li-2", "quantity": 2, "amount": 1000, "description": "Seats"}
	],
	"linked_orders": [{"id": "order-1", "created_at": 1578145800}],
	"notes": [
		{"entity_type": "customer", "note": "VIP customer."},
		{"entity_type": "invoice", "note": "Net 7."}
	],
	"taxes": [{"name": "VAT", "amount": 931}],
	"discounts": null,
	"deleted": false
}`

func TestInvoiceUserEvent(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)
	invoice := decodeInvoice(t, invoiceFixture)

	event := m.InvoiceUserEvent(invoice)

	assert.Equal(t, "Invoice updated", event.Name)
	assert.Equal(t, "2020-01-05T13:50:00Z", event.CreatedAt)
	assert.Equal(t, "inv-1-123456789", event.Context.EventID)
	assert.Equal(t, "2020-01-05T13:50:00Z", event.Context.CreatedAt)
	assert.Equal(t, 0, event.Context.IP)
	assert.Equal(t, "chargebee", event.Context.Source)

	props := event.Properties

	// The wire date is renamed, the other timestamps keep their names.
	assert.Equal(t, "2020-01-04T13:50:00Z", props["invoice_date"])
	_, present := props["date"]
	assert.False(t, present)
	assert.Equal(t, "2020-01-11T13:50:00Z", props["due_date"])
	assert.Equal(t, "2020-01-05T13:50:00Z", props["updated_at"])

	// A null timestamp stays null.
	val, present := props["paid_at"]
	assert.True(t, present)
	assert.Nil(t, val)

	// Line item projections are joined strings in event properties.
	assert.Equal(t, "li-1, li-2", props["line_items_ids"])
	assert.Equal(t, "1, 2", props["line_items_quantities"])
	assert.Equal(t, "2900, 1000", props["line_items_amounts"])
	assert.Equal(t, "Pro Plan, Seats", props["line_items_descriptions"])
	_, present = props["line_items"]
	assert.False(t, present)

	// Linked order ids stay an array even in the event path.
	assert.Equal(t, []any{"order-1"}, props["linked_orders_ids"])

	// Notes are joined with a single space.
	assert.Equal(t, "VIP customer. Net 7.", props["notes"])

	// Granular collections are dropped entirely, even when null.
	_, present = props["taxes"]
	assert.False(t, present)
	_, present = props["discounts"]
	assert.False(t, present)

	// Everything else passes through unchanged.
	assert.Equal(t, "paid", props["status"])
	assert.Equal(t, json.Number("4900"), props["total"])
	assert.Equal(t, true, props["recurring"])
}

func TestInvoiceUserEventNullLists(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)
	invoice := decodeInvoice(t, `{
		"id": "inv-2",
		"customer_id": "cust-1",
		"updated_at": 1578232200,
		"resource_version": 1,
		"line_items": null,
		"linked_orders": null,
		"notes": null
	}`)

	props := m.InvoiceUserEvent(invoice).Properties

	for _, key := range []string{
		"line_items_ids", "line_items_quantities", "line_items_amounts",
		"line_items_descriptions", "linked_orders_ids", "notes",
	} {
		val, present := props[key]
		assert.True(t, present, key)
		assert.Nil(t, val, key)
	}
}

func TestInvoiceAggregationAttributes(t *testing.T) {
	m := newMapper(connector.ResolutionNone, connector.ResolutionExternalID)
	invoice := decodeInvoice(t, invoiceFixture)

	tests := []struct {
		agg   InvoiceAggregation
		group string
	}{
		{InvoiceAggregationFirst, "chargebee_first_invoice"},
		{InvoiceAggregationSecondLast, "chargebee_sl_invoice"},
		{InvoiceAggregationLast, "chargebee_latest_invoice"},
	}

	for _, tt := range tests {
		t.Run(string(tt.agg), func(t *testing.T) {
			attrs := m.InvoiceAggregationAttributes(tt.agg, invoice)

			assert.Equal(t, "2020-01-04T13:50:00Z", attrs[tt.group+"/invoice_date"])

			// List projections stay raw arrays in the traits path.
			assert.Equal(t, []any{"li-1", "li-2"}, attrs[tt.group+"/line_items_ids"])
			assert.Equal(t, []any{json.Number("1"), json.Number("2")}, attrs[tt.group+"/line_items_quantities"])
			assert.Equal(t, []any{"order-1"}, attrs[tt.group+"/linked_orders_ids"])

			// Notes are joined in both paths.
			assert.Equal(t, "VIP customer. Net 7.", attrs[tt.group+"/notes"])

			_, present := attrs[tt.group+"/taxes"]
			assert.False(t, present)
		})
	}
}
