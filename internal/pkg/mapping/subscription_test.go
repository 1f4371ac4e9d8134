package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
)

func decodeSubscription(t *testing.T, raw string) *chargebee.Subscription {
	t.Helper()
	var sub chargebee.Subscription
	require.NoError(t, json.Unmarshal([]byte(raw), &sub))
	return &sub
}

const subscriptionFixture = `{
	"id": "sub-1",
	"customer_id": "cust-1",
	"plan_id": "pro",
	"plan_quantity": 1,
	"status": "active",
	"created_at": 1578145800,
	"updated_at": 1578145800,
	"resource_version": 987,
	"trial_start": 1578145800,
	"trial_end": 1578750600,
	"due_since": null,
	"addons": [{"id": "addon-1", "quantity": 2, "unit_price": 900, "amount": 1800}],
	"event_based_addons": [{"id": "eba-1", "quantity": 1, "unit_price": 500, "on_event": "subscription_creation", "charge_once": true}],
	"charged_event_based_addons": [{"id": "ceba-1", "last_charged_at": 1578145800}],
	"coupons": [{"coupon_id": "SPRING", "applied_count": 1, "coupon_code": "SPRING20"}]
}`

func TestSubscriptionUserEventNaming(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)

	created := decodeSubscription(t, subscriptionFixture)
	event := m.SubscriptionUserEvent(created)
	assert.Equal(t, "Subscription created", event.Name)

	updated := decodeSubscription(t, `{
		"id": "sub-1",
		"customer_id": "cust-1",
		"created_at": 1578145800,
		"updated_at": 1578232200,
		"resource_version": 988
	}`)
	event = m.SubscriptionUserEvent(updated)
	assert.Equal(t, "Subscription updated", event.Name)
	assert.Equal(t, "sub-1-988", event.Context.EventID)
	assert.Equal(t, "2020-01-05T13:50:00Z", event.Context.CreatedAt)
}

func TestSubscriptionUserEventProperties(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)
	sub := decodeSubscription(t, subscriptionFixture)

	props := m.SubscriptionUserEvent(sub).Properties

	assert.Equal(t, "2020-01-04T13:50:00Z", props["created_at"])

	// Term and trial timestamps get a _date suffix.
	assert.Equal(t, "2020-01-04T13:50:00Z", props["trial_start_date"])
	assert.Equal(t, "2020-01-11T13:50:00Z", props["trial_end_date"])
	_, present := props["trial_start"]
	assert.False(t, present)

	val, present := props["due_since_date"]
	assert.True(t, present)
	assert.Nil(t, val)

	assert.Equal(t, "addon-1", props["addons_ids"])
	assert.Equal(t, "2", props["addons_quantities"])
	assert.Equal(t, "900", props["addons_unit_prices"])
	assert.Equal(t, "1800", props["addons_amounts"])

	assert.Equal(t, "eba-1", props["event_based_addons_ids"])
	assert.Equal(t, "1", props["event_based_addons_quantities"])
	assert.Equal(t, "500", props["event_based_addons_unit_prices"])

	assert.Equal(t, "ceba-1", props["charged_event_based_addons_ids"])

	assert.Equal(t, "SPRING", props["coupons_ids"])
	assert.Equal(t, "SPRING20", props["coupons_codes"])

	assert.Equal(t, "pro", props["plan_id"])
	assert.Equal(t, "active", props["status"])
}

func TestSubscriptionUserEventJoinsMultipleItems(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)
	sub := decodeSubscription(t, `{
		"id": "sub-2",
		"customer_id": "cust-1",
		"created_at": 1578145800,
		"updated_at": 1578232200,
		"resource_version": 2,
		"addons": [
			{"id": "addon-1", "quantity": 2, "unit_price": 900, "amount": 1800},
			{"id": "addon-2", "quantity": 1, "unit_price": 400, "amount": 400}
		]
	}`)

	props := m.SubscriptionUserEvent(sub).Properties
	assert.Equal(t, "addon-1, addon-2", props["addons_ids"])
	assert.Equal(t, "2, 1", props["addons_quantities"])
	assert.Equal(t, "900, 400", props["addons_unit_prices"])
	assert.Equal(t, "1800, 400", props["addons_amounts"])
}

func TestSubscriptionSlotAttributes(t *testing.T) {
	m := newMapper(connector.ResolutionNone, connector.ResolutionExternalID)
	sub := decodeSubscription(t, subscriptionFixture)

	attrs := m.SubscriptionSlotAttributes(0, sub)

	assert.Equal(t, "pro", attrs["chargebee_subscription_0/plan_id"])
	assert.Equal(t, "2020-01-04T13:50:00Z", attrs["chargebee_subscription_0/trial_start_date"])

	// Raw arrays in the traits path.
	assert.Equal(t, []any{"addon-1"}, attrs["chargebee_subscription_0/addons_ids"])
	assert.Equal(t, []any{json.Number("2")}, attrs["chargebee_subscription_0/addons_quantities"])
	assert.Equal(t, []any{"SPRING"}, attrs["chargebee_subscription_0/coupons_ids"])
	assert.Equal(t, []any{"SPRING20"}, attrs["chargebee_subscription_0/coupons_codes"])

	attrs = m.SubscriptionSlotAttributes(3, sub)
	assert.Equal(t, "pro", attrs["chargebee_subscription_3/plan_id"])
}
