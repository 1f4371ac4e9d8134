package mapping

import (
	"fmt"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// SubscriptionUserEvent maps a subscription onto a user event. A
// subscription whose updated_at still equals created_at is reported as
// created, every later version as updated.
func (m *Mapper) SubscriptionUserEvent(sub *chargebee.Subscription) hull.Event {
	name := "Subscription updated"
	if sub.CreatedAt == sub.UpdatedAt {
		name = "Subscription created"
	}
	eventID := fmt.Sprintf("%s-%d", sub.ID, sub.ResourceVersion)
	createdAt := isoString(sub.UpdatedAt)

	props := map[string]any{}
	applyRules(sub.Fields(), subscriptionEventRules, func(k string, v any) {
		props[k] = v
	})

	return hull.Event{
		Name:       name,
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

// SubscriptionSlotAttributes maps a subscription onto account attributes in
// its sample-slot namespace (chargebee_subscription_<slot>).
func (m *Mapper) SubscriptionSlotAttributes(slot int, sub *chargebee.Subscription) hull.Attributes {
	attrs := hull.Attributes{}
	if sub == nil {
		return attrs
	}
	group := fmt.Sprintf("%s_subscription_%d", attributeGroup, slot)
	applyRules(sub.Fields(), subscriptionTraitRules, func(k string, v any) {
		attrs[group+"/"+k] = v
	})
	return attrs
}
