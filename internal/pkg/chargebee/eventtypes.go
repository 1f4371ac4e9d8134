package chargebee

// EventType identifies a Chargebee event.
type EventType string

const (
	EventCustomerCreated EventType = "customer_created"
	EventCustomerChanged EventType = "customer_changed"
	EventCustomerDeleted EventType = "customer_deleted"

	EventInvoiceGenerated EventType = "invoice_generated"
	EventInvoiceUpdated   EventType = "invoice_updated"
	EventInvoiceDeleted   EventType = "invoice_deleted"

	EventSubscriptionCreated                      EventType = "subscription_created"
	EventSubscriptionChanged                      EventType = "subscription_changed"
	EventSubscriptionDeleted                      EventType = "subscription_deleted"
	EventSubscriptionCancelled                    EventType = "subscription_cancelled"
	EventSubscriptionActivated                    EventType = "subscription_activated"
	EventSubscriptionReactivated                  EventType = "subscription_reactivated"
	EventSubscriptionRenewed                      EventType = "subscription_renewed"
	EventSubscriptionPaused                       EventType = "subscription_paused"
	EventSubscriptionResumed                      EventType = "subscription_resumed"
	EventSubscriptionCancellationScheduled        EventType = "subscription_cancellation_scheduled"
	EventSubscriptionScheduledCancellationRemoved EventType = "subscription_scheduled_cancellation_removed"
	EventSubscriptionChangesScheduled             EventType = "subscription_changes_scheduled"
	EventSubscriptionScheduledChangesRemoved      EventType = "subscription_scheduled_changes_removed"
	EventSubscriptionPauseScheduled               EventType = "subscription_pause_scheduled"
	EventSubscriptionScheduledPauseRemoved        EventType = "subscription_scheduled_pause_removed"
	EventSubscriptionResumptionScheduled          EventType = "subscription_resumption_scheduled"
	EventSubscriptionScheduledResumptionRemoved   EventType = "subscription_scheduled_resumption_removed"
)

// SyncEventTypes is the set of event types the connector subscribes to.
func SyncEventTypes() []EventType {
	return []EventType{
		EventCustomerCreated,
		EventCustomerChanged,
		EventCustomerDeleted,
		EventInvoiceGenerated,
		EventInvoiceUpdated,
		EventInvoiceDeleted,
		EventSubscriptionCreated,
		EventSubscriptionChanged,
		EventSubscriptionDeleted,
		EventSubscriptionCancelled,
		EventSubscriptionActivated,
		EventSubscriptionReactivated,
		EventSubscriptionRenewed,
		EventSubscriptionPaused,
		EventSubscriptionResumed,
		EventSubscriptionCancellationScheduled,
		EventSubscriptionScheduledCancellationRemoved,
		EventSubscriptionChangesScheduled,
		EventSubscriptionScheduledChangesRemoved,
		EventSubscriptionPauseScheduled,
		EventSubscriptionScheduledPauseRemoved,
		EventSubscriptionResumptionScheduled,
		EventSubscriptionScheduledResumptionRemoved,
	}
}
