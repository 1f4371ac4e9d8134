package hull

// OperationSetIfNull writes an attribute only when the profile does not have
// a value for it yet.
const OperationSetIfNull = "setIfNull"

// UserClaims identify a user profile. At least one field must be set.
type UserClaims struct {
	ExternalID  string `json:"external_id,omitempty"`
	Email       string `json:"email,omitempty"`
	AnonymousID string `json:"anonymous_id,omitempty"`
}

// AccountClaims identify an account profile. At least one field must be set.
type AccountClaims struct {
	ExternalID  string `json:"external_id,omitempty"`
	AnonymousID string `json:"anonymous_id,omitempty"`
}

// AttributeValue is an attribute write with an explicit merge operation.
type AttributeValue struct {
	Value     interface{} `json:"value"`
	Operation string      `json:"operation"`
}

// Attributes is one traits payload. Keys are either grouped
// ("chargebee/plan_id") or top level ("first_name").
type Attributes map[string]interface{}

// EventContext carries the dedup and provenance metadata of a track call.
type EventContext struct {
	CreatedAt string `json:"created_at"`
	EventID   string `json:"event_id"`
	IP        int    `json:"ip"`
	Source    string `json:"source"`
}

// Event is one track payload.
type Event struct {
	Name       string                 `json:"event"`
	CreatedAt  string                 `json:"created_at,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Context    EventContext           `json:"context"`
}

// Status is the connector health report.
type Status struct {
	Status   string   `json:"status"`
	Messages []string `json:"messages"`
}

const (
	StatusOK            = "ok"
	StatusSetupRequired = "setupRequired"
	StatusError         = "error"
)
