package chargebee

// ApiCall records the outcome of a single API request. List calls never
// return a Go error across the package boundary; callers check Success.
type ApiCall struct {
	Endpoint     string `json:"endpoint"`
	Method       string `json:"method"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`
}

func (a *ApiCall) fail(err error) {
	a.Success = false
	a.Error = err.Error()
	if he, ok := err.(*httpError); ok {
		a.ErrorDetails = he.Body
	}
}

// CustomerEntry is one item of a customers list response.
type CustomerEntry struct {
	Customer Customer `json:"customer"`
	Card     *Card    `json:"card,omitempty"`
}

// SubscriptionEntry is one item of a subscriptions list response. The API
// bundles the owning customer with every subscription.
type SubscriptionEntry struct {
	Subscription Subscription `json:"subscription"`
	Customer     Customer     `json:"customer"`
	Card         *Card        `json:"card,omitempty"`
}

// InvoiceEntry is one item of an invoices list response.
type InvoiceEntry struct {
	Invoice Invoice `json:"invoice"`
}

// EventEntry is one item of an events list response.
type EventEntry struct {
	Event Event `json:"event"`
}

type CustomerListResult struct {
	ApiCall
	List       []CustomerEntry `json:"list"`
	NextOffset string          `json:"next_offset,omitempty"`
}

type SubscriptionListResult struct {
	ApiCall
	List       []SubscriptionEntry `json:"list"`
	NextOffset string              `json:"next_offset,omitempty"`
}

type InvoiceListResult struct {
	ApiCall
	List       []InvoiceEntry `json:"list"`
	NextOffset string         `json:"next_offset,omitempty"`
}

type EventListResult struct {
	ApiCall
	List       []EventEntry `json:"list"`
	NextOffset string       `json:"next_offset,omitempty"`
}
