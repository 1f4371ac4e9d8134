package chargebee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const listLimit = 100

// Client talks to the Chargebee REST API v2 for one site.
type Client struct {
	Site   string
	APIKey string

	// BaseURL overrides the site-derived endpoint. Used by tests.
	BaseURL string

	HTTPClient *http.Client
}

// NewClient creates a client for the given site using HTTP basic auth with
// the API key as username.
func NewClient(site, apiKey string) *Client {
	return &Client{
		Site:   strings.TrimSpace(site),
		APIKey: strings.TrimSpace(apiKey),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListParams are the common filters of the entity list endpoints.
type ListParams struct {
	UpdatedAfter   time.Time
	Offset         string
	IncludeDeleted bool
	// CustomerIDs restricts subscriptions/invoices to the given customers.
	// Ignored by ListCustomers.
	CustomerIDs []string
}

// EventListParams are the filters of the events list endpoint.
type EventListParams struct {
	OccurredAfter time.Time
	EventTypes    []EventType
	Offset        string
}

// ListCustomers reads one page of customers ordered by updated_at descending.
func (c *Client) ListCustomers(ctx context.Context, p ListParams) *CustomerListResult {
	q := p.values(false)
	endpoint := c.endpoint("/customers", q)

	res := &CustomerListResult{ApiCall: ApiCall{Endpoint: endpoint, Method: http.MethodGet, Success: true}}
	var page struct {
		List       []CustomerEntry `json:"list"`
		NextOffset string          `json:"next_offset"`
	}
	if err := c.get(ctx, endpoint, &page); err != nil {
		res.fail(err)
		return res
	}
	res.List = page.List
	res.NextOffset = page.NextOffset
	return res
}

// ListSubscriptions reads one page of subscriptions ordered by updated_at
// descending, optionally restricted to a customer set.
func (c *Client) ListSubscriptions(ctx context.Context, p ListParams) *SubscriptionListResult {
	q := p.values(true)
	endpoint := c.endpoint("/subscriptions", q)

	res := &SubscriptionListResult{ApiCall: ApiCall{Endpoint: endpoint, Method: http.MethodGet, Success: true}}
	var page struct {
		List       []SubscriptionEntry `json:"list"`
		NextOffset string              `json:"next_offset"`
	}
	if err := c.get(ctx, endpoint, &page); err != nil {
		res.fail(err)
		return res
	}
	res.List = page.List
	res.NextOffset = page.NextOffset
	return res
}

// ListInvoices reads one page of invoices ordered by updated_at descending,
// optionally restricted to a customer set.
func (c *Client) ListInvoices(ctx context.Context, p ListParams) *InvoiceListResult {
	q := p.values(true)
	endpoint := c.endpoint("/invoices", q)

	res := &InvoiceListResult{ApiCall: ApiCall{Endpoint: endpoint, Method: http.MethodGet, Success: true}}
	var page struct {
		List       []InvoiceEntry `json:"list"`
		NextOffset string         `json:"next_offset"`
	}
	if err := c.get(ctx, endpoint, &page); err != nil {
		res.fail(err)
		return res
	}
	res.List = page.List
	res.NextOffset = page.NextOffset
	return res
}

// ListEvents reads one page of events ordered by occurred_at ascending.
func (c *Client) ListEvents(ctx context.Context, p EventListParams) *EventListResult {
	q := url.Values{}
	q.Set("sort_by[asc]", "occurred_at")
	q.Set("occurred_at[after]", strconv.FormatInt(p.OccurredAfter.Unix(), 10))
	types, _ := json.Marshal(p.EventTypes)
	q.Set("event_type[in]", string(types))
	q.Set("limit", strconv.Itoa(listLimit))
	if p.Offset != "" {
		q.Set("offset", p.Offset)
	}
	endpoint := c.endpoint("/events", q)

	res := &EventListResult{ApiCall: ApiCall{Endpoint: endpoint, Method: http.MethodGet, Success: true}}
	var page struct {
		List       []EventEntry `json:"list"`
		NextOffset string       `json:"next_offset"`
	}
	if err := c.get(ctx, endpoint, &page); err != nil {
		res.fail(err)
		return res
	}
	res.List = page.List
	res.NextOffset = page.NextOffset
	return res
}

func (p ListParams) values(withCustomerFilter bool) url.Values {
	q := url.Values{}
	q.Set("updated_at[after]", strconv.FormatInt(p.UpdatedAfter.Unix(), 10))
	q.Set("sort_by[desc]", "updated_at")
	q.Set("limit", strconv.Itoa(listLimit))
	if p.Offset != "" {
		q.Set("offset", p.Offset)
	}
	if p.IncludeDeleted {
		q.Set("include_deleted", "true")
	}
	if withCustomerFilter && len(p.CustomerIDs) > 0 {
		ids, _ := json.Marshal(p.CustomerIDs)
		q.Set("customer_id[in]", string(ids))
	}
	return q
}

func (c *Client) endpoint(path string, q url.Values) string {
	base := c.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.chargebee.com/api/v2", c.Site)
	}
	return strings.TrimRight(base, "/") + path + "?" + q.Encode()
}

type httpError struct {
	Status int
	Body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("chargebee request failed: status=%d body=%s", e.Status, e.Body)
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.APIKey, "X")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpError{Status: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}
