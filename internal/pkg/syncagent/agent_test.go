package syncagent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/hullsync/chargebee-connector/internal/pkg/cache"
	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/env"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

const isolatedAgentTestRedisDB = 12

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	hosts := []string{
		env.GetEnv("CACHE_HOST", ""),
		"cache",
		"localhost",
		"127.0.0.1",
	}
	port := env.GetEnv("CACHE_PORT", "6379")

	var lastErr error
	for _, host := range hosts {
		if host == "" {
			continue
		}
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", host, port),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			DB:       isolatedAgentTestRedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		_, err := client.Ping(ctx).Result()
		cancel()
		if err == nil {
			if err := client.FlushDB(context.Background()).Err(); err != nil {
				_ = client.Close()
				t.Fatalf("failed to flush isolated redis db: %v", err)
			}
			cache.SetClient(client)
			t.Cleanup(func() {
				_ = client.FlushDB(context.Background()).Err()
				_ = client.Close()
			})
			return client
		}
		lastErr = err
		_ = client.Close()
	}

	t.Skipf("Skipping Redis-dependent test: no reachable Redis endpoint (%v)", lastErr)
	return nil
}

func testSettings() *connector.Settings {
	return &connector.Settings{
		ConnectorID:               "conn1",
		HullOrgURL:                "https://acme.hullapp.io",
		HullSecret:                "secret",
		ChargebeeSite:             "acme-test",
		ChargebeeAPIKey:           "test_key",
		IncomingResolutionUser:    connector.ResolutionEmail,
		IncomingResolutionAccount: connector.ResolutionExternalID,
	}
}

// fakeReader serves queued pages. History reads (customer-filtered) are
// served from separate queues so tests can count refetches.
type fakeReader struct {
	customerPages     []*chargebee.CustomerListResult
	subscriptionPages []*chargebee.SubscriptionListResult
	invoicePages      []*chargebee.InvoiceListResult
	eventPages        []*chargebee.EventListResult

	historyInvoicePages      []*chargebee.InvoiceListResult
	historySubscriptionPages []*chargebee.SubscriptionListResult

	customerParams []chargebee.ListParams
	eventParams    []chargebee.EventListParams

	historyInvoiceCalls      int
	historySubscriptionCalls int
}

func (f *fakeReader) ListCustomers(_ context.Context, p chargebee.ListParams) *chargebee.CustomerListResult {
	f.customerParams = append(f.customerParams, p)
	if len(f.customerPages) == 0 {
		return &chargebee.CustomerListResult{ApiCall: chargebee.ApiCall{Success: true}}
	}
	page := f.customerPages[0]
	f.customerPages = f.customerPages[1:]
	return page
}

func (f *fakeReader) ListSubscriptions(_ context.Context, p chargebee.ListParams) *chargebee.SubscriptionListResult {
	if len(p.CustomerIDs) > 0 {
		f.historySubscriptionCalls++
		if len(f.historySubscriptionPages) == 0 {
			return &chargebee.SubscriptionListResult{ApiCall: chargebee.ApiCall{Success: true}}
		}
		page := f.historySubscriptionPages[0]
		f.historySubscriptionPages = f.historySubscriptionPages[1:]
		return page
	}
	if len(f.subscriptionPages) == 0 {
		return &chargebee.SubscriptionListResult{ApiCall: chargebee.ApiCall{Success: true}}
	}
	page := f.subscriptionPages[0]
	f.subscriptionPages = f.subscriptionPages[1:]
	return page
}

func (f *fakeReader) ListInvoices(_ context.Context, p chargebee.ListParams) *chargebee.InvoiceListResult {
	if len(p.CustomerIDs) > 0 {
		f.historyInvoiceCalls++
		if len(f.historyInvoicePages) == 0 {
			return &chargebee.InvoiceListResult{ApiCall: chargebee.ApiCall{Success: true}}
		}
		page := f.historyInvoicePages[0]
		f.historyInvoicePages = f.historyInvoicePages[1:]
		return page
	}
	if len(f.invoicePages) == 0 {
		return &chargebee.InvoiceListResult{ApiCall: chargebee.ApiCall{Success: true}}
	}
	page := f.invoicePages[0]
	f.invoicePages = f.invoicePages[1:]
	return page
}

func (f *fakeReader) ListEvents(_ context.Context, p chargebee.EventListParams) *chargebee.EventListResult {
	f.eventParams = append(f.eventParams, p)
	if len(f.eventPages) == 0 {
		return &chargebee.EventListResult{ApiCall: chargebee.ApiCall{Success: true}}
	}
	page := f.eventPages[0]
	f.eventPages = f.eventPages[1:]
	return page
}

type recordedWrite struct {
	kind          string
	userClaims    hull.UserClaims
	accountClaims hull.AccountClaims
	attrs         hull.Attributes
	event         hull.Event
}

type fakeWriter struct {
	writes    []recordedWrite
	statuses  []hull.Status
	failWith  error
	statusErr error
}

func (f *fakeWriter) UserTraits(_ context.Context, claims hull.UserClaims, attrs hull.Attributes) error {
	f.writes = append(f.writes, recordedWrite{kind: "user_traits", userClaims: claims, attrs: attrs})
	return f.failWith
}

func (f *fakeWriter) AccountTraits(_ context.Context, claims hull.AccountClaims, attrs hull.Attributes) error {
	f.writes = append(f.writes, recordedWrite{kind: "account_traits", accountClaims: claims, attrs: attrs})
	return f.failWith
}

func (f *fakeWriter) UserTrack(_ context.Context, claims hull.UserClaims, event hull.Event) error {
	f.writes = append(f.writes, recordedWrite{kind: "user_track", userClaims: claims, event: event})
	return f.failWith
}

func (f *fakeWriter) PutStatus(_ context.Context, status hull.Status) error {
	f.statuses = append(f.statuses, status)
	return f.statusErr
}

func customerEntry(t *testing.T, id, email string) chargebee.CustomerEntry {
	t.Helper()
	raw := fmt.Sprintf(`{"customer": {"id": %q, "email": %q, "company": "Acme Inc.", "created_at": 1578145800, "updated_at": 1578232200}}`, id, email)
	var entry chargebee.CustomerEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	return entry
}

func invoiceEntry(t *testing.T, id, customerID string, date int64) chargebee.InvoiceEntry {
	t.Helper()
	raw := fmt.Sprintf(`{"invoice": {"id": %q, "customer_id": %q, "date": %d, "updated_at": %d, "resource_version": 1}}`, id, customerID, date, date)
	var entry chargebee.InvoiceEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	return entry
}

func subscriptionEntry(t *testing.T, id, customerID, email string) chargebee.SubscriptionEntry {
	t.Helper()
	raw := fmt.Sprintf(`{
		"subscription": {"id": %q, "customer_id": %q, "plan_id": "pro", "created_at": 1578145800, "updated_at": 1578145800, "resource_version": 1},
		"customer": {"id": %q, "email": %q}
	}`, id, customerID, customerID, email)
	var entry chargebee.SubscriptionEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	return entry
}

func eventEntry(t *testing.T, id string, occurredAt int64, eventType, contentJSON string) chargebee.EventEntry {
	t.Helper()
	raw := fmt.Sprintf(`{"event": {"id": %q, "occurred_at": %d, "event_type": %q, "content": %s}}`, id, occurredAt, eventType, contentJSON)
	var entry chargebee.EventEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	return entry
}

func writeKinds(writes []recordedWrite) []string {
	kinds := make([]string, 0, len(writes))
	for _, w := range writes {
		kinds = append(kinds, w.kind)
	}
	return kinds
}
