package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

func newMapper(userRes, acctRes string) *Mapper {
	return NewMapper(&connector.Settings{
		IncomingResolutionUser:    userRes,
		IncomingResolutionAccount: acctRes,
	})
}

func decodeCustomer(t *testing.T, raw string) *chargebee.Customer {
	t.Helper()
	var c chargebee.Customer
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return &c
}

const customerFixture = `{
	"id": "cust-1",
	"first_name": "Jane",
	"last_name": "Doe",
	"email": "jane@acme.io",
	"company": "Acme Inc.",
	"auto_collection": "on",
	"created_at": 1578145800,
	"updated_at": 1578232200,
	"billing_date": null,
	"referral_urls": null,
	"contacts": [
		{"id": "contact-1", "email": "billing@acme.io", "enabled": true}
	],
	"meta_data": {"crmId": "abc-123", "leadScore": 42},
	"deleted": false
}`

func TestCustomerUserClaims(t *testing.T) {
	customer := decodeCustomer(t, customerFixture)

	tests := []struct {
		name       string
		resolution string
		want       hull.UserClaims
	}{
		{
			name:       "external id",
			resolution: connector.ResolutionExternalID,
			want:       hull.UserClaims{ExternalID: "cust-1", AnonymousID: "chargebee:cust-1"},
		},
		{
			name:       "email",
			resolution: connector.ResolutionEmail,
			want:       hull.UserClaims{Email: "jane@acme.io", AnonymousID: "chargebee:cust-1"},
		},
		{
			name:       "none keeps anonymous id only",
			resolution: connector.ResolutionNone,
			want:       hull.UserClaims{AnonymousID: "chargebee:cust-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMapper(tt.resolution, connector.ResolutionNone)
			assert.Equal(t, tt.want, m.CustomerUserClaims(customer))
		})
	}
}

func TestCustomerAccountClaims(t *testing.T) {
	customer := decodeCustomer(t, customerFixture)

	m := newMapper(connector.ResolutionNone, connector.ResolutionExternalID)
	assert.Equal(t, hull.AccountClaims{
		ExternalID:  "cust-1",
		AnonymousID: "chargebee:cust-1",
	}, m.CustomerAccountClaims(customer))

	m = newMapper(connector.ResolutionNone, connector.ResolutionNone)
	assert.Equal(t, hull.AccountClaims{
		AnonymousID: "chargebee:cust-1",
	}, m.CustomerAccountClaims(customer))
}

func TestCustomerUserAttributes(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)
	customer := decodeCustomer(t, customerFixture)

	attrs := m.CustomerUserAttributes(customer)

	assert.Equal(t, "cust-1", attrs["chargebee/id"])
	assert.Equal(t, "2020-01-04T13:50:00Z", attrs["chargebee/created_at"])
	assert.Equal(t, "2020-01-05T13:50:00Z", attrs["chargebee/updated_at"])

	// A null timestamp stays null instead of disappearing.
	val, present := attrs["chargebee/billing_date"]
	assert.True(t, present)
	assert.Nil(t, val)

	// Null lists become empty arrays on customers.
	assert.Equal(t, []any{}, attrs["chargebee/referral_urls"])

	assert.Equal(t, []any{"billing@acme.io"}, attrs["chargebee/contacts_emails"])
	_, present = attrs["chargebee/contacts"]
	assert.False(t, present)

	// meta_data is flattened one level with snake_cased keys.
	assert.Equal(t, "abc-123", attrs["chargebee/meta_data_crm_id"])
	assert.Equal(t, json.Number("42"), attrs["chargebee/meta_data_lead_score"])
	_, present = attrs["chargebee/meta_data"]
	assert.False(t, present)

	// Name parts are also written top level without overwriting.
	assert.Equal(t, hull.AttributeValue{Value: "Jane", Operation: hull.OperationSetIfNull}, attrs["first_name"])
	assert.Equal(t, hull.AttributeValue{Value: "Doe", Operation: hull.OperationSetIfNull}, attrs["last_name"])
	_, present = attrs["name"]
	assert.False(t, present)
}

func TestCustomerAccountAttributes(t *testing.T) {
	m := newMapper(connector.ResolutionNone, connector.ResolutionExternalID)
	customer := decodeCustomer(t, customerFixture)

	attrs := m.CustomerAccountAttributes(customer)

	assert.Equal(t, hull.AttributeValue{Value: "Acme Inc.", Operation: hull.OperationSetIfNull}, attrs["name"])
	_, present := attrs["first_name"]
	assert.False(t, present)
	assert.Equal(t, "Acme Inc.", attrs["chargebee/company"])
}

func TestCustomerAttributesWithoutOptionalFields(t *testing.T) {
	m := newMapper(connector.ResolutionExternalID, connector.ResolutionExternalID)
	customer := decodeCustomer(t, `{"id": "cust-2", "deleted": true}`)

	userAttrs := m.CustomerUserAttributes(customer)
	_, present := userAttrs["first_name"]
	assert.False(t, present)
	_, present = userAttrs["chargebee/referral_urls"]
	assert.False(t, present)
	assert.Equal(t, true, userAttrs["chargebee/deleted"])

	acctAttrs := m.CustomerAccountAttributes(customer)
	_, present = acctAttrs["name"]
	assert.False(t, present)
}

func TestCustomerReferralURLsProjection(t *testing.T) {
	m := newMapper(connector.ResolutionEmail, connector.ResolutionNone)
	customer := decodeCustomer(t, `{
		"id": "cust-3",
		"referral_urls": [
			{"referral_sharing_url": "https://ref.acme.io/a", "referral_system": "friendbuy"},
			{"referral_sharing_url": "https://ref.acme.io/b", "referral_system": "friendbuy"}
		]
	}`)

	attrs := m.CustomerUserAttributes(customer)
	assert.Equal(t, []any{"https://ref.acme.io/a", "https://ref.acme.io/b"}, attrs["chargebee/referral_urls"])
}
