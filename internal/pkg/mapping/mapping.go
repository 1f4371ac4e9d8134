package mapping

import (
	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// attributeGroup is the namespace of regular incoming attributes.
const attributeGroup = "chargebee"

// anonymousIDPrefix namespaces the billing ids used as anonymous claims.
const anonymousIDPrefix = "chargebee:"

// Scope says which profile kind an operation addresses.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeAccount Scope = "account"
)

// Action says what an operation writes.
type Action string

const (
	ActionTraits Action = "traits"
	ActionTrack  Action = "track"
)

// IncomingOperation is one CRM write derived from billing data.
type IncomingOperation struct {
	Scope         Scope
	Action        Action
	UserClaims    hull.UserClaims
	AccountClaims hull.AccountClaims
	Attributes    hull.Attributes
	Event         *hull.Event
}

// Mapper converts billing entities into profile attributes and events
// according to the configured resolution strategies.
type Mapper struct {
	userResolution    string
	accountResolution string
}

// NewMapper creates a mapper for one installation's settings.
func NewMapper(settings *connector.Settings) *Mapper {
	return &Mapper{
		userResolution:    settings.IncomingResolutionUser,
		accountResolution: settings.IncomingResolutionAccount,
	}
}

// AnonymousID derives the stable anonymous claim for a billing customer id.
func AnonymousID(customerID string) string {
	return anonymousIDPrefix + customerID
}

// CustomerUserClaims builds the user identity claims for a customer.
func (m *Mapper) CustomerUserClaims(c *chargebee.Customer) hull.UserClaims {
	claims := hull.UserClaims{AnonymousID: AnonymousID(c.ID)}
	switch m.userResolution {
	case connector.ResolutionExternalID:
		claims.ExternalID = c.ID
	case connector.ResolutionEmail:
		claims.Email = c.Email
	}
	return claims
}

// CustomerAccountClaims builds the account identity claims for a customer.
func (m *Mapper) CustomerAccountClaims(c *chargebee.Customer) hull.AccountClaims {
	claims := hull.AccountClaims{AnonymousID: AnonymousID(c.ID)}
	if m.accountResolution == connector.ResolutionExternalID {
		claims.ExternalID = c.ID
	}
	return claims
}
