package mapping

import (
	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
)

// CustomerOps builds the profile writes for one customer, account first so a
// user written right after can link to the existing account.
func (m *Mapper) CustomerOps(c *chargebee.Customer) []IncomingOperation {
	var ops []IncomingOperation
	if c == nil {
		return ops
	}
	if m.accountResolution != connector.ResolutionNone {
		ops = append(ops, IncomingOperation{
			Scope:         ScopeAccount,
			Action:        ActionTraits,
			AccountClaims: m.CustomerAccountClaims(c),
			Attributes:    m.CustomerAccountAttributes(c),
		})
	}
	if m.userResolution != connector.ResolutionNone {
		ops = append(ops, IncomingOperation{
			Scope:      ScopeUser,
			Action:     ActionTraits,
			UserClaims: m.CustomerUserClaims(c),
			Attributes: m.CustomerUserAttributes(c),
		})
	}
	return ops
}

func customerGroupAttributes(c *chargebee.Customer) hull.Attributes {
	attrs := hull.Attributes{}
	applyRules(c.Fields(), customerRules, func(k string, v any) {
		attrs[attributeGroup+"/"+k] = v
	})
	return attrs
}

// CustomerUserAttributes maps a customer onto user attributes. Name parts
// are written as top-level attributes that never overwrite existing values.
func (m *Mapper) CustomerUserAttributes(c *chargebee.Customer) hull.Attributes {
	attrs := customerGroupAttributes(c)

	fields := c.Fields()
	if v, ok := fields["first_name"]; ok && v != nil {
		attrs["first_name"] = hull.AttributeValue{Value: v, Operation: hull.OperationSetIfNull}
	}
	if v, ok := fields["last_name"]; ok && v != nil {
		attrs["last_name"] = hull.AttributeValue{Value: v, Operation: hull.OperationSetIfNull}
	}

	return attrs
}

// CustomerAccountAttributes maps a customer onto account attributes. The
// company becomes the account name unless one is already set.
func (m *Mapper) CustomerAccountAttributes(c *chargebee.Customer) hull.Attributes {
	attrs := customerGroupAttributes(c)

	if v, ok := c.Fields()["company"]; ok && v != nil {
		attrs["name"] = hull.AttributeValue{Value: v, Operation: hull.OperationSetIfNull}
	}

	return attrs
}
