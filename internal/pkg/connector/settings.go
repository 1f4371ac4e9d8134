package connector

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/hullsync/chargebee-connector/internal/pkg/env"
)

// Resolution strategies for matching incoming billing data to profiles.
const (
	ResolutionExternalID = "external_id"
	ResolutionEmail      = "email"
	ResolutionNone       = "none"
)

// Settings is the per-installation configuration of the connector.
type Settings struct {
	ConnectorID string `validate:"required"`

	HullOrgURL string `validate:"required,url"`
	HullSecret string `validate:"required"`

	ChargebeeSite   string
	ChargebeeAPIKey string

	IncomingResolutionUser    string `validate:"oneof=external_id email none"`
	IncomingResolutionAccount string `validate:"oneof=external_id none"`

	AggregationAccountInvoices      bool
	AggregationAccountSubscriptions bool
}

var validate = validator.New()

// FromEnv loads and validates the settings from the environment.
func FromEnv() (*Settings, error) {
	s := &Settings{
		ConnectorID:               env.GetEnv("CONNECTOR_ID", ""),
		HullOrgURL:                env.GetEnv("HULL_ORG_URL", ""),
		HullSecret:                env.GetEnv("HULL_SECRET", ""),
		ChargebeeSite:             env.GetEnv("CHARGEBEE_SITE", ""),
		ChargebeeAPIKey:           env.GetEnv("CHARGEBEE_API_KEY", ""),
		IncomingResolutionUser:    env.GetEnv("INCOMING_RESOLUTION_USER", ResolutionNone),
		IncomingResolutionAccount: env.GetEnv("INCOMING_RESOLUTION_ACCOUNT", ResolutionNone),
	}
	s.AggregationAccountInvoices = boolEnv("AGGREGATION_ACCOUNT_INVOICES", false)
	s.AggregationAccountSubscriptions = boolEnv("AGGREGATION_ACCOUNT_SUBSCRIPTIONS", false)

	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("connector settings invalid: %w", err)
	}
	return s, nil
}

// Validate re-checks a settings struct, for callers that build it directly.
func (s *Settings) Validate() error {
	return validate.Struct(s)
}

func boolEnv(key string, def bool) bool {
	raw := env.GetEnv(key, strconv.FormatBool(def))
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}
