package connector

import "fmt"

const (
	// StatusNoSite is reported while the Chargebee site is not configured.
	StatusNoSite = "Connector unauthenticated: No Site ID is present."
	// StatusNoAPIKey is reported while the Chargebee API key is not configured.
	StatusNoAPIKey = "Connector unauthenticated: No API Key is present."
	// ErrUnhandledGeneric is reported when a status check fails unexpectedly.
	ErrUnhandledGeneric = "An unhandled error occurred and our engineering team has been notified."
	// SkipNoop is logged when both resolution settings are none.
	SkipNoop = "No operation: Incoming resolution for users and accounts is set to none in Settings. No data will be fetched from Chargebee."
)

// ErrAPIRead describes a failed Chargebee read for one object type.
func ErrAPIRead(objectType string) string {
	return fmt.Sprintf("An error occured when reading data from the Chargebee API for objects of type %s.", objectType)
}
