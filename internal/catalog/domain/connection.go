// Package domain defines the read-side catalog entities: connections and
// tools as the aggregator reports them. The aggregator's envelopes are not
// uniform across integrations, so these types decode defensively and expose
// normalized accessors.
package domain

import (
	"encoding/json"
	"strings"
)

// Connection statuses as reported by the aggregator. Only ACTIVE connections
// are eligible for posting.
const (
	ConnectionStatusActive       = "ACTIVE"
	ConnectionStatusInitiated    = "INITIATED"
	ConnectionStatusInitializing = "INITIALIZING"
	ConnectionStatusFailed       = "FAILED"
)

// Connection is a tenant's link to one platform account. Identification
// fields vary by integration: some report a toolkit descriptor, some an app
// name, some only opaque ids. All are retained for keyword matching.
type Connection struct {
	ID            string
	Status        string
	AppName       string
	AppUniqueID   string
	IntegrationID string

	// integration is the raw descriptor: either a plain string slug or an
	// object carrying a slug field, depending on the integration's API
	// generation.
	integration json.RawMessage
}

// connectionJSON covers the field spellings observed across the aggregator's
// integration envelopes.
type connectionJSON struct {
	ID             string          `json:"id"`
	NanoID         string          `json:"nanoid"`
	Status         string          `json:"status"`
	AppName        string          `json:"app_name"`
	AppNameCamel   string          `json:"appName"`
	AppUniqueID    string          `json:"app_unique_id"`
	AppUniqueCamel string          `json:"appUniqueId"`
	IntegrationID  string          `json:"integration_id"`
	IntegrationCam string          `json:"integrationId"`
	Integration    json.RawMessage `json:"integration"`
	Toolkit        json.RawMessage `json:"toolkit"`
}

// UnmarshalJSON decodes a connection from any of the aggregator's envelope
// shapes, preferring snake_case fields and falling back to camelCase.
func (c *Connection) UnmarshalJSON(data []byte) error {
	var raw connectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = firstNonEmpty(raw.ID, raw.NanoID)
	c.Status = raw.Status
	c.AppName = firstNonEmpty(raw.AppName, raw.AppNameCamel)
	c.AppUniqueID = firstNonEmpty(raw.AppUniqueID, raw.AppUniqueCamel)
	c.IntegrationID = firstNonEmpty(raw.IntegrationID, raw.IntegrationCam)

	c.integration = raw.Integration
	if len(c.integration) == 0 {
		c.integration = raw.Toolkit
	}
	return nil
}

// MarshalJSON round-trips the normalized fields.
func (c Connection) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"id":             c.ID,
		"status":         c.Status,
		"app_name":       c.AppName,
		"app_unique_id":  c.AppUniqueID,
		"integration_id": c.IntegrationID,
		"integration":    c.integration,
	})
}

// IntegrationSlug extracts the integration descriptor: the raw value when it
// is a plain string, or the slug/name field when it is an object.
func (c *Connection) IntegrationSlug() string {
	if len(c.integration) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(c.integration, &asString); err == nil {
		return asString
	}

	var asObject struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(c.integration, &asObject); err == nil {
		return firstNonEmpty(asObject.Slug, asObject.Name)
	}
	return ""
}

// Haystack returns the lower-cased concatenation of every identification
// field, the search space for platform keyword matching.
func (c *Connection) Haystack() string {
	return strings.ToLower(strings.Join([]string{
		c.IntegrationSlug(),
		c.AppName,
		c.AppUniqueID,
		c.IntegrationID,
	}, " "))
}

// IsActive reports whether the connection is eligible for posting.
func (c *Connection) IsActive() bool {
	return strings.EqualFold(c.Status, ConnectionStatusActive)
}

// SetIntegrationRaw sets the raw integration descriptor. Used by tests and
// by callers constructing connections outside of JSON decoding.
func (c *Connection) SetIntegrationRaw(raw json.RawMessage) {
	c.integration = raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
