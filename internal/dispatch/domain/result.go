package domain

import "encoding/json"

// Outcome labels how a single dispatch attempt ended.
type Outcome string

const (
	OutcomePosted          Outcome = "posted"
	OutcomeFailed          Outcome = "failed"
	OutcomeAdmissionDenied Outcome = "admission_denied"
	OutcomeLostClaim       Outcome = "lost_claim"
)

// ExecutionResult carries the outcome of one executor call.
type ExecutionResult struct {
	// ExternalRef is the platform's id for the created post, when the
	// response carried one in a recognizable place.
	ExternalRef string
	// Response is the decoded response data for profile-specific URL
	// derivation. Nil when the body held no object payload.
	Response map[string]interface{}
}

// ExtractExternalRef pulls the posted id out of a response payload. The
// executor's integrations disagree on envelope shape, so the known spots
// are probed in order: data.id, top-level id, tweet_id, and the doubly
// nested data.data.id.
func ExtractExternalRef(payload map[string]interface{}) string {
	if payload == nil {
		return ""
	}

	if data, ok := payload["data"].(map[string]interface{}); ok {
		if id := refString(data["id"]); id != "" {
			return id
		}
		if nested, ok := data["data"].(map[string]interface{}); ok {
			if id := refString(nested["id"]); id != "" {
				return id
			}
		}
	}
	if id := refString(payload["id"]); id != "" {
		return id
	}
	if id := refString(payload["tweet_id"]); id != "" {
		return id
	}
	return ""
}

// refString renders an id field that may arrive as a string or a JSON
// number.
func refString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		// Large platform ids lose precision as float64; integrations that
		// send numeric ids are decoded with UseNumber upstream, so this
		// branch only covers small ids.
		return json.Number(jsonFloatString(v)).String()
	default:
		return ""
	}
}

func jsonFloatString(v float64) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
