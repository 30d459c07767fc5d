package domain

import "encoding/json"

// Tool is one executable capability in a tenant's live catalog.
type Tool struct {
	Name        string
	Slug        string
	Description string
	Toolkit     string
}

// toolJSON covers the field spellings observed across aggregator responses.
type toolJSON struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Function    json.RawMessage `json:"function"`
	Description string          `json:"description"`
	Toolkit     json.RawMessage `json:"toolkit"`
}

// UnmarshalJSON decodes a tool from either the flat shape or the
// function-wrapper shape.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var raw toolJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Name = firstNonEmpty(raw.Slug, raw.Name)
	t.Slug = raw.Slug
	t.Description = raw.Description

	if t.Name == "" && len(raw.Function) > 0 {
		var fn struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw.Function, &fn); err == nil {
			t.Name = fn.Name
		}
	}

	if len(raw.Toolkit) > 0 {
		var asString string
		if err := json.Unmarshal(raw.Toolkit, &asString); err == nil {
			t.Toolkit = asString
		} else {
			var asObject struct {
				Slug string `json:"slug"`
			}
			if err := json.Unmarshal(raw.Toolkit, &asObject); err == nil {
				t.Toolkit = asObject.Slug
			}
		}
	}
	return nil
}

// ExecuteRequest is a tool execution call against the aggregator.
type ExecuteRequest struct {
	TenantID     string                 `json:"tenant_id"`
	ConnectionID string                 `json:"connection_id"`
	Tool         string                 `json:"tool"`
	Arguments    map[string]interface{} `json:"arguments"`
}

// ExecuteResponse is the raw execution result; the response envelope varies
// by integration, so the payload is kept raw for shape-tolerant extraction.
type ExecuteResponse struct {
	Successful bool            `json:"successful"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}
