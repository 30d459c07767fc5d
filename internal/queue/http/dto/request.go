// Package dto provides data transfer objects for work item HTTP request and
// response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	customValidation "github.com/brandwire/dispatch/internal/validation"
)

// CreateWorkItemRequest contains the parameters for enqueueing a post.
type CreateWorkItemRequest struct {
	TenantID          string `json:"tenant_id"`
	Platform          string `json:"platform"`
	Text              string `json:"text"`
	Title             string `json:"title"`
	Subreddit         string `json:"subreddit"`
	Kind              string `json:"kind"`
	URL               string `json:"url"`
	FlairID           string `json:"flair_id"`
	ReplyToExternalID string `json:"reply_to_external_id"`
	ReplyToAuthor     string `json:"reply_to_author"`
}

// Validate checks the shape of the request. Platform-specific content rules
// (reddit needs subreddit+title, x length limit) are enforced by the use case.
func (r *CreateWorkItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TenantID, validation.Required),
		validation.Field(&r.Platform,
			validation.Required,
			customValidation.StringIn{
				Allowed: queueDomain.Platforms(),
				Message: "must be one of: x, reddit, linkedin",
			},
		),
		validation.Field(&r.Kind,
			customValidation.StringIn{
				Allowed: []string{string(queueDomain.PostKindSelf), string(queueDomain.PostKindLink)},
				Message: "must be one of: self, link",
			},
		),
		validation.Field(&r.URL, customValidation.AbsoluteURL{}),
	)
}

// ToPayload maps the request body to a domain post payload.
func (r *CreateWorkItemRequest) ToPayload() queueDomain.PostPayload {
	return queueDomain.PostPayload{
		Text:              r.Text,
		Title:             r.Title,
		Subreddit:         r.Subreddit,
		Kind:              queueDomain.PostKind(r.Kind),
		URL:               r.URL,
		FlairID:           r.FlairID,
		ReplyToExternalID: r.ReplyToExternalID,
		ReplyToAuthor:     r.ReplyToAuthor,
	}
}
