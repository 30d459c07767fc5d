package dto

import (
	"time"

	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
)

// WorkItemResponse represents a work item in API responses.
type WorkItemResponse struct {
	ID                string     `json:"id"`
	TenantID          string     `json:"tenant_id"`
	Platform          string     `json:"platform"`
	Status            string     `json:"status"`
	Attempts          int        `json:"attempts"`
	Text              string     `json:"text,omitempty"`
	Title             string     `json:"title,omitempty"`
	Subreddit         string     `json:"subreddit,omitempty"`
	Kind              string     `json:"kind,omitempty"`
	URL               string     `json:"url,omitempty"`
	FlairID           string     `json:"flair_id,omitempty"`
	ReplyToExternalID string     `json:"reply_to_external_id,omitempty"`
	ReplyToAuthor     string     `json:"reply_to_author,omitempty"`
	LastError         *string    `json:"last_error,omitempty"`
	ClaimedAt         *time.Time `json:"claimed_at,omitempty"`
	PostedAt          *time.Time `json:"posted_at,omitempty"`
	ExternalRef       *string    `json:"external_ref,omitempty"`
	ExternalURL       *string    `json:"external_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// MapWorkItemToResponse converts a domain work item to an API response.
func MapWorkItemToResponse(item *queueDomain.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:                item.ID.String(),
		TenantID:          item.TenantID,
		Platform:          string(item.Platform),
		Status:            string(item.Status),
		Attempts:          item.Attempts,
		Text:              item.Payload.Text,
		Title:             item.Payload.Title,
		Subreddit:         item.Payload.Subreddit,
		Kind:              string(item.Payload.Kind),
		URL:               item.Payload.URL,
		FlairID:           item.Payload.FlairID,
		ReplyToExternalID: item.Payload.ReplyToExternalID,
		ReplyToAuthor:     item.Payload.ReplyToAuthor,
		LastError:         item.LastError,
		ClaimedAt:         item.ClaimedAt,
		PostedAt:          item.PostedAt,
		ExternalRef:       item.ExternalRef,
		ExternalURL:       item.ExternalURL,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// ListWorkItemsResponse represents a paginated list of work items.
type ListWorkItemsResponse struct {
	Data []WorkItemResponse `json:"data"`
}

// MapWorkItemsToListResponse converts a slice of domain work items to a list response.
func MapWorkItemsToListResponse(items []*queueDomain.WorkItem) ListWorkItemsResponse {
	data := make([]WorkItemResponse, 0, len(items))
	for _, item := range items {
		data = append(data, MapWorkItemToResponse(item))
	}
	return ListWorkItemsResponse{Data: data}
}
