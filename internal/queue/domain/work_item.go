// Package domain defines the core work item entities and status transition rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies the social network a work item targets.
type Platform string

const (
	PlatformX        Platform = "x"
	PlatformReddit   Platform = "reddit"
	PlatformLinkedIn Platform = "linkedin"
)

// Platforms returns all supported platform identifiers.
func Platforms() []string {
	return []string{string(PlatformX), string(PlatformReddit), string(PlatformLinkedIn)}
}

// PostKind distinguishes reddit submission types.
type PostKind string

const (
	PostKindSelf PostKind = "self"
	PostKindLink PostKind = "link"
)

// WorkItemStatus represents the lifecycle status of a work item.
//
// Transitions are monotonic: queued -> posting -> {posted|failed}. An item
// can be paused or cancelled while it waits in the queue, and a posting item
// whose lease expires is returned to queued by the sweeper. Terminal statuses
// (posted, failed, cancelled) are never left.
type WorkItemStatus string

const (
	WorkItemStatusQueued    WorkItemStatus = "queued"
	WorkItemStatusPaused    WorkItemStatus = "paused"
	WorkItemStatusPosting   WorkItemStatus = "posting"
	WorkItemStatusPosted    WorkItemStatus = "posted"
	WorkItemStatusFailed    WorkItemStatus = "failed"
	WorkItemStatusCancelled WorkItemStatus = "cancelled"
)

// IsTerminal reports whether the status is final.
func (s WorkItemStatus) IsTerminal() bool {
	switch s {
	case WorkItemStatusPosted, WorkItemStatusFailed, WorkItemStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValid reports whether the status is a known value.
func (s WorkItemStatus) IsValid() bool {
	switch s {
	case WorkItemStatusQueued, WorkItemStatusPaused, WorkItemStatusPosting,
		WorkItemStatusPosted, WorkItemStatusFailed, WorkItemStatusCancelled:
		return true
	default:
		return false
	}
}

// PostPayload holds the platform-specific content of a work item. Fields that
// don't apply to the target platform are left empty.
type PostPayload struct {
	Text              string   `json:"text,omitempty"`
	Title             string   `json:"title,omitempty"`
	Subreddit         string   `json:"subreddit,omitempty"`
	Kind              PostKind `json:"kind,omitempty"`
	URL               string   `json:"url,omitempty"`
	FlairID           string   `json:"flair_id,omitempty"`
	ReplyToExternalID string   `json:"reply_to_external_id,omitempty"`
	ReplyToAuthor     string   `json:"reply_to_author,omitempty"`
}

// WorkItem represents a single queued social media post for a tenant.
type WorkItem struct {
	ID          uuid.UUID
	TenantID    string
	Platform    Platform
	Payload     PostPayload
	Status      WorkItemStatus
	Attempts    int
	LastError   *string
	ClaimedAt   *time.Time
	PostedAt    *time.Time
	ExternalRef *string
	ExternalURL *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanPause reports whether the item may move to paused.
func (w *WorkItem) CanPause() bool {
	return w.Status == WorkItemStatusQueued
}

// CanResume reports whether the item may return to queued.
func (w *WorkItem) CanResume() bool {
	return w.Status == WorkItemStatusPaused
}

// CanCancel reports whether the item may be cancelled. Items already handed
// to a worker (posting) or in a terminal status cannot be cancelled.
func (w *WorkItem) CanCancel() bool {
	return w.Status == WorkItemStatusQueued || w.Status == WorkItemStatusPaused
}
