package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	"github.com/brandwire/dispatch/internal/queue/repository"
)

// maxXPostRunes is the post length limit enforced for x text posts.
const maxXPostRunes = 280

// workItemUseCase implements the WorkItemUseCase interface.
type workItemUseCase struct {
	repo WorkItemRepository
}

// NewWorkItemUseCase creates a new WorkItemUseCase.
func NewWorkItemUseCase(repo WorkItemRepository) WorkItemUseCase {
	return &workItemUseCase{repo: repo}
}

// Enqueue validates the payload for its target platform and persists a new
// queued work item.
func (u *workItemUseCase) Enqueue(
	ctx context.Context,
	tenantID string,
	platform queueDomain.Platform,
	payload queueDomain.PostPayload,
) (*queueDomain.WorkItem, error) {
	if tenantID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "tenant id is required")
	}

	normalized, err := validatePayload(platform, payload)
	if err != nil {
		return nil, err
	}

	item := &queueDomain.WorkItem{
		ID:       uuid.Must(uuid.NewV7()),
		TenantID: tenantID,
		Platform: platform,
		Payload:  normalized,
		Status:   queueDomain.WorkItemStatusQueued,
	}

	if err := u.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// validatePayload enforces per-platform content rules and fills defaults
// (reddit kind defaults to self).
func validatePayload(
	platform queueDomain.Platform,
	payload queueDomain.PostPayload,
) (queueDomain.PostPayload, error) {
	switch platform {
	case queueDomain.PlatformX:
		if payload.Text == "" {
			return payload, apperrors.Wrap(apperrors.ErrInvalidInput, "x posts require text")
		}
		if utf8.RuneCountInString(payload.Text) > maxXPostRunes {
			return payload, apperrors.Wrapf(apperrors.ErrInvalidInput,
				"x post text exceeds %d characters", maxXPostRunes)
		}
	case queueDomain.PlatformReddit:
		if payload.Subreddit == "" {
			return payload, apperrors.Wrap(apperrors.ErrInvalidInput, "reddit posts require a subreddit")
		}
		if payload.Title == "" {
			return payload, apperrors.Wrap(apperrors.ErrInvalidInput, "reddit posts require a title")
		}
		if payload.Kind == "" {
			payload.Kind = queueDomain.PostKindSelf
		}
		switch payload.Kind {
		case queueDomain.PostKindSelf:
			if payload.Text == "" {
				return payload, apperrors.Wrap(apperrors.ErrInvalidInput, "reddit self posts require text")
			}
		case queueDomain.PostKindLink:
			if payload.URL == "" {
				return payload, apperrors.Wrap(apperrors.ErrInvalidInput, "reddit link posts require a url")
			}
		default:
			return payload, apperrors.Wrapf(apperrors.ErrInvalidInput,
				"unknown reddit post kind %q", payload.Kind)
		}
	case queueDomain.PlatformLinkedIn:
		if payload.Text == "" {
			return payload, apperrors.Wrap(apperrors.ErrInvalidInput, "linkedin posts require text")
		}
	default:
		return payload, apperrors.Wrapf(apperrors.ErrInvalidInput,
			"unsupported platform %q", platform)
	}

	return payload, nil
}

// Get retrieves a work item by ID.
func (u *workItemUseCase) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	return u.repo.GetByID(ctx, id)
}

// List retrieves work items matching the filter.
func (u *workItemUseCase) List(
	ctx context.Context,
	filter repository.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	return u.repo.List(ctx, filter)
}

// Pause moves a queued item to paused.
func (u *workItemUseCase) Pause(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	return u.guardedTransition(ctx, id, "pause", u.repo.Pause)
}

// Resume moves a paused item back to queued.
func (u *workItemUseCase) Resume(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	return u.guardedTransition(ctx, id, "resume", u.repo.Resume)
}

// Cancel moves a queued or paused item to cancelled.
func (u *workItemUseCase) Cancel(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	return u.guardedTransition(ctx, id, "cancel", u.repo.Cancel)
}

// guardedTransition runs a conditional update and distinguishes "item does
// not exist" from "item exists but the transition is forbidden".
func (u *workItemUseCase) guardedTransition(
	ctx context.Context,
	id uuid.UUID,
	action string,
	transition func(ctx context.Context, id uuid.UUID) (bool, error),
) (*queueDomain.WorkItem, error) {
	ok, err := transition(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		item, getErr := u.repo.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInvalidTransition,
			fmt.Sprintf("cannot %s work item in status %s", action, item.Status))
	}
	return u.repo.GetByID(ctx, id)
}
