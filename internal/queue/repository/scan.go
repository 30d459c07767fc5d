package repository

import (
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
)

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanWorkItem scans a row where the id column is a native UUID (PostgreSQL).
func scanWorkItem(row rowScanner) (*queueDomain.WorkItem, error) {
	var item queueDomain.WorkItem
	var payload []byte

	err := row.Scan(
		&item.ID,
		&item.TenantID,
		&item.Platform,
		&payload,
		&item.Status,
		&item.Attempts,
		&item.LastError,
		&item.ClaimedAt,
		&item.PostedAt,
		&item.ExternalRef,
		&item.ExternalURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &item.Payload); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal work item payload")
	}
	return &item, nil
}

// scanWorkItemBinaryID scans a row where the id column is a 16-byte binary UUID (MySQL).
func scanWorkItemBinaryID(row rowScanner) (*queueDomain.WorkItem, error) {
	var item queueDomain.WorkItem
	var id, payload []byte

	err := row.Scan(
		&id,
		&item.TenantID,
		&item.Platform,
		&payload,
		&item.Status,
		&item.Attempts,
		&item.LastError,
		&item.ClaimedAt,
		&item.PostedAt,
		&item.ExternalRef,
		&item.ExternalURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.FromBytes(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse work item id")
	}
	item.ID = parsed

	if err := json.Unmarshal(payload, &item.Payload); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal work item payload")
	}
	return &item, nil
}

// scanWorkItems drains a result set using the PostgreSQL scan.
func scanWorkItems(rows *sql.Rows) ([]*queueDomain.WorkItem, error) {
	var items []*queueDomain.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan work item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate work items")
	}
	return items, nil
}

// scanWorkItemsBinaryID drains a result set using the MySQL scan.
func scanWorkItemsBinaryID(rows *sql.Rows) ([]*queueDomain.WorkItem, error) {
	var items []*queueDomain.WorkItem
	for rows.Next() {
		item, err := scanWorkItemBinaryID(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan work item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate work items")
	}
	return items, nil
}

// rowsAffected reports whether a conditional update matched a row.
func rowsAffected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read rows affected")
	}
	return n > 0, nil
}

// requireTransition converts a zero-row conditional update into
// ErrInvalidTransition: the caller believed it held the item in posting
// status but the store disagreed.
func requireTransition(result sql.Result) error {
	ok, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
