// Package domain defines the posting rate bucket entities.
package domain

import "time"

// Bucket identifies a posting budget window kind.
type Bucket string

const (
	BucketHourly Bucket = "hourly"
	BucketDaily  Bucket = "daily"
)

// RateBucket is one tenant's counter for one window. Buckets are created
// lazily on first admission check; stale windows are never matched again and
// need no explicit destruction.
type RateBucket struct {
	TenantID    string
	Bucket      Bucket
	WindowStart time.Time
	Count       int
}

// Decision is the outcome of an admission check. A denial is never fatal:
// the item goes back to the queue and the note explains why.
type Decision struct {
	Allowed bool
	Note    string
}

// BucketStatus is the dashboard read-back for one bucket.
type BucketStatus struct {
	Bucket    Bucket `json:"bucket"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}
