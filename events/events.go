// Package events publishes file lifecycle notifications.
//
// Publishing is best effort: operation outcomes never depend on it, and
// failures are reported to the caller only so they can be logged.
package events

import (
	"context"
	"time"
)

// Lifecycle event names.
const (
	FileUploaded = "file.uploaded"
	FileDeleted  = "file.deleted"
	FileRenamed  = "file.renamed"
)

// Event is one file lifecycle notification.
type Event struct {
	Event       string    `json:"event"`
	ExternalID  string    `json:"external_id"`
	OwnerID     string    `json:"owner_id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers lifecycle events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop is a Publisher that drops every event. Used when eventing is disabled.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error {
	return nil
}
