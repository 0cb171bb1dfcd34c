// Package metadata defines the persisted file record and the contract for
// the document store holding it.
//
// The store must enforce three uniqueness constraints atomically at write
// time: (owner_id, filename), (owner_id, hash) and external_id. Concurrent
// ingestions racing on the same constraint are resolved by the store
// admitting exactly one winner; the application never takes locks.
package metadata

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guapman/storage-service/pagination"
	"github.com/guapman/storage-service/sorter"
)

// Error codes surfaced by repository implementations.
const (
	// CodeRecordNotFound is returned when no record matches the lookup.
	CodeRecordNotFound = "FILE_NOT_FOUND"

	// CodeDuplicateRecord is returned when a write violates one of the
	// declared uniqueness constraints.
	CodeDuplicateRecord = "DUPLICATE_RECORD"
)

// Visibility gates anonymous read access to a file.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// FileRecord is the persisted metadata of one stored file.
//
// InternalID is owned by the store and never exposed externally; ExternalID
// is the only identifier clients ever see. All fields except Filename are
// immutable after creation.
type FileRecord struct {
	InternalID  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ExternalID  string             `bson:"external_id" json:"id"`
	OwnerID     string             `bson:"owner_id" json:"-"`
	Filename    string             `bson:"filename" json:"filename"`
	Hash        string             `bson:"hash" json:"-"`
	Tags        []string           `bson:"tags" json:"tags"`
	Size        int64              `bson:"size" json:"size"`
	Visibility  Visibility         `bson:"visibility" json:"visibility"`
	ContentType string             `bson:"content_type" json:"content_type"`
	UploadDate  time.Time          `bson:"upload_date" json:"upload_date"`
}

// ListFilter selects the records returned by Repository.List.
// OwnerID and PublicOnly are mutually exclusive access boundaries:
// the owner filter scopes the "my files" view, the public filter scopes
// the anonymous view. Tags, when non-empty, keep records whose tag set
// intersects the given set (OR semantics).
type ListFilter struct {
	OwnerID    string
	PublicOnly bool
	Tags       []string
}

// Repository is the document store holding file records.
type Repository interface {
	// Insert persists a new record and returns it with InternalID set.
	// A uniqueness violation yields an error carrying CodeDuplicateRecord.
	Insert(ctx context.Context, rec *FileRecord) (*FileRecord, error)

	// UpdateFilename changes the display name of an existing record.
	// A uniqueness violation yields an error carrying CodeDuplicateRecord.
	UpdateFilename(ctx context.Context, internalID primitive.ObjectID, filename string) error

	// Delete removes the record with the given internal id.
	Delete(ctx context.Context, internalID primitive.ObjectID) error

	// FindByExternalID looks up a record by its public identifier.
	// A missing record yields an error carrying CodeRecordNotFound.
	FindByExternalID(ctx context.Context, externalID string) (*FileRecord, error)

	// List returns one page of records matching the filter together with
	// the total match count.
	List(ctx context.Context, f ListFilter, page pagination.Params, sort sorter.Opt) ([]FileRecord, int64, error)
}
