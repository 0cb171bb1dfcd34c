// Package files implements the ingestion and retrieval pipeline of the
// object store: streaming upload with per-owner deduplication, the
// ownership/visibility access gate, mutations and the listing views.
package files

import (
	"context"
	"io"
	"time"

	"github.com/code19m/errx"

	"github.com/guapman/storage-service/blob"
	"github.com/guapman/storage-service/events"
	"github.com/guapman/storage-service/logger"
	"github.com/guapman/storage-service/metadata"
)

// Service coordinates the blob and metadata stores. It holds no mutable
// state of its own; all coordination between concurrent requests is pushed
// to the backing stores.
type Service struct {
	blobs   blob.Store
	records metadata.Repository
	events  events.Publisher
	log     logger.Logger
}

// New creates the file service.
func New(blobs blob.Store, records metadata.Repository, ev events.Publisher, log logger.Logger) *Service {
	return &Service{
		blobs:   blobs,
		records: records,
		events:  ev,
		log:     log.Named("files"),
	}
}

// StoredFile pairs a file record with an open read stream over its content.
// The caller must close Content on every exit path.
type StoredFile struct {
	Record  *metadata.FileRecord
	Content io.ReadCloser
}

// Get resolves a file for download. Public files are readable by anyone;
// private files only by their owner. A metadata record whose content cannot
// be opened is an inconsistency and surfaces as an internal error.
func (s *Service) Get(ctx context.Context, requesterID, externalID string) (*StoredFile, error) {
	rec, err := s.resolve(ctx, requesterID, externalID, true)
	if err != nil {
		return nil, err
	}

	content, _, err := s.blobs.Open(ctx, rec.ExternalID)
	if err != nil {
		s.log.With("external_id", externalID).Errorx(err)
		return nil, internalErr("stored content is unavailable")
	}

	return &StoredFile{Record: rec, Content: content}, nil
}

// Delete removes a file. Only the owner may delete, regardless of
// visibility. The blob is removed first: if that fails the record is kept,
// since a record with a missing blob is the worse failure mode than an
// orphaned blob.
func (s *Service) Delete(ctx context.Context, requesterID, externalID string) error {
	rec, err := s.resolve(ctx, requesterID, externalID, false)
	if err != nil {
		return err
	}

	if err := s.blobs.Remove(ctx, rec.ExternalID); err != nil {
		s.log.With("external_id", externalID).Errorx(err)
		return internalErr("failed to delete file content")
	}

	if err := s.records.Delete(ctx, rec.InternalID); err != nil {
		s.log.With("external_id", externalID).Errorx(err)
		return internalErr("failed to delete file record")
	}

	s.notify(ctx, events.FileDeleted, rec)

	s.log.With("external_id", externalID, "owner_id", rec.OwnerID).Info("file deleted")
	return nil
}

// Rename changes a file's display name. Renaming to the current name is a
// no-op returning the unchanged record. Only the owner may rename.
func (s *Service) Rename(ctx context.Context, requesterID, externalID, newFilename string) (*metadata.FileRecord, error) {
	if newFilename == "" {
		return nil, errx.New(
			"filename must not be empty",
			errx.WithCode(CodeEmptyFilename),
			errx.WithType(errx.T_Validation),
		)
	}

	rec, err := s.resolve(ctx, requesterID, externalID, false)
	if err != nil {
		return nil, err
	}

	if rec.Filename == newFilename {
		return rec, nil
	}

	if err := s.records.UpdateFilename(ctx, rec.InternalID, newFilename); err != nil {
		if errx.IsCodeIn(err, metadata.CodeDuplicateRecord) {
			s.log.With("owner_id", rec.OwnerID, "filename", newFilename).Warn("file with the same name already exists")
			return nil, duplicateErr()
		}
		s.log.With("external_id", externalID).Errorx(err)
		return nil, internalErr("failed to rename file")
	}

	rec.Filename = newFilename
	s.notify(ctx, events.FileRenamed, rec)

	return rec, nil
}

// notify publishes a lifecycle event. Best effort: failures are logged and
// never change the outcome of the operation that triggered them.
func (s *Service) notify(ctx context.Context, event string, rec *metadata.FileRecord) {
	e := events.Event{
		Event:       event,
		ExternalID:  rec.ExternalID,
		OwnerID:     rec.OwnerID,
		Filename:    rec.Filename,
		Size:        rec.Size,
		ContentType: rec.ContentType,
		OccurredAt:  time.Now().UTC(),
	}

	if err := s.events.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.log.With("event", event, "external_id", rec.ExternalID).Warnx(err)
	}
}

func internalErr(msg string) error {
	return errx.New(msg, errx.WithCode(CodeInternal), errx.WithType(errx.T_Internal))
}

func duplicateErr() error {
	return errx.New(
		"file duplicated",
		errx.WithCode(CodeFileDuplicated),
		errx.WithType(errx.T_Conflict),
	)
}
