package files

import (
	"context"
	"io"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/guapman/storage-service/events"
	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/sniff"
	"github.com/guapman/storage-service/tags"
	"github.com/guapman/storage-service/tap"
)

// Ingest streams an upload into the blob store and records its metadata.
//
// The stream is written under a freshly generated external id while a tap
// computes the SHA-256 digest, byte count and header buffer in the same
// pass. The metadata insert is the commit point: if it fails, the already
// written blob is compensated away and the failure is classified. The
// per-owner uniqueness of (filename) and (content hash) is enforced
// atomically by the metadata store, so concurrent duplicate uploads admit
// exactly one winner without application-level locks.
func (s *Service) Ingest(
	ctx context.Context,
	ownerID string,
	filename string,
	declaredType string,
	visibility metadata.Visibility,
	rawTags []string,
	r io.Reader,
) (*metadata.FileRecord, error) {
	if filename == "" {
		return nil, errx.New(
			"filename must not be empty",
			errx.WithCode(CodeEmptyFilename),
			errx.WithType(errx.T_Validation),
		)
	}
	if !visibility.Valid() {
		return nil, errx.New(
			"visibility must be PUBLIC or PRIVATE",
			errx.WithCode(CodeInvalidVisibility),
			errx.WithType(errx.T_Validation),
		)
	}

	externalID := uuid.NewString()

	t := tap.New(r)
	if err := s.blobs.Put(ctx, externalID, t); err != nil {
		// Nothing was persisted to metadata; no compensation needed.
		s.log.With("external_id", externalID).Errorx(err)
		return nil, internalErr("failed to store file content")
	}

	// The byte count is only trustworthy after the stream is fully
	// consumed: a chunked upload carries no length header.
	if t.Count() == 0 {
		s.compensate(ctx, externalID)
		return nil, errx.New(
			"empty file not acceptable",
			errx.WithCode(CodeEmptyFile),
			errx.WithType(errx.T_Validation),
		)
	}

	normTags, err := tags.Normalize(rawTags)
	if err != nil {
		s.compensate(ctx, externalID)
		return nil, err
	}

	rec := &metadata.FileRecord{
		ExternalID:  externalID,
		OwnerID:     ownerID,
		Filename:    filename,
		Hash:        t.SumHex(),
		Tags:        normTags,
		Size:        t.Count(),
		Visibility:  visibility,
		ContentType: sniff.Resolve(declaredType, t.Head()),
		UploadDate:  time.Now().UTC(),
	}

	created, err := s.commitRecord(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, events.FileUploaded, created)

	s.log.With(
		"external_id", created.ExternalID,
		"owner_id", created.OwnerID,
		"filename", created.Filename,
		"size", created.Size,
		"hash", created.Hash,
	).Info("file uploaded")

	return created, nil
}

// commitRecord persists the metadata record and, when the insert fails,
// compensates by deleting the blob written under the record's external id.
// Kept separate from Ingest so the failure path is testable without I/O.
func (s *Service) commitRecord(ctx context.Context, rec *metadata.FileRecord) (*metadata.FileRecord, error) {
	created, err := s.records.Insert(ctx, rec)
	if err == nil {
		return created, nil
	}

	s.compensate(ctx, rec.ExternalID)

	if errx.IsCodeIn(err, metadata.CodeDuplicateRecord) {
		s.log.With("owner_id", rec.OwnerID, "filename", rec.Filename, "hash", rec.Hash).
			Warn("file already exists for owner")
		return nil, duplicateErr()
	}

	s.log.With("external_id", rec.ExternalID).Errorx(err)
	return nil, internalErr("failed to store file metadata")
}

// compensate deletes the blob written for a failed ingestion. Best effort:
// an orphaned blob is the accepted trade-off for having no distributed
// transaction between the two stores, so failures are only logged.
func (s *Service) compensate(ctx context.Context, externalID string) {
	if err := s.blobs.Remove(context.WithoutCancel(ctx), externalID); err != nil {
		s.log.With("external_id", externalID).Errorx(err)
	}
}
