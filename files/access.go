package files

import (
	"context"

	"github.com/code19m/errx"

	"github.com/guapman/storage-service/metadata"
)

// resolve looks up a file by external id and enforces the access policy.
//
// With readOnlyIfPublic set, a PUBLIC record is returned without an
// ownership check (anonymous read). In every other case the requester must
// be the owner. Mutations always resolve with readOnlyIfPublic false:
// visibility never bypasses ownership for rename or delete.
func (s *Service) resolve(
	ctx context.Context,
	requesterID string,
	externalID string,
	readOnlyIfPublic bool,
) (*metadata.FileRecord, error) {
	rec, err := s.records.FindByExternalID(ctx, externalID)
	if err != nil {
		if errx.IsCodeIn(err, metadata.CodeRecordNotFound) {
			return nil, err
		}
		s.log.With("external_id", externalID).Errorx(err)
		return nil, internalErr("failed to look up file record")
	}

	if readOnlyIfPublic && rec.Visibility == metadata.VisibilityPublic {
		return rec, nil
	}

	if rec.OwnerID != requesterID {
		s.log.With("external_id", externalID, "requester_id", requesterID).
			Warn("unauthorized access attempt")
		return nil, errx.New(
			"access denied",
			errx.WithCode(CodeAccessDenied),
			errx.WithType(errx.T_Forbidden),
		)
	}

	return rec, nil
}
