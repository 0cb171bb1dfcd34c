package files

import (
	"context"

	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/pagination"
	"github.com/guapman/storage-service/sorter"
	"github.com/guapman/storage-service/tags"
)

// ListPublic returns one page of PUBLIC records, optionally filtered to
// those whose tag set intersects the requested tags (OR semantics).
// No requester identity is needed: visibility is the access boundary.
func (s *Service) ListPublic(
	ctx context.Context,
	rawTags []string,
	page pagination.Params,
	sort sorter.Opt,
) (pagination.Page[metadata.FileRecord], error) {
	return s.list(ctx, metadata.ListFilter{PublicOnly: true}, rawTags, page, sort)
}

// ListOwned returns one page of the requester's own records regardless of
// visibility, with the same optional tag filter. The owner filter is the
// access boundary itself, so no further check is needed.
func (s *Service) ListOwned(
	ctx context.Context,
	ownerID string,
	rawTags []string,
	page pagination.Params,
	sort sorter.Opt,
) (pagination.Page[metadata.FileRecord], error) {
	return s.list(ctx, metadata.ListFilter{OwnerID: ownerID}, rawTags, page, sort)
}

func (s *Service) list(
	ctx context.Context,
	filter metadata.ListFilter,
	rawTags []string,
	page pagination.Params,
	sort sorter.Opt,
) (pagination.Page[metadata.FileRecord], error) {
	var empty pagination.Page[metadata.FileRecord]

	normTags, err := tags.Normalize(rawTags)
	if err != nil {
		return empty, err
	}
	filter.Tags = normTags

	page.Normalize(0)

	recs, total, err := s.records.List(ctx, filter, page, sort)
	if err != nil {
		s.log.Errorx(err)
		return empty, internalErr("failed to list files")
	}

	return pagination.NewPage(recs, total, page), nil
}
