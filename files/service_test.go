package files_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guapman/storage-service/events"
	"github.com/guapman/storage-service/files"
	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/pagination"
	"github.com/guapman/storage-service/sorter"
)

func (f *fixture) ingestWith(
	t *testing.T, owner, name string, vis metadata.Visibility, tagList []string,
) *metadata.FileRecord {
	t.Helper()
	rec, err := f.svc.Ingest(
		context.Background(), owner, name, "", vis, tagList, bytes.NewReader([]byte("content of "+name)),
	)
	require.NoError(t, err)
	return rec
}

func TestGet_AccessMatrix(t *testing.T) {
	f := newFixture()
	private := f.ingestWith(t, "owner-1", "private.txt", metadata.VisibilityPrivate, nil)
	public := f.ingestWith(t, "owner-1", "public.txt", metadata.VisibilityPublic, nil)

	tests := []struct {
		name       string
		requester  string
		externalID string
		wantErr    bool
		wantType   errx.Type
	}{
		{name: "owner reads own private file", requester: "owner-1", externalID: private.ExternalID},
		{name: "stranger denied on private file", requester: "owner-2", externalID: private.ExternalID, wantErr: true, wantType: errx.T_Forbidden},
		{name: "stranger reads public file", requester: "owner-2", externalID: public.ExternalID},
		{name: "anonymous reads public file", requester: "", externalID: public.ExternalID},
		{name: "unknown id", requester: "owner-1", externalID: "no-such-id", wantErr: true, wantType: errx.T_NotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.Get(context.Background(), tc.requester, tc.externalID)
			if !tc.wantErr {
				require.NoError(t, err)
				got.Content.Close()
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantType, errx.GetType(err))
		})
	}
}

func TestGet_MissingBlobIsInternal(t *testing.T) {
	f := newFixture()
	rec := f.ingestWith(t, "owner-1", "a.txt", metadata.VisibilityPrivate, nil)
	f.blob.openErr = errors.New("storage degraded")

	_, err := f.svc.Get(context.Background(), "owner-1", rec.ExternalID)
	require.Error(t, err)
	assert.Equal(t, errx.T_Internal, errx.GetType(err))
}

func TestDelete(t *testing.T) {
	f := newFixture()

	t.Run("owner deletes both blob and record", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-1", "gone.txt", metadata.VisibilityPrivate, nil)

		require.NoError(t, f.svc.Delete(context.Background(), "owner-1", rec.ExternalID))

		_, ok := f.blob.stored(rec.ExternalID)
		assert.False(t, ok)
		_, err := f.repo.FindByExternalID(context.Background(), rec.ExternalID)
		assert.Equal(t, errx.T_NotFound, errx.GetType(err))

		evs := f.pub.published()
		assert.Equal(t, events.FileDeleted, evs[len(evs)-1].Event)
	})

	t.Run("public visibility does not allow foreign delete", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-1", "kept.txt", metadata.VisibilityPublic, nil)

		err := f.svc.Delete(context.Background(), "owner-2", rec.ExternalID)
		require.Error(t, err)
		assert.Equal(t, errx.T_Forbidden, errx.GetType(err))
		assert.True(t, errx.IsCodeIn(err, files.CodeAccessDenied))
	})

	t.Run("blob failure keeps the record", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-1", "stuck.txt", metadata.VisibilityPrivate, nil)
		f.blob.removeErr = errors.New("remove failed")
		defer func() { f.blob.removeErr = nil }()

		err := f.svc.Delete(context.Background(), "owner-1", rec.ExternalID)
		require.Error(t, err)
		assert.Equal(t, errx.T_Internal, errx.GetType(err))

		// Content stays reachable so the operation can be retried.
		_, err = f.repo.FindByExternalID(context.Background(), rec.ExternalID)
		assert.NoError(t, err)
	})
}

func TestRename(t *testing.T) {
	f := newFixture()

	t.Run("changes the filename", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-1", "old.txt", metadata.VisibilityPrivate, nil)

		got, err := f.svc.Rename(context.Background(), "owner-1", rec.ExternalID, "new.txt")
		require.NoError(t, err)
		assert.Equal(t, "new.txt", got.Filename)

		stored, err := f.repo.FindByExternalID(context.Background(), rec.ExternalID)
		require.NoError(t, err)
		assert.Equal(t, "new.txt", stored.Filename)

		evs := f.pub.published()
		assert.Equal(t, events.FileRenamed, evs[len(evs)-1].Event)
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-2", "same.txt", metadata.VisibilityPrivate, nil)
		before := f.repo.updates

		got, err := f.svc.Rename(context.Background(), "owner-2", rec.ExternalID, "same.txt")
		require.NoError(t, err)
		assert.Equal(t, "same.txt", got.Filename)
		assert.Equal(t, before, f.repo.updates, "no store update expected")
	})

	t.Run("empty name rejected", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-3", "named.txt", metadata.VisibilityPrivate, nil)

		_, err := f.svc.Rename(context.Background(), "owner-3", rec.ExternalID, "")
		require.Error(t, err)
		assert.Equal(t, errx.T_Validation, errx.GetType(err))
		assert.True(t, errx.IsCodeIn(err, files.CodeEmptyFilename))
	})

	t.Run("taken name is a conflict", func(t *testing.T) {
		f.ingestWith(t, "owner-4", "taken.txt", metadata.VisibilityPrivate, nil)
		rec := f.ingestWith(t, "owner-4", "free.txt", metadata.VisibilityPrivate, nil)

		_, err := f.svc.Rename(context.Background(), "owner-4", rec.ExternalID, "taken.txt")
		require.Error(t, err)
		assert.Equal(t, errx.T_Conflict, errx.GetType(err))
		assert.True(t, errx.IsCodeIn(err, files.CodeFileDuplicated))
	})

	t.Run("public visibility does not allow foreign rename", func(t *testing.T) {
		rec := f.ingestWith(t, "owner-5", "visible.txt", metadata.VisibilityPublic, nil)

		_, err := f.svc.Rename(context.Background(), "owner-6", rec.ExternalID, "hijacked.txt")
		require.Error(t, err)
		assert.Equal(t, errx.T_Forbidden, errx.GetType(err))
	})
}

func TestList(t *testing.T) {
	f := newFixture()
	f.ingestWith(t, "owner-1", "pub-a.txt", metadata.VisibilityPublic, []string{"red", "blue"})
	f.ingestWith(t, "owner-1", "priv-a.txt", metadata.VisibilityPrivate, []string{"red"})
	f.ingestWith(t, "owner-2", "pub-b.txt", metadata.VisibilityPublic, []string{"green"})

	page := pagination.Params{Page: 0, Size: 20}
	sort := sorter.Default()

	t.Run("public listing hides private records", func(t *testing.T) {
		got, err := f.svc.ListPublic(context.Background(), nil, page, sort)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.TotalElements)
	})

	t.Run("tag filter is normalized and OR-matched", func(t *testing.T) {
		got, err := f.svc.ListPublic(context.Background(), []string{"RED", "Green"}, page, sort)
		require.NoError(t, err)
		require.Equal(t, int64(2), got.TotalElements)
		names := []string{got.Content[0].Filename, got.Content[1].Filename}
		assert.ElementsMatch(t, []string{"pub-a.txt", "pub-b.txt"}, names)
	})

	t.Run("owner listing spans both visibilities", func(t *testing.T) {
		got, err := f.svc.ListOwned(context.Background(), "owner-1", nil, page, sort)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.TotalElements)
	})

	t.Run("invalid tag rejected", func(t *testing.T) {
		_, err := f.svc.ListOwned(context.Background(), "owner-1", []string{""}, page, sort)
		require.Error(t, err)
		assert.Equal(t, errx.T_Validation, errx.GetType(err))
	})

	t.Run("empty page has non-nil content", func(t *testing.T) {
		got, err := f.svc.ListPublic(context.Background(), []string{"nomatch"}, page, sort)
		require.NoError(t, err)
		assert.NotNil(t, got.Content)
		assert.Empty(t, got.Content)
		assert.Zero(t, got.TotalElements)
	})
}
