package files_test

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/code19m/errx"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guapman/storage-service/blob"
	"github.com/guapman/storage-service/events"
	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/pagination"
	"github.com/guapman/storage-service/sorter"
)

// fakeBlob is an in-memory blob.Store. Put always drains the reader fully,
// mirroring a real chunked backend write.
type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string

	putErr    error
	openErr   error
	removeErr error
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}}
}

func (f *fakeBlob) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errx.Wrap(err)
	}
	if f.putErr != nil {
		return f.putErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeBlob) Open(_ context.Context, key string) (io.ReadCloser, blob.Info, error) {
	if f.openErr != nil {
		return nil, blob.Info{}, f.openErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, blob.Info{}, errx.New(
			"object not found",
			errx.WithCode(blob.CodeObjectNotFound),
			errx.WithType(errx.T_NotFound),
		)
	}
	return io.NopCloser(bytes.NewReader(data)), blob.Info{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeBlob) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlob) stored(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeBlob) removedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

// fakeRepo is an in-memory metadata.Repository that enforces the same
// uniqueness constraints the Mongo indexes declare.
type fakeRepo struct {
	mu   sync.Mutex
	recs []*metadata.FileRecord

	insertErr error
	updates   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func duplicateRecordErr() error {
	return errx.New(
		"record violates a uniqueness constraint",
		errx.WithCode(metadata.CodeDuplicateRecord),
		errx.WithType(errx.T_Conflict),
	)
}

func recordNotFoundErr() error {
	return errx.New(
		"file record not found",
		errx.WithCode(metadata.CodeRecordNotFound),
		errx.WithType(errx.T_NotFound),
	)
}

func (f *fakeRepo) Insert(_ context.Context, rec *metadata.FileRecord) (*metadata.FileRecord, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.recs {
		if existing.OwnerID == rec.OwnerID &&
			(existing.Filename == rec.Filename || existing.Hash == rec.Hash) {
			return nil, duplicateRecordErr()
		}
		if existing.ExternalID == rec.ExternalID {
			return nil, duplicateRecordErr()
		}
	}

	created := *rec
	created.InternalID = primitive.NewObjectID()
	f.recs = append(f.recs, &created)

	out := created
	return &out, nil
}

func (f *fakeRepo) UpdateFilename(_ context.Context, internalID primitive.ObjectID, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++

	var target *metadata.FileRecord
	for _, rec := range f.recs {
		if rec.InternalID == internalID {
			target = rec
			break
		}
	}
	if target == nil {
		return recordNotFoundErr()
	}

	for _, rec := range f.recs {
		if rec.InternalID != internalID && rec.OwnerID == target.OwnerID && rec.Filename == filename {
			return duplicateRecordErr()
		}
	}

	target.Filename = filename
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, internalID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rec := range f.recs {
		if rec.InternalID == internalID {
			f.recs = append(f.recs[:i], f.recs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) FindByExternalID(_ context.Context, externalID string) (*metadata.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.ExternalID == externalID {
			out := *rec
			return &out, nil
		}
	}
	return nil, recordNotFoundErr()
}

func (f *fakeRepo) List(
	_ context.Context,
	filter metadata.ListFilter,
	page pagination.Params,
	_ sorter.Opt,
) ([]metadata.FileRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []metadata.FileRecord
	for _, rec := range f.recs {
		if filter.OwnerID != "" && rec.OwnerID != filter.OwnerID {
			continue
		}
		if filter.PublicOnly && rec.Visibility != metadata.VisibilityPublic {
			continue
		}
		if len(filter.Tags) > 0 && !intersects(rec.Tags, filter.Tags) {
			continue
		}
		matched = append(matched, *rec)
	}

	total := int64(len(matched))

	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit()
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

// capturePublisher records published lifecycle events.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return c.err
}

func (c *capturePublisher) published() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}
