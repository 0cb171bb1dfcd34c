// Package mongowr provides the MongoDB implementation of the
// metadata.Repository contract.
//
// Uniqueness of (owner_id, filename), (owner_id, hash) and external_id is
// delegated to compound unique indexes so concurrent writers racing on the
// same constraint are serialized by the database, not the application.
package mongowr

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/pagination"
	"github.com/guapman/storage-service/sorter"
)

const collectionName = "files_metadata"

// Repo implements metadata.Repository on a MongoDB collection.
type Repo struct {
	coll *mongo.Collection
}

// New creates a repository over the files_metadata collection of db.
func New(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(collectionName)}
}

// EnsureIndexes declares the uniqueness constraints and the listing index.
// Safe to call on every startup; existing indexes are left untouched.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "filename", Value: 1}},
			Options: options.Index().SetName("owner_id_filename_unique_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "hash", Value: 1}},
			Options: options.Index().SetName("owner_id_hash_unique_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetName("external_id_unique_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}, {Key: "visibility", Value: 1}},
			Options: options.Index().SetName("tags_visibility_idx"),
		},
	})
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// Insert persists a new record and fills in the generated internal id.
func (r *Repo) Insert(ctx context.Context, rec *metadata.FileRecord) (*metadata.FileRecord, error) {
	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return nil, classifyWriteError(err)
	}

	created := *rec
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.InternalID = oid
	}
	return &created, nil
}

// UpdateFilename changes the display name of an existing record.
func (r *Repo) UpdateFilename(ctx context.Context, internalID primitive.ObjectID, filename string) error {
	res, err := r.coll.UpdateByID(ctx, internalID, bson.M{"$set": bson.M{"filename": filename}})
	if err != nil {
		return classifyWriteError(err)
	}
	if res.MatchedCount == 0 {
		return notFoundErr()
	}
	return nil
}

// Delete removes the record with the given internal id.
func (r *Repo) Delete(ctx context.Context, internalID primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": internalID})
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// FindByExternalID looks up a record by its public identifier.
func (r *Repo) FindByExternalID(ctx context.Context, externalID string) (*metadata.FileRecord, error) {
	var rec metadata.FileRecord
	err := r.coll.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFoundErr()
	}
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &rec, nil
}

// List returns one page of records matching the filter and the total count.
func (r *Repo) List(
	ctx context.Context,
	f metadata.ListFilter,
	page pagination.Params,
	sort sorter.Opt,
) ([]metadata.FileRecord, int64, error) {
	filter := buildFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errx.Wrap(err)
	}

	opts := options.Find().
		SetSort(buildSort(sort)).
		SetSkip(page.Offset()).
		SetLimit(page.Limit())

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errx.Wrap(err)
	}
	defer cur.Close(ctx)

	var recs []metadata.FileRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, 0, errx.Wrap(err)
	}

	return recs, total, nil
}

// buildFilter translates a ListFilter into a Mongo query document.
func buildFilter(f metadata.ListFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.PublicOnly {
		filter["visibility"] = metadata.VisibilityPublic
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	return filter
}

// buildSort maps a sort option onto the stored field names.
func buildSort(s sorter.Opt) bson.D {
	direction := 1
	if !s.Ascending {
		direction = -1
	}

	field := "upload_date"
	switch s.Field {
	case sorter.FieldFilename:
		field = "filename"
	case sorter.FieldUploadDate:
		field = "upload_date"
	case sorter.FieldTag:
		field = "tags"
	case sorter.FieldContentType:
		field = "content_type"
	case sorter.FieldSize:
		field = "size"
	}

	return bson.D{{Key: field, Value: direction}}
}

// classifyWriteError maps uniqueness violations to the duplicate record
// code so callers can tell them apart from infrastructure failures.
func classifyWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errx.New(
			"record violates a uniqueness constraint",
			errx.WithCode(metadata.CodeDuplicateRecord),
			errx.WithType(errx.T_Conflict),
		)
	}
	return errx.Wrap(err)
}

func notFoundErr() error {
	return errx.New(
		"file record not found",
		errx.WithCode(metadata.CodeRecordNotFound),
		errx.WithType(errx.T_NotFound),
	)
}
