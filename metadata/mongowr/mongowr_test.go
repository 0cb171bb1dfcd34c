package mongowr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/sorter"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name string
		in   metadata.ListFilter
		want bson.M
	}{
		{
			name: "empty filter",
			in:   metadata.ListFilter{},
			want: bson.M{},
		},
		{
			name: "owner only",
			in:   metadata.ListFilter{OwnerID: "alice"},
			want: bson.M{"owner_id": "alice"},
		},
		{
			name: "public only",
			in:   metadata.ListFilter{PublicOnly: true},
			want: bson.M{"visibility": metadata.VisibilityPublic},
		},
		{
			name: "owner with tags uses in-semantics",
			in:   metadata.ListFilter{OwnerID: "alice", Tags: []string{"a", "b"}},
			want: bson.M{"owner_id": "alice", "tags": bson.M{"$in": []string{"a", "b"}}},
		},
		{
			name: "public with tags",
			in:   metadata.ListFilter{PublicOnly: true, Tags: []string{"x"}},
			want: bson.M{"visibility": metadata.VisibilityPublic, "tags": bson.M{"$in": []string{"x"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.in))
		})
	}
}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name string
		in   sorter.Opt
		want bson.D
	}{
		{
			name: "filename ascending",
			in:   sorter.Opt{Field: sorter.FieldFilename, Ascending: true},
			want: bson.D{{Key: "filename", Value: 1}},
		},
		{
			name: "upload date descending",
			in:   sorter.Opt{Field: sorter.FieldUploadDate, Ascending: false},
			want: bson.D{{Key: "upload_date", Value: -1}},
		},
		{
			name: "tag sorts on tags array",
			in:   sorter.Opt{Field: sorter.FieldTag, Ascending: true},
			want: bson.D{{Key: "tags", Value: 1}},
		},
		{
			name: "content type",
			in:   sorter.Opt{Field: sorter.FieldContentType, Ascending: true},
			want: bson.D{{Key: "content_type", Value: 1}},
		},
		{
			name: "size descending",
			in:   sorter.Opt{Field: sorter.FieldSize, Ascending: false},
			want: bson.D{{Key: "size", Value: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSort(tt.in))
		})
	}
}

func TestClassifyWriteError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	err := classifyWriteError(dup)
	assert.ErrorContains(t, err, "uniqueness")

	other := classifyWriteError(assert.AnError)
	assert.NotContains(t, other.Error(), "uniqueness")
}
