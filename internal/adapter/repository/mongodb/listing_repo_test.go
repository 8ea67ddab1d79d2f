package mongodb

import (
	"testing"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func searchOr(pattern string) bson.A {
	regex := primitive.Regex{Pattern: pattern, Options: "i"}
	return bson.A{
		bson.M{"title": regex},
		bson.M{"location": regex},
		bson.M{"country": regex},
		bson.M{"category": regex},
	}
}

func TestBuildListingQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
		want   bson.M
	}{
		{
			name:   "empty filter matches all",
			filter: domain.Filter{},
			want:   bson.M{},
		},
		{
			name:   "category only",
			filter: domain.Filter{Category: "villa"},
			want:   bson.M{"category": "villa"},
		},
		{
			name:   "search only spans four fields case-insensitively",
			filter: domain.Filter{Search: "paris"},
			want:   bson.M{"$or": searchOr("paris")},
		},
		{
			name:   "category and search combine with AND",
			filter: domain.Filter{Category: "villa", Search: "paris"},
			want: bson.M{
				"category": "villa",
				"$or":      searchOr("paris"),
			},
		},
		{
			name:   "search term is matched literally, not as a pattern",
			filter: domain.Filter{Search: "a.b(c"},
			want:   bson.M{"$or": searchOr(`a\.b\(c`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildListingQuery(tt.filter))
		})
	}
}

func TestListingDocumentRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	listing := &domain.Listing{
		ID:          id.Hex(),
		Title:       "Seaside Villa",
		Description: "A villa by the sea",
		Price:       240,
		Location:    "Nice",
		Country:     "France",
		Category:    "villa",
		Image:       &domain.Image{URL: "http://img/u1", Filename: "listings/k1"},
		OwnerID:     "owner-1",
	}

	doc, err := toListingDocument(listing)
	assert.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	back := toDomainListing(doc)
	assert.Equal(t, listing.Title, back.Title)
	assert.Equal(t, listing.Category, back.Category)
	assert.Equal(t, listing.OwnerID, back.OwnerID)
	assert.NotNil(t, back.Image)
	assert.Equal(t, "http://img/u1", back.Image.URL)
	assert.Equal(t, "listings/k1", back.Image.Filename)
}

func TestToListingDocumentInvalidID(t *testing.T) {
	_, err := toListingDocument(&domain.Listing{ID: "not-an-object-id"})
	assert.Error(t, err)
}
