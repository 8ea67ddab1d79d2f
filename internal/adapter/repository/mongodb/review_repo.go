package mongodb

import (
	"context"
	"fmt"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reviewCollectionName = "reviews"

type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(reviewCollectionName)}
}

// FindByListingID returns the listing's reviews in creation order.
func (r *ReviewRepository) FindByListingID(ctx context.Context, listingID string) ([]*domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews for listing %s: %w", listingID, err)
	}
	var docs []*reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	reviews := make([]*domain.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, toDomainReview(doc))
	}
	return reviews, nil
}
