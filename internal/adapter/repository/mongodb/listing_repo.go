package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCollectionName = "listings"

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection(listingCollectionName)}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	listing.ID = doc.ID.Hex()

	_, err = r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	listing.UpdatedAt = time.Now().UTC()
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("update listing %s: %w", listing.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) UpdateFields(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       fields.Title,
		"description": fields.Description,
		"price":       fields.Price,
		"location":    fields.Location,
		"country":     fields.Country,
		"category":    fields.Category,
		"updated_at":  time.Now().UTC(),
	}}

	var doc listingDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update listing fields %s: %w", id, err)
	}
	return toDomainListing(&doc), nil
}

// Delete removes the listing unconditionally. Deleting an id that does not
// exist (or does not parse) is not an error.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing %s: %w", id, err)
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, buildListingQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return toDomainListings(docs), nil
}

// buildListingQuery translates the optional filter constraints into a query
// document. A present category requires exact equality; a present search term
// requires a case-insensitive substring match on at least one of title,
// location, country, category. The term is escaped so it is always matched
// literally, never interpreted as a pattern.
func buildListingQuery(filter domain.Filter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"location": regex},
			bson.M{"country": regex},
			bson.M{"category": regex},
		}
	}
	return query
}
