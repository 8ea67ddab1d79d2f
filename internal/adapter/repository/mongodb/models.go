package mongodb

import (
	"fmt"
	"time"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the persisted shape of a domain.Listing.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Location    string             `bson:"location"`
	Country     string             `bson:"country"`
	Category    string             `bson:"category"`
	Image       *imageDocument     `bson:"image,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type imageDocument struct {
	URL      string `bson:"url"`
	Filename string `bson:"filename"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	AuthorID  string             `bson:"author_id"`
	Rating    int32              `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid ID %q: %w", l.ID, err)
		}
	}

	doc := &listingDocument{
		ID:          docID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Category:    l.Category,
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Image != nil {
		doc.Image = &imageDocument{URL: l.Image.URL, Filename: l.Image.Filename}
	}
	return doc, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	listing := &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		Category:    d.Category,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Image != nil {
		listing.Image = &domain.Image{URL: d.Image.URL, Filename: d.Image.Filename}
	}
	return listing
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toDomainReview(d *reviewDocument) *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID,
		AuthorID:  d.AuthorID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Email:    d.Email,
	}
}
