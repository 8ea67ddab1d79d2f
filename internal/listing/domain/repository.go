package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	// UpdateFields replaces the mutable scalar attributes of the listing
	// wholesale and returns the updated entity, or ErrListingNotFound.
	UpdateFields(ctx context.Context, id string, fields UpdateFields) (*Listing, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Listing, error)
}

type ReviewRepository interface {
	FindByListingID(ctx context.Context, listingID string) ([]*Review, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*User, error)
}

// Storage is the object-storage port. Upload pushes file data and returns
// the stored location; PreviewURL is a pure derivation of a scaled display
// URL from a storage key, no network call involved.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (*Upload, error)
	PreviewURL(filename string) string
}
