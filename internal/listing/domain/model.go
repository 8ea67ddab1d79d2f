package domain

import "time"

// Listing is the rentable-property record managed by this service.
type Listing struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Category    string
	Image       *Image
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Image is the optional attachment stored in external object storage.
// Both fields are populated together or not at all: URL is the direct
// display URL, Filename the storage key used to derive transformed URLs.
type Image struct {
	URL      string
	Filename string
}

// Upload is the result of a file upload to object storage.
type Upload struct {
	URL      string
	Filename string
}

// Review is written by a user against a listing. Reviews are owned by a
// collaborator service; this core only expands them on the detail view.
type Review struct {
	ID        string
	ListingID string
	AuthorID  string
	Author    *User
	Rating    int32
	Comment   string
	CreatedAt time.Time
}

// User is the identity referenced by Listing.OwnerID and Review.AuthorID.
type User struct {
	ID       string
	Username string
	Email    string
}

// ListingDetail is a listing with its relations expanded for the show view.
type ListingDetail struct {
	Listing *Listing
	Owner   *User
	Reviews []*Review
}

// Filter holds the optional constraints for listing queries. A zero Filter
// matches all listings.
type Filter struct {
	Category string
	Search   string
}

// UpdateFields enumerates the scalar attributes that may be replaced through
// the update operation. Owner and image are deliberately not part of it:
// owner is set once at creation, image changes only through a new upload.
type UpdateFields struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Category    string
}
