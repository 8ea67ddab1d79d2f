package usecase

import (
	"context"
	"errors"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"github.com/mohit-lanjewar/WanderLust/internal/mailer"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/logger"
	"go.uber.org/zap"
)

// Cache is the listing-by-id cache port. A nil, nil return is a miss.
type Cache interface {
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Set(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher notifies other services about listing lifecycle changes.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *domain.Listing) error
	PublishListingUpdated(ctx context.Context, listing *domain.Listing) error
	PublishListingDeleted(ctx context.Context, listingID string) error
}

type ListingUsecase struct {
	repo       domain.ListingRepository
	reviewRepo domain.ReviewRepository
	userRepo   domain.UserRepository
	cache      Cache
	publisher  EventPublisher
	mailer     mailer.Mailer
	logger     *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	reviewRepo domain.ReviewRepository,
	userRepo domain.UserRepository,
	cache Cache,
	publisher EventPublisher,
	mail mailer.Mailer,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:       repo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		cache:      cache,
		publisher:  publisher,
		mailer:     mail,
		logger:     log.Named("ListingUsecase"),
	}
}

// ListListings returns all listings matching the filter. Both the index page
// and the search page are served by this one method; only the query-parameter
// echoing differs between them, and that lives in the handler.
func (uc *ListingUsecase) ListListings(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("failed to list listings", zap.String("category", filter.Category), zap.String("search", filter.Search), zap.Error(err))
		return nil, err
	}
	return listings, nil
}

// GetListingByID fetches the bare listing, consulting the cache first.
func (uc *ListingUsecase) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	if cached, err := uc.cache.Get(ctx, id); err != nil {
		uc.logger.Warn("cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Error("failed to find listing", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}

	if err := uc.cache.Set(ctx, listing); err != nil {
		uc.logger.Warn("cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// GetListingDetail fetches the listing with its owner, reviews and each
// review's author expanded for the detail view.
func (uc *ListingUsecase) GetListingDetail(ctx context.Context, id string) (*domain.ListingDetail, error) {
	listing, err := uc.GetListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ListingDetail{Listing: listing}

	owner, err := uc.userRepo.FindByID(ctx, listing.OwnerID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			uc.logger.Error("failed to load owner", zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID), zap.Error(err))
			return nil, err
		}
		uc.logger.Warn("listing owner no longer exists", zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID))
	}
	detail.Owner = owner

	reviews, err := uc.reviewRepo.FindByListingID(ctx, id)
	if err != nil {
		uc.logger.Error("failed to load reviews", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	authorIDs := make([]string, 0, len(reviews))
	for _, review := range reviews {
		authorIDs = append(authorIDs, review.AuthorID)
	}
	authors, err := uc.userRepo.FindByIDs(ctx, authorIDs)
	if err != nil {
		uc.logger.Error("failed to load review authors", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	for _, review := range reviews {
		review.Author = authors[review.AuthorID]
	}
	detail.Reviews = reviews

	return detail, nil
}

// CreateListing builds a listing owned by the acting user, folds in the
// upload when one accompanied the request and persists it. The owner is
// assigned here exactly once; no later operation touches it.
func (uc *ListingUsecase) CreateListing(ctx context.Context, actorID string, fields domain.UpdateFields, upload *domain.Upload) (*domain.Listing, error) {
	listing := &domain.Listing{
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Location:    fields.Location,
		Country:     fields.Country,
		Category:    fields.Category,
		OwnerID:     actorID,
	}
	domain.AttachUpload(listing, upload)

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to create listing", zap.String("owner_id", actorID), zap.String("title", fields.Title), zap.Error(err))
		return nil, err
	}

	if err := uc.cache.Set(ctx, listing); err != nil {
		uc.logger.Warn("cache write failed", zap.String("listing_id", listing.ID), zap.Error(err))
	}
	if err := uc.publisher.PublishListingCreated(ctx, listing); err != nil {
		uc.logger.Warn("failed to publish listing.created", zap.String("listing_id", listing.ID), zap.Error(err))
	}
	uc.notifyOwner(ctx, listing)

	return listing, nil
}

// UpdateListing replaces the mutable scalar fields wholesale, then persists
// the image as a second write when a new upload accompanied the request.
// An unknown id fails with ErrListingNotFound, matching the show/edit paths.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id string, fields domain.UpdateFields, upload *domain.Upload) (*domain.Listing, error) {
	listing, err := uc.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Error("failed to update listing", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}

	if upload != nil {
		domain.AttachUpload(listing, upload)
		if err := uc.repo.Update(ctx, listing); err != nil {
			uc.logger.Error("failed to persist image change", zap.String("listing_id", id), zap.Error(err))
			return nil, err
		}
	}

	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
	if err := uc.publisher.PublishListingUpdated(ctx, listing); err != nil {
		uc.logger.Warn("failed to publish listing.updated", zap.String("listing_id", id), zap.Error(err))
	}

	return listing, nil
}

// DeleteListing removes the listing unconditionally. Deleting a nonexistent
// id succeeds; the delete operation is idempotent by design.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}

	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
	if err := uc.publisher.PublishListingDeleted(ctx, id); err != nil {
		uc.logger.Warn("failed to publish listing.deleted", zap.String("listing_id", id), zap.Error(err))
	}
	return nil
}

// notifyOwner emails the owner about the new listing. Failures are logged
// and swallowed; notification never fails the create operation.
func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing *domain.Listing) {
	owner, err := uc.userRepo.FindByID(ctx, listing.OwnerID)
	if err != nil {
		uc.logger.Warn("skipping owner notification", zap.String("listing_id", listing.ID), zap.String("owner_id", listing.OwnerID), zap.Error(err))
		return
	}
	if owner.Email == "" {
		return
	}
	if err := uc.mailer.SendListingCreatedEmail(owner.Email, listing.Title); err != nil {
		uc.logger.Warn("failed to send listing created email", zap.String("listing_id", listing.ID), zap.Error(err))
	}
}
