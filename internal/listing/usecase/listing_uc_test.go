package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) UpdateFields(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Listing, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) FindByListingID(ctx context.Context, listingID string) ([]*domain.Review, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockCache) Set(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockCache) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishListingCreated(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockPublisher) PublishListingUpdated(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockPublisher) PublishListingDeleted(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendListingCreatedEmail(toEmail, listingTitle string) error {
	args := m.Called(toEmail, listingTitle)
	return args.Error(0)
}

type ucMocks struct {
	repo       *MockListingRepository
	reviewRepo *MockReviewRepository
	userRepo   *MockUserRepository
	cache      *MockCache
	publisher  *MockPublisher
	mailer     *MockMailer
}

func newUsecase() (*ListingUsecase, *ucMocks) {
	m := &ucMocks{
		repo:       new(MockListingRepository),
		reviewRepo: new(MockReviewRepository),
		userRepo:   new(MockUserRepository),
		cache:      new(MockCache),
		publisher:  new(MockPublisher),
		mailer:     new(MockMailer),
	}
	uc := NewListingUsecase(m.repo, m.reviewRepo, m.userRepo, m.cache, m.publisher, m.mailer, logger.NewNop())
	return uc, m
}

var sampleFields = domain.UpdateFields{
	Title:       "Seaside Villa",
	Description: "A villa by the sea",
	Price:       240,
	Location:    "Nice",
	Country:     "France",
	Category:    "villa",
}

func TestCreateListing_AssignsOwnerAndImage(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	m.repo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Listing).ID = "listing-1"
	}).Return(nil).Once()
	m.cache.On("Set", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()
	m.publisher.On("PublishListingCreated", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()
	m.userRepo.On("FindByID", ctx, "actor-1").Return(&domain.User{ID: "actor-1", Email: "owner@example.com"}, nil).Once()
	m.mailer.On("SendListingCreatedEmail", "owner@example.com", "Seaside Villa").Return(nil).Once()

	created, err := uc.CreateListing(ctx, "actor-1", sampleFields, &domain.Upload{URL: "u1", Filename: "k1"})

	assert.NoError(t, err)
	assert.Equal(t, "actor-1", created.OwnerID)
	assert.NotNil(t, created.Image)
	assert.Equal(t, "u1", created.Image.URL)
	assert.Equal(t, "k1", created.Image.Filename)

	m.repo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

func TestCreateListing_WithoutUploadHasNoImage(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	m.repo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()
	m.cache.On("Set", ctx, mock.Anything).Return(nil).Once()
	m.publisher.On("PublishListingCreated", ctx, mock.Anything).Return(nil).Once()
	m.userRepo.On("FindByID", ctx, "actor-1").Return(&domain.User{ID: "actor-1"}, nil).Once()

	created, err := uc.CreateListing(ctx, "actor-1", sampleFields, nil)

	assert.NoError(t, err)
	assert.Equal(t, "actor-1", created.OwnerID)
	assert.Nil(t, created.Image)
	m.mailer.AssertNotCalled(t, "SendListingCreatedEmail", mock.Anything, mock.Anything)
}

func TestCreateListing_RepositoryFailure(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	m.repo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

	created, err := uc.CreateListing(ctx, "actor-1", sampleFields, nil)

	assert.Error(t, err)
	assert.Nil(t, created)
	m.publisher.AssertNotCalled(t, "PublishListingCreated", mock.Anything, mock.Anything)
	m.mailer.AssertNotCalled(t, "SendListingCreatedEmail", mock.Anything, mock.Anything)
}

func TestUpdateListing_WithoutUploadKeepsImage(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	existing := &domain.Listing{
		ID:      "listing-1",
		Title:   "Seaside Villa",
		OwnerID: "actor-1",
		Image:   &domain.Image{URL: "old-url", Filename: "old-key"},
	}
	m.repo.On("UpdateFields", ctx, "listing-1", sampleFields).Return(existing, nil).Once()
	m.cache.On("Delete", ctx, "listing-1").Return(nil).Once()
	m.publisher.On("PublishListingUpdated", ctx, existing).Return(nil).Once()

	updated, err := uc.UpdateListing(ctx, "listing-1", sampleFields, nil)

	assert.NoError(t, err)
	assert.Equal(t, "old-url", updated.Image.URL)
	assert.Equal(t, "old-key", updated.Image.Filename)
	assert.Equal(t, "actor-1", updated.OwnerID)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateListing_WithUploadReplacesImageAsSecondWrite(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	existing := &domain.Listing{
		ID:    "listing-1",
		Image: &domain.Image{URL: "old-url", Filename: "old-key"},
	}
	m.repo.On("UpdateFields", ctx, "listing-1", sampleFields).Return(existing, nil).Once()
	m.repo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()
	m.cache.On("Delete", ctx, "listing-1").Return(nil).Once()
	m.publisher.On("PublishListingUpdated", ctx, mock.Anything).Return(nil).Once()

	updated, err := uc.UpdateListing(ctx, "listing-1", sampleFields, &domain.Upload{URL: "new-url", Filename: "new-key"})

	assert.NoError(t, err)
	assert.Equal(t, "new-url", updated.Image.URL)
	assert.Equal(t, "new-key", updated.Image.Filename)
	m.repo.AssertExpectations(t)
}

func TestUpdateListing_NotFound(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	m.repo.On("UpdateFields", ctx, "missing", sampleFields).Return(nil, domain.ErrListingNotFound).Once()

	updated, err := uc.UpdateListing(ctx, "missing", sampleFields, nil)

	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.Nil(t, updated)
	m.publisher.AssertNotCalled(t, "PublishListingUpdated", mock.Anything, mock.Anything)
}

func TestDeleteListing_IdempotentSuccess(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	m.repo.On("Delete", ctx, "listing-1").Return(nil).Twice()
	m.cache.On("Delete", ctx, "listing-1").Return(nil).Twice()
	m.publisher.On("PublishListingDeleted", ctx, "listing-1").Return(nil).Twice()

	assert.NoError(t, uc.DeleteListing(ctx, "listing-1"))
	// A second delete of the same id succeeds as well.
	assert.NoError(t, uc.DeleteListing(ctx, "listing-1"))

	m.repo.AssertExpectations(t)
}

func TestGetListingByID_CacheHit(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	cached := &domain.Listing{ID: "listing-1", Title: "Seaside Villa"}
	m.cache.On("Get", ctx, "listing-1").Return(cached, nil).Once()

	listing, err := uc.GetListingByID(ctx, "listing-1")

	assert.NoError(t, err)
	assert.Same(t, cached, listing)
	m.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetListingDetail_ExpandsOwnerAndReviewAuthors(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	listing := &domain.Listing{ID: "listing-1", OwnerID: "owner-1"}
	reviews := []*domain.Review{
		{ID: "r1", ListingID: "listing-1", AuthorID: "user-1", Rating: 5},
		{ID: "r2", ListingID: "listing-1", AuthorID: "user-2", Rating: 3},
	}
	authors := map[string]*domain.User{
		"user-1": {ID: "user-1", Username: "alice"},
		"user-2": {ID: "user-2", Username: "bob"},
	}

	m.cache.On("Get", ctx, "listing-1").Return(nil, nil).Once()
	m.repo.On("FindByID", ctx, "listing-1").Return(listing, nil).Once()
	m.cache.On("Set", ctx, listing).Return(nil).Once()
	m.userRepo.On("FindByID", ctx, "owner-1").Return(&domain.User{ID: "owner-1", Username: "host"}, nil).Once()
	m.reviewRepo.On("FindByListingID", ctx, "listing-1").Return(reviews, nil).Once()
	m.userRepo.On("FindByIDs", ctx, []string{"user-1", "user-2"}).Return(authors, nil).Once()

	detail, err := uc.GetListingDetail(ctx, "listing-1")

	assert.NoError(t, err)
	assert.Equal(t, "host", detail.Owner.Username)
	assert.Len(t, detail.Reviews, 2)
	assert.Equal(t, "alice", detail.Reviews[0].Author.Username)
	assert.Equal(t, "bob", detail.Reviews[1].Author.Username)
}

func TestGetListingDetail_NotFound(t *testing.T) {
	uc, m := newUsecase()
	ctx := context.Background()

	m.cache.On("Get", ctx, "missing").Return(nil, nil).Once()
	m.repo.On("FindByID", ctx, "missing").Return(nil, domain.ErrListingNotFound).Once()

	detail, err := uc.GetListingDetail(ctx, "missing")

	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.Nil(t, detail)
}
