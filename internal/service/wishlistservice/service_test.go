package wishlistservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/service/wishlistservice"
)

// MockProfileRepository é uma implementação mock de domain.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
	domain.ProfileRepository
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) AddToWishlist(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func (m *MockProfileRepository) RemoveFromWishlist(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

// MockListingFinder é uma implementação mock de wishlistservice.ListingFinder
type MockListingFinder struct {
	mock.Mock
}

func (m *MockListingFinder) FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func TestToggle(t *testing.T) {
	profiles := new(MockProfileRepository)
	finder := new(MockListingFinder)
	svc := wishlistservice.NewService(profiles, finder, logger.NewLogger("error"))

	profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{Wishlist: []string{"s1"}}, nil)
	profiles.On("RemoveFromWishlist", mock.Anything, "u1", "s1").Return(nil).Once()
	profiles.On("AddToWishlist", mock.Anything, "u1", "s2").Return(nil).Once()
	finder.On("FindByIDs", mock.Anything, []string{"s2"}).Return([]domain.Listing{{ID: "s2"}}, nil).Once()

	liked, err := svc.Toggle(context.Background(), "u1", "s1")
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = svc.Toggle(context.Background(), "u1", "s2")
	require.NoError(t, err)
	assert.True(t, liked)
	profiles.AssertExpectations(t)
}

func TestToggle_UnknownListingIsNotAdded(t *testing.T) {
	profiles := new(MockProfileRepository)
	finder := new(MockListingFinder)
	svc := wishlistservice.NewService(profiles, finder, logger.NewLogger("error"))

	profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{Wishlist: []string{}}, nil)
	finder.On("FindByIDs", mock.Anything, []string{"ghost"}).Return([]domain.Listing{}, nil)

	liked, err := svc.Toggle(context.Background(), "u1", "ghost")

	assert.True(t, apperrors.IsNotFound(err))
	assert.False(t, liked)
	profiles.AssertNotCalled(t, "AddToWishlist", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_RemovesDeletedListingWithoutLookup(t *testing.T) {
	profiles := new(MockProfileRepository)
	finder := new(MockListingFinder)
	svc := wishlistservice.NewService(profiles, finder, logger.NewLogger("error"))

	profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{Wishlist: []string{"gone"}}, nil)
	profiles.On("RemoveFromWishlist", mock.Anything, "u1", "gone").Return(nil).Once()

	liked, err := svc.Toggle(context.Background(), "u1", "gone")

	require.NoError(t, err)
	assert.False(t, liked)
	finder.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestToggle_MissingProfile(t *testing.T) {
	profiles := new(MockProfileRepository)
	svc := wishlistservice.NewService(profiles, new(MockListingFinder), logger.NewLogger("error"))
	profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{}, apperrors.NewNotFoundError("u1"))

	_, err := svc.Toggle(context.Background(), "u1", "s1")

	assert.True(t, apperrors.IsNotFound(err))
}

func TestList_KeepsOrderAndSkipsDeleted(t *testing.T) {
	profiles := new(MockProfileRepository)
	finder := new(MockListingFinder)
	svc := wishlistservice.NewService(profiles, finder, logger.NewLogger("error"))

	profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{Wishlist: []string{"s3", "gone", "s1"}}, nil)
	finder.On("FindByIDs", mock.Anything, []string{"s3", "gone", "s1"}).Return([]domain.Listing{{ID: "s1"}, {ID: "s3"}}, nil)

	listings, err := svc.List(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "s3", listings[0].ID)
	assert.Equal(t, "s1", listings[1].ID)
}

func TestList_EmptyWishlistSkipsLookup(t *testing.T) {
	profiles := new(MockProfileRepository)
	finder := new(MockListingFinder)
	svc := wishlistservice.NewService(profiles, finder, logger.NewLogger("error"))
	profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{Wishlist: []string{}}, nil)

	listings, err := svc.List(context.Background(), "u1")

	require.NoError(t, err)
	assert.Empty(t, listings)
	finder.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}
