package catalogservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/service/catalogservice"
)

// MockListingRepository é uma implementação mock de domain.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) listings(args mock.Arguments) ([]domain.Listing, error) {
	if l, ok := args.Get(0).([]domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context) ([]domain.Listing, error) {
	return m.listings(m.Called(ctx))
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (domain.Listing, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error) {
	return m.listings(m.Called(ctx, ids))
}

func (m *MockListingRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return m.listings(m.Called(ctx, sellerID))
}

func (m *MockListingRepository) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(domain.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(domain.Listing), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// fakeFeed guarda os callbacks para os testes dispararem snapshots e erros.
type fakeFeed struct {
	onSnapshot   func([]domain.Listing)
	onError      func(error)
	unsubscribed bool
}

func (f *fakeFeed) Subscribe(_ context.Context, onSnapshot func([]domain.Listing), onError func(error)) (func(), error) {
	f.onSnapshot, f.onError = onSnapshot, onError
	return func() { f.unsubscribed = true }, nil
}

func started(t *testing.T) (*catalogservice.Service, *fakeFeed, *MockListingRepository) {
	t.Helper()
	feed := &fakeFeed{}
	repo := new(MockListingRepository)
	svc := catalogservice.NewService(feed, repo, logger.NewLogger("error"))
	require.NoError(t, svc.Start(context.Background()))
	return svc, feed, repo
}

func TestBrowse_AppliesFilterAndSort(t *testing.T) {
	svc, feed, _ := started(t)
	feed.onSnapshot([]domain.Listing{
		{ID: "a", Brand: "Nike", Price: 80},
		{ID: "b", Brand: "Adidas", Price: 120},
		{ID: "c", Brand: "Nike", Price: 40},
	})

	res, err := svc.Browse(context.Background(), catalogservice.BrowseRequest{
		Filter: domain.FilterSpec{Brands: []string{"Nike"}},
		Sort:   domain.SortPriceLow,
	})

	require.NoError(t, err)
	require.Len(t, res.Listings, 2)
	assert.Equal(t, "c", res.Listings[0].ID)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.ActiveFilters)
	assert.Equal(t, []string{"Nike", "Adidas"}, res.Facets.Brands)
	assert.False(t, res.Stale)
}

func TestBrowse_SnapshotReplacesPrevious(t *testing.T) {
	svc, feed, _ := started(t)
	feed.onSnapshot([]domain.Listing{{ID: "a"}, {ID: "b"}})
	feed.onSnapshot([]domain.Listing{{ID: "c"}})

	res, err := svc.Browse(context.Background(), catalogservice.BrowseRequest{})

	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, "c", res.Listings[0].ID)
}

func TestBrowse_FeedErrorBeforeFirstSnapshotIsUnavailable(t *testing.T) {
	svc, feed, _ := started(t)
	feed.onError(errors.New("permissão negada"))

	res, err := svc.Browse(context.Background(), catalogservice.BrowseRequest{})

	var unavailable *apperrors.UnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Empty(t, res.Listings)
	assert.NotNil(t, res.Listings)
}

func TestBrowse_FeedErrorAfterSnapshotServesStale(t *testing.T) {
	svc, feed, _ := started(t)
	feed.onSnapshot([]domain.Listing{{ID: "a"}})
	feed.onError(errors.New("stream caiu"))

	res, err := svc.Browse(context.Background(), catalogservice.BrowseRequest{})
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Len(t, res.Listings, 1)

	// O próximo snapshot limpa o erro.
	feed.onSnapshot([]domain.Listing{{ID: "a"}})
	res, _ = svc.Browse(context.Background(), catalogservice.BrowseRequest{})
	assert.False(t, res.Stale)
}

func TestBrowse_SearchOverridesFilterSearch(t *testing.T) {
	svc, feed, _ := started(t)
	feed.onSnapshot([]domain.Listing{{ID: "a", Name: "Air Max"}, {ID: "b", Name: "Gazelle"}})

	res, err := svc.Browse(context.Background(), catalogservice.BrowseRequest{
		Search: "gaz",
		Filter: domain.FilterSpec{Search: "air"},
	})

	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
	assert.Equal(t, "b", res.Listings[0].ID)
}

func TestStop_Unsubscribes(t *testing.T) {
	svc, feed, _ := started(t)
	svc.Stop()
	assert.True(t, feed.unsubscribed)
}

func TestGetListing_FromSnapshotCountsView(t *testing.T) {
	svc, feed, repo := started(t)
	feed.onSnapshot([]domain.Listing{{ID: "a", Name: "Air"}})
	repo.On("IncrementViews", mock.Anything, "a").Return(errors.New("db fora")).Once()

	l, err := svc.GetListing(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, "Air", l.Name)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetListing_FallsBackToRepository(t *testing.T) {
	svc, _, repo := started(t)
	repo.On("FindByID", mock.Anything, "z").Return(domain.Listing{}, apperrors.NewNotFoundError("z")).Once()

	_, err := svc.GetListing(context.Background(), "z")

	assert.True(t, apperrors.IsNotFound(err))
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func validInput() domain.ListingInput {
	return domain.ListingInput{
		Name:             "  Air Max 90 ",
		Brand:            "Nike",
		Price:            120,
		ImageURL:         "https://img/1.jpg",
		AdditionalImages: "https://img/2.jpg, ,https://img/3.jpg",
		Tags:             "running, retro,",
		Sizes:            []float64{10, 9, 10, 8.5},
	}
}

func TestCreateListing_NormalizesInput(t *testing.T) {
	svc, _, repo := started(t)
	seller := domain.Identity{UserID: "u1", Email: "ana@example.com"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(l domain.Listing) bool {
		return l.Name == "Air Max 90" &&
			l.Condition == "new" && l.Category == "sneakers" && l.Gender == "unisex" &&
			l.AgeGroup == "adult" && l.Season == "all-season" &&
			l.OriginalPrice != nil && *l.OriginalPrice == 120 &&
			assert.ObjectsAreEqual([]float64{8.5, 9, 10}, l.Sizes) &&
			assert.ObjectsAreEqual([]string{"running", "retro"}, l.Tags) &&
			assert.ObjectsAreEqual([]string{"https://img/2.jpg", "https://img/3.jpg"}, l.AdditionalImages) &&
			l.InStock != nil && *l.InStock && l.IsActive != nil && *l.IsActive &&
			l.SellerID == "u1" && l.SellerEmail == "ana@example.com" &&
			l.Views == 0 && l.Rating == 0
	})).Return(domain.Listing{ID: "new-id"}, nil).Once()

	created, err := svc.CreateListing(context.Background(), seller, validInput())

	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
	repo.AssertExpectations(t)
}

func TestCreateListing_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ListingInput)
	}{
		{"sem nome", func(in *domain.ListingInput) { in.Name = "   " }},
		{"sem marca", func(in *domain.ListingInput) { in.Brand = "" }},
		{"preço zero", func(in *domain.ListingInput) { in.Price = 0 }},
		{"sem imagem", func(in *domain.ListingInput) { in.ImageURL = "" }},
		{"sem tamanhos", func(in *domain.ListingInput) { in.Sizes = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, repo := started(t)
			in := validInput()
			tc.mutate(&in)

			_, err := svc.CreateListing(context.Background(), domain.Identity{UserID: "u1"}, in)

			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateListing_OnlyOwner(t *testing.T) {
	svc, _, repo := started(t)
	repo.On("FindByID", mock.Anything, "a").Return(domain.Listing{ID: "a", SellerID: "owner"}, nil)

	_, err := svc.UpdateListing(context.Background(), domain.Identity{UserID: "intruso", Role: domain.RoleAdmin}, "a", validInput())

	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestUpdateListing_KeepsCountersAndStock(t *testing.T) {
	svc, _, repo := started(t)
	out := false
	repo.On("FindByID", mock.Anything, "a").Return(domain.Listing{ID: "a", SellerID: "owner", Views: 40, Rating: 4.5, InStock: &out}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(l domain.Listing) bool {
		return l.ID == "a" && l.Views == 40 && l.Rating == 4.5 && l.InStock != nil && !*l.InStock
	})).Return(domain.Listing{ID: "a"}, nil).Once()

	_, err := svc.UpdateListing(context.Background(), domain.Identity{UserID: "owner"}, "a", validInput())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteListing_OwnerOrAdmin(t *testing.T) {
	svc, _, repo := started(t)
	repo.On("FindByID", mock.Anything, "a").Return(domain.Listing{ID: "a", SellerID: "owner"}, nil)
	repo.On("Delete", mock.Anything, "a").Return(nil).Twice()

	require.NoError(t, svc.DeleteListing(context.Background(), domain.Identity{UserID: "owner"}, "a"))
	require.NoError(t, svc.DeleteListing(context.Background(), domain.Identity{UserID: "adm", Role: domain.RoleAdmin}, "a"))

	err := svc.DeleteListing(context.Background(), domain.Identity{UserID: "outro", Role: domain.RoleCustomer}, "a")
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	repo.AssertNumberOfCalls(t, "Delete", 2)
}
