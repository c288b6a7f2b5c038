package profile_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shoemarket/internal/api/profile"
	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetOrCreate(ctx context.Context, id domain.Identity) (domain.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error) {
	args := m.Called(ctx, userID, update)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileService) Stats(ctx context.Context, userID string) (domain.ProfileStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.ProfileStats), args.Error(1)
}

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, tok string) (domain.Identity, error) {
	if tok == "ok" {
		return domain.Identity{UserID: "u1", Email: "u1@example.com", DisplayName: "Ana", Role: domain.RoleCustomer}, nil
	}
	return domain.Identity{}, errors.New("invalid")
}

func newRouter(svc profile.ProfileService) http.Handler {
	h := profile.NewHandler(svc, logger.NewLogger("error"))
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(stubAuth{}))
	r.Get("/v1/me", h.MeHandler)
	r.Patch("/v1/me", h.UpdateHandler)
	r.Get("/v1/me/stats", h.StatsHandler)
	return r
}

func authed(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer ok")
	return req
}

func TestMeHandler_PassesIdentity(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("GetOrCreate", mock.Anything, mock.MatchedBy(func(id domain.Identity) bool {
		return id.UserID == "u1" && id.Email == "u1@example.com" && id.DisplayName == "Ana"
	})).Return(domain.Profile{UserID: "u1", Name: "Ana"}, nil).Once()

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, authed(http.MethodGet, "/v1/me", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateHandler_PartialFields(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("Update", mock.Anything, "u1", mock.MatchedBy(func(u domain.ProfileUpdate) bool {
		return u.City != nil && *u.City == "Recife" && u.Name == nil
	})).Return(domain.Profile{UserID: "u1", City: "Recife"}, nil).Once()

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, authed(http.MethodPatch, "/v1/me", `{"city":"Recife"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestStatsHandler(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("Stats", mock.Anything, "u1").Return(domain.ProfileStats{Listings: 3, ActiveListings: 2, TotalValue: 250, WishlistCount: 1}, nil)

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, authed(http.MethodGet, "/v1/me/stats", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"listings":3,"activeListings":2,"totalValue":250,"cartCount":0,"wishlistCount":1}`, rec.Body.String())
}
