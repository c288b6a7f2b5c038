package finder_test

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/api/finder"
	"shoemarket/internal/catalog"
	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/service/catalogservice"
)

type MockBrowser struct {
	mock.Mock
}

func (m *MockBrowser) Browse(ctx context.Context, req catalogservice.BrowseRequest) (catalogservice.BrowseResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(catalogservice.BrowseResult), args.Error(1)
}

func TestQuestionsHandler(t *testing.T) {
	h := finder.NewHandlerWithRand(new(MockBrowser), logger.NewLogger("error"), rand.New(rand.NewSource(7)))

	tests := []struct {
		query string
		want  int
	}{
		{"", finder.DefaultQuestionCount},
		{"?n=3", 3},
		{"?n=99", len(catalog.Questions())},
		{"?n=abc", finder.DefaultQuestionCount},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.QuestionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/finder/questions"+tt.query, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var qs []catalog.Question
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &qs))
		assert.Len(t, qs, tt.want, tt.query)

		seen := map[string]bool{}
		for _, q := range qs {
			assert.False(t, seen[q.ID], "pergunta repetida %s", q.ID)
			seen[q.ID] = true
		}
	}
}

func TestFindHandler(t *testing.T) {
	b := new(MockBrowser)
	b.On("Browse", mock.Anything, mock.MatchedBy(func(r catalogservice.BrowseRequest) bool {
		return r.Sort == domain.SortPriceLow &&
			r.Filter.PriceRange.Max != nil && *r.Filter.PriceRange.Max == 50 &&
			assert.ObjectsAreEqual([]string{"men"}, r.Filter.Genders)
	})).Return(catalogservice.BrowseResult{Listings: []domain.Listing{{ID: "s1"}}, Total: 1}, nil).Once()

	h := finder.NewHandler(b, logger.NewLogger("error"))
	body := `{"answers":{"budget":["budget"],"gender":["men","women"],"unknown":["x"]},"sort":"priceLow"}`
	rec := httptest.NewRecorder()
	h.FindHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/finder", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp finder.FindResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Result.Total)
	assert.Equal(t, []string{"men"}, resp.Filter.Genders)
	b.AssertExpectations(t)
}

func TestFindHandler_MalformedJSON(t *testing.T) {
	b := new(MockBrowser)
	h := finder.NewHandler(b, logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.FindHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/finder", strings.NewReader("[")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b.AssertNotCalled(t, "Browse", mock.Anything, mock.Anything)
}
