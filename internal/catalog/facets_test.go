package catalog_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/catalog"
	"shoemarket/internal/domain"
)

func TestBuildFacets(t *testing.T) {
	listings := []domain.Listing{
		{Brand: "Vans", Color: "Black", Sizes: []float64{10, 8}, Condition: "new"},
		{Brand: "Nike", Color: "", Sizes: []float64{9, 8}, Condition: "good", Season: "summer"},
		{Brand: "Vans", Color: "Black"},
	}

	f := catalog.BuildFacets(listings)

	assert.Equal(t, []string{"Vans", "Nike"}, f.Brands)
	assert.Equal(t, []string{"Black"}, f.Colors)
	assert.Equal(t, []float64{8, 9, 10}, f.Sizes)
	assert.Equal(t, []string{"new", "good"}, f.Conditions)
	assert.Equal(t, []string{"summer"}, f.Seasons)
	assert.Empty(t, f.Styles)
	assert.NotNil(t, f.Styles)
}

func TestActiveFilterCount(t *testing.T) {
	assert.Zero(t, catalog.ActiveFilterCount(catalog.DefaultFilter()))

	spec := catalog.DefaultFilter()
	spec.Brands = []string{"Nike", "Vans"}
	spec.Sizes = []float64{9}
	spec.MinRating = 4
	spec.InStock = true
	spec.PriceRange.Min = 20

	assert.Equal(t, 6, catalog.ActiveFilterCount(spec))
}

func TestSelectQuestions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	qs := catalog.SelectQuestions(5, rng)

	require.Len(t, qs, 5)
	seen := map[string]bool{}
	for _, q := range qs {
		assert.False(t, seen[q.ID], "pergunta repetida: %s", q.ID)
		seen[q.ID] = true
		assert.NotEmpty(t, q.Options)
	}

	assert.Len(t, catalog.SelectQuestions(0, rng), len(catalog.Questions()))
	assert.Len(t, catalog.SelectQuestions(99, rng), len(catalog.Questions()))
}

func TestBuildFinderFilter_MergesAnswers(t *testing.T) {
	spec := catalog.BuildFinderFilter(map[string][]string{
		"activity": {"running"},
		"style":    {"athletic", "casual"},
		"budget":   {"mid"},
		"season":   {"summer"},
		"material": {"mesh", "leather"},
		"priority": {"availability"},
		"unknown":  {"whatever"},
		"gender":   {"not-an-option"},
	})

	assert.Equal(t, []string{"running", "athletic"}, spec.Categories)
	// Conjuntos são unidos sem duplicatas
	assert.Equal(t, []string{"athletic", "casual"}, spec.Styles)
	assert.Equal(t, []string{"mesh", "canvas", "leather"}, spec.Materials)
	assert.Equal(t, []string{"summer"}, spec.Seasons)
	assert.Equal(t, 50.0, spec.PriceRange.Min)
	require.NotNil(t, spec.PriceRange.Max)
	assert.Equal(t, 100.0, *spec.PriceRange.Max)
	assert.True(t, spec.InStock)
	assert.False(t, spec.Featured)
	assert.Empty(t, spec.Genders)
}

func TestBuildFinderFilter_PriorityOverwritesBudget(t *testing.T) {
	spec := catalog.BuildFinderFilter(map[string][]string{
		"budget":   {"luxury"},
		"priority": {"value"},
	})

	// budget vem antes de priority no banco: o intervalo de "value" prevalece.
	assert.Equal(t, 0.0, spec.PriceRange.Min)
	require.NotNil(t, spec.PriceRange.Max)
	assert.Equal(t, 100.0, *spec.PriceRange.Max)
}

func TestBuildFinderFilter_SingleChoiceUsesFirstValue(t *testing.T) {
	spec := catalog.BuildFinderFilter(map[string][]string{"gender": {"women", "men"}})

	assert.Equal(t, []string{"women"}, spec.Genders)
}

func TestBuildFinderFilter_AnyConditionLeavesDefaults(t *testing.T) {
	spec := catalog.BuildFinderFilter(map[string][]string{"condition": {"any"}})

	assert.Equal(t, catalog.DefaultFilter(), spec)
}
