package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/catalog"
	"shoemarket/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func ids(listings []domain.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

// fixture reproduz o par Nike/Vans usado nos cenários de filtro e ordenação.
func fixture() []domain.Listing {
	return []domain.Listing{
		{ID: "nike", Brand: "Nike", Price: 150, Sizes: []float64{9, 10}},
		{ID: "vans", Brand: "Vans", Price: 70, Sizes: []float64{8}},
	}
}

func TestApply_BrandFilter(t *testing.T) {
	spec := catalog.DefaultFilter()
	spec.Brands = []string{"Nike"}

	got := catalog.Apply(fixture(), spec, domain.SortNewest)

	assert.Equal(t, []string{"nike"}, ids(got))
}

func TestApply_PriceRange(t *testing.T) {
	spec := catalog.DefaultFilter()
	spec.PriceRange = domain.PriceRange{Min: 0, Max: ptr(100.0)}

	got := catalog.Apply(fixture(), spec, domain.SortNewest)

	assert.Equal(t, []string{"vans"}, ids(got))
}

func TestApply_DefaultFilterSortedByPriceAscending(t *testing.T) {
	got := catalog.Apply(fixture(), catalog.DefaultFilter(), domain.SortPriceLow)

	assert.Equal(t, []string{"vans", "nike"}, ids(got))
}

func TestApply_PriceBoundsAreInclusive(t *testing.T) {
	spec := catalog.DefaultFilter()
	spec.PriceRange = domain.PriceRange{Min: 70, Max: ptr(150.0)}

	got := catalog.Apply(fixture(), spec, domain.SortPriceLow)

	assert.Equal(t, []string{"vans", "nike"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = catalog.Apply(in, catalog.DefaultFilter(), domain.SortPriceLow)

	assert.Equal(t, []string{"nike", "vans"}, ids(in))
}

func TestApply_DefaultFilterExcludesNothing(t *testing.T) {
	// Anúncio com todos os campos opcionais ausentes
	sparse := []domain.Listing{{ID: "empty"}, {ID: "full", Name: "Air", Brand: "Nike", Price: 10, Rating: 3,
		Color: "red", Material: "leather", Condition: "new", Featured: true, InStock: ptr(false)}}

	got := catalog.Apply(sparse, catalog.DefaultFilter(), domain.SortOldest)

	assert.ElementsMatch(t, []string{"empty", "full"}, ids(got))
}

func TestApply_EachDimensionUnconstrainedWhenEmpty(t *testing.T) {
	l := domain.Listing{ID: "x", Brand: "Asics", Price: 50, Sizes: []float64{7}, Condition: "good",
		Category: "running", Color: "Blue", Material: "Mesh", Gender: "men", AgeGroup: "adult",
		Season: "summer", Style: "athletic", Rating: 0}

	// Um filtro com zero valores também não exclui.
	assert.True(t, catalog.Matches(l, domain.FilterSpec{}))
	assert.True(t, catalog.Matches(l, catalog.DefaultFilter()))
}

func TestMatches_Search(t *testing.T) {
	l := domain.Listing{Name: "Air Max 90", Brand: "Nike", Description: "Classic runner",
		Category: "sneakers", Color: "White", Tags: []string{"retro", "Icon"}}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"air max", true},
		{"NIKE", true},
		{"classic", true},
		{"sneak", true},
		{"white", true},
		{"icon", true},
		{"adidas", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Matches(l, domain.FilterSpec{Search: tt.query}))
		})
	}
}

func TestMatches_BrandIsCaseSensitive(t *testing.T) {
	l := domain.Listing{Brand: "Nike"}

	assert.False(t, catalog.Matches(l, domain.FilterSpec{Brands: []string{"nike"}}))
	assert.True(t, catalog.Matches(l, domain.FilterSpec{Brands: []string{"Adidas", "Nike"}}))
}

func TestMatches_ColorAndMaterialSubstring(t *testing.T) {
	l := domain.Listing{Color: "Navy Blue", Material: "Suede Leather"}

	assert.True(t, catalog.Matches(l, domain.FilterSpec{Colors: []string{"blue"}}))
	assert.True(t, catalog.Matches(l, domain.FilterSpec{Colors: []string{"red", "NAVY"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Colors: []string{"red"}}))
	assert.True(t, catalog.Matches(l, domain.FilterSpec{Materials: []string{"leather"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Materials: []string{"mesh"}}))
}

func TestMatches_ExactMembershipDimensions(t *testing.T) {
	l := domain.Listing{Condition: "like-new", Category: "boots", Gender: "women", AgeGroup: "adult",
		Season: "winter", Style: "casual"}

	assert.True(t, catalog.Matches(l, domain.FilterSpec{Conditions: []string{"new", "like-new"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Conditions: []string{"new"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Categories: []string{"boot"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Genders: []string{"men"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{AgeGroups: []string{"youth"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Seasons: []string{"summer"}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Styles: []string{"formal"}}))
}

func TestMatches_Sizes(t *testing.T) {
	l := domain.Listing{Sizes: []float64{9, 9.5}}

	assert.True(t, catalog.Matches(l, domain.FilterSpec{Sizes: []float64{8, 9.5}}))
	assert.False(t, catalog.Matches(l, domain.FilterSpec{Sizes: []float64{10}}))
	assert.False(t, catalog.Matches(domain.Listing{}, domain.FilterSpec{Sizes: []float64{10}}))
}

func TestMatches_RatingFeaturedAndStock(t *testing.T) {
	assert.True(t, catalog.Matches(domain.Listing{Rating: 4}, domain.FilterSpec{MinRating: 4}))
	assert.False(t, catalog.Matches(domain.Listing{Rating: 3.9}, domain.FilterSpec{MinRating: 4}))
	assert.False(t, catalog.Matches(domain.Listing{}, domain.FilterSpec{Featured: true}))
	assert.True(t, catalog.Matches(domain.Listing{Featured: true}, domain.FilterSpec{Featured: true}))

	// Estoque não informado passa; apenas false explícito é excluído.
	assert.True(t, catalog.Matches(domain.Listing{}, domain.FilterSpec{InStock: true}))
	assert.True(t, catalog.Matches(domain.Listing{InStock: ptr(true)}, domain.FilterSpec{InStock: true}))
	assert.False(t, catalog.Matches(domain.Listing{InStock: ptr(false)}, domain.FilterSpec{InStock: true}))
}

func TestApply_IsIdempotent(t *testing.T) {
	listings := sortFixture()
	spec := catalog.DefaultFilter()
	spec.Search = "a"

	for _, key := range allKeys {
		first := catalog.Apply(listings, spec, key)
		second := catalog.Apply(listings, spec, key)
		require.Equal(t, ids(first), ids(second), "sort key %s", key)
	}
}

var allKeys = []domain.SortKey{
	domain.SortNewest, domain.SortOldest, domain.SortPriceLow, domain.SortPriceHigh, domain.SortRating,
	domain.SortPopular, domain.SortNameAZ, domain.SortNameZA, domain.SortFeatured,
}

func sortFixture() []domain.Listing {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Listing{
		{ID: "a", Name: "Zoom", Price: 80, Rating: 4.5, Views: 10, CreatedAt: base},
		{ID: "b", Name: "air", Price: 120, Rating: 0, Views: 0, Featured: true, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Name: "Écru", Price: 80, Rating: 4.5, Views: 30, CreatedAt: base.Add(-time.Hour)},
		{ID: "d", Name: "", Price: 40, Rating: 2, Views: 10, Featured: true, CreatedAt: base},
	}
}
