package catalog

import (
	"sort"

	"shoemarket/internal/domain"
)

// DefaultFilter retorna o filtro "limpo": nenhuma dimensão restringe o resultado.
func DefaultFilter() domain.FilterSpec {
	return domain.FilterSpec{
		Brands:     []string{},
		PriceRange: domain.PriceRange{Min: 0, Max: nil},
		Sizes:      []float64{},
		Conditions: []string{},
		Categories: []string{},
		Colors:     []string{},
		Materials:  []string{},
		Genders:    []string{},
		AgeGroups:  []string{},
		Seasons:    []string{},
		Styles:     []string{},
	}
}

// ActiveFilterCount conta quantas restrições o filtro aplica (badge do botão de filtros).
func ActiveFilterCount(spec domain.FilterSpec) int {
	n := len(spec.Brands) + len(spec.Sizes) + len(spec.Conditions) + len(spec.Categories) +
		len(spec.Colors) + len(spec.Materials) + len(spec.Genders) + len(spec.AgeGroups) +
		len(spec.Seasons) + len(spec.Styles)
	if spec.MinRating > 0 {
		n++
	}
	if spec.Featured {
		n++
	}
	if spec.InStock {
		n++
	}
	if spec.PriceRange.Bounded() {
		n++
	}
	return n
}

// BuildFacets coleta os valores distintos e não vazios de cada dimensão, na ordem em que aparecem.
// Os tamanhos são devolvidos em ordem crescente.
func BuildFacets(listings []domain.Listing) domain.Facets {
	var (
		brands, conditions, categories, colors, materials = newSet(), newSet(), newSet(), newSet(), newSet()
		genders, ageGroups, seasons, styles               = newSet(), newSet(), newSet(), newSet()
		sizes                                             = make(map[float64]struct{})
	)
	for _, l := range listings {
		brands.add(l.Brand)
		conditions.add(l.Condition)
		categories.add(l.Category)
		colors.add(l.Color)
		materials.add(l.Material)
		genders.add(l.Gender)
		ageGroups.add(l.AgeGroup)
		seasons.add(l.Season)
		styles.add(l.Style)
		for _, s := range l.Sizes {
			sizes[s] = struct{}{}
		}
	}

	sorted := make([]float64, 0, len(sizes))
	for s := range sizes {
		sorted = append(sorted, s)
	}
	sort.Float64s(sorted)

	return domain.Facets{
		Brands:     brands.values,
		Sizes:      sorted,
		Conditions: conditions.values,
		Categories: categories.values,
		Colors:     colors.values,
		Materials:  materials.values,
		Genders:    genders.values,
		AgeGroups:  ageGroups.values,
		Seasons:    seasons.values,
		Styles:     styles.values,
	}
}

// orderedSet mantém a ordem de inserção.
type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), values: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}
