// Package catalog implementa o motor de consulta do catálogo: filtragem por predicados,
// ordenação estável e agregação de facetas sobre o snapshot completo de anúncios.
//
// Todas as funções do pacote são puras: não fazem I/O e não modificam a entrada.
package catalog

import (
	"strings"

	"shoemarket/internal/domain"
)

// Apply filtra os anúncios pela especificação e ordena o resultado pela chave indicada.
// O slice de entrada não é alterado; empates preservam a ordem original.
func Apply(listings []domain.Listing, spec domain.FilterSpec, key domain.SortKey) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	q := normalizeQuery(spec.Search)
	for _, l := range listings {
		if matches(l, spec, q) {
			out = append(out, l)
		}
	}
	Sort(out, key)
	return out
}

// Matches informa se um único anúncio satisfaz a conjunção de todos os predicados.
func Matches(l domain.Listing, spec domain.FilterSpec) bool {
	return matches(l, spec, normalizeQuery(spec.Search))
}

func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matches(l domain.Listing, spec domain.FilterSpec, q string) bool {
	return matchSearch(l, q) &&
		inSet(spec.Brands, l.Brand) &&
		matchPrice(l.Price, spec.PriceRange) &&
		matchSizes(l, spec.Sizes) &&
		inSet(spec.Conditions, l.Condition) &&
		inSet(spec.Categories, l.Category) &&
		containsAny(spec.Colors, l.Color) &&
		containsAny(spec.Materials, l.Material) &&
		inSet(spec.Genders, l.Gender) &&
		inSet(spec.AgeGroups, l.AgeGroup) &&
		inSet(spec.Seasons, l.Season) &&
		inSet(spec.Styles, l.Style) &&
		l.Rating >= spec.MinRating &&
		(!spec.Featured || l.Featured) &&
		(!spec.InStock || l.IsInStock())
}

// matchSearch compara q (já em minúsculas) com os campos textuais do anúncio.
func matchSearch(l domain.Listing, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range []string{l.Name, l.Brand, l.Description, l.Category, l.Color} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// inSet é a pertinência exata; conjunto vazio não restringe.
func inSet(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// containsAny verifica se algum valor do filtro aparece no valor do anúncio, sem diferenciar caixa.
func containsAny(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	v := strings.ToLower(value)
	for _, s := range set {
		if strings.Contains(v, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func matchPrice(price float64, r domain.PriceRange) bool {
	if price < r.Min {
		return false
	}
	return r.Max == nil || price <= *r.Max
}

func matchSizes(l domain.Listing, sizes []float64) bool {
	if len(sizes) == 0 {
		return true
	}
	for _, s := range sizes {
		if l.HasSize(s) {
			return true
		}
	}
	return false
}
