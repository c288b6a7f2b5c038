package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shoemarket/internal/domain"
)

// ParseSortKey converte o valor recebido da API. Valores desconhecidos ou vazios viram SortNewest.
func ParseSortKey(s string) domain.SortKey {
	switch k := domain.SortKey(strings.TrimSpace(s)); k {
	case domain.SortNewest, domain.SortOldest, domain.SortPriceLow, domain.SortPriceHigh,
		domain.SortRating, domain.SortPopular, domain.SortNameAZ, domain.SortNameZA, domain.SortFeatured:
		return k
	}
	// Aliases aceitos pelo formulário antigo
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price_asc", "price-asc", "pricelow":
		return domain.SortPriceLow
	case "price_desc", "price-desc", "pricehigh":
		return domain.SortPriceHigh
	case "views", "popularity":
		return domain.SortPopular
	case "name_asc", "nameaz":
		return domain.SortNameAZ
	case "name_desc", "nameza":
		return domain.SortNameZA
	}
	return domain.SortNewest
}

// Sort ordena os anúncios no lugar com um comparador estável selecionado pela chave.
func Sort(listings []domain.Listing, key domain.SortKey) {
	less := comparator(key)
	sort.SliceStable(listings, func(i, j int) bool {
		return less(listings[i], listings[j])
	})
}

func comparator(key domain.SortKey) func(a, b domain.Listing) bool {
	switch key {
	case domain.SortOldest:
		return func(a, b domain.Listing) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case domain.SortPriceLow:
		return func(a, b domain.Listing) bool { return a.Price < b.Price }
	case domain.SortPriceHigh:
		return func(a, b domain.Listing) bool { return a.Price > b.Price }
	case domain.SortRating:
		return func(a, b domain.Listing) bool { return a.Rating > b.Rating }
	case domain.SortPopular:
		return func(a, b domain.Listing) bool { return a.Views > b.Views }
	case domain.SortNameAZ, domain.SortNameZA:
		// O Collator guarda buffers internos, então cada ordenação usa o seu.
		c := collate.New(language.Und, collate.IgnoreCase)
		if key == domain.SortNameZA {
			return func(a, b domain.Listing) bool { return c.CompareString(a.Name, b.Name) > 0 }
		}
		return func(a, b domain.Listing) bool { return c.CompareString(a.Name, b.Name) < 0 }
	case domain.SortFeatured:
		return func(a, b domain.Listing) bool { return a.Featured && !b.Featured }
	default:
		return func(a, b domain.Listing) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
}
