package domain

// PriceRange define o intervalo de preço do filtro. Max nil significa "sem limite superior".
type PriceRange struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// Bounded informa se o intervalo restringe alguma coisa.
func (p PriceRange) Bounded() bool {
	return p.Min > 0 || p.Max != nil
}

// FilterSpec é a especificação de filtro montada pela camada de apresentação.
// Qualquer dimensão vazia/zero/false significa "sem restrição" nessa dimensão.
type FilterSpec struct {
	Search     string     `json:"search,omitempty"`
	Brands     []string   `json:"brands,omitempty"`
	PriceRange PriceRange `json:"priceRange"`
	Sizes      []float64  `json:"sizes,omitempty"`
	Conditions []string   `json:"conditions,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	Materials  []string   `json:"materials,omitempty"`
	Genders    []string   `json:"genders,omitempty"`
	AgeGroups  []string   `json:"ageGroups,omitempty"`
	Seasons    []string   `json:"seasons,omitempty"`
	Styles     []string   `json:"styles,omitempty"`
	MinRating  float64    `json:"rating"`
	Featured   bool       `json:"featured"`
	InStock    bool       `json:"inStock"`
}

// SortKey seleciona o comparador aplicado após a filtragem.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "priceLow"
	SortPriceHigh SortKey = "priceHigh"
	SortRating    SortKey = "rating"
	SortPopular   SortKey = "popular"
	SortNameAZ    SortKey = "nameAZ"
	SortNameZA    SortKey = "nameZA"
	SortFeatured  SortKey = "featured"
)

// Facets são os valores distintos disponíveis para cada dimensão de filtro no snapshot atual.
type Facets struct {
	Brands     []string  `json:"brands"`
	Sizes      []float64 `json:"sizes"`
	Conditions []string  `json:"conditions"`
	Categories []string  `json:"categories"`
	Colors     []string  `json:"colors"`
	Materials  []string  `json:"materials"`
	Genders    []string  `json:"genders"`
	AgeGroups  []string  `json:"ageGroups"`
	Seasons    []string  `json:"seasons"`
	Styles     []string  `json:"styles"`
}
