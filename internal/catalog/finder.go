package catalog

import (
	"math/rand"

	"shoemarket/internal/domain"
)

// QuestionType indica se a pergunta aceita uma ou várias respostas.
type QuestionType string

const (
	SingleChoice   QuestionType = "single"
	MultipleChoice QuestionType = "multiple"
)

// Fragment é o pedaço de filtro aplicado quando uma opção é escolhida.
// Campos nil não alteram o filtro de destino.
type Fragment struct {
	Categories []string           `json:"categories,omitempty"`
	Styles     []string           `json:"styles,omitempty"`
	Seasons    []string           `json:"seasons,omitempty"`
	Materials  []string           `json:"materials,omitempty"`
	Genders    []string           `json:"genders,omitempty"`
	AgeGroups  []string           `json:"ageGroups,omitempty"`
	Conditions []string           `json:"conditions,omitempty"`
	PriceRange *domain.PriceRange `json:"priceRange,omitempty"`
	MinRating  *float64           `json:"rating,omitempty"`
	Featured   *bool              `json:"featured,omitempty"`
	InStock    *bool              `json:"inStock,omitempty"`
}

// Option é uma alternativa de resposta.
type Option struct {
	Value  string   `json:"value"`
	Label  string   `json:"label"`
	Filter Fragment `json:"filters"`
}

// Question é uma pergunta do assistente de busca (Shoe Finder).
type Question struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Icon     string       `json:"icon"`
	Type     QuestionType `json:"type"`
	Options  []Option     `json:"options"`
}

func price(lo, hi float64) *domain.PriceRange { return &domain.PriceRange{Min: lo, Max: &hi} }
func float(v float64) *float64                { return &v }
func flag(v bool) *bool                       { return &v }

var questionBank = []Question{
	{
		ID: "activity", Question: "What activity are these shoes for?", Icon: "fitness-outline", Type: SingleChoice,
		Options: []Option{
			{Value: "running", Label: "Running & Jogging", Filter: Fragment{Categories: []string{"running", "athletic"}, Styles: []string{"athletic"}}},
			{Value: "casual", Label: "Casual Daily Wear", Filter: Fragment{Styles: []string{"casual"}, Categories: []string{"sneakers", "casual"}}},
			{Value: "work", Label: "Work & Business", Filter: Fragment{Styles: []string{"formal"}, Categories: []string{"dress", "loafers", "oxfords"}}},
			{Value: "sports", Label: "Sports & Training", Filter: Fragment{Categories: []string{"athletic", "training"}, Styles: []string{"athletic"}}},
			{Value: "party", Label: "Party & Events", Filter: Fragment{Styles: []string{"formal", "luxury"}, Categories: []string{"heels", "dress"}}},
		},
	},
	{
		ID: "budget", Question: "What's your budget range?", Icon: "cash-outline", Type: SingleChoice,
		Options: []Option{
			{Value: "budget", Label: "Under $50", Filter: Fragment{PriceRange: price(0, 50)}},
			{Value: "mid", Label: "$50 - $100", Filter: Fragment{PriceRange: price(50, 100)}},
			{Value: "premium", Label: "$100 - $200", Filter: Fragment{PriceRange: price(100, 200)}},
			{Value: "luxury", Label: "$200+", Filter: Fragment{PriceRange: price(200, 1000)}},
		},
	},
	{
		ID: "style", Question: "Which style appeals to you most?", Icon: "shirt-outline", Type: MultipleChoice,
		Options: []Option{
			{Value: "casual", Label: "Casual & Comfortable", Filter: Fragment{Styles: []string{"casual"}}},
			{Value: "athletic", Label: "Athletic & Sporty", Filter: Fragment{Styles: []string{"athletic"}}},
			{Value: "formal", Label: "Formal & Professional", Filter: Fragment{Styles: []string{"formal"}}},
			{Value: "vintage", Label: "Vintage & Retro", Filter: Fragment{Styles: []string{"vintage"}}},
			{Value: "luxury", Label: "Luxury & Premium", Filter: Fragment{Styles: []string{"luxury"}}},
		},
	},
	{
		ID: "season", Question: "What season will you mainly wear these?", Icon: "sunny-outline", Type: SingleChoice,
		Options: []Option{
			{Value: "summer", Label: "Summer (Breathable)", Filter: Fragment{Seasons: []string{"summer"}, Materials: []string{"mesh", "canvas"}}},
			{Value: "winter", Label: "Winter (Warm & Dry)", Filter: Fragment{Seasons: []string{"winter"}, Materials: []string{"leather", "waterproof"}}},
			{Value: "spring", Label: "Spring (Light & Fresh)", Filter: Fragment{Seasons: []string{"spring"}}},
			{Value: "fall", Label: "Fall (Versatile)", Filter: Fragment{Seasons: []string{"fall"}}},
			{Value: "all", Label: "All Seasons", Filter: Fragment{Seasons: []string{"all-season"}}},
		},
	},
	{
		ID: "gender", Question: "Who are you shopping for?", Icon: "people-outline", Type: SingleChoice,
		Options: []Option{
			{Value: "men", Label: "Men", Filter: Fragment{Genders: []string{"men"}}},
			{Value: "women", Label: "Women", Filter: Fragment{Genders: []string{"women"}}},
			{Value: "unisex", Label: "Unisex", Filter: Fragment{Genders: []string{"unisex"}}},
			{Value: "kids", Label: "Kids", Filter: Fragment{Genders: []string{"kids"}, AgeGroups: []string{"child", "youth"}}},
		},
	},
	{
		ID: "material", Question: "What material do you prefer?", Icon: "layers-outline", Type: MultipleChoice,
		Options: []Option{
			{Value: "leather", Label: "Genuine Leather", Filter: Fragment{Materials: []string{"leather"}}},
			{Value: "canvas", Label: "Canvas & Fabric", Filter: Fragment{Materials: []string{"canvas", "fabric"}}},
			{Value: "mesh", Label: "Breathable Mesh", Filter: Fragment{Materials: []string{"mesh"}}},
			{Value: "synthetic", Label: "Synthetic Materials", Filter: Fragment{Materials: []string{"synthetic"}}},
		},
	},
	{
		ID: "condition", Question: "What condition are you looking for?", Icon: "star-outline", Type: SingleChoice,
		Options: []Option{
			{Value: "new_only", Label: "Brand New Only", Filter: Fragment{Conditions: []string{"new"}}},
			{Value: "like_new", Label: "Like New", Filter: Fragment{Conditions: []string{"new", "like-new"}}},
			{Value: "good", Label: "Good Condition", Filter: Fragment{Conditions: []string{"new", "like-new", "good"}}},
			{Value: "any", Label: "Any Condition", Filter: Fragment{}},
		},
	},
	{
		ID: "priority", Question: "What's most important to you?", Icon: "heart-outline", Type: SingleChoice,
		Options: []Option{
			{Value: "trending", Label: "What's Popular", Filter: Fragment{Featured: flag(true)}},
			{Value: "quality", Label: "High Ratings", Filter: Fragment{MinRating: float(4)}},
			{Value: "availability", Label: "Available Now", Filter: Fragment{InStock: flag(true)}},
			{Value: "value", Label: "Best Value", Filter: Fragment{PriceRange: price(0, 100)}},
		},
	},
}

// Questions retorna uma cópia do banco completo de perguntas.
func Questions() []Question {
	out := make([]Question, len(questionBank))
	copy(out, questionBank)
	return out
}

// SelectQuestions sorteia n perguntas distintas do banco. n fora do intervalo é ajustado.
func SelectQuestions(n int, rng *rand.Rand) []Question {
	qs := Questions()
	if n <= 0 || n > len(qs) {
		n = len(qs)
	}
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs[:n]
}

// BuildFinderFilter aplica as respostas sobre DefaultFilter. Cada resposta é uma lista de
// valores de opção; perguntas de escolha única consideram apenas o primeiro valor.
// Perguntas ou opções desconhecidas são ignoradas.
func BuildFinderFilter(answers map[string][]string) domain.FilterSpec {
	spec := DefaultFilter()
	// Percorre o banco (e não o mapa) para que o resultado seja determinístico.
	for _, q := range questionBank {
		values, ok := answers[q.ID]
		if !ok || len(values) == 0 {
			continue
		}
		if q.Type == SingleChoice {
			values = values[:1]
		}
		for _, v := range values {
			for _, opt := range q.Options {
				if opt.Value == v {
					mergeFragment(&spec, opt.Filter)
				}
			}
		}
	}
	return spec
}

func mergeFragment(dst *domain.FilterSpec, f Fragment) {
	dst.Categories = union(dst.Categories, f.Categories)
	dst.Styles = union(dst.Styles, f.Styles)
	dst.Seasons = union(dst.Seasons, f.Seasons)
	dst.Materials = union(dst.Materials, f.Materials)
	dst.Genders = union(dst.Genders, f.Genders)
	dst.AgeGroups = union(dst.AgeGroups, f.AgeGroups)
	dst.Conditions = union(dst.Conditions, f.Conditions)
	if f.PriceRange != nil {
		dst.PriceRange.Min = f.PriceRange.Min
		if f.PriceRange.Max != nil {
			upper := *f.PriceRange.Max
			dst.PriceRange.Max = &upper
		}
	}
	if f.MinRating != nil {
		dst.MinRating = *f.MinRating
	}
	if f.Featured != nil {
		dst.Featured = *f.Featured
	}
	if f.InStock != nil {
		dst.InStock = *f.InStock
	}
}

func union(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range append(append([]string{}, a...), b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
