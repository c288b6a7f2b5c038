package domain

import (
	"context"
	"time"
)

// Listing representa um par de tênis anunciado por um vendedor (a Entidade do catálogo).
// Todos os campos descritivos são opcionais: a ausência é representada pelo valor neutro
// do tipo (string vazia, 0, false, slice vazio). A única exceção é InStock, que distingue
// "não informado" (nil) de "explicitamente fora de estoque" (false).
type Listing struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Dimensões de filtro
	Condition string `json:"condition,omitempty"`
	Category  string `json:"category,omitempty"`
	Color     string `json:"color,omitempty"`
	Material  string `json:"material,omitempty"`
	Gender    string `json:"targetGender,omitempty"`
	AgeGroup  string `json:"ageGroup,omitempty"`
	Season    string `json:"season,omitempty"`
	Style     string `json:"style,omitempty"`

	// Fabricação
	Weight          string `json:"weight,omitempty"`
	Manufacturer    string `json:"manufacturer,omitempty"`
	CountryOfOrigin string `json:"countryOfOrigin,omitempty"`
	SKU             string `json:"sku,omitempty"`

	// Dados comerciais
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"` // Usado apenas para exibir desconto
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"ratingCount"`
	Views         int       `json:"views"`
	Likes         int       `json:"likes"`
	Featured      bool      `json:"featured"`
	InStock       *bool     `json:"inStock,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
	Sizes         []float64 `json:"sizes,omitempty"`

	// Imagens
	Image            string   `json:"image,omitempty"`
	AdditionalImages []string `json:"additionalImages,omitempty"`

	// Proveniência
	SellerID    string    `json:"sellerId"`
	SellerEmail string    `json:"sellerEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Snapshot extrai os campos de exibição gravados junto com uma linha de carrinho.
func (l Listing) Snapshot() ListingSnapshot {
	return ListingSnapshot{
		ID:    l.ID,
		Name:  l.Name,
		Brand: l.Brand,
		Price: l.Price,
		Image: l.Image,
	}
}

// HasSize informa se o anúncio oferece o tamanho indicado.
func (l Listing) HasSize(size float64) bool {
	for _, s := range l.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// IsInStock aplica a regra "fail open": apenas um false explícito conta como fora de estoque.
func (l Listing) IsInStock() bool {
	return l.InStock == nil || *l.InStock
}

// IsListed segue a mesma regra de IsInStock para a flag de anúncio ativo.
func (l Listing) IsListed() bool {
	return l.IsActive == nil || *l.IsActive
}

// ListingInput é o payload de criação/edição de anúncios vindo da camada de API.
// Tags e imagens adicionais chegam como listas separadas por vírgula, como no formulário do app.
type ListingInput struct {
	Name             string    `json:"name" validate:"required"`
	Brand            string    `json:"brand" validate:"required"`
	Price            float64   `json:"price" validate:"gt=0"`
	OriginalPrice    float64   `json:"originalPrice" validate:"gte=0"`
	ImageURL         string    `json:"imageUrl" validate:"required"`
	AdditionalImages string    `json:"additionalImages"`
	Description      string    `json:"description"`
	Condition        string    `json:"condition" validate:"omitempty,oneof=new like-new good fair refurbished"`
	Category         string    `json:"category"`
	Color            string    `json:"color"`
	Material         string    `json:"material"`
	Weight           string    `json:"weight"`
	Manufacturer     string    `json:"manufacturer"`
	CountryOfOrigin  string    `json:"countryOfOrigin"`
	SKU              string    `json:"sku"`
	Tags             string    `json:"tags"`
	Gender           string    `json:"targetGender" validate:"omitempty,oneof=men women unisex kids"`
	AgeGroup         string    `json:"ageGroup" validate:"omitempty,oneof=adult youth child toddler infant"`
	Season           string    `json:"season" validate:"omitempty,oneof=all-season summer winter spring fall"`
	Style            string    `json:"style" validate:"omitempty,oneof=casual formal athletic vintage modern luxury"`
	Sizes            []float64 `json:"sizes" validate:"min=1,dive,gt=0"`
	Featured         bool      `json:"featured"`
	InStock          *bool     `json:"inStock"`
}

// ListingFeed é o contrato do fluxo de snapshots completos do catálogo.
// Cada snapshot substitui integralmente o anterior; a ordem de entrega é total.
type ListingFeed interface {
	// Subscribe registra os callbacks e retorna a função de cancelamento da inscrição.
	Subscribe(ctx context.Context, onSnapshot func([]Listing), onError func(error)) (func(), error)
}

// ListingRepository define o contrato de persistência de anúncios (caminho de escrita).
type ListingRepository interface {
	FindAll(ctx context.Context) ([]Listing, error)
	FindByID(ctx context.Context, id string) (Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]Listing, error)
	FindBySeller(ctx context.Context, sellerID string) ([]Listing, error)
	Create(ctx context.Context, listing Listing) (Listing, error)
	Update(ctx context.Context, listing Listing) (Listing, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
