package domain

import (
	"context"
	"time"
)

// ListingSnapshot guarda os campos de exibição de um anúncio no momento em que foi
// adicionado ao carrinho, para renderizar o carrinho sem consultar o catálogo.
type ListingSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// CartLine é uma linha do carrinho. A identidade é o par (ListingID, Size).
type CartLine struct {
	ListingID string           `json:"shoeId"`
	Size      string           `json:"size"`
	Quantity  int              `json:"quantity"`
	Shoe      *ListingSnapshot `json:"shoe,omitempty"`
	AddedAt   *time.Time       `json:"addedAt,omitempty"`
}

// Matches informa se a linha tem a identidade (listingID, size).
func (c CartLine) Matches(listingID, size string) bool {
	return c.ListingID == listingID && c.Size == size
}

// UnitPrice retorna o preço do snapshot, ou 0 quando ausente.
func (c CartLine) UnitPrice() float64 {
	if c.Shoe == nil {
		return 0
	}
	return c.Shoe.Price
}

// AddOrIncrement incrementa a linha existente ou acrescenta uma nova ao final.
// Uma quantidade resultante <= 0 remove a linha. O slice de entrada não é modificado.
func AddOrIncrement(lines []CartLine, line CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines)+1)
	found := false
	for _, l := range lines {
		if l.Matches(line.ListingID, line.Size) {
			found = true
			l.Quantity += line.Quantity
			if l.Quantity <= 0 {
				continue
			}
		}
		out = append(out, l)
	}
	if !found && line.Quantity > 0 {
		out = append(out, line)
	}
	return out
}

// SetQuantity define a quantidade da linha (listingID, size). Quantidade <= 0 remove a linha;
// uma linha inexistente deixa o carrinho como está.
func SetQuantity(lines []CartLine, listingID, size string, quantity int) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Matches(listingID, size) {
			if quantity <= 0 {
				continue
			}
			l.Quantity = quantity
		}
		out = append(out, l)
	}
	return out
}

// RemoveLine remove a linha (listingID, size), se existir.
func RemoveLine(lines []CartLine, listingID, size string) []CartLine {
	return SetQuantity(lines, listingID, size, 0)
}

// GuestCartVersion é a versão atual do formato serializado do carrinho de visitante.
const GuestCartVersion = 1

// GuestCartRecord é o registro serializado do carrinho de visitante.
// Timestamp é a última escrita em epoch ms.
type GuestCartRecord struct {
	Version   int        `json:"version"`
	Items     []CartLine `json:"items"`
	Timestamp int64      `json:"timestamp"`
}

// CartOwner identifica o dono de um carrinho: usuário autenticado ou sessão de visitante.
type CartOwner struct {
	UserID  string
	GuestID string
}

// IsGuest informa se o carrinho pertence a um visitante sem conta.
func (o CartOwner) IsGuest() bool {
	return o.UserID == ""
}

// Key retorna o identificador usado pelo repositório correspondente.
func (o CartOwner) Key() string {
	if o.IsGuest() {
		return o.GuestID
	}
	return o.UserID
}

// CartTotals resume os valores do carrinho.
type CartTotals struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

// Cart é a visão do carrinho devolvida pela API.
type Cart struct {
	Lines  []CartLine `json:"items"`
	Totals CartTotals `json:"totals"`
	Guest  bool       `json:"guest"`
}

// CartRepository é o contrato único de acesso ao carrinho. O carrinho de visitante (Redis)
// e o carrinho do usuário (perfil no PostgreSQL) implementam a mesma interface e são
// injetados no serviço, nunca acessados de forma global.
type CartRepository interface {
	Load(ctx context.Context, ownerKey string) ([]CartLine, error)
	Save(ctx context.Context, ownerKey string, lines []CartLine) error
	Clear(ctx context.Context, ownerKey string) error
	AddOrIncrement(ctx context.Context, ownerKey string, line CartLine) ([]CartLine, error)
	UpdateQuantity(ctx context.Context, ownerKey, listingID, size string, quantity int) ([]CartLine, error)
}
