package cartservice

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/event"
	"shoemarket/internal/pkg/logger"
)

// ListingLookup resolve um anúncio pelo ID (implementado pelo serviço de catálogo).
type ListingLookup interface {
	Lookup(ctx context.Context, id string) (domain.Listing, error)
}

// Pricing são as regras de frete e imposto aplicadas aos totais.
type Pricing struct {
	FreeShippingThreshold float64
	FlatShipping          float64
	TaxRate               float64
}

// DefaultPricing: frete grátis acima de 100, senão 9.99; imposto de 8%.
func DefaultPricing() Pricing {
	return Pricing{FreeShippingThreshold: 100, FlatShipping: 9.99, TaxRate: 0.08}
}

// Totals calcula os totais das linhas. Um carrinho vazio tem todos os valores zerados.
func (p Pricing) Totals(lines []domain.CartLine) domain.CartTotals {
	var t domain.CartTotals
	for _, l := range lines {
		t.ItemCount += l.Quantity
		t.Subtotal += l.UnitPrice() * float64(l.Quantity)
	}
	if t.ItemCount == 0 {
		return domain.CartTotals{}
	}
	if t.Subtotal <= p.FreeShippingThreshold {
		t.Shipping = p.FlatShipping
	}
	t.Subtotal = roundCents(t.Subtotal)
	t.Tax = roundCents(t.Subtotal * p.TaxRate)
	t.Total = roundCents(t.Subtotal + t.Shipping + t.Tax)
	return t
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Service seleciona o carrinho do dono (usuário ou visitante) e aplica as regras de carrinho.
type Service struct {
	guest     domain.CartRepository
	user      domain.CartRepository
	listings  ListingLookup
	pricing   Pricing
	publisher event.Publisher
	logger    logger.Logger
}

// NewService cria o serviço de carrinho. guest e user são os dois armazenamentos do carrinho.
func NewService(guest, user domain.CartRepository, listings ListingLookup, pricing Pricing, publisher event.Publisher, log logger.Logger) *Service {
	return &Service{
		guest:     guest,
		user:      user,
		listings:  listings,
		pricing:   pricing,
		publisher: publisher,
		logger:    log,
	}
}

func (s *Service) store(owner domain.CartOwner) (domain.CartRepository, error) {
	if owner.IsGuest() {
		if owner.GuestID == "" {
			return nil, apperrors.NewValidationError("Sessão de visitante ausente.")
		}
		return s.guest, nil
	}
	return s.user, nil
}

// Totals expõe as regras de preço para o checkout.
func (s *Service) Totals(lines []domain.CartLine) domain.CartTotals {
	return s.pricing.Totals(lines)
}

// GetCart carrega o carrinho. Linhas de usuário são atualizadas com os dados atuais do
// anúncio; linhas cujo anúncio não existe mais são descartadas.
func (s *Service) GetCart(ctx context.Context, owner domain.CartOwner) (domain.Cart, error) {
	store, err := s.store(owner)
	if err != nil {
		return domain.Cart{}, err
	}
	lines, err := store.Load(ctx, owner.Key())
	if err != nil {
		return s.view(owner, []domain.CartLine{}), err
	}
	if !owner.IsGuest() {
		lines = s.hydrate(ctx, lines)
	}
	return s.view(owner, lines), nil
}

func (s *Service) hydrate(ctx context.Context, lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		listing, err := s.listings.Lookup(ctx, l.ListingID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			s.logger.Warn("Falha ao atualizar linha do carrinho, mantendo snapshot.", map[string]interface{}{
				"listing_id": l.ListingID, "error": err.Error(),
			})
			out = append(out, l)
			continue
		}
		snap := listing.Snapshot()
		l.Shoe = &snap
		out = append(out, l)
	}
	return out
}

// AddItem adiciona (ou incrementa) a linha (anúncio, tamanho). O anúncio precisa existir
// e oferecer o tamanho pedido.
func (s *Service) AddItem(ctx context.Context, owner domain.CartOwner, listingID, size string, quantity int) (domain.Cart, error) {
	store, err := s.store(owner)
	if err != nil {
		return domain.Cart{}, err
	}
	size = canonicalSize(size)
	if listingID == "" || size == "" {
		return domain.Cart{}, apperrors.NewValidationError("Anúncio e tamanho são obrigatórios.")
	}

	line := domain.CartLine{ListingID: listingID, Size: size, Quantity: quantity}
	if quantity > 0 {
		listing, err := s.listings.Lookup(ctx, listingID)
		if err != nil {
			return domain.Cart{}, err
		}
		if !offersSize(listing, size) {
			return domain.Cart{}, apperrors.NewValidationError(fmt.Sprintf("O tamanho %s não está disponível para este anúncio.", size))
		}
		snap := listing.Snapshot()
		line.Shoe = &snap
	}

	lines, err := store.AddOrIncrement(ctx, owner.Key(), line)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.view(owner, lines), nil
}

// canonicalSize grava tamanhos numéricos numa forma única ("9.0" e "09" viram "9"),
// para que a identidade (anúncio, tamanho) não dependa da grafia.
func canonicalSize(size string) string {
	size = strings.TrimSpace(size)
	v, err := strconv.ParseFloat(size, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return size
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// offersSize aceita qualquer tamanho quando o anúncio não informa tamanhos.
func offersSize(l domain.Listing, size string) bool {
	if len(l.Sizes) == 0 {
		return true
	}
	v, err := strconv.ParseFloat(size, 64)
	if err != nil {
		return false
	}
	return l.HasSize(v)
}

// UpdateQuantity define a quantidade da linha; <= 0 remove.
func (s *Service) UpdateQuantity(ctx context.Context, owner domain.CartOwner, listingID, size string, quantity int) (domain.Cart, error) {
	store, err := s.store(owner)
	if err != nil {
		return domain.Cart{}, err
	}
	lines, err := store.UpdateQuantity(ctx, owner.Key(), listingID, canonicalSize(size), quantity)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.view(owner, lines), nil
}

// RemoveItem remove a linha. Uma linha inexistente não é erro.
func (s *Service) RemoveItem(ctx context.Context, owner domain.CartOwner, listingID, size string) (domain.Cart, error) {
	return s.UpdateQuantity(ctx, owner, listingID, size, 0)
}

// ClearCart esvazia o carrinho e publica cart.cleared.
func (s *Service) ClearCart(ctx context.Context, owner domain.CartOwner) error {
	store, err := s.store(owner)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx, owner.Key()); err != nil {
		return err
	}

	e, err := event.NewEvent(event.CartCleared, owner.Key(), map[string]bool{"guest": owner.IsGuest()})
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.Warn("Falha ao publicar cart.cleared.", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *Service) view(owner domain.CartOwner, lines []domain.CartLine) domain.Cart {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return domain.Cart{Lines: lines, Totals: s.pricing.Totals(lines), Guest: owner.IsGuest()}
}
