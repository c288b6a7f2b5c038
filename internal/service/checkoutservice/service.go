package checkoutservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/event"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/validator"
)

const (
	deliveryWindow = 7 * 24 * time.Hour
	defaultCountry = "USA"
	minCardDigits  = 13
)

// CartReader é o subconjunto do serviço de carrinho usado no checkout.
type CartReader interface {
	GetCart(ctx context.Context, owner domain.CartOwner) (domain.Cart, error)
	ClearCart(ctx context.Context, owner domain.CartOwner) error
	Totals(lines []domain.CartLine) domain.CartTotals
}

// Service finaliza pedidos a partir do carrinho do dono.
type Service struct {
	carts     CartReader
	orders    domain.OrderRepository
	profiles  domain.ProfileRepository
	publisher event.Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria o serviço de checkout.
func NewService(carts CartReader, orders domain.OrderRepository, profiles domain.ProfileRepository, publisher event.Publisher, log logger.Logger) *Service {
	return &Service{
		carts:     carts,
		orders:    orders,
		profiles:  profiles,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// Quote devolve os totais do carrinho atual.
func (s *Service) Quote(ctx context.Context, owner domain.CartOwner) (domain.CartTotals, error) {
	cart, err := s.carts.GetCart(ctx, owner)
	if err != nil {
		return domain.CartTotals{}, err
	}
	return cart.Totals, nil
}

// PlaceOrder valida os dados, grava o pedido, publica order.placed e esvazia o carrinho.
// Uma falha ao esvaziar o carrinho é registrada e não desfaz o pedido.
func (s *Service) PlaceOrder(ctx context.Context, owner domain.CartOwner, email string, req domain.CheckoutRequest) (domain.Order, error) {
	// 1. Validação do formulário (cartão normalizado como no formulário)
	req.Card = normalizeCard(req.Card)
	if err := validateRequest(req); err != nil {
		return domain.Order{}, err
	}

	// 2. Carrinho
	cart, err := s.carts.GetCart(ctx, owner)
	if err != nil {
		return domain.Order{}, err
	}
	if len(cart.Lines) == 0 {
		return domain.Order{}, apperrors.NewValidationError("O carrinho está vazio.")
	}

	// 3. Montagem do pedido
	order := s.buildOrder(owner, email, req, cart.Lines)

	// 4. Persistência
	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("falha ao gravar pedido: %w", err)
	}

	if e, err := event.NewEvent(event.OrderPlaced, saved.OrderNumber, saved); err != nil {
		s.logger.Warn("Falha ao montar evento order.placed.", map[string]interface{}{"error": err.Error()})
	} else if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("Falha ao publicar order.placed.", map[string]interface{}{"order_number": saved.OrderNumber, "error": err.Error()})
	}

	if err := s.carts.ClearCart(ctx, owner); err != nil {
		s.logger.Warn("Pedido gravado mas o carrinho não foi esvaziado.", map[string]interface{}{
			"order_number": saved.OrderNumber, "error": err.Error(),
		})
	}

	s.logger.Info("Pedido finalizado.", map[string]interface{}{"order_number": saved.OrderNumber, "total": saved.Totals.Total})
	return saved, nil
}

func (s *Service) buildOrder(owner domain.CartOwner, email string, req domain.CheckoutRequest, lines []domain.CartLine) domain.Order {
	now := s.now()

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := domain.OrderItem{
			ListingID: l.ListingID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice(),
		}
		if l.Shoe != nil {
			item.Name, item.Brand, item.Image = l.Shoe.Name, l.Shoe.Brand, l.Shoe.Image
		}
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		items = append(items, item)
	}

	order := domain.Order{
		OrderNumber:       fmt.Sprintf("ORD-%d", now.UnixMilli()),
		UserID:            owner.UserID,
		UserEmail:         email,
		Items:             items,
		Shipping:          req.Shipping,
		PaymentMethod:     req.PaymentMethod,
		Totals:            s.carts.Totals(lines),
		Status:            domain.OrderConfirmed,
		EstimatedDelivery: now.Add(deliveryWindow),
		CreatedAt:         now,
	}
	if order.UserEmail == "" {
		order.UserEmail = req.Shipping.Email
	}
	if order.Shipping.Country == "" {
		order.Shipping.Country = defaultCountry
	}
	if owner.IsGuest() {
		order.CustomerType = "guest"
		order.Notes = "Pedido de visitante, sem conta de usuário"
	} else {
		order.CustomerType = "registered"
		order.Notes = "Pedido de usuário cadastrado"
	}
	return order
}

func validateRequest(req domain.CheckoutRequest) error {
	if err := validator.Validate(req); err != nil {
		return err
	}
	if req.PaymentMethod != domain.PaymentCard {
		return nil
	}
	if req.Card == nil {
		return apperrors.NewValidationError("Dados do cartão são obrigatórios para pagamento com cartão.")
	}
	if err := validator.Validate(*req.Card); err != nil {
		return err
	}
	if len(digits(req.Card.CardNumber)) < minCardDigits {
		return apperrors.NewValidationError("Número do cartão inválido.")
	}
	return nil
}

// normalizeCard aplica ao cartão as mesmas máscaras do formulário, sobre uma cópia.
func normalizeCard(c *domain.CardInfo) *domain.CardInfo {
	if c == nil {
		return nil
	}
	out := *c
	out.CardNumber = FormatCardNumber(c.CardNumber)
	out.ExpiryDate = FormatExpiry(c.ExpiryDate)
	out.CVV = SanitizeCVV(c.CVV)
	out.CardholderName = strings.TrimSpace(c.CardholderName)
	return &out
}

// PrefillShipping copia os dados do perfil para o formulário de entrega.
// Um perfil ausente devolve o formulário vazio com o país padrão.
func (s *Service) PrefillShipping(ctx context.Context, userID string) (domain.ShippingInfo, error) {
	info := domain.ShippingInfo{Country: defaultCountry}
	if userID == "" {
		return info, nil
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return info, nil
		}
		return info, err
	}
	info.FullName = p.Name
	info.Email = p.Email
	info.Phone = p.Phone
	info.Address = p.Address
	info.City = p.City
	info.State = p.State
	info.ZipCode = p.ZipCode
	if p.Country != "" {
		info.Country = p.Country
	}
	return info, nil
}

// FormatCardNumber agrupa os dígitos de 4 em 4 ("4111 1111 1111 1111"), no máximo 19 caracteres.
func FormatCardNumber(s string) string {
	d := digits(s)
	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > 19 {
		out = out[:19]
	}
	return out
}

// FormatExpiry produz MM/YY a partir dos dígitos digitados.
func FormatExpiry(s string) string {
	d := digits(s)
	if len(d) > 4 {
		d = d[:4]
	}
	if len(d) <= 2 {
		return d
	}
	return d[:2] + "/" + d[2:]
}

// SanitizeCVV mantém só dígitos, no máximo 4.
func SanitizeCVV(s string) string {
	d := digits(s)
	if len(d) > 4 {
		d = d[:4]
	}
	return d
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
