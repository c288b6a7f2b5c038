package checkoutservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/event"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/service/cartservice"
	"shoemarket/internal/service/checkoutservice"
)

// MockCartReader é uma implementação mock de checkoutservice.CartReader
type MockCartReader struct {
	mock.Mock
}

func (m *MockCartReader) GetCart(ctx context.Context, owner domain.CartOwner) (domain.Cart, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockCartReader) ClearCart(ctx context.Context, owner domain.CartOwner) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *MockCartReader) Totals(lines []domain.CartLine) domain.CartTotals {
	return cartservice.DefaultPricing().Totals(lines)
}

// MockOrderRepository é uma implementação mock de domain.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	args := m.Called(ctx, o)
	if fn, ok := args.Get(0).(func(context.Context, domain.Order) domain.Order); ok {
		return fn(ctx, o), args.Error(1)
	}
	return args.Get(0).(domain.Order), args.Error(1)
}

// MockProfileRepository cobre apenas GetProfile; os demais métodos não são usados no checkout.
type MockProfileRepository struct {
	mock.Mock
	domain.ProfileRepository
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Profile), args.Error(1)
}

type recordingPublisher struct{ events []event.Event }

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func shipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FullName: "Ana Souza", Email: "ana@example.com", Phone: "5551234", Address: "Rua A, 1",
		City: "Recife", State: "PE", ZipCode: "50000-000",
	}
}

func cartWith(lines ...domain.CartLine) domain.Cart {
	return domain.Cart{Lines: lines, Totals: cartservice.DefaultPricing().Totals(lines)}
}

type deps struct {
	svc      *checkoutservice.Service
	carts    *MockCartReader
	orders   *MockOrderRepository
	profiles *MockProfileRepository
	pub      *recordingPublisher
}

func setup() deps {
	d := deps{carts: new(MockCartReader), orders: new(MockOrderRepository), profiles: new(MockProfileRepository), pub: &recordingPublisher{}}
	d.svc = checkoutservice.NewService(d.carts, d.orders, d.profiles, d.pub, logger.NewLogger("error"))
	return d
}

var guest = domain.CartOwner{GuestID: "g1"}

func TestPlaceOrder_GuestCash(t *testing.T) {
	d := setup()
	line := domain.CartLine{ListingID: "s1", Size: "9", Quantity: 2, Shoe: &domain.ListingSnapshot{Name: "Air", Brand: "Nike", Price: 30}}
	d.carts.On("GetCart", mock.Anything, guest).Return(cartWith(line), nil)
	d.carts.On("ClearCart", mock.Anything, guest).Return(nil).Once()
	d.orders.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, o domain.Order) domain.Order { return o }, nil)

	order, err := d.svc.PlaceOrder(context.Background(), guest, "", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: domain.PaymentCash})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, "guest", order.CustomerType)
	assert.Equal(t, "ana@example.com", order.UserEmail)
	assert.Equal(t, "USA", order.Shipping.Country)
	assert.Equal(t, domain.OrderConfirmed, order.Status)
	assert.Equal(t, 60.0, order.Items[0].TotalPrice)
	assert.Equal(t, "Air", order.Items[0].Name)
	assert.Equal(t, 9.99, order.Totals.Shipping)
	assert.Equal(t, 7*24.0, order.EstimatedDelivery.Sub(order.CreatedAt).Hours())
	require.Len(t, d.pub.events, 1)
	assert.Equal(t, event.OrderPlaced, d.pub.events[0].EventType)
	d.carts.AssertExpectations(t)
}

func TestPlaceOrder_ClearFailureDoesNotFailOrder(t *testing.T) {
	d := setup()
	owner := domain.CartOwner{UserID: "u1"}
	d.carts.On("GetCart", mock.Anything, owner).Return(cartWith(domain.CartLine{ListingID: "s1", Quantity: 1}), nil)
	d.carts.On("ClearCart", mock.Anything, owner).Return(errors.New("perfil indisponível"))
	d.orders.On("Save", mock.Anything, mock.Anything).Return(domain.Order{OrderNumber: "ORD-1", CustomerType: "registered"}, nil)

	order, err := d.svc.PlaceOrder(context.Background(), owner, "u1@example.com", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: domain.PaymentPayPal})

	require.NoError(t, err)
	assert.Equal(t, "registered", order.CustomerType)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	d := setup()
	d.carts.On("GetCart", mock.Anything, guest).Return(cartWith(), nil)

	_, err := d.svc.PlaceOrder(context.Background(), guest, "", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: domain.PaymentCash})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
	d.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPlaceOrder_Validation(t *testing.T) {
	card := func(number, cvv string) *domain.CardInfo {
		return &domain.CardInfo{CardNumber: number, ExpiryDate: "12/30", CVV: cvv, CardholderName: "ANA"}
	}
	badEmail := shipping()
	badEmail.Email = "ana@"
	noCity := shipping()
	noCity.City = ""

	tests := []struct {
		name string
		req  domain.CheckoutRequest
	}{
		{"e-mail inválido", domain.CheckoutRequest{Shipping: badEmail, PaymentMethod: domain.PaymentCash}},
		{"sem cidade", domain.CheckoutRequest{Shipping: noCity, PaymentMethod: domain.PaymentCash}},
		{"método desconhecido", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: "pix"}},
		{"cartão ausente", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: domain.PaymentCard}},
		{"cartão curto", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: domain.PaymentCard, Card: card("4111 1111 1111", "123")}},
		{"cvv curto", domain.CheckoutRequest{Shipping: shipping(), PaymentMethod: domain.PaymentCard, Card: card("4111 1111 1111 1111", "12")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := setup()
			_, err := d.svc.PlaceOrder(context.Background(), guest, "", tc.req)

			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
			d.carts.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceOrder_ValidCard(t *testing.T) {
	d := setup()
	d.carts.On("GetCart", mock.Anything, guest).Return(cartWith(domain.CartLine{ListingID: "s1", Quantity: 1}), nil)
	d.carts.On("ClearCart", mock.Anything, guest).Return(nil)
	d.orders.On("Save", mock.Anything, mock.Anything).Return(domain.Order{OrderNumber: "ORD-9"}, nil)

	_, err := d.svc.PlaceOrder(context.Background(), guest, "", domain.CheckoutRequest{
		Shipping:      shipping(),
		PaymentMethod: domain.PaymentCard,
		Card:          &domain.CardInfo{CardNumber: "4111 1111 1111 1111", ExpiryDate: "12/30", CVV: "123", CardholderName: "ANA"},
	})

	assert.NoError(t, err)
}

func TestPlaceOrder_CardTypedWithSeparators(t *testing.T) {
	d := setup()
	d.carts.On("GetCart", mock.Anything, guest).Return(cartWith(domain.CartLine{ListingID: "s1", Quantity: 1}), nil)
	d.carts.On("ClearCart", mock.Anything, guest).Return(nil)
	d.orders.On("Save", mock.Anything, mock.Anything).Return(domain.Order{OrderNumber: "ORD-10"}, nil)

	card := &domain.CardInfo{CardNumber: "4111-1111-1111-1111", ExpiryDate: "1230", CVV: " 123 ", CardholderName: " ANA "}
	_, err := d.svc.PlaceOrder(context.Background(), guest, "", domain.CheckoutRequest{
		Shipping:      shipping(),
		PaymentMethod: domain.PaymentCard,
		Card:          card,
	})

	require.NoError(t, err)
	assert.Equal(t, " 123 ", card.CVV, "o cartão do chamador não é alterado")
}

func TestPlaceOrder_CardMaskedShortCVVStillRejected(t *testing.T) {
	d := setup()
	_, err := d.svc.PlaceOrder(context.Background(), guest, "", domain.CheckoutRequest{
		Shipping:      shipping(),
		PaymentMethod: domain.PaymentCard,
		Card:          &domain.CardInfo{CardNumber: "4111-1111-1111-1111", ExpiryDate: "12/30", CVV: "1 2", CardholderName: "ANA"},
	})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
	d.carts.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
}

func TestPrefillShipping(t *testing.T) {
	d := setup()
	d.profiles.On("GetProfile", mock.Anything, "u1").Return(domain.Profile{Name: "Ana", Email: "ana@example.com", City: "Recife"}, nil)
	d.profiles.On("GetProfile", mock.Anything, "u2").Return(domain.Profile{}, apperrors.NewNotFoundError("u2"))

	info, err := d.svc.PrefillShipping(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", info.FullName)
	assert.Equal(t, "Recife", info.City)
	assert.Equal(t, "USA", info.Country)

	info, err = d.svc.PrefillShipping(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.ShippingInfo{Country: "USA"}, info)
}

func TestCardHelpers(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", checkoutservice.FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 1111 1111 1111", checkoutservice.FormatCardNumber("4111-1111-1111-1111-999"))
	assert.Equal(t, "4111 11", checkoutservice.FormatCardNumber("411111"))
	assert.Equal(t, "12/30", checkoutservice.FormatExpiry("1230"))
	assert.Equal(t, "12/30", checkoutservice.FormatExpiry("12/309"))
	assert.Equal(t, "1", checkoutservice.FormatExpiry("1"))
	assert.Equal(t, "123", checkoutservice.SanitizeCVV("1a2b3"))
	assert.Equal(t, "1234", checkoutservice.SanitizeCVV("12345"))
}
