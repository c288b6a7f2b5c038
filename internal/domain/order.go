package domain

import (
	"context"
	"time"
)

// PaymentMethod é a forma de pagamento escolhida no checkout.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentCash   PaymentMethod = "cash"
)

// ShippingInfo são os dados de entrega do pedido.
type ShippingInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	ZipCode  string `json:"zipCode" validate:"required"`
	Country  string `json:"country"`
}

// CardInfo são os dados do cartão. Nunca são persistidos.
type CardInfo struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpiryDate     string `json:"expiryDate" validate:"required"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	CardholderName string `json:"cardholderName" validate:"required"`
}

// CheckoutRequest é o payload de finalização da compra.
type CheckoutRequest struct {
	Shipping      ShippingInfo  `json:"shippingInfo"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=card paypal cash"`
	Card          *CardInfo     `json:"cardInfo,omitempty" validate:"-"`
}

// OrderItem é uma linha do pedido com os dados do anúncio congelados.
type OrderItem struct {
	ListingID  string  `json:"shoeId"`
	Name       string  `json:"shoeName"`
	Brand      string  `json:"shoeBrand"`
	Image      string  `json:"shoeImage,omitempty"`
	Size       string  `json:"size"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// OrderStatus representa o estado do pedido.
type OrderStatus string

const OrderConfirmed OrderStatus = "confirmed"

// Order é o pedido gerado no checkout.
type Order struct {
	ID                string        `json:"id"`
	OrderNumber       string        `json:"orderNumber"`
	UserID            string        `json:"userId"`
	UserEmail         string        `json:"userEmail"`
	CustomerType      string        `json:"customerType"`
	Items             []OrderItem   `json:"items"`
	Shipping          ShippingInfo  `json:"shippingInfo"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	Totals            CartTotals    `json:"totals"`
	Status            OrderStatus   `json:"status"`
	Notes             string        `json:"notes,omitempty"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// OrderRepository define o contrato de persistência de pedidos.
type OrderRepository interface {
	Save(ctx context.Context, order Order) (Order, error)
}
