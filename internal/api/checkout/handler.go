package checkout

import (
	"context"
	"net/http"

	"shoemarket/internal/api/response"
	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
)

// CheckoutService define o contrato que o Handler espera da camada de Serviço.
type CheckoutService interface {
	Quote(ctx context.Context, owner domain.CartOwner) (domain.CartTotals, error)
	PlaceOrder(ctx context.Context, owner domain.CartOwner, email string, req domain.CheckoutRequest) (domain.Order, error)
	PrefillShipping(ctx context.Context, userID string) (domain.ShippingInfo, error)
}

// Handler agrupa os métodos de Handler do checkout.
type Handler struct {
	Service CheckoutService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc CheckoutService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// QuoteHandler lida com a requisição GET /v1/checkout/quote.
// @Summary Totais do carrinho (subtotal, frete, imposto)
// @Tags checkout
// @Produce json
// @Param X-Guest-ID header string false "Sessão de visitante"
// @Success 200 {object} domain.CartTotals
// @Router /checkout/quote [get]
func (h *Handler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.Quote(r.Context(), middleware.CartOwnerFromContext(r.Context()))
	response.Handle(h.Logger, w, r, totals, err, http.StatusOK)
}

// PlaceOrderHandler lida com a requisição POST /v1/checkout.
// @Summary Finaliza a compra do carrinho atual
// @Description Visitantes podem comprar; o e-mail de contato vem do token ou dos dados de entrega.
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Guest-ID header string false "Sessão de visitante"
// @Param checkout body domain.CheckoutRequest true "Entrega e pagamento"
// @Success 201 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Carrinho vazio ou formulário inválido"
// @Router /checkout [post]
func (h *Handler) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusCreated)
		return
	}

	var email string
	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		email = claims.Email
	}

	order, err := h.Service.PlaceOrder(r.Context(), middleware.CartOwnerFromContext(r.Context()), email, req)
	response.Handle(h.Logger, w, r, order, err, http.StatusCreated)
}

// PrefillHandler lida com a requisição GET /v1/checkout/shipping.
// @Summary Dados de entrega pré-preenchidos a partir do perfil
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ShippingInfo
// @Router /checkout/shipping [get]
func (h *Handler) PrefillHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Handle(h.Logger, w, r, nil, apperror.NewUnauthorizedError("Autenticação necessária."), http.StatusOK)
		return
	}

	info, err := h.Service.PrefillShipping(r.Context(), claims.UserID)
	response.Handle(h.Logger, w, r, info, err, http.StatusOK)
}
