package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shoemarket/internal/api/response"
	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
)

// CartService define o contrato que o Handler espera da camada de Serviço.
type CartService interface {
	GetCart(ctx context.Context, owner domain.CartOwner) (domain.Cart, error)
	AddItem(ctx context.Context, owner domain.CartOwner, listingID, size string, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner domain.CartOwner, listingID, size string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, owner domain.CartOwner, listingID, size string) (domain.Cart, error)
	ClearCart(ctx context.Context, owner domain.CartOwner) error
}

// AddItemRequest é o payload de POST /v1/cart/items. Sem quantity, adiciona 1;
// quantity <= 0 remove a linha.
type AddItemRequest struct {
	ListingID string `json:"shoeId"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity"`
}

// QuantityRequest é o payload de PUT /v1/cart/items/{listingId}/{size}.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Handler agrupa os métodos de Handler do carrinho. O dono vem do token, ou da
// sessão de visitante (X-Guest-ID) quando não há token.
type Handler struct {
	Service CartService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc CartService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// GetCartHandler lida com a requisição GET /v1/cart.
// @Summary Carrinho atual (usuário ou visitante)
// @Tags cart
// @Produce json
// @Param X-Guest-ID header string false "Sessão de visitante"
// @Success 200 {object} domain.Cart
// @Router /cart [get]
func (h *Handler) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCart(r.Context(), middleware.CartOwnerFromContext(r.Context()))
	response.Handle(h.Logger, w, r, c, err, http.StatusOK)
}

// AddItemHandler lida com a requisição POST /v1/cart/items.
// @Summary Adiciona (ou incrementa) uma linha do carrinho
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Guest-ID header string false "Sessão de visitante"
// @Param item body AddItemRequest true "Anúncio, tamanho e quantidade"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} domain.ErrorResponse "Tamanho não oferecido ou payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Anúncio não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Carrinho alterado concorrentemente"
// @Router /cart/items [post]
func (h *Handler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	req.ListingID = strings.TrimSpace(req.ListingID)
	req.Size = strings.TrimSpace(req.Size)
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	c, err := h.Service.AddItem(r.Context(), middleware.CartOwnerFromContext(r.Context()), req.ListingID, req.Size, quantity)
	response.Handle(h.Logger, w, r, c, err, http.StatusOK)
}

// UpdateQuantityHandler lida com a requisição PUT /v1/cart/items/{listingId}/{size}.
// @Summary Define a quantidade de uma linha (0 remove)
// @Tags cart
// @Accept json
// @Produce json
// @Param listingId path string true "ID do anúncio"
// @Param size path string true "Tamanho"
// @Param quantity body QuantityRequest true "Nova quantidade"
// @Success 200 {object} domain.Cart
// @Router /cart/items/{listingId}/{size} [put]
func (h *Handler) UpdateQuantityHandler(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	c, err := h.Service.UpdateQuantity(r.Context(), middleware.CartOwnerFromContext(r.Context()),
		chi.URLParam(r, "listingId"), chi.URLParam(r, "size"), req.Quantity)
	response.Handle(h.Logger, w, r, c, err, http.StatusOK)
}

// RemoveItemHandler lida com a requisição DELETE /v1/cart/items/{listingId}/{size}.
// @Summary Remove uma linha do carrinho
// @Tags cart
// @Produce json
// @Param listingId path string true "ID do anúncio"
// @Param size path string true "Tamanho"
// @Success 200 {object} domain.Cart
// @Router /cart/items/{listingId}/{size} [delete]
func (h *Handler) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.RemoveItem(r.Context(), middleware.CartOwnerFromContext(r.Context()),
		chi.URLParam(r, "listingId"), chi.URLParam(r, "size"))
	response.Handle(h.Logger, w, r, c, err, http.StatusOK)
}

// ClearCartHandler lida com a requisição DELETE /v1/cart.
// @Summary Esvazia o carrinho
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (h *Handler) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.ClearCart(r.Context(), middleware.CartOwnerFromContext(r.Context()))
	response.Handle(h.Logger, w, r, nil, err, http.StatusNoContent)
}
