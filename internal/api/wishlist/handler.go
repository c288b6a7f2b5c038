package wishlist

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shoemarket/internal/api/response"
	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
)

// WishlistService define o contrato que o Handler espera da camada de Serviço.
type WishlistService interface {
	Toggle(ctx context.Context, userID, listingID string) (bool, error)
	List(ctx context.Context, userID string) ([]domain.Listing, error)
}

// ToggleResponse informa o estado resultante.
type ToggleResponse struct {
	ListingID string `json:"shoeId"`
	Liked     bool   `json:"liked"`
}

type Handler struct {
	Service WishlistService
	Logger  logger.Logger
}

func NewHandler(svc WishlistService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func userID(r *http.Request) (string, error) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		return "", apperror.NewUnauthorizedError("Autenticação necessária.")
	}
	return claims.UserID, nil
}

// ListHandler lida com a requisição GET /v1/wishlist.
// @Summary Lista de desejos hidratada com os anúncios
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Listing
// @Router /wishlist [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	listings, err := h.Service.List(r.Context(), uid)
	response.Handle(h.Logger, w, r, listings, err, http.StatusOK)
}

// ToggleHandler lida com a requisição POST /v1/wishlist/{listingId}/toggle.
// @Summary Marca ou desmarca o anúncio como desejado
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param listingId path string true "ID do anúncio"
// @Success 200 {object} ToggleResponse
// @Router /wishlist/{listingId}/toggle [post]
func (h *Handler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	listingID := chi.URLParam(r, "listingId")
	liked, err := h.Service.Toggle(r.Context(), uid, listingID)
	response.Handle(h.Logger, w, r, ToggleResponse{ListingID: listingID, Liked: liked}, err, http.StatusOK)
}
