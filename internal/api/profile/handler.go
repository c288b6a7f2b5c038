package profile

import (
	"context"
	"net/http"

	"shoemarket/internal/api/response"
	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
)

// ProfileService define o contrato que o Handler espera da camada de Serviço.
type ProfileService interface {
	GetOrCreate(ctx context.Context, id domain.Identity) (domain.Profile, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error)
	Stats(ctx context.Context, userID string) (domain.ProfileStats, error)
}

// Handler agrupa os métodos de Handler do perfil.
type Handler struct {
	Service ProfileService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc ProfileService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func identity(r *http.Request) (domain.Identity, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return domain.Identity{}, apperror.NewUnauthorizedError("Autenticação necessária.")
	}
	return id, nil
}

// MeHandler lida com a requisição GET /v1/me.
// @Summary Perfil do usuário autenticado (criado na primeira visita)
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Router /me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	p, err := h.Service.GetOrCreate(r.Context(), id)
	response.Handle(h.Logger, w, r, p, err, http.StatusOK)
}

// UpdateHandler lida com a requisição PATCH /v1/me.
// @Summary Atualização parcial do perfil
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body domain.ProfileUpdate true "Campos a alterar"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} domain.ErrorResponse "Nenhum campo ou nome vazio"
// @Router /me [patch]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	var update domain.ProfileUpdate
	if err := response.Decode(w, r, &update); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	p, err := h.Service.Update(r.Context(), id.UserID, update)
	response.Handle(h.Logger, w, r, p, err, http.StatusOK)
}

// StatsHandler lida com a requisição GET /v1/me/stats.
// @Summary Números do perfil (anúncios, valor, carrinho, desejos)
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ProfileStats
// @Router /me/stats [get]
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}
	stats, err := h.Service.Stats(r.Context(), id.UserID)
	response.Handle(h.Logger, w, r, stats, err, http.StatusOK)
}
