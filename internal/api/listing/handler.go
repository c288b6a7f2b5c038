package listing

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"shoemarket/internal/api/response"
	"shoemarket/internal/catalog"
	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
	"shoemarket/internal/service/catalogservice"
)

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	Browse(ctx context.Context, req catalogservice.BrowseRequest) (catalogservice.BrowseResult, error)
	Facets(ctx context.Context) domain.Facets
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	CreateListing(ctx context.Context, seller domain.Identity, in domain.ListingInput) (domain.Listing, error)
	UpdateListing(ctx context.Context, actor domain.Identity, id string, in domain.ListingInput) (domain.Listing, error)
	DeleteListing(ctx context.Context, actor domain.Identity, id string) error
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error)
}

// Handler agrupa todos os métodos de Handler de anúncios.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ParseBrowseQuery monta a consulta a partir da query string. Dimensões de conjunto aceitam
// o parâmetro repetido ou valores separados por vírgula.
func ParseBrowseQuery(q url.Values) (catalogservice.BrowseRequest, error) {
	spec := catalog.DefaultFilter()
	spec.Brands = list(q, "brand")
	spec.Conditions = list(q, "condition")
	spec.Categories = list(q, "category")
	spec.Colors = list(q, "color")
	spec.Materials = list(q, "material")
	spec.Genders = list(q, "gender")
	spec.AgeGroups = list(q, "ageGroup")
	spec.Seasons = list(q, "season")
	spec.Styles = list(q, "style")

	for _, raw := range list(q, "size") {
		size, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(size) {
			return catalogservice.BrowseRequest{}, apperror.NewValidationError(fmt.Sprintf("Tamanho inválido: %q.", raw))
		}
		spec.Sizes = append(spec.Sizes, size)
	}

	var err error
	if spec.PriceRange.Min, err = floatParam(q, "minPrice"); err != nil {
		return catalogservice.BrowseRequest{}, err
	}
	if raw := strings.TrimSpace(q.Get("maxPrice")); raw != "" {
		hi, err := floatParam(q, "maxPrice")
		if err != nil {
			return catalogservice.BrowseRequest{}, err
		}
		spec.PriceRange.Max = &hi
	}
	if spec.MinRating, err = floatParam(q, "rating"); err != nil {
		return catalogservice.BrowseRequest{}, err
	}
	if spec.Featured, err = boolParam(q, "featured"); err != nil {
		return catalogservice.BrowseRequest{}, err
	}
	if spec.InStock, err = boolParam(q, "inStock"); err != nil {
		return catalogservice.BrowseRequest{}, err
	}

	return catalogservice.BrowseRequest{
		Search: strings.TrimSpace(q.Get("q")),
		Filter: spec,
		Sort:   catalog.ParseSortKey(q.Get("sort")),
	}, nil
}

func list(q url.Values, key string) []string {
	out := []string{}
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func floatParam(q url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) || v < 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("Parâmetro %s inválido: %q.", key, raw))
	}
	return v, nil
}

// finite rejeita NaN e ±Inf, que ParseFloat aceita ("NaN", "Inf", "1e999").
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func boolParam(q url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.NewValidationError(fmt.Sprintf("Parâmetro %s inválido: %q.", key, raw))
	}
	return v, nil
}

func (h *Handler) actor(r *http.Request) (domain.Identity, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return domain.Identity{}, apperror.NewUnauthorizedError("Autenticação necessária.")
	}
	return id, nil
}

// BrowseHandler lida com a requisição GET /v1/listings.
// @Summary Lista o catálogo com filtros e ordenação
// @Tags listings
// @Produce json
// @Param q query string false "Busca textual (nome, marca, descrição, tags)"
// @Param sort query string false "newest, oldest, priceLow, priceHigh, rating, popular, nameAZ, nameZA, featured"
// @Param brand query []string false "Marcas" collectionFormat(multi)
// @Param size query []number false "Tamanhos" collectionFormat(multi)
// @Param minPrice query number false "Preço mínimo"
// @Param maxPrice query number false "Preço máximo"
// @Param rating query number false "Avaliação mínima"
// @Param featured query bool false "Apenas destaques"
// @Param inStock query bool false "Apenas em estoque"
// @Success 200 {object} catalogservice.BrowseResult
// @Failure 400 {object} domain.ErrorResponse "Parâmetro inválido"
// @Failure 503 {object} domain.ErrorResponse "Feed do catálogo indisponível"
// @Router /listings [get]
func (h *Handler) BrowseHandler(w http.ResponseWriter, r *http.Request) {
	req, err := ParseBrowseQuery(r.URL.Query())
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	result, err := h.Service.Browse(r.Context(), req)
	response.Handle(h.Logger, w, r, result, err, http.StatusOK)
}

// FacetsHandler lida com a requisição GET /v1/listings/facets.
// @Summary Valores disponíveis por dimensão de filtro
// @Tags listings
// @Produce json
// @Success 200 {object} domain.Facets
// @Router /listings/facets [get]
func (h *Handler) FacetsHandler(w http.ResponseWriter, r *http.Request) {
	response.Handle(h.Logger, w, r, h.Service.Facets(r.Context()), nil, http.StatusOK)
}

// GetListingHandler lida com a requisição GET /v1/listings/{id}.
// @Summary Detalhe do anúncio
// @Tags listings
// @Produce json
// @Param id path string true "ID do anúncio"
// @Success 200 {object} domain.Listing
// @Failure 404 {object} domain.ErrorResponse "Anúncio não encontrado"
// @Router /listings/{id} [get]
func (h *Handler) GetListingHandler(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.GetListing(r.Context(), chi.URLParam(r, "id"))
	response.Handle(h.Logger, w, r, l, err, http.StatusOK)
}

// CreateListingHandler lida com a requisição POST /v1/listings.
// @Summary Cria um anúncio
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listing body domain.ListingInput true "Formulário do anúncio"
// @Success 201 {object} domain.Listing
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Router /listings [post]
func (h *Handler) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	seller, err := h.actor(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusCreated)
		return
	}

	var in domain.ListingInput
	if err := response.Decode(w, r, &in); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusCreated)
		return
	}

	l, err := h.Service.CreateListing(r.Context(), seller, in)
	response.Handle(h.Logger, w, r, l, err, http.StatusCreated)
}

// UpdateListingHandler lida com a requisição PUT /v1/listings/{id}.
// @Summary Edita um anúncio (apenas o dono)
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do anúncio"
// @Param listing body domain.ListingInput true "Formulário do anúncio"
// @Success 200 {object} domain.Listing
// @Failure 403 {object} domain.ErrorResponse "Não é o dono do anúncio"
// @Failure 404 {object} domain.ErrorResponse "Anúncio não encontrado"
// @Router /listings/{id} [put]
func (h *Handler) UpdateListingHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	var in domain.ListingInput
	if err := response.Decode(w, r, &in); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	l, err := h.Service.UpdateListing(r.Context(), actor, chi.URLParam(r, "id"), in)
	response.Handle(h.Logger, w, r, l, err, http.StatusOK)
}

// DeleteListingHandler lida com a requisição DELETE /v1/listings/{id}.
// @Summary Remove um anúncio (dono ou admin)
// @Tags listings
// @Security BearerAuth
// @Param id path string true "ID do anúncio"
// @Success 204
// @Failure 403 {object} domain.ErrorResponse "Sem permissão"
// @Router /listings/{id} [delete]
func (h *Handler) DeleteListingHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.DeleteListing(r.Context(), actor, chi.URLParam(r, "id"))
	response.Handle(h.Logger, w, r, nil, err, http.StatusNoContent)
}

// MyListingsHandler lida com a requisição GET /v1/me/listings.
// @Summary Anúncios do usuário autenticado
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Listing
// @Router /me/listings [get]
func (h *Handler) MyListingsHandler(w http.ResponseWriter, r *http.Request) {
	seller, err := h.actor(r)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	listings, err := h.Service.ListBySeller(r.Context(), seller.UserID)
	response.Handle(h.Logger, w, r, listings, err, http.StatusOK)
}
