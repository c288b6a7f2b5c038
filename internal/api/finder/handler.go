package finder

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"shoemarket/internal/api/response"
	"shoemarket/internal/catalog"
	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/service/catalogservice"
)

// DefaultQuestionCount é o número de perguntas sorteadas quando n não é informado.
const DefaultQuestionCount = 5

// Browser é o subconjunto do serviço de catálogo usado pelo assistente.
type Browser interface {
	Browse(ctx context.Context, req catalogservice.BrowseRequest) (catalogservice.BrowseResult, error)
}

// FindRequest são as respostas do assistente: ID da pergunta → valores escolhidos.
type FindRequest struct {
	Answers map[string][]string `json:"answers"`
	Sort    string              `json:"sort"`
}

// FindResponse devolve o filtro montado junto com o resultado da busca.
type FindResponse struct {
	Filter domain.FilterSpec           `json:"filter"`
	Result catalogservice.BrowseResult `json:"result"`
}

// Handler serve o Shoe Finder.
type Handler struct {
	Catalog Browser
	Logger  logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHandler cria o handler com um gerador próprio (rand.Rand não é seguro para uso concorrente).
func NewHandler(catalog Browser, log logger.Logger) *Handler {
	return NewHandlerWithRand(catalog, log, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewHandlerWithRand permite fixar a semente (testes).
func NewHandlerWithRand(catalog Browser, log logger.Logger, rng *rand.Rand) *Handler {
	return &Handler{Catalog: catalog, Logger: log, rng: rng}
}

// QuestionsHandler lida com a requisição GET /v1/finder/questions.
// @Summary Sorteia as perguntas do assistente de busca
// @Tags finder
// @Produce json
// @Param n query int false "Quantidade de perguntas (padrão 5)"
// @Success 200 {array} catalog.Question
// @Router /finder/questions [get]
func (h *Handler) QuestionsHandler(w http.ResponseWriter, r *http.Request) {
	n := DefaultQuestionCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			n = v
		}
	}

	h.mu.Lock()
	questions := catalog.SelectQuestions(n, h.rng)
	h.mu.Unlock()

	response.Handle(h.Logger, w, r, questions, nil, http.StatusOK)
}

// FindHandler lida com a requisição POST /v1/finder.
// @Summary Converte as respostas em filtro e executa a busca
// @Tags finder
// @Accept json
// @Produce json
// @Param answers body FindRequest true "Respostas por pergunta"
// @Success 200 {object} FindResponse
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Router /finder [post]
func (h *Handler) FindHandler(w http.ResponseWriter, r *http.Request) {
	var req FindRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	spec := catalog.BuildFinderFilter(req.Answers)
	result, err := h.Catalog.Browse(r.Context(), catalogservice.BrowseRequest{
		Filter: spec,
		Sort:   catalog.ParseSortKey(req.Sort),
	})
	response.Handle(h.Logger, w, r, FindResponse{Filter: spec, Result: result}, err, http.StatusOK)
}
