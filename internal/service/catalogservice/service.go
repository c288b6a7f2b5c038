package catalogservice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shoemarket/internal/catalog"
	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/validator"
)

var (
	snapshotSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shoemarket",
		Name:      "catalog_snapshot_listings",
		Help:      "Number of listings in the current catalog snapshot.",
	})
	feedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shoemarket",
		Name:      "catalog_feed_errors_total",
		Help:      "Total number of errors reported by the listing feed.",
	})
)

// BrowseRequest é a consulta ao catálogo. Search, quando preenchido, substitui Filter.Search.
type BrowseRequest struct {
	Search string
	Filter domain.FilterSpec
	Sort   domain.SortKey
}

// BrowseResult é a resposta da listagem. Stale indica que o feed está em erro e o
// resultado vem do último snapshot recebido.
type BrowseResult struct {
	Listings      []domain.Listing `json:"listings"`
	Total         int              `json:"total"`
	ActiveFilters int              `json:"activeFilters"`
	Facets        domain.Facets    `json:"facets"`
	Stale         bool             `json:"stale"`
}

// Service mantém o snapshot do catálogo em memória e executa o caminho de escrita dos anúncios.
type Service struct {
	feed   domain.ListingFeed
	repo   domain.ListingRepository
	logger logger.Logger

	mu          sync.RWMutex
	snapshot    []domain.Listing
	loaded      bool
	feedErr     error
	unsubscribe func()
}

// NewService cria o serviço de catálogo.
func NewService(feed domain.ListingFeed, repo domain.ListingRepository, log logger.Logger) *Service {
	return &Service{feed: feed, repo: repo, logger: log, snapshot: []domain.Listing{}}
}

// Start assina o feed. Cada snapshot substitui o conjunto anterior por inteiro.
func (s *Service) Start(ctx context.Context) error {
	unsubscribe, err := s.feed.Subscribe(ctx, s.onSnapshot, s.onError)
	if err != nil {
		return apperrors.NewUnavailableError("feed de anúncios", err)
	}
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	return nil
}

// Stop cancela a inscrição no feed.
func (s *Service) Stop() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Service) onSnapshot(listings []domain.Listing) {
	if listings == nil {
		listings = []domain.Listing{}
	}
	s.mu.Lock()
	s.snapshot = listings
	s.loaded = true
	s.feedErr = nil
	s.mu.Unlock()

	snapshotSize.Set(float64(len(listings)))
	s.logger.Debug("Snapshot do catálogo atualizado.", map[string]interface{}{"listings": len(listings)})
}

func (s *Service) onError(err error) {
	s.mu.Lock()
	s.feedErr = err
	s.mu.Unlock()

	feedErrors.Inc()
	s.logger.Warn("Feed de anúncios reportou erro.", map[string]interface{}{"error": err.Error()})
}

func (s *Service) current() ([]domain.Listing, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.loaded, s.feedErr
}

// Browse filtra e ordena o snapshot atual.
func (s *Service) Browse(_ context.Context, req BrowseRequest) (BrowseResult, error) {
	spec := req.Filter
	if req.Search != "" {
		spec.Search = req.Search
	}

	listings, loaded, feedErr := s.current()
	if feedErr != nil && !loaded {
		return BrowseResult{Listings: []domain.Listing{}}, apperrors.NewUnavailableError("feed de anúncios", feedErr)
	}

	result := catalog.Apply(listings, spec, req.Sort)
	return BrowseResult{
		Listings:      result,
		Total:         len(result),
		ActiveFilters: catalog.ActiveFilterCount(spec),
		Facets:        catalog.BuildFacets(listings),
		Stale:         feedErr != nil,
	}, nil
}

// Facets devolve os valores disponíveis por dimensão no snapshot atual.
func (s *Service) Facets(_ context.Context) domain.Facets {
	listings, _, _ := s.current()
	return catalog.BuildFacets(listings)
}

// GetListing busca o anúncio no snapshot e, se ausente, no repositório.
// A visualização é contabilizada em melhor esforço.
func (s *Service) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	listing, found := s.fromSnapshot(id)
	if !found {
		var err error
		listing, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return domain.Listing{}, err
		}
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("Falha ao contabilizar visualização.", map[string]interface{}{"id": id, "error": err.Error()})
	}
	return listing, nil
}

func (s *Service) fromSnapshot(id string) (domain.Listing, bool) {
	listings, _, _ := s.current()
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Listing{}, false
}

// Lookup devolve o anúncio sem contabilizar visualização (carrinho, desejos).
func (s *Service) Lookup(ctx context.Context, id string) (domain.Listing, error) {
	if l, ok := s.fromSnapshot(id); ok {
		return l, nil
	}
	return s.repo.FindByID(ctx, id)
}

// CreateListing valida e normaliza o formulário e grava o anúncio do vendedor.
func (s *Service) CreateListing(ctx context.Context, seller domain.Identity, in domain.ListingInput) (domain.Listing, error) {
	if seller.UserID == "" {
		return domain.Listing{}, apperrors.NewUnauthorizedError("É preciso estar autenticado para anunciar.")
	}
	l, err := normalize(in)
	if err != nil {
		return domain.Listing{}, err
	}

	active, inStock := true, true
	l.IsActive = &active
	l.InStock = &inStock
	l.SellerID = seller.UserID
	l.SellerEmail = seller.Email

	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("falha ao salvar anúncio no repositório: %w", err)
	}
	s.logger.Info("Anúncio criado.", map[string]interface{}{"id": created.ID, "seller_id": seller.UserID})
	return created, nil
}

// UpdateListing regrava os campos editáveis. Só o dono do anúncio pode editar.
func (s *Service) UpdateListing(ctx context.Context, actor domain.Identity, id string, in domain.ListingInput) (domain.Listing, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if current.SellerID != actor.UserID {
		return domain.Listing{}, apperrors.NewForbiddenError("Apenas o vendedor pode editar este anúncio.")
	}

	l, err := normalize(in)
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = current.ID
	l.SellerID = current.SellerID
	l.SellerEmail = current.SellerEmail
	l.Rating, l.RatingCount, l.Views, l.Likes = current.Rating, current.RatingCount, current.Views, current.Likes
	l.IsActive = current.IsActive
	l.CreatedAt = current.CreatedAt
	if in.InStock == nil {
		l.InStock = current.InStock
	}

	return s.repo.Update(ctx, l)
}

// DeleteListing remove o anúncio. Permitido ao dono e a administradores.
func (s *Service) DeleteListing(ctx context.Context, actor domain.Identity, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.SellerID != actor.UserID && actor.Role != domain.RoleAdmin {
		return apperrors.NewForbiddenError("Apenas o vendedor ou um administrador pode remover este anúncio.")
	}
	return s.repo.Delete(ctx, id)
}

// ListBySeller lista os anúncios de um vendedor, mais recentes primeiro.
func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return s.repo.FindBySeller(ctx, sellerID)
}

// normalize aplica as regras do formulário de anúncio.
func normalize(in domain.ListingInput) (domain.Listing, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validator.Validate(in); err != nil {
		return domain.Listing{}, err
	}

	originalPrice := in.OriginalPrice
	if originalPrice <= 0 {
		originalPrice = in.Price
	}

	l := domain.Listing{
		Name:             in.Name,
		Brand:            in.Brand,
		Description:      strings.TrimSpace(in.Description),
		Tags:             splitList(in.Tags),
		Condition:        orDefault(in.Condition, "new"),
		Category:         orDefault(in.Category, "sneakers"),
		Color:            strings.TrimSpace(in.Color),
		Material:         strings.TrimSpace(in.Material),
		Gender:           orDefault(in.Gender, "unisex"),
		AgeGroup:         orDefault(in.AgeGroup, "adult"),
		Season:           orDefault(in.Season, "all-season"),
		Style:            strings.TrimSpace(in.Style),
		Weight:           strings.TrimSpace(in.Weight),
		Manufacturer:     strings.TrimSpace(in.Manufacturer),
		CountryOfOrigin:  strings.TrimSpace(in.CountryOfOrigin),
		SKU:              strings.TrimSpace(in.SKU),
		Price:            in.Price,
		OriginalPrice:    &originalPrice,
		Featured:         in.Featured,
		InStock:          in.InStock,
		Sizes:            dedupeSizes(in.Sizes),
		Image:            in.ImageURL,
		AdditionalImages: splitList(in.AdditionalImages),
	}
	return l, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// splitList quebra uma lista separada por vírgulas, descartando itens vazios.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupeSizes(sizes []float64) []float64 {
	seen := make(map[float64]struct{}, len(sizes))
	out := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Float64s(out)
	return out
}
