// Package guestcartrepo guarda o carrinho temporário de visitantes no Redis.
//
// Cada sessão de visitante tem um único registro serializado em JSON com a data da última
// escrita. A expiração é avaliada na leitura: um registro mais velho que o TTL é apagado e
// tratado como carrinho vazio. O TTL do Redis é apenas um limite superior de retenção.
package guestcartrepo

import (
	"context"
	"encoding/json"
	"time"

	"shoemarket/internal/domain"
	"shoemarket/internal/errors"
	"shoemarket/internal/pkg/cache"
	"shoemarket/internal/pkg/logger"
)

// DefaultTTL é o tempo de vida do carrinho de visitante desde a última escrita.
const DefaultTTL = 2 * time.Hour

const keyPrefix = "guestCart:"

// retentionSlack mantém a chave no Redis um pouco além do TTL lógico, para que a leitura
// veja o registro expirado e faça a remoção explícita.
const retentionSlack = time.Minute

// Repository implementa domain.CartRepository para visitantes.
type Repository struct {
	cache  cache.Client
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
}

// Option configura o Repository.
type Option func(*Repository)

// WithClock substitui o relógio (testes).
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithTTL substitui o TTL padrão de 2h.
func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) { r.ttl = ttl }
}

// NewRepository cria o repositório do carrinho de visitante.
func NewRepository(c cache.Client, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{cache: c, ttl: DefaultTTL, now: time.Now, logger: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func key(guestID string) string { return keyPrefix + guestID }

// Load devolve as linhas do carrinho. Registro ausente, expirado ou ilegível resulta em
// lista vazia; nos dois últimos casos o registro é removido.
func (r *Repository) Load(ctx context.Context, guestID string) ([]domain.CartLine, error) {
	raw, err := r.cache.Get(ctx, key(guestID))
	if err == cache.ErrCacheMiss {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, errors.NewUnavailableError("falha ao ler o carrinho de visitante", err)
	}

	rec, ok := decode(raw)
	if !ok {
		r.logger.Warn("Registro de carrinho de visitante ilegível, descartando.", map[string]interface{}{"guest_id": guestID})
		r.discard(ctx, guestID)
		return []domain.CartLine{}, nil
	}

	age := r.now().Sub(time.UnixMilli(rec.Timestamp))
	if age > r.ttl {
		r.logger.Info("Carrinho de visitante expirado.", map[string]interface{}{"guest_id": guestID, "age": age.String()})
		r.discard(ctx, guestID)
		return []domain.CartLine{}, nil
	}

	return rec.Items, nil
}

// Save regrava o carrinho inteiro com um timestamp novo (TTL deslizante).
// Um carrinho vazio remove o registro.
func (r *Repository) Save(ctx context.Context, guestID string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return r.Clear(ctx, guestID)
	}

	rec := domain.GuestCartRecord{
		Version:   domain.GuestCartVersion,
		Items:     lines,
		Timestamp: r.now().UnixMilli(),
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.NewInternalError("falha ao serializar o carrinho de visitante", err)
	}

	if err := r.cache.Set(ctx, key(guestID), payload, r.ttl+retentionSlack); err != nil {
		return errors.NewUnavailableError("falha ao gravar o carrinho de visitante", err)
	}
	return nil
}

// Clear descarta o registro inteiro.
func (r *Repository) Clear(ctx context.Context, guestID string) error {
	if err := r.cache.Delete(ctx, key(guestID)); err != nil {
		return errors.NewUnavailableError("falha ao limpar o carrinho de visitante", err)
	}
	return nil
}

// AddOrIncrement soma a quantidade na linha (listingID, size) ou acrescenta uma nova linha
// com o snapshot do anúncio. Quantidade resultante <= 0 remove a linha.
func (r *Repository) AddOrIncrement(ctx context.Context, guestID string, line domain.CartLine) ([]domain.CartLine, error) {
	lines, err := r.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if line.AddedAt == nil {
		now := r.now().UTC()
		line.AddedAt = &now
	}
	lines = domain.AddOrIncrement(lines, line)
	if err := r.Save(ctx, guestID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateQuantity define a quantidade da linha; <= 0 remove. Linha inexistente não é erro,
// e nesse caso nada é regravado.
func (r *Repository) UpdateQuantity(ctx context.Context, guestID, listingID, size string, quantity int) ([]domain.CartLine, error) {
	lines, err := r.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if !hasLine(lines, listingID, size) {
		return lines, nil
	}
	lines = domain.SetQuantity(lines, listingID, size, quantity)
	if err := r.Save(ctx, guestID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// discard remove o registro; uma falha aqui não impede devolver o carrinho vazio.
func (r *Repository) discard(ctx context.Context, guestID string) {
	if err := r.cache.Delete(ctx, key(guestID)); err != nil {
		r.logger.Error("Falha ao remover carrinho de visitante inválido.", err)
	}
}

func hasLine(lines []domain.CartLine, listingID, size string) bool {
	for _, l := range lines {
		if l.Matches(listingID, size) {
			return true
		}
	}
	return false
}

// decode lê o registro aceitando a versão atual e registros legados sem o campo version.
// Versões futuras e linhas sem identidade ou com quantidade inválida são descartadas.
func decode(raw string) (domain.GuestCartRecord, bool) {
	var rec domain.GuestCartRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.GuestCartRecord{}, false
	}
	if rec.Version < 0 || rec.Version > domain.GuestCartVersion || rec.Timestamp <= 0 {
		return domain.GuestCartRecord{}, false
	}

	items := make([]domain.CartLine, 0, len(rec.Items))
	for _, it := range rec.Items {
		if it.ListingID == "" || it.Quantity <= 0 {
			continue
		}
		items = append(items, it)
	}
	rec.Items = items
	rec.Version = domain.GuestCartVersion
	return rec, true
}
