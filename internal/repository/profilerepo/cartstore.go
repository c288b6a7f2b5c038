package profilerepo

import (
	"context"
	"time"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// MaxCartAttempts é o número de tentativas de compare-and-set antes de desistir com Conflict.
const MaxCartAttempts = 3

// CartStore implementa domain.CartRepository para usuários autenticados: o carrinho vive
// no perfil e cada escrita é ler, alterar e gravar condicionada a cart_version.
type CartStore struct {
	profiles domain.ProfileRepository
	logger   logger.Logger
	now      func() time.Time
	seed     ProfileSeed
}

// ProfileSeed monta o perfil criado quando a primeira escrita do carrinho encontra o
// usuário sem perfil.
type ProfileSeed func(ctx context.Context, userID string) domain.Profile

// CartStoreOption ajusta o CartStore na construção.
type CartStoreOption func(*CartStore)

// WithProfileSeed troca o perfil padrão criado sob demanda.
func WithProfileSeed(seed ProfileSeed) CartStoreOption {
	return func(s *CartStore) { s.seed = seed }
}

func minimalProfile(_ context.Context, userID string) domain.Profile {
	return domain.Profile{
		UserID:   userID,
		Name:     "User",
		Role:     domain.RoleCustomer,
		Cart:     []domain.CartLine{},
		Wishlist: []string{},
		IsActive: true,
	}
}

// NewCartStore cria o carrinho de usuário sobre o repositório de perfis.
func NewCartStore(profiles domain.ProfileRepository, log logger.Logger, opts ...CartStoreOption) *CartStore {
	s := &CartStore{profiles: profiles, logger: log, now: time.Now, seed: minimalProfile}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load devolve as linhas gravadas no perfil.
func (s *CartStore) Load(ctx context.Context, userID string) ([]domain.CartLine, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return []domain.CartLine{}, nil
		}
		return []domain.CartLine{}, err
	}
	return p.Cart, nil
}

// Save substitui o carrinho inteiro.
func (s *CartStore) Save(ctx context.Context, userID string, lines []domain.CartLine) error {
	_, err := s.mutate(ctx, userID, func([]domain.CartLine) []domain.CartLine { return lines })
	return err
}

// Clear esvazia o carrinho.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	_, err := s.mutate(ctx, userID, func([]domain.CartLine) []domain.CartLine { return []domain.CartLine{} })
	return err
}

// AddOrIncrement soma a quantidade na linha (anúncio, tamanho) ou cria a linha.
func (s *CartStore) AddOrIncrement(ctx context.Context, userID string, line domain.CartLine) ([]domain.CartLine, error) {
	if line.AddedAt == nil {
		now := s.now()
		line.AddedAt = &now
	}
	return s.mutate(ctx, userID, func(cur []domain.CartLine) []domain.CartLine {
		return domain.AddOrIncrement(cur, line)
	})
}

// UpdateQuantity define a quantidade; <= 0 remove a linha.
func (s *CartStore) UpdateQuantity(ctx context.Context, userID, listingID, size string, quantity int) ([]domain.CartLine, error) {
	return s.mutate(ctx, userID, func(cur []domain.CartLine) []domain.CartLine {
		return domain.SetQuantity(cur, listingID, size, quantity)
	})
}

func (s *CartStore) mutate(ctx context.Context, userID string, fn func([]domain.CartLine) []domain.CartLine) ([]domain.CartLine, error) {
	for attempt := 1; attempt <= MaxCartAttempts; attempt++ {
		p, err := s.profiles.GetProfile(ctx, userID)
		if apperrors.IsNotFound(err) {
			p, err = s.createProfile(ctx, userID)
		}
		if err != nil {
			return nil, err
		}

		next := fn(p.Cart)
		ok, err := s.profiles.UpdateCartIfVersion(ctx, userID, next, p.CartVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			return next, nil
		}
		s.logger.Debug("Carrinho alterado concorrentemente, tentando de novo.", map[string]interface{}{
			"user_id": userID, "attempt": attempt,
		})
	}
	s.logger.Warn("Carrinho do usuário não pôde ser gravado após várias tentativas.", map[string]interface{}{"user_id": userID})
	return nil, apperrors.NewConflictError("O carrinho foi alterado por outra sessão. Tente novamente.")
}

// createProfile cria o perfil padrão. Se outra requisição criou o perfil antes, o perfil
// gravado é relido e usado.
func (s *CartStore) createProfile(ctx context.Context, userID string) (domain.Profile, error) {
	s.logger.Info("Perfil inexistente na escrita do carrinho, criando perfil padrão.", map[string]interface{}{"user_id": userID})
	p, err := s.profiles.CreateProfile(ctx, s.seed(ctx, userID))
	if apperrors.IsConflict(err) {
		return s.profiles.GetProfile(ctx, userID)
	}
	return p, err
}
