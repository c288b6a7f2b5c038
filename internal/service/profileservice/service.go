package profileservice

import (
	"context"
	"strings"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// SellerListings lista os anúncios de um vendedor.
type SellerListings interface {
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error)
}

// Service é a estrutura que implementa as regras de perfil do usuário.
type Service struct {
	profiles domain.ProfileRepository
	listings SellerListings
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Perfil.
func NewService(profiles domain.ProfileRepository, listings SellerListings, logger logger.Logger) *Service {
	return &Service{profiles: profiles, listings: listings, logger: logger}
}

// GetOrCreate devolve o perfil do usuário autenticado, criando o perfil padrão na primeira visita.
func (s *Service) GetOrCreate(ctx context.Context, id domain.Identity) (domain.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, id.UserID)
	if err == nil {
		return p, nil
	}
	if !apperrors.IsNotFound(err) {
		return domain.Profile{}, err
	}

	s.logger.Info("Perfil inexistente, criando perfil padrão.", map[string]interface{}{"user_id": id.UserID})
	return s.profiles.CreateProfile(ctx, DefaultProfile(id))
}

// DefaultProfile é o perfil criado na primeira visita (ou na primeira escrita do carrinho).
func DefaultProfile(id domain.Identity) domain.Profile {
	return domain.Profile{
		UserID:   id.UserID,
		Name:     DefaultName(id),
		Email:    id.Email,
		Role:     domain.RoleCustomer,
		Cart:     []domain.CartLine{},
		Wishlist: []string{},
		IsActive: true,
	}
}

// DefaultName usa o nome de exibição, senão a parte local do e-mail, senão "User".
func DefaultName(id domain.Identity) string {
	if n := strings.TrimSpace(id.DisplayName); n != "" {
		return n
	}
	if local, _, ok := strings.Cut(id.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

// UpdateName altera o nome exibido. Nome vazio é rejeitado.
func (s *Service) UpdateName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("O nome não pode ficar vazio.")
	}
	return s.profiles.UpdateProfile(ctx, userID, domain.ProfileUpdate{Name: &name})
}

// Update aplica uma atualização parcial e devolve o perfil resultante.
func (s *Service) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error) {
	if update.Empty() {
		return domain.Profile{}, apperrors.NewValidationError("Nenhum campo para atualizar.")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return domain.Profile{}, apperrors.NewValidationError("O nome não pode ficar vazio.")
		}
		update.Name = &name
	}
	if err := s.profiles.UpdateProfile(ctx, userID, update); err != nil {
		return domain.Profile{}, err
	}
	return s.profiles.GetProfile(ctx, userID)
}

// Stats agrega os números do perfil. Um anúncio conta como ativo salvo se isActive ou
// inStock forem explicitamente false.
func (s *Service) Stats(ctx context.Context, userID string) (domain.ProfileStats, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return domain.ProfileStats{}, err
	}
	listings, err := s.listings.FindBySeller(ctx, userID)
	if err != nil {
		return domain.ProfileStats{}, err
	}

	stats := domain.ProfileStats{Listings: len(listings), WishlistCount: len(p.Wishlist)}
	for _, l := range listings {
		stats.TotalValue += l.Price
		if l.IsListed() && l.IsInStock() {
			stats.ActiveListings++
		}
	}
	for _, line := range p.Cart {
		stats.CartCount += line.Quantity
	}
	return stats, nil
}
