package wishlistservice

import (
	"context"
	"fmt"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// ListingFinder busca anúncios por uma lista de IDs.
type ListingFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error)
}

// Service gerencia a lista de desejos guardada no perfil.
type Service struct {
	profiles domain.ProfileRepository
	listings ListingFinder
	logger   logger.Logger
}

// NewService cria o serviço de lista de desejos.
func NewService(profiles domain.ProfileRepository, listings ListingFinder, log logger.Logger) *Service {
	return &Service{profiles: profiles, listings: listings, logger: log}
}

// Toggle adiciona o anúncio se ausente ou remove se presente. Retorna se ficou curtido.
// Só anúncios existentes entram na lista; remover um anúncio já apagado continua valendo.
func (s *Service) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range p.Wishlist {
		if id == listingID {
			return false, s.Remove(ctx, userID, listingID)
		}
	}
	if err := s.ensureListing(ctx, listingID); err != nil {
		return false, err
	}
	return true, s.Add(ctx, userID, listingID)
}

func (s *Service) ensureListing(ctx context.Context, listingID string) error {
	found, err := s.listings.FindByIDs(ctx, []string{listingID})
	if err != nil {
		return err
	}
	for _, l := range found {
		if l.ID == listingID {
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("Anúncio com ID %s não existe.", listingID))
}

// Add é idempotente.
func (s *Service) Add(ctx context.Context, userID, listingID string) error {
	return s.profiles.AddToWishlist(ctx, userID, listingID)
}

// Remove é idempotente.
func (s *Service) Remove(ctx context.Context, userID, listingID string) error {
	return s.profiles.RemoveFromWishlist(ctx, userID, listingID)
}

// List devolve os anúncios da lista na ordem em que foram curtidos. Anúncios removidos
// do catálogo são ignorados.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Listing, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return []domain.Listing{}, err
	}
	if len(p.Wishlist) == 0 {
		return []domain.Listing{}, nil
	}

	found, err := s.listings.FindByIDs(ctx, p.Wishlist)
	if err != nil {
		return []domain.Listing{}, err
	}
	byID := make(map[string]domain.Listing, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}

	out := make([]domain.Listing, 0, len(p.Wishlist))
	for _, id := range p.Wishlist {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	if skipped := len(p.Wishlist) - len(out); skipped > 0 {
		s.logger.Debug("Itens da lista de desejos sem anúncio correspondente.", map[string]interface{}{"user_id": userID, "skipped": skipped})
	}
	return out, nil
}
