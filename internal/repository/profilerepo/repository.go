package profilerepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

const profileColumns = `id, email, name, phone, address, city, state, zip_code, country, role,
        cart, cart_version, wishlist, is_active, created_at, updated_at`

// ProfileRepository implementa domain.ProfileRepository sobre a tabela users.
type ProfileRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewProfileRepository cria o repositório de perfis.
func NewProfileRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *ProfileRepository {
	return &ProfileRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
		now:       time.Now,
	}
}

// GetProfile busca o perfil pelo ID do usuário.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`

	var (
		p        domain.Profile
		role     string
		cartJSON []byte
		wishlist pq.StringArray
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, userID).Scan(
		&p.UserID, &p.Email, &p.Name, &p.Phone, &p.Address, &p.City, &p.State, &p.ZipCode, &p.Country, &role,
		&cartJSON, &p.CartVersion, &wishlist, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug("Perfil não encontrado.", map[string]interface{}{"user_id": userID})
		return domain.Profile{}, apperrors.NewNotFoundError(fmt.Sprintf("Perfil do usuário %s não encontrado.", userID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar perfil no DB.", err)
		return domain.Profile{}, apperrors.NewUnavailableError("armazenamento de perfis", err)
	}

	p.Role = domain.UserRole(role)
	p.Cart = decodeCart(cartJSON)
	p.Wishlist = []string(wishlist)
	if p.Wishlist == nil {
		p.Wishlist = []string{}
	}
	return p, nil
}

// CreateProfile cria o perfil padrão de um usuário autenticado por provedor externo.
// Um perfil existente com o mesmo ID é mantido; o registro atual é devolvido.
func (r *ProfileRepository) CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := r.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Role == "" {
		p.Role = domain.RoleCustomer
	}
	cartJSON, err := encodeCart(p.Cart)
	if err != nil {
		return domain.Profile{}, apperrors.NewInternalError("falha ao serializar carrinho", err)
	}

	query := `
        INSERT INTO users (id, email, name, phone, address, city, state, zip_code, country, role,
                           cart, cart_version, wishlist, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, $12, TRUE, $13, $14)
        ON CONFLICT (id) DO NOTHING`

	_, err = r.DB.ExecContext(ctxTimeout, query,
		p.UserID, p.Email, p.Name, p.Phone, p.Address, p.City, p.State, p.ZipCode, p.Country, string(p.Role),
		cartJSON, pq.Array(nonNil(p.Wishlist)), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.Profile{}, apperrors.NewConflictError(fmt.Sprintf("E-mail '%s' já cadastrado.", p.Email))
		}
		r.logger.Error("Falha ao criar perfil no DB.", err)
		return domain.Profile{}, apperrors.NewUnavailableError("armazenamento de perfis", err)
	}

	r.logger.Info("Perfil criado.", map[string]interface{}{"user_id": p.UserID})
	return r.GetProfile(ctx, p.UserID)
}

// UpdateProfile aplica uma atualização parcial: só as colunas enviadas são alteradas.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	if update.Empty() {
		return nil
	}

	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", update.Name)
	add("phone", update.Phone)
	add("address", update.Address)
	add("city", update.City)
	add("state", update.State)
	add("zip_code", update.ZipCode)
	add("country", update.Country)

	args = append(args, r.now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	return r.execOne(ctx, "atualizar perfil", userID, query, args...)
}

// UpdateCartIfVersion grava o carrinho somente se cart_version ainda for expectedVersion
// (compare-and-set). Retorna false quando outra escrita venceu a disputa.
func (r *ProfileRepository) UpdateCartIfVersion(ctx context.Context, userID string, cart []domain.CartLine, expectedVersion int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	cartJSON, err := encodeCart(cart)
	if err != nil {
		return false, apperrors.NewInternalError("falha ao serializar carrinho", err)
	}

	query := `
        UPDATE users
        SET cart = $1, cart_version = cart_version + 1, updated_at = $2
        WHERE id = $3 AND cart_version = $4`

	result, err := r.DB.ExecContext(ctxTimeout, query, cartJSON, r.now(), userID, expectedVersion)
	if err != nil {
		r.logger.Error("Falha ao gravar carrinho do usuário.", err)
		return false, apperrors.NewUnavailableError("armazenamento de perfis", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewUnavailableError("armazenamento de perfis", err)
	}
	if rows == 0 {
		r.logger.Warn("Versão do carrinho desatualizada.", map[string]interface{}{
			"user_id": userID, "expected_version": expectedVersion,
		})
		return false, nil
	}
	return true, nil
}

// AddToWishlist acrescenta o anúncio à lista de desejos (idempotente).
func (r *ProfileRepository) AddToWishlist(ctx context.Context, userID, listingID string) error {
	query := `
        UPDATE users
        SET wishlist = array_append(wishlist, $1), updated_at = $2
        WHERE id = $3 AND NOT ($1 = ANY(wishlist))`
	// Zero linhas afetadas aqui também significa "já estava na lista".
	return r.exec(ctx, "adicionar à lista de desejos", query, listingID, r.now(), userID)
}

// RemoveFromWishlist remove o anúncio da lista de desejos (idempotente).
func (r *ProfileRepository) RemoveFromWishlist(ctx context.Context, userID, listingID string) error {
	query := `UPDATE users SET wishlist = array_remove(wishlist, $1), updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, "remover da lista de desejos", userID, query, listingID, r.now(), userID)
}

// RoleOf devolve o papel gravado para o usuário, ou customer quando não há perfil.
func (r *ProfileRepository) RoleOf(ctx context.Context, userID string) domain.UserRole {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var role string
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role); err != nil {
		return domain.RoleCustomer
	}
	return domain.UserRole(role)
}

func (r *ProfileRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, query, args...); err != nil {
		r.logger.Error(fmt.Sprintf("Falha ao %s.", op), err)
		return apperrors.NewUnavailableError("armazenamento de perfis", err)
	}
	return nil
}

// execOne executa o comando e exige que o perfil exista.
func (r *ProfileRepository) execOne(ctx context.Context, op, userID, query string, args ...interface{}) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error(fmt.Sprintf("Falha ao %s.", op), err)
		return apperrors.NewUnavailableError("armazenamento de perfis", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailableError("armazenamento de perfis", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("Perfil do usuário %s não encontrado.", userID))
	}
	return nil
}

func encodeCart(lines []domain.CartLine) ([]byte, error) {
	return json.Marshal(nonNilLines(lines))
}

// decodeCart tolera documentos fora do formato: linhas sem anúncio ou com quantidade
// não positiva são descartadas. Um JSON ilegível vira carrinho vazio.
func decodeCart(raw []byte) []domain.CartLine {
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return []domain.CartLine{}
	}
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ListingID == "" || l.Quantity <= 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilLines(l []domain.CartLine) []domain.CartLine {
	if l == nil {
		return []domain.CartLine{}
	}
	return l
}
