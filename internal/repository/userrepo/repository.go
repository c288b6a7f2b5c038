package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// uniqueViolation é o código do PostgreSQL para violação de UNIQUE.
const uniqueViolation = "23505"

// UserRepository implementa a interface domain.UserRepository
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere as credenciais e o perfil inicial do usuário na mesma linha.
func (r *UserRepository) Save(ctx context.Context, user domain.User, profile domain.Profile) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 2. Prepara dados e ID
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	query := `
        INSERT INTO users (id, email, password_hash, role, name, phone, address, cart, wishlist, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, '[]'::jsonb, $8, $9, $10)`

	// 3. Executa o INSERT
	_, err := r.DB.ExecContext(ctxTimeout, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		profile.Name,
		profile.Phone,
		profile.Address,
		pq.Array([]string{}),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.logger.Warn("E-mail já cadastrado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperrors.NewConflictError(fmt.Sprintf("E-mail '%s' já cadastrado.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperrors.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`

	var (
		user domain.User
		role string
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Info("Usuário não encontrado no DB por email.", map[string]interface{}{"email": email})
			return domain.User{}, apperrors.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperrors.NewDBError("failed to find user by email", err)
	}
	user.Role = domain.UserRole(role)

	r.logger.Debug("Usuário encontrado no repositório por email.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}
