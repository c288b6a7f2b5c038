package userservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/validator"
)

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(user domain.User) (string, error)
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo usuário no sistema.
// Ele faz o hashing da senha e grava o perfil inicial junto com as credenciais.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validação do payload
	registration.Name = strings.TrimSpace(registration.Name)
	registration.Email = strings.ToLower(strings.TrimSpace(registration.Email))
	if err := validator.Validate(registration); err != nil {
		return domain.User{}, err
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Criação do Objeto User e do perfil
	now := time.Now()
	newUser := domain.User{
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.UserRole(registration.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := domain.Profile{
		Name:    registration.Name,
		Email:   registration.Email,
		Phone:   strings.TrimSpace(registration.Phone),
		Address: strings.TrimSpace(registration.Address),
	}

	// 4. Persistência. E-mail duplicado já chega como ConflictError.
	user, err := s.UserRepo.Save(ctx, newUser, profile)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": string(user.Role)})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	// 1. Validação Básica
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira Unauthorized para não revelar quais e-mails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	// 3. Comparar Senhas (Hashing)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("Senha incorreta no login.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 4. Gerar JWT
	tokenString, err := s.TokenSvc.GenerateToken(user)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return tokenString, nil
}
