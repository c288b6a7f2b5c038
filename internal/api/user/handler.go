package user

import (
	"context"
	"net/http"

	"shoemarket/internal/api/response"
	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/register.
// @Summary Registra um novo usuário
// @Description Cria a conta, hasheia a senha e grava o perfil inicial (carrinho e desejos vazios).
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de cadastro"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido (JSON malformado ou campos obrigatórios ausentes)"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(w, r, &reg); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusCreated)
		return
	}

	// ConflictError (e-mail duplicado) -> 409, ValidationError -> 400
	newUser, err := h.Service.Register(r.Context(), reg)

	// O PasswordHash não é serializado (tag `json:"-"`).
	response.Handle(h.Logger, w, r, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um JSON Web Token.
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} map[string]string "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := response.Decode(w, r, &loginReq); err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	token, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		response.Handle(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	response.Handle(h.Logger, w, r, map[string]string{"token": token}, nil, http.StatusOK)
}
