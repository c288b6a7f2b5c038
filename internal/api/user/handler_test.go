package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shoemarket/internal/api/user"
	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// MockUserService é uma implementação mock de user.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func TestRegisterUserHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockErr    error
		wantStatus int
	}{
		{"criado", `{"name":"Ana","email":"ana@example.com","password":"secret1","phone":"1","role":"customer"}`, nil, http.StatusCreated},
		{"e-mail duplicado", `{"name":"Ana","email":"ana@example.com","password":"secret1","phone":"1","role":"customer"}`, apperror.NewConflictError("e-mail já cadastrado"), http.StatusConflict},
		{"json inválido", `{"name":`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("Register", mock.Anything, mock.Anything).
				Return(domain.User{ID: "u1", Email: "ana@example.com", PasswordHash: "hash"}, tt.mockErr).Maybe()

			h := user.NewHandler(svc, logger.NewLogger("error"))
			rec := httptest.NewRecorder()
			h.RegisterUserHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "hash")
		})
	}
}

func TestLoginUserHandler(t *testing.T) {
	svc := new(MockUserService)
	svc.On("Login", mock.Anything, "ana@example.com", "secret1").Return("jwt-token", nil)
	svc.On("Login", mock.Anything, "ana@example.com", "wrong").Return("", apperror.NewUnauthorizedError("Credenciais inválidas."))
	h := user.NewHandler(svc, logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ana@example.com","password":"secret1"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"jwt-token"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
