package middleware

import (
	"context"
	"net/http"
	"strings"

	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// ContextKey é o tipo das chaves de contexto deste pacote
// (não exportado em valor, único em tipo, para não colidir com chaves string).
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
	GuestIDKey
)

// UserClaims representa o usuário autenticado anexado ao contexto.
type UserClaims struct {
	UserID      string
	Email       string
	DisplayName string
	Role        domain.UserRole
}

// Authenticator valida o bearer token e devolve a identidade.
// Implementado por token.Service (JWT próprio) e firebaseauth.Authenticator.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(authHeader[7:])
	return tok, tok != ""
}

func withClaims(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, UserClaimsKey, UserClaims{
		UserID:      id.UserID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        id.Role,
	})
}

// RequireAuth exige um bearer token válido; caso contrário responde 401.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				http.Error(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado.").Error(), http.StatusUnauthorized)
				return
			}

			id, err := auth.Authenticate(r.Context(), tok)
			if err != nil {
				http.Error(w, apperror.NewUnauthorizedError("Token inválido ou expirado.").Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), id)))
		})
	}
}

// OptionalAuth anexa as claims quando há um token válido. Um token inválido é
// ignorado e a requisição segue como visitante.
func OptionalAuth(auth Authenticator, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			id, err := auth.Authenticate(r.Context(), tok)
			if err != nil {
				log.Debug("Token opcional rejeitado, seguindo como visitante", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), id)))
		})
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// IdentityFromContext devolve as claims do contexto como domain.Identity.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	claims, ok := GetUserClaimsFromContext(ctx)
	if !ok {
		return domain.Identity{}, false
	}
	return domain.Identity{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
	}, true
}

// PermissionMiddleware restringe a rota às roles indicadas. Deve rodar depois de RequireAuth.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado.").Error(), http.StatusUnauthorized)
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, apperror.NewForbiddenError("Você não tem a permissão necessária.").Error(), http.StatusForbidden)
		})
	}
}
