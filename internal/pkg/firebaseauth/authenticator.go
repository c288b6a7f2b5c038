// Package firebaseauth valida ID tokens emitidos pelo Firebase Authentication,
// o provedor de identidade usado pelo app móvel.
package firebaseauth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"shoemarket/internal/domain"
)

// TokenVerifier é o subconjunto de *auth.Client usado aqui.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// RoleResolver devolve a role persistida no perfil do usuário.
// Tokens do Firebase não carregam a role da aplicação.
type RoleResolver func(ctx context.Context, userID string) (domain.UserRole, error)

// Authenticator implementa middleware.Authenticator sobre o Firebase Auth.
type Authenticator struct {
	verifier TokenVerifier
	roles    RoleResolver
}

// New inicializa o app do Firebase e o cliente de Auth.
func New(ctx context.Context, projectID, credentialsFile string, roles RoleResolver) (*Authenticator, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("falha ao inicializar o Firebase: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao inicializar o Firebase Auth: %w", err)
	}
	return NewWithVerifier(client, roles), nil
}

// NewWithVerifier permite injetar o verificador (testes).
func NewWithVerifier(v TokenVerifier, roles RoleResolver) *Authenticator {
	return &Authenticator{verifier: v, roles: roles}
}

// Authenticate valida o ID token e monta a identidade. Sem perfil, a role é customer.
func (a *Authenticator) Authenticate(ctx context.Context, idToken string) (domain.Identity, error) {
	token, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("ID token inválido: %w", err)
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return domain.Identity{}, fmt.Errorf("ID token sem uid")
	}

	id := domain.Identity{
		UserID:      uid,
		Email:       claimString(token.Claims, "email"),
		DisplayName: claimString(token.Claims, "name"),
		Role:        domain.RoleCustomer,
	}

	if a.roles != nil {
		if role, err := a.roles(ctx, uid); err == nil && role != "" {
			id.Role = role
		}
	}
	return id, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if raw, ok := claims[key]; ok {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
