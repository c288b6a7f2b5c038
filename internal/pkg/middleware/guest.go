package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"shoemarket/internal/domain"
)

// GuestHeader identifica a sessão de visitante que é dona do carrinho temporário.
const GuestHeader = "X-Guest-ID"

// GuestSession garante um ID de visitante em toda requisição. Um valor ausente ou que não
// seja UUID é substituído por um novo, devolvido no header de resposta para o app guardar.
func GuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guestID := strings.TrimSpace(r.Header.Get(GuestHeader))
		if _, err := uuid.Parse(guestID); err != nil {
			guestID = uuid.NewString()
		}
		w.Header().Set(GuestHeader, guestID)

		ctx := context.WithValue(r.Context(), GuestIDKey, guestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetGuestIDFromContext retorna o ID de visitante anexado por GuestSession.
func GetGuestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(GuestIDKey).(string)
	return id
}

// CartOwnerFromContext escolhe o dono do carrinho: o usuário autenticado, se houver,
// senão a sessão de visitante.
func CartOwnerFromContext(ctx context.Context) domain.CartOwner {
	if claims, ok := GetUserClaimsFromContext(ctx); ok && claims.UserID != "" {
		return domain.CartOwner{UserID: claims.UserID}
	}
	return domain.CartOwner{GuestID: GetGuestIDFromContext(ctx)}
}
