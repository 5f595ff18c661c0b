package myMiddleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"go-social/internal/apperr"
	"go-social/internal/httputil"
)

type contextKey string

const UserKey contextKey = "user_id"

// TokenValidator decouples the middleware from the auth package.
type TokenValidator interface {
	ValidateToken(tokenString string) (int, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(v TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: v}
}

// Handle rejects requests without a valid "Authorization: Bearer <token>"
// header and puts the caller's user id into the request context. Websocket
// handshakes may pass the token as ?token= instead.
func (am *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		// Fallback: Check Query Param. Browsers cannot set headers on a
		// websocket handshake, so only upgrades may carry ?token=.
		if authHeader == "" && websocket.IsWebSocketUpgrade(r) {
			if token := r.URL.Query().Get("token"); token != "" {
				authHeader = "Bearer " + token
			}
		}

		if authHeader == "" {
			httputil.WriteError(w, r, apperr.New(apperr.KindUnauthenticated))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			httputil.WriteError(w, r, apperr.WithMessage(apperr.KindUnauthenticated, "Format is Authorization: Bearer [token]"))
			return
		}

		userID, err := am.validator.ValidateToken(parts[1])
		if err != nil {
			httputil.WriteError(w, r, apperr.WithMessage(apperr.KindUnauthenticated, err.Error()))
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated caller stored by Handle.
func UserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserKey).(int)
	return userID, ok
}

// MustUserID is UserID for handlers mounted behind Handle.
func MustUserID(r *http.Request) (int, error) {
	userID, ok := UserID(r.Context())
	if !ok {
		return 0, apperr.New(apperr.KindUnauthenticated)
	}
	return userID, nil
}
