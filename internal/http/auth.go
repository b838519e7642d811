package httpapi

import (
	"context"
	"net/http"
	"strings"

	"coursekit-backend-go/internal/models"
	"coursekit-backend-go/internal/services"
)

type contextKey string

const (
	ctxSubject contextKey = "subject"
	ctxEmail   contextKey = "email"
)

// WithAuth verifies the identity provider's bearer token and stashes the
// subject in the request context. Role and ownership live in the database,
// not the token; handlers resolve the account per request.
func WithAuth(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			token, claims, err := tokens.ParseToken(tokenStr)
			if err != nil || !token.Valid {
				WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
				return
			}
			subject, _ := claims["sub"].(string)
			if subject == "" {
				WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
				return
			}
			email, _ := claims["email"].(string)
			ctx := context.WithValue(r.Context(), ctxSubject, subject)
			ctx = context.WithValue(ctx, ctxEmail, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentSubject(r *http.Request) string {
	if value, ok := r.Context().Value(ctxSubject).(string); ok {
		return value
	}
	return ""
}

// requireAccount resolves the caller's account record from the verified
// subject. A token without a synced account is Unauthenticated.
func (s *Server) requireAccount(r *http.Request) (models.Account, error) {
	subject := CurrentSubject(r)
	if subject == "" {
		return models.Account{}, services.ErrUnauthenticated("Authentication required")
	}
	return services.AccountBySubject(s.DB, subject)
}

// requireRole resolves the caller and gates on role. Ownership checks stay
// with the individual operations.
func (s *Server) requireRole(r *http.Request, roles ...string) (models.Account, error) {
	account, err := s.requireAccount(r)
	if err != nil {
		return models.Account{}, err
	}
	for _, role := range roles {
		if account.Role == role {
			return account, nil
		}
	}
	return models.Account{}, services.ErrForbidden("Access denied")
}

// writeServiceError maps a ServiceError onto the response; anything else is a
// 500 with no detail leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Code, serr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}
