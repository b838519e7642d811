package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursekit-backend-go/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestHandler(t *testing.T, tokens services.TokenService) http.Handler {
	t.Helper()
	return WithAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Subject", CurrentSubject(r))
		w.WriteHeader(http.StatusOK)
	}))
}

func TestWithAuthRejectsMissingHeader(t *testing.T) {
	tokens := services.TokenService{Secret: []byte("secret"), Issuer: "issuer"}
	handler := authTestHandler(t, tokens)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthRejectsGarbageToken(t *testing.T) {
	tokens := services.TokenService{Secret: []byte("secret"), Issuer: "issuer"}
	handler := authTestHandler(t, tokens)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthAcceptsValidToken(t *testing.T) {
	tokens := services.TokenService{Secret: []byte("secret"), Issuer: "issuer"}
	handler := authTestHandler(t, tokens)

	tokenStr, err := tokens.CreateToken("sub-42", "user@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub-42", rec.Header().Get("X-Subject"))
}

func TestWriteServiceError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, services.ErrNotEnrolled("Not enrolled in this course"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_ENROLLED")

	rec = httptest.NewRecorder()
	writeServiceError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}
