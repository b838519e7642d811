package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"coursekit-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type SyncAccountRequest struct {
	Subject       string  `json:"subject"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	AvatarAssetID *string `json:"avatarAssetId"`
}

type SyncAccountResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// SyncAccount is the identity provider's webhook. It is authenticated by a
// shared secret rather than a user token: the provider calls it before the
// account exists.
func (s *Server) SyncAccount(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Sync-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.Config.SyncSecret)) != 1 {
		WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid sync secret")
		return
	}
	var req SyncAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	account, err := services.SyncAccount(s.DB, services.SyncAccountInput{
		Subject:       req.Subject,
		Email:         req.Email,
		Name:          req.Name,
		AvatarMediaID: req.AvatarAssetID,
	}, s.Config.IsAdminEmail(req.Email))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, SyncAccountResponse{ID: account.ID, Role: account.Role})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	account, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	stats, err := services.StatsForAccount(s.DB, account.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, accountDTO(account, stats))
}

type RoleUpdateRequest struct {
	Role string `json:"role"`
}

func (s *Server) UpdateAccountRole(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req RoleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	accountID := chi.URLParam(r, "accountId")
	if err := services.UpdateAccountRole(s.DB, caller, accountID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
