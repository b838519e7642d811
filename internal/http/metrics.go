package httpapi

import (
	"log"
	"net/http"

	"coursekit-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

var metricsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// MetricsSocket streams live server metric samples to admin dashboards.
// Browsers cannot set an Authorization header on a websocket handshake, so the
// token rides in the query string.
func (s *Server) MetricsSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	token, claims, err := s.Tokens.ParseToken(tokenStr)
	if err != nil || !token.Valid {
		WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}
	subject, _ := claims["sub"].(string)
	account, err := services.AccountBySubject(s.DB, subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if account.Role != services.RoleAdmin {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}

	conn, err := metricsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("metrics ws upgrade: %v", err)
		return
	}
	s.MetricsHub.Add(conn)
	defer func() {
		s.MetricsHub.Remove(conn)
		_ = conn.Close()
	}()

	// Reads are only consumed to detect the peer closing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
