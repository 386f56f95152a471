package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultNotificationLimit = 50

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	claims := claimsFromContext(r.Context())
	notifications, err := s.teams.Notifications(r.Context(), claims.UserID, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, notifications, "")
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	notification, err := s.teams.MarkNotificationRead(r.Context(), claims.UserID, chi.URLParam(r, "notificationId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, notification, "")
}
