package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"innosistemas/api/internal/model"
)

const defaultUserLimit = 100

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit := defaultUserLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	users, err := s.identity.ListUsers(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, users, "")
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
	claims := claimsFromContext(r.Context())
	if email != claims.Email && !claims.HasPermission(model.PermManageUsers) {
		writeError(w, r, http.StatusForbidden, "forbidden", "cannot read another user")
		return
	}

	user, err := s.identity.GetUser(r.Context(), email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user, "")
}
