package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"

	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{model.ErrMissingCredentials, http.StatusBadRequest, "missing_credentials"},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{model.ErrInvalidRefreshToken, http.StatusUnauthorized, "invalid_refresh_token"},
	{model.ErrRefreshExpired, http.StatusUnauthorized, "refresh_token_expired"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden"},
	{model.ErrNotEnrolled, http.StatusForbidden, "not_enrolled"},
	{model.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{model.ErrAlreadyInTeam, http.StatusConflict, "already_in_team"},
	{model.ErrTeamFull, http.StatusConflict, "team_full"},
	{model.ErrTeamClosed, http.StatusConflict, "team_closed"},
	{model.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{model.ErrTeamTooSmall, http.StatusConflict, "team_too_small"},
	{model.ErrNotMember, http.StatusConflict, "not_member"},
	{model.ErrConflict, http.StatusConflict, "conflict"},
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
}

// writeDomainError maps err onto an APIError. Unknown errors are logged and
// reported as 500 without detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, r, m.status, m.code, m.err.Error())
			return
		}
	}
	ctxlog.From(r.Context()).Error("request failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, "server_error", "internal server error")
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, dto.NewAPIError(status, code, message, r.URL.Path, time.Now()))
}

func writeData[T any](w http.ResponseWriter, status int, data T, message string) {
	writeJSON(w, status, dto.OK(status, data, message, time.Now()))
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.APIResponse[struct{}]{
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return ""
}

// pathID parses a positive integer URL parameter. On failure it writes a 400
// and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid "+name)
		return 0, false
	}
	return id, true
}
