package http

import (
	"errors"
	"io"
	"net/http"

	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/identity"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "malformed login payload")
		return
	}

	ctx := identity.WithClient(r.Context(), r.UserAgent(), clientIP(r))
	resp, err := s.identity.Login(ctx, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "refreshToken is required")
		return
	}

	ctx := identity.WithClient(r.Context(), r.UserAgent(), clientIP(r))
	resp, err := s.identity.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserDto
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "malformed registration payload")
		return
	}

	user, err := s.identity.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, user, "user registered")
}

// handleLogout accepts an empty body, which logs out the caller.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "malformed logout payload")
			return
		}
	}

	if err := s.identity.LogoutClaims(r.Context(), claimsFromContext(r.Context()), req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "logged out")
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	info, err := s.identity.Me(r.Context(), claimsFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
