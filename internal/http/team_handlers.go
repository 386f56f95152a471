package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"innosistemas/api/internal/dto"
)

type statusRequest struct {
	Status dto.TeamStatus `json:"status"`
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var form dto.CreateTeamForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "malformed team payload")
		return
	}

	team, err := s.teams.Create(r.Context(), claimsFromContext(r.Context()), form)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, team, "team created")
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	team, err := s.teams.Show(r.Context(), teamID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, team, "")
}

func (s *Server) handleGetTeamDetail(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	team, err := s.teams.Detail(r.Context(), teamID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, team, "")
}

func (s *Server) handleJoinTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	team, err := s.teams.Join(r.Context(), claimsFromContext(r.Context()), teamID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, team, "joined team")
}

func (s *Server) handleLeaveTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
	team, err := s.teams.Leave(r.Context(), claimsFromContext(r.Context()), teamID, email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, team, "member removed")
}

func (s *Server) handleChangeTeamStatus(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "status must be one of forming, active, completed, incomplete")
		return
	}

	team, err := s.teams.ChangeStatus(r.Context(), teamID, req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, team, "status updated")
}

func (s *Server) handleUpdateTeamProgress(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil || req.Progress == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "progress is required")
		return
	}

	report, err := s.teams.UpdateProgress(r.Context(), claimsFromContext(r.Context()), teamID, *req.Progress)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, report, "progress updated")
}

func (s *Server) handleTeamReports(w http.ResponseWriter, r *http.Request) {
	var courseID *int64
	if raw := r.URL.Query().Get("courseId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid courseId")
			return
		}
		courseID = &parsed
	}

	reports, err := s.teams.Reports(r.Context(), courseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, reports, "")
}
