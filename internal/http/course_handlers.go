package http

import (
	"net/http"

	"innosistemas/api/internal/dto"
)

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.academics.ListCourses(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, courses, "")
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.catalog, "")
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var form dto.CreateCourseForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "malformed course payload")
		return
	}

	course, err := s.academics.CreateCourse(r.Context(), form)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, course, "course created")
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	course, err := s.academics.GetCourse(r.Context(), courseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, course, "")
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	claims := claimsFromContext(r.Context())
	if err := s.academics.Enroll(r.Context(), courseID, claims.UserID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "enrolled")
}

func (s *Server) handleListCourseStudents(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	students, err := s.academics.ListStudents(r.Context(), courseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, students, "")
}

func (s *Server) handleListCourseProjects(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	projects, err := s.academics.ListProjects(r.Context(), courseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, projects, "")
}

func (s *Server) handleListCourseTeams(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	teams, err := s.teams.ListByCourse(r.Context(), courseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, teams, "")
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var form dto.CreateProjectForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "malformed project payload")
		return
	}

	project, err := s.academics.CreateProject(r.Context(), form)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, project, "project created")
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	project, err := s.academics.GetProject(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, project, "")
}
