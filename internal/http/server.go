package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"innosistemas/api/internal/academics"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/identity"
	"innosistemas/api/internal/metrics"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/teams"
)

type Server struct {
	identity  *identity.Service
	academics *academics.Service
	teams     *teams.Service
	catalog   []dto.CourseCatalogEntry
	logger    *slog.Logger
}

func NewServer(identitySvc *identity.Service, academicsSvc *academics.Service, teamsSvc *teams.Service, catalog []dto.CourseCatalogEntry, logger *slog.Logger) *Server {
	return &Server{
		identity:  identitySvc,
		academics: academicsSvc,
		teams:     teamsSvc,
		catalog:   catalog,
		logger:    logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/register", s.handleRegister)
		r.With(s.authMiddleware).Post("/logout", s.handleLogout)
		r.With(s.authMiddleware).Get("/me", s.handleGetMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.With(requirePermission(model.PermManageUsers)).Get("/users", s.handleListUsers)
		r.Get("/users/{email}", s.handleGetUser)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Get("/catalog", s.handleGetCatalog)
			r.With(requirePermission(model.PermManageCourses)).Post("/", s.handleCreateCourse)
			r.Get("/{courseId}", s.handleGetCourse)
			r.Post("/{courseId}/enroll", s.handleEnroll)
			r.Get("/{courseId}/students", s.handleListCourseStudents)
			r.Get("/{courseId}/projects", s.handleListCourseProjects)
			r.Get("/{courseId}/teams", s.handleListCourseTeams)
		})

		r.With(requirePermission(model.PermManageProjects)).Post("/projects", s.handleCreateProject)
		r.Get("/projects/{projectId}", s.handleGetProject)

		r.Route("/teams", func(r chi.Router) {
			r.With(requirePermission(model.PermCreateTeam)).Post("/", s.handleCreateTeam)
			r.Get("/{teamId}", s.handleGetTeam)
			r.Get("/{teamId}/detail", s.handleGetTeamDetail)
			r.With(requirePermission(model.PermJoinTeam)).Post("/{teamId}/members", s.handleJoinTeam)
			r.Delete("/{teamId}/members/{email}", s.handleLeaveTeam)
			r.With(requirePermission(model.PermManageTeams)).Patch("/{teamId}/status", s.handleChangeTeamStatus)
			r.Patch("/{teamId}/progress", s.handleUpdateTeamProgress)
		})

		r.With(requirePermission(model.PermViewReports)).Get("/reports/teams", s.handleTeamReports)

		r.Get("/notifications", s.handleListNotifications)
		r.Patch("/notifications/{notificationId}/read", s.handleMarkNotificationRead)
	})

	return r
}
