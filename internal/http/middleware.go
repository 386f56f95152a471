package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"

	"innosistemas/api/internal/auth"
)

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := ctxlog.With(r.Context(), logger)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		logger.Debug("request served", "status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "missing_token", "bearer token required")
			return
		}

		claims, err := s.identity.Authenticate(r.Context(), token)
		if err != nil {
			ctxlog.From(r.Context()).Debug("token rejected", "error", err)
			writeError(w, r, http.StatusUnauthorized, "invalid_token", "invalid or revoked token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if !claims.HasPermission(permission) {
				writeError(w, r, http.StatusForbidden, "forbidden", "missing permission "+permission)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
