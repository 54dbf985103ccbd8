package server

import (
	"net/http"
	"strings"
	"time"

	"blog_publisher/internal/domain"
)

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type authedHandler func(w http.ResponseWriter, r *http.Request, user *domain.User)

// requireAuth resolves the bearer token to a current user record and passes
// it to the handler; anything short of that is a 401.
func (s *Server) requireAuth(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, err := s.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.auth.UserByID(r.Context(), userID)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		next(w, r, user)
	})
}
