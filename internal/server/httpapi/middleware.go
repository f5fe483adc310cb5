package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/auth"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "panic in handler", "panic", p, "path", r.URL.Path)
				writeJSON(rec, http.StatusInternalServerError, errorBody{Error: msgServerError})
			}
			s.logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}

// requireUser identifies the caller from X-Token and stores the user id in the
// request context. Requests without a valid session get 401.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.guard.Identify(r.Context(), token(r))
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	}
}

// optionalUser is requireUser for endpoints that also serve anonymous
// callers; the context carries no user id for them.
func (s *Server) optionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.guard.IdentifyOptional(r.Context(), token(r))
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := r.Context()
		if userID != "" {
			ctx = auth.WithUserID(ctx, userID)
		}
		next(w, r.WithContext(ctx))
	}
}

// caller returns the user id stored by requireUser or optionalUser, "" for
// anonymous callers.
func caller(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}
