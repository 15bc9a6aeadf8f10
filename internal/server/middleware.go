package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"donorconnect/internal/auth"
	"donorconnect/internal/metrics"
	"donorconnect/pkg/types"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeySession   contextKey = "session"
	contextKeyRequestID contextKey = "request_id"
)

const (
	headerRequestID    = "X-Request-ID"
	redirectCookieName = "donorconnect_redirect"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (s *Service) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		w.Header().Set(headerRequestID, requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
			"request_id":  requestIDFromContext(r.Context()),
		}).Info("http request")
	})
}

func (s *Service) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		route := metrics.Route(r.URL.Path)

		metrics.RequestInFlight.Inc()
		defer metrics.RequestInFlight.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		status := strconv.Itoa(rw.statusCode)
		metrics.RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(started).Seconds())
		metrics.RequestTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// ResolveSession reads the session once per request and stores it on the context.
func (s *Service) ResolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.sessions.Resolve(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeySession, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RouteGuard rejects requests to protected prefixes before any handler runs.
func (s *Service) RouteGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		rule, decision := s.guard.Check(r.URL.Path, session)
		if decision == auth.Allow {
			next.ServeHTTP(w, r)
			return
		}

		kind := "page"
		if rule.API {
			kind = "api"
		}
		metrics.GuardDecisions.WithLabelValues(decision.String(), kind).Inc()

		s.logger.WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"decision":   decision.String(),
			"request_id": requestIDFromContext(r.Context()),
		}).Debug("route guard rejected request")

		switch {
		case decision == auth.Unauthenticated && rule.API:
			s.writeError(w, http.StatusUnauthorized, "Unauthorized")
		case decision == auth.Unauthenticated:
			if r.Method == http.MethodGet {
				s.setRedirectCookie(w, r.URL.RequestURI(), 5*time.Minute)
			}
			s.redirectToLogin(w, r)
		case rule.API:
			s.writeError(w, http.StatusForbidden, "Forbidden")
		default:
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		}
	})
}

// CSRFMiddleware protects form posts. JSON requests are exempt and the
// middleware is a no-op when no key is configured.
func (s *Service) CSRFMiddleware(next http.Handler) http.Handler {
	if len(s.csrfKey) == 0 {
		return next
	}

	protect := csrf.Protect(
		s.csrfKey,
		csrf.Secure(s.config.CookieSecure),
		csrf.Path("/"),
		csrf.FieldName(csrfFieldName),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)
	protected := protect(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			next.ServeHTTP(w, r)
			return
		}

		if !s.config.CookieSecure {
			r = csrf.PlaintextHTTPRequest(r)
		}

		protected.ServeHTTP(w, r)
	})
}

const csrfFieldName = "csrf_token"

func (s *Service) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	s.logger.WithError(csrf.FailureReason(r)).WithField("path", r.URL.Path).Warn("csrf validation failed")
	http.Error(w, "Forbidden - invalid form token", http.StatusForbidden)
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionFromContext(ctx context.Context) *types.Session {
	session, _ := ctx.Value(contextKeySession).(*types.Session)
	return session
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookieName,
		Value:    url.QueryEscape(path),
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// popRedirect returns the path saved before the login redirect, if it is a local path.
func (s *Service) popRedirect(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(redirectCookieName)
	if err != nil {
		return ""
	}
	s.clearRedirectCookie(w)

	path, err := url.QueryUnescape(cookie.Value)
	if err != nil || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return ""
	}

	return path
}
