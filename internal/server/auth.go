package server

import (
	"context"
	"errors"
	"net/http"

	"donorconnect/internal/metrics"
	"donorconnect/pkg/types"
)

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  *types.Session `json:"user"`
}

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if sessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{
			Title:  "Sign in",
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		},
	}

	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse login form")
		s.redirectWithError(w, r, "/login", "Invalid form submission")
		return
	}

	var in loginForm
	if err := decoder.Decode(&in, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode login form")
		s.redirectWithError(w, r, "/login", "Invalid form submission")
		return
	}

	user, _, err := s.login(r.Context(), w, in)
	if err != nil {
		if !errors.Is(err, types.ErrInvalidCredentials) {
			s.logger.WithError(err).Error("failed to log in user")
			s.internalServerError(w)
			return
		}

		data := &types.LoginPageData{
			BasePageData: types.BasePageData{Title: "Sign in", Error: "Invalid email or password"},
			Email:        in.Email,
		}
		if err := s.renderTemplateStatus(w, r, http.StatusUnauthorized, "page.login", data); err != nil {
			s.logger.WithError(err).Error("failed to render login page")
		}
		return
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")

	if path := s.popRedirect(w, r); path != "" {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	s.redirectWithNotice(w, r, "/login", "You have been signed out")
}

func (s *Service) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var in loginForm
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "login")
		return
	}

	_, issued, err := s.login(r.Context(), w, in)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.apiError(w, r, err, "login")
		return
	}

	s.writeJSON(w, http.StatusOK, issued)
}

func (s *Service) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (s *Service) handleAPISession(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.writeJSON(w, http.StatusOK, session)
}

// login checks the credentials and sets the session cookie on success.
func (s *Service) login(ctx context.Context, w http.ResponseWriter, in loginForm) (*types.User, *loginResponse, error) {
	user, err := s.authenticator.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		} else {
			metrics.LoginAttempts.WithLabelValues("error").Inc()
		}
		return nil, nil, err
	}

	token, session, err := s.sessions.Issue(user)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	if err := s.sessions.SetCookie(w, token); err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return user, &loginResponse{Token: token, User: session}, nil
}
