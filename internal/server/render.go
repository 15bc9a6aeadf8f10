package server

import (
	"bytes"
	"html/template"
	"net/http"

	"donorconnect/pkg/types"

	"github.com/gorilla/csrf"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	return s.renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus executes into a buffer so a failing template never
// leaves a half written page behind.
func (s *Service) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) error {
	if setter, ok := data.(types.PageDataSetter); ok {
		session := sessionFromContext(r.Context())

		navbar := types.NavbarData{IsAuthenticated: session != nil}
		if session != nil {
			navbar.UserID = session.UserID
			navbar.UserName = session.Name
			navbar.UserEmail = session.Email
			navbar.IsAdmin = session.IsAdmin()
		}
		setter.SetNavbarData(navbar)

		var field template.HTML
		if len(s.csrfKey) > 0 {
			field = csrf.TemplateField(r)
		}
		setter.SetCSRFField(field)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
