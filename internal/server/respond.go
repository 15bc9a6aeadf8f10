package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"donorconnect/pkg/types"

	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode json response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// apiError translates a handler failure into the JSON error contract.
// Validation and not found errors carry their own message, anything
// else is logged and reported as a generic 500.
func (s *Service) apiError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeError(w, http.StatusBadRequest, verr.Message)
	case types.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, types.ErrInsightsDisabled), errors.Is(err, types.ErrExportDisabled):
		s.writeError(w, http.StatusServiceUnavailable, "Service unavailable")
	default:
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":     action,
			"path":       r.URL.Path,
			"request_id": requestIDFromContext(r.Context()),
		}).Error("request failed")
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrDonorNotFound):
		return "Donor not found"
	case errors.Is(err, types.ErrDonationNotFound):
		return "Donation not found"
	case errors.Is(err, types.ErrCampaignNotFound):
		return "Campaign not found"
	case errors.Is(err, types.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, types.ErrUserNotFound):
		return "User not found"
	}
	return "Not found"
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return types.NewValidationError("Request body is required")
	}

	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return types.NewValidationError("Invalid request body: %s", err.Error())
	}

	return nil
}

func deletedMessage(entity string) messageResponse {
	return messageResponse{Message: fmt.Sprintf("%s deleted successfully", entity)}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Service) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	v := url.Values{}
	v.Set("notice", notice)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	v := url.Values{}
	v.Set("error", msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func formatMoney(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}

	whole := int64(f)
	cents := int64((f-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	sign := ""
	if neg {
		sign = "-"
	}

	return fmt.Sprintf("%s$%s.%02d", sign, out, cents)
}
