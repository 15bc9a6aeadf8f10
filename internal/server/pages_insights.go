package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"donorconnect/pkg/types"
)

type insightsPageData struct {
	types.BasePageData
	Donors  []*types.Donor
	DonorID string
	Enabled bool
	Insight *types.Insight
	Advice  template.HTML
}

func (s *Service) handleInsightsPage(w http.ResponseWriter, r *http.Request) {
	data := &insightsPageData{
		BasePageData: newBasePage(r, "AI insights"),
		DonorID:      r.URL.Query().Get("donor_id"),
	}

	s.renderInsightsPage(w, r, http.StatusOK, data)
}

func (s *Service) handlePostInsightsPage(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := decodeForm(r, &req); err != nil {
		s.logger.WithError(err).Error("failed to decode insights form")
		s.redirectWithError(w, r, "/ai-insights", "Invalid form submission")
		return
	}

	data := &insightsPageData{
		BasePageData: newBasePage(r, "AI insights"),
		DonorID:      req.DonorID,
	}

	insight, err := s.generateInsight(r.Context(), req.DonorID)
	if err != nil {
		var verr *types.ValidationError
		status := http.StatusInternalServerError
		switch {
		case errors.As(err, &verr):
			data.Error = verr.Message
			status = http.StatusBadRequest
		case types.IsNotFound(err):
			data.Error = "Donor not found"
			status = http.StatusNotFound
		case errors.Is(err, types.ErrInsightsDisabled):
			data.Error = "AI insights are not configured"
			status = http.StatusServiceUnavailable
		default:
			s.logger.WithError(err).WithField("donor_id", req.DonorID).Error("failed to generate insights")
			data.Error = "Failed to generate insights"
		}

		s.renderInsightsPage(w, r, status, data)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(insight.Insights), &buf); err != nil {
		s.logger.WithError(err).Error("failed to render insight markdown")
		s.internalServerError(w)
		return
	}

	data.Insight = insight
	data.Advice = template.HTML(buf.String())

	s.renderInsightsPage(w, r, http.StatusOK, data)
}

func (s *Service) renderInsightsPage(w http.ResponseWriter, r *http.Request, status int, data *insightsPageData) {
	donors, err := s.donorsRepo.Donors(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load donors for insights")
		s.internalServerError(w)
		return
	}

	data.Donors = donors
	data.Enabled = s.insights.Enabled()

	if err := s.renderTemplateStatus(w, r, status, "page.insights", data); err != nil {
		s.logger.WithError(err).Error("failed to render insights page")
		s.internalServerError(w)
	}
}
