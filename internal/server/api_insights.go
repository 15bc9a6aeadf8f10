package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"donorconnect/internal/metrics"
	"donorconnect/pkg/types"
)

type insightRequest struct {
	DonorID string `json:"donorId" form:"donor_id"`
}

func (s *Service) handleAPIInsights(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := decodeJSON(r, &req); err != nil {
		s.apiError(w, r, err, "generate insights")
		return
	}

	insight, err := s.generateInsight(r.Context(), req.DonorID)
	if err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) || types.IsNotFound(err) || errors.Is(err, types.ErrInsightsDisabled) {
			s.apiError(w, r, err, "generate insights")
			return
		}

		s.logger.WithError(err).WithField("donor_id", req.DonorID).Error("failed to generate insights")
		s.writeError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	s.writeJSON(w, http.StatusOK, insight)
}

// generateInsight loads the donor with their full giving history and asks the
// generator for advice. Every outcome is counted.
func (s *Service) generateInsight(ctx context.Context, donorID string) (*types.Insight, error) {
	insight, err := s.loadAndGenerate(ctx, strings.TrimSpace(donorID))

	result := "success"
	var verr *types.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		result = "invalid"
	case types.IsNotFound(err):
		result = "not_found"
	case errors.Is(err, types.ErrInsightsDisabled):
		result = "disabled"
	default:
		result = "error"
	}
	metrics.InsightRequests.WithLabelValues(result).Inc()

	return insight, err
}

func (s *Service) loadAndGenerate(ctx context.Context, donorID string) (*types.Insight, error) {
	if donorID == "" {
		return nil, types.NewValidationError("Donor ID is required")
	}

	donor, err := s.donorsRepo.Donor(ctx, donorID)
	if err != nil {
		return nil, err
	}

	donations, err := s.donationsRepo.DonationsByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	donor.Donations = donations

	return s.insights.Generate(ctx, donor)
}
