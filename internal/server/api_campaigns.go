package server

import (
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"

)

func (s *Service) handleAPIListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaignsRepo.Campaigns(r.Context())
	if err != nil {
		s.apiError(w, r, err, "list campaigns")
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *Service) handleAPIGetCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	campaign, err := s.campaignsRepo.Campaign(ctx, r.PathValue("id"))
	if err != nil {
		s.apiError(w, r, err, "get campaign")
		return
	}

	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Service) handleAPICreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in types.CampaignInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "create campaign")
		return
	}

	campaign, err := newCampaign(in)
	if err != nil {
		s.apiError(w, r, err, "create campaign")
		return
	}

	if err := s.campaignsRepo.CreateCampaign(r.Context(), campaign); err != nil {
		s.apiError(w, r, err, "create campaign")
		return
	}

	s.writeJSON(w, http.StatusCreated, campaign)
}

func (s *Service) handleAPIUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.CampaignInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "update campaign")
		return
	}

	campaign, err := s.campaignsRepo.Campaign(ctx, r.PathValue("id"))
	if err != nil {
		s.apiError(w, r, err, "update campaign")
		return
	}

	if err := applyCampaignInput(campaign, in); err != nil {
		s.apiError(w, r, err, "update campaign")
		return
	}

	if err := s.campaignsRepo.UpdateCampaign(ctx, campaign); err != nil {
		s.apiError(w, r, err, "update campaign")
		return
	}

	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Service) handleAPIDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.requireCapability(w, r, auth.CapDeleteCampaign, "campaigns") {
		return
	}

	if err := s.campaignsRepo.DeleteCampaign(ctx, r.PathValue("id")); err != nil {
		s.apiError(w, r, err, "delete campaign")
		return
	}

	s.writeJSON(w, http.StatusOK, deletedMessage("Campaign"))
}
