package server

import (
	"errors"
	"fmt"
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/internal/stats"
	"donorconnect/pkg/types"

)

var campaignStatuses = []types.CampaignStatus{
	types.CampaignStatusActive,
	types.CampaignStatusPaused,
	types.CampaignStatusCompleted,
}

type campaignsPageData struct {
	types.BasePageData
	Campaigns []campaignRow
	Totals    stats.CampaignTotals
	CanDelete bool
}

type campaignFormPageData struct {
	types.BasePageData
	ID       string
	Form     campaignForm
	Statuses []types.CampaignStatus
}

func (s *Service) handleCampaignsPage(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaignsRepo.Campaigns(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load campaigns")
		s.internalServerError(w)
		return
	}

	data := &campaignsPageData{
		BasePageData: newBasePage(r, "Campaigns"),
		Campaigns:    campaignRows(campaigns),
		Totals:       stats.Campaigns(campaigns),
		CanDelete:    auth.Can(sessionFromContext(r.Context()), auth.CapDeleteCampaign) == auth.Allow,
	}

	if err := s.renderTemplate(w, r, "page.campaigns", data); err != nil {
		s.logger.WithError(err).Error("failed to render campaigns page")
		s.internalServerError(w)
	}
}

func (s *Service) handleGetCampaignForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	campaignID := r.PathValue("id")

	data := &campaignFormPageData{
		BasePageData: newBasePage(r, "New campaign"),
		Form: campaignForm{
			Type:   types.DefaultCampaignType,
			Status: string(types.CampaignStatusActive),
		},
	}

	if campaignID != "" {
		campaign, err := s.campaignsRepo.Campaign(ctx, campaignID)
		if err != nil {
			if errors.Is(err, types.ErrCampaignNotFound) {
				http.NotFound(w, r)
				return
			}
			s.logger.WithError(err).WithField("campaign_id", campaignID).Error("failed to load campaign")
			s.internalServerError(w)
			return
		}

		data.Title = "Edit campaign"
		data.ID = campaign.ID
		data.Form = campaignFormFrom(campaign)
	}

	s.renderCampaignForm(w, r, http.StatusOK, data)
}

func (s *Service) handlePostNewCampaign(w http.ResponseWriter, r *http.Request) {
	var f campaignForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode campaign form")
		s.redirectWithError(w, r, "/campaigns/new", "Invalid form submission")
		return
	}

	in, err := f.input()
	var campaign *types.Campaign
	if err == nil {
		campaign, err = newCampaign(in)
	}
	if err == nil {
		err = s.campaignsRepo.CreateCampaign(r.Context(), campaign)
	}
	if err != nil {
		s.campaignFormFailed(w, r, &campaignFormPageData{BasePageData: newBasePage(r, "New campaign"), Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/campaigns", "Campaign created")
}

func (s *Service) handlePostEditCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	campaignID := r.PathValue("id")

	var f campaignForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode campaign form")
		s.redirectWithError(w, r, fmt.Sprintf("/campaigns/%s/edit", campaignID), "Invalid form submission")
		return
	}

	in, err := f.input()
	var campaign *types.Campaign
	if err == nil {
		campaign, err = s.campaignsRepo.Campaign(ctx, campaignID)
	}
	if err == nil {
		err = applyCampaignInput(campaign, in)
	}
	if err == nil {
		err = s.campaignsRepo.UpdateCampaign(ctx, campaign)
	}
	if err != nil {
		s.campaignFormFailed(w, r, &campaignFormPageData{BasePageData: newBasePage(r, "Edit campaign"), ID: campaignID, Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/campaigns", "Campaign updated")
}

func (s *Service) handlePostDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	campaignID := r.PathValue("id")

	if auth.Can(sessionFromContext(ctx), auth.CapDeleteCampaign) != auth.Allow {
		s.redirectWithError(w, r, "/campaigns", "You cannot delete campaigns")
		return
	}

	if err := s.campaignsRepo.DeleteCampaign(ctx, campaignID); err != nil {
		if errors.Is(err, types.ErrCampaignNotFound) {
			s.redirectWithError(w, r, "/campaigns", "Campaign not found")
			return
		}
		s.logger.WithError(err).WithField("campaign_id", campaignID).Error("failed to delete campaign")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/campaigns", "Campaign deleted")
}

func (s *Service) campaignFormFailed(w http.ResponseWriter, r *http.Request, data *campaignFormPageData, err error) {
	if msg, status, ok := formFailure(err); ok {
		data.Error = msg
		s.renderCampaignForm(w, r, status, data)
		return
	}

	s.logger.WithError(err).WithField("campaign_id", data.ID).Error("failed to save campaign")
	s.internalServerError(w)
}

func (s *Service) renderCampaignForm(w http.ResponseWriter, r *http.Request, status int, data *campaignFormPageData) {
	data.Statuses = campaignStatuses
	if err := s.renderTemplateStatus(w, r, status, "page.campaign_form", data); err != nil {
		s.logger.WithError(err).Error("failed to render campaign form")
		s.internalServerError(w)
	}
}
