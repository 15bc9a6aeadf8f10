package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"donorconnect/internal/auth"
	"donorconnect/internal/stats"
	"donorconnect/pkg/types"

)

type donationsPageData struct {
	types.BasePageData
	Donations []*types.Donation
	Totals    stats.DonationTotals
	CanDelete bool
}

type donationDetailPageData struct {
	types.BasePageData
	Donation  *types.Donation
	CanDelete bool
}

type donationFormPageData struct {
	types.BasePageData
	ID            string
	Form          donationForm
	Donors        []*types.Donor
	DonationTypes []string
}

func (s *Service) handleDonationsPage(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donationsRepo.Donations(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load donations")
		s.internalServerError(w)
		return
	}

	data := &donationsPageData{
		BasePageData: newBasePage(r, "Donations"),
		Donations:    donations,
		Totals:       stats.Donations(donations),
		CanDelete:    auth.Can(sessionFromContext(r.Context()), auth.CapDeleteDonation) == auth.Allow,
	}

	if err := s.renderTemplate(w, r, "page.donations", data); err != nil {
		s.logger.WithError(err).Error("failed to render donations page")
		s.internalServerError(w)
	}
}

func (s *Service) handleDonationDetailPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donationID := r.PathValue("id")

	donation, err := s.donationsRepo.Donation(ctx, donationID)
	if err != nil {
		if errors.Is(err, types.ErrDonationNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).WithField("donation_id", donationID).Error("failed to load donation")
		s.internalServerError(w)
		return
	}

	data := &donationDetailPageData{
		BasePageData: newBasePage(r, "Donation"),
		Donation:     donation,
		CanDelete:    auth.Can(sessionFromContext(ctx), auth.CapDeleteDonation) == auth.Allow,
	}

	if err := s.renderTemplate(w, r, "page.donation", data); err != nil {
		s.logger.WithError(err).Error("failed to render donation page")
		s.internalServerError(w)
	}
}

func (s *Service) handleGetDonationForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donationID := r.PathValue("id")

	data := &donationFormPageData{
		BasePageData: newBasePage(r, "Record donation"),
		Form: donationForm{
			Date:    time.Now().Format(types.DateLayout),
			DonorID: r.URL.Query().Get("donor_id"),
		},
	}

	if donationID != "" {
		donation, err := s.donationsRepo.Donation(ctx, donationID)
		if err != nil {
			if errors.Is(err, types.ErrDonationNotFound) {
				http.NotFound(w, r)
				return
			}
			s.logger.WithError(err).WithField("donation_id", donationID).Error("failed to load donation")
			s.internalServerError(w)
			return
		}

		data.Title = "Edit donation"
		data.ID = donation.ID
		data.Form = donationFormFrom(donation)
	}

	s.renderDonationForm(w, r, http.StatusOK, data)
}

func (s *Service) handlePostNewDonation(w http.ResponseWriter, r *http.Request) {
	var f donationForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode donation form")
		s.redirectWithError(w, r, "/donations/new", "Invalid form submission")
		return
	}

	in, err := f.input()
	var donation *types.Donation
	if err == nil {
		donation, err = newDonation(in)
	}
	if err == nil {
		err = s.donationsRepo.CreateDonation(r.Context(), donation)
	}
	if err != nil {
		s.donationFormFailed(w, r, &donationFormPageData{BasePageData: newBasePage(r, "Record donation"), Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/donations/"+donation.ID, "Donation recorded")
}

func (s *Service) handlePostEditDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donationID := r.PathValue("id")

	var f donationForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode donation form")
		s.redirectWithError(w, r, fmt.Sprintf("/donations/%s/edit", donationID), "Invalid form submission")
		return
	}

	in, err := f.input()
	var donation *types.Donation
	if err == nil {
		donation, err = s.donationsRepo.Donation(ctx, donationID)
	}
	if err == nil {
		err = applyDonationInput(donation, in)
	}
	if err == nil {
		err = s.donationsRepo.UpdateDonation(ctx, donation)
	}
	if err != nil {
		s.donationFormFailed(w, r, &donationFormPageData{BasePageData: newBasePage(r, "Edit donation"), ID: donationID, Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/donations/"+donationID, "Donation updated")
}

func (s *Service) handlePostDeleteDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donationID := r.PathValue("id")

	if auth.Can(sessionFromContext(ctx), auth.CapDeleteDonation) != auth.Allow {
		s.redirectWithError(w, r, "/donations/"+donationID, "Only admins can delete donations")
		return
	}

	if err := s.donationsRepo.DeleteDonation(ctx, donationID); err != nil {
		if errors.Is(err, types.ErrDonationNotFound) {
			s.redirectWithError(w, r, "/donations", "Donation not found")
			return
		}
		s.logger.WithError(err).WithField("donation_id", donationID).Error("failed to delete donation")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/donations", "Donation deleted")
}

func (s *Service) donationFormFailed(w http.ResponseWriter, r *http.Request, data *donationFormPageData, err error) {
	if msg, status, ok := formFailure(err); ok {
		data.Error = msg
		s.renderDonationForm(w, r, status, data)
		return
	}

	s.logger.WithError(err).WithField("donation_id", data.ID).Error("failed to save donation")
	s.internalServerError(w)
}

// renderDonationForm fills the donor picker before rendering.
func (s *Service) renderDonationForm(w http.ResponseWriter, r *http.Request, status int, data *donationFormPageData) {
	donors, err := s.donorsRepo.Donors(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load donors for donation form")
		s.internalServerError(w)
		return
	}

	data.Donors = donors
	data.DonationTypes = types.DonationTypes

	if err := s.renderTemplateStatus(w, r, status, "page.donation_form", data); err != nil {
		s.logger.WithError(err).Error("failed to render donation form")
		s.internalServerError(w)
	}
}
