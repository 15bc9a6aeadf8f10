package server

import (
	"errors"
	"fmt"
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/internal/stats"
	"donorconnect/pkg/types"

)

type donorRow struct {
	Donor  *types.Donor
	Totals stats.DonationTotals
}

type donorsPageData struct {
	types.BasePageData
	Donors    []donorRow
	CanDelete bool
}

type donorDetailPageData struct {
	types.BasePageData
	Donor     *types.Donor
	Totals    stats.DonationTotals
	CanDelete bool
}

type donorFormPageData struct {
	types.BasePageData
	ID   string
	Form donorForm
}

func (s *Service) handleDonorsPage(w http.ResponseWriter, r *http.Request) {
	donors, err := s.donorsRepo.DonorsWithDonations(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load donors")
		s.internalServerError(w)
		return
	}

	rows := make([]donorRow, 0, len(donors))
	for _, d := range donors {
		rows = append(rows, donorRow{Donor: d, Totals: stats.Donations(d.Donations)})
	}

	data := &donorsPageData{
		BasePageData: newBasePage(r, "Donors"),
		Donors:       rows,
		CanDelete:    auth.Can(sessionFromContext(r.Context()), auth.CapDeleteDonor) == auth.Allow,
	}

	if err := s.renderTemplate(w, r, "page.donors", data); err != nil {
		s.logger.WithError(err).Error("failed to render donors page")
		s.internalServerError(w)
	}
}

func (s *Service) handleDonorDetailPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID := r.PathValue("id")

	donor, err := s.donorsRepo.Donor(ctx, donorID)
	if err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).WithField("donor_id", donorID).Error("failed to load donor")
		s.internalServerError(w)
		return
	}

	donor.Donations, err = s.donationsRepo.DonationsByDonor(ctx, donorID)
	if err != nil {
		s.logger.WithError(err).WithField("donor_id", donorID).Error("failed to load donor donations")
		s.internalServerError(w)
		return
	}

	data := &donorDetailPageData{
		BasePageData: newBasePage(r, donor.Name),
		Donor:        donor,
		Totals:       stats.Donations(donor.Donations),
		CanDelete:    auth.Can(sessionFromContext(ctx), auth.CapDeleteDonor) == auth.Allow,
	}

	if err := s.renderTemplate(w, r, "page.donor", data); err != nil {
		s.logger.WithError(err).Error("failed to render donor page")
		s.internalServerError(w)
	}
}

func (s *Service) handleGetDonorForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID := r.PathValue("id")

	data := &donorFormPageData{BasePageData: newBasePage(r, "New donor")}
	if donorID != "" {
		donor, err := s.donorsRepo.Donor(ctx, donorID)
		if err != nil {
			if errors.Is(err, types.ErrDonorNotFound) {
				http.NotFound(w, r)
				return
			}
			s.logger.WithError(err).WithField("donor_id", donorID).Error("failed to load donor")
			s.internalServerError(w)
			return
		}

		data.Title = "Edit donor"
		data.ID = donor.ID
		data.Form = donorFormFrom(donor)
	}

	s.renderDonorForm(w, r, http.StatusOK, data)
}

func (s *Service) handlePostNewDonor(w http.ResponseWriter, r *http.Request) {
	var f donorForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode donor form")
		s.redirectWithError(w, r, "/donors/new", "Invalid form submission")
		return
	}

	donor, err := newDonor(f.input())
	if err == nil {
		err = s.donorsRepo.CreateDonor(r.Context(), donor)
	}
	if err != nil {
		s.donorFormFailed(w, r, &donorFormPageData{BasePageData: newBasePage(r, "New donor"), Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/donors/"+donor.ID, "Donor created")
}

func (s *Service) handlePostEditDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID := r.PathValue("id")

	var f donorForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode donor form")
		s.redirectWithError(w, r, fmt.Sprintf("/donors/%s/edit", donorID), "Invalid form submission")
		return
	}

	donor, err := s.donorsRepo.Donor(ctx, donorID)
	if err == nil {
		err = applyDonorInput(donor, f.input())
	}
	if err == nil {
		err = s.donorsRepo.UpdateDonor(ctx, donor)
	}
	if err != nil {
		s.donorFormFailed(w, r, &donorFormPageData{BasePageData: newBasePage(r, "Edit donor"), ID: donorID, Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/donors/"+donorID, "Donor updated")
}

func (s *Service) handlePostDeleteDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID := r.PathValue("id")

	if auth.Can(sessionFromContext(ctx), auth.CapDeleteDonor) != auth.Allow {
		s.redirectWithError(w, r, "/donors/"+donorID, "Only admins can delete donors")
		return
	}

	if err := s.donorsRepo.DeleteDonor(ctx, donorID); err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			s.redirectWithError(w, r, "/donors", "Donor not found")
			return
		}
		s.logger.WithError(err).WithField("donor_id", donorID).Error("failed to delete donor")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/donors", "Donor deleted")
}

func (s *Service) donorFormFailed(w http.ResponseWriter, r *http.Request, data *donorFormPageData, err error) {
	if msg, status, ok := formFailure(err); ok {
		data.Error = msg
		s.renderDonorForm(w, r, status, data)
		return
	}

	s.logger.WithError(err).WithField("donor_id", data.ID).Error("failed to save donor")
	s.internalServerError(w)
}

func (s *Service) renderDonorForm(w http.ResponseWriter, r *http.Request, status int, data *donorFormPageData) {
	if err := s.renderTemplateStatus(w, r, status, "page.donor_form", data); err != nil {
		s.logger.WithError(err).Error("failed to render donor form")
		s.internalServerError(w)
	}
}

// formFailure maps errors a user can fix to a message and status.
func formFailure(err error) (string, int, bool) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message, http.StatusBadRequest, true
	case types.IsNotFound(err):
		return notFoundMessage(err), http.StatusNotFound, true
	}
	return "", 0, false
}
