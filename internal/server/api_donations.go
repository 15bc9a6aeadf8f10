package server

import (
	"context"
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"

)

func (s *Service) handleAPIListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donationsRepo.Donations(r.Context())
	if err != nil {
		s.apiError(w, r, err, "list donations")
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}

func (s *Service) handleAPIGetDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donation, err := s.donationsRepo.Donation(ctx, r.PathValue("id"))
	if err != nil {
		s.apiError(w, r, err, "get donation")
		return
	}

	s.writeJSON(w, http.StatusOK, donation)
}

func (s *Service) handleAPICreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.DonationInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "create donation")
		return
	}

	donation, err := newDonation(in)
	if err != nil {
		s.apiError(w, r, err, "create donation")
		return
	}

	if err := s.donationsRepo.CreateDonation(ctx, donation); err != nil {
		s.apiError(w, r, err, "create donation")
		return
	}

	created, err := s.reloadDonation(ctx, donation)
	if err != nil {
		s.apiError(w, r, err, "create donation")
		return
	}

	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Service) handleAPIUpdateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donationID := r.PathValue("id")

	var in types.DonationInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "update donation")
		return
	}

	donation, err := s.donationsRepo.Donation(ctx, donationID)
	if err != nil {
		s.apiError(w, r, err, "update donation")
		return
	}

	if err := applyDonationInput(donation, in); err != nil {
		s.apiError(w, r, err, "update donation")
		return
	}

	if err := s.donationsRepo.UpdateDonation(ctx, donation); err != nil {
		s.apiError(w, r, err, "update donation")
		return
	}

	updated, err := s.reloadDonation(ctx, donation)
	if err != nil {
		s.apiError(w, r, err, "update donation")
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Service) handleAPIDeleteDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.requireCapability(w, r, auth.CapDeleteDonation, "donations") {
		return
	}

	if err := s.donationsRepo.DeleteDonation(ctx, r.PathValue("id")); err != nil {
		s.apiError(w, r, err, "delete donation")
		return
	}

	s.writeJSON(w, http.StatusOK, deletedMessage("Donation"))
}

// reloadDonation reads the row back so the response carries the donor summary.
func (s *Service) reloadDonation(ctx context.Context, donation *types.Donation) (*types.Donation, error) {
	return s.donationsRepo.Donation(ctx, donation.ID)
}
