package server

import (
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"

)

func (s *Service) handleAPIListDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := s.donorsRepo.DonorsWithDonations(r.Context())
	if err != nil {
		s.apiError(w, r, err, "list donors")
		return
	}

	s.writeJSON(w, http.StatusOK, donors)
}

func (s *Service) handleAPIGetDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID := r.PathValue("id")

	donor, err := s.donorsRepo.Donor(ctx, donorID)
	if err != nil {
		s.apiError(w, r, err, "get donor")
		return
	}

	donations, err := s.donationsRepo.DonationsByDonor(ctx, donorID)
	if err != nil {
		s.apiError(w, r, err, "get donor donations")
		return
	}
	donor.Donations = donations

	s.writeJSON(w, http.StatusOK, donor)
}

func (s *Service) handleAPICreateDonor(w http.ResponseWriter, r *http.Request) {
	var in types.DonorInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "create donor")
		return
	}

	donor, err := newDonor(in)
	if err != nil {
		s.apiError(w, r, err, "create donor")
		return
	}

	if err := s.donorsRepo.CreateDonor(r.Context(), donor); err != nil {
		s.apiError(w, r, err, "create donor")
		return
	}

	s.writeJSON(w, http.StatusCreated, donor)
}

func (s *Service) handleAPIUpdateDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID := r.PathValue("id")

	var in types.DonorInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "update donor")
		return
	}

	donor, err := s.donorsRepo.Donor(ctx, donorID)
	if err != nil {
		s.apiError(w, r, err, "update donor")
		return
	}

	if err := applyDonorInput(donor, in); err != nil {
		s.apiError(w, r, err, "update donor")
		return
	}

	if err := s.donorsRepo.UpdateDonor(ctx, donor); err != nil {
		s.apiError(w, r, err, "update donor")
		return
	}

	s.writeJSON(w, http.StatusOK, donor)
}

func (s *Service) handleAPIDeleteDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.requireCapability(w, r, auth.CapDeleteDonor, "donors") {
		return
	}

	if err := s.donorsRepo.DeleteDonor(ctx, r.PathValue("id")); err != nil {
		s.apiError(w, r, err, "delete donor")
		return
	}

	s.writeJSON(w, http.StatusOK, deletedMessage("Donor"))
}

// requireCapability writes the 401/403 response and returns false when the
// session lacks the capability.
func (s *Service) requireCapability(w http.ResponseWriter, r *http.Request, c auth.Capability, noun string) bool {
	switch auth.Can(sessionFromContext(r.Context()), c) {
	case auth.Allow:
		return true
	case auth.Unauthenticated:
		s.writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		s.writeError(w, http.StatusForbidden, "Only admins can delete "+noun)
	}
	return false
}
