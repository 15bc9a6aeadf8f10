package server

import (
	"errors"
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/internal/metrics"
	"donorconnect/internal/stats"
	"donorconnect/pkg/types"
)

type adminPageData struct {
	types.BasePageData
	Users         []*types.User
	RoleCounts    map[types.Role]int
	ExportEnabled bool
}

func (s *Service) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	users, err := s.usersRepo.Users(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load users")
		s.internalServerError(w)
		return
	}

	data := &adminPageData{
		BasePageData:  newBasePage(r, "Admin"),
		Users:         users,
		RoleCounts:    stats.RoleCounts(users),
		ExportEnabled: s.reports.Enabled(),
	}

	if err := s.renderTemplate(w, r, "page.admin", data); err != nil {
		s.logger.WithError(err).Error("failed to render admin page")
		s.internalServerError(w)
	}
}

func (s *Service) handlePostAdminExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if auth.Can(sessionFromContext(ctx), auth.CapExportReports) != auth.Allow {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}

	if !s.reports.Enabled() {
		metrics.ReportExports.WithLabelValues("disabled").Inc()
		s.redirectWithError(w, r, "/admin", "Report export is not configured")
		return
	}

	donors, err := s.donorsRepo.DonorsWithDonations(ctx)
	if err != nil {
		metrics.ReportExports.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("failed to load donors for export")
		s.redirectWithError(w, r, "/admin", "Failed to export donor report")
		return
	}

	key, err := s.reports.ExportDonors(ctx, donors)
	if err != nil {
		if errors.Is(err, types.ErrExportDisabled) {
			metrics.ReportExports.WithLabelValues("disabled").Inc()
			s.redirectWithError(w, r, "/admin", "Report export is not configured")
			return
		}
		metrics.ReportExports.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("failed to export donor report")
		s.redirectWithError(w, r, "/admin", "Failed to export donor report")
		return
	}

	metrics.ReportExports.WithLabelValues("success").Inc()
	s.logger.WithField("key", key).WithField("donors", len(donors)).Info("exported donor report")
	s.redirectWithNotice(w, r, "/admin", "Donor report exported to "+key)
}
