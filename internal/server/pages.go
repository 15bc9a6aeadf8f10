package server

import (
	"net/http"
	"sort"

	"donorconnect/internal/stats"
	"donorconnect/pkg/types"
)

const recentDonationCount = 5

type campaignRow struct {
	Campaign *types.Campaign
	Progress int
}

type taskStatusCount struct {
	Status types.TaskStatus
	Count  int
}

type dashboardPageData struct {
	types.BasePageData
	DonorCount      int
	Donations       stats.DonationTotals
	Campaigns       stats.CampaignTotals
	CampaignRows    []campaignRow
	TaskCounts      []taskStatusCount
	RecentDonations []*types.Donation
	UpcomingTasks   []*types.Task
}

func newBasePage(r *http.Request, title string) types.BasePageData {
	q := r.URL.Query()
	return types.BasePageData{
		Title:  title,
		Notice: q.Get("notice"),
		Error:  q.Get("error"),
	}
}

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	if sessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := &struct{ types.BasePageData }{newBasePage(r, "DonorConnect")}
	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	data := &struct{ types.BasePageData }{newBasePage(r, "Access denied")}
	if err := s.renderTemplateStatus(w, r, http.StatusForbidden, "page.unauthorized", data); err != nil {
		s.logger.WithError(err).Error("failed to render unauthorized page")
		s.internalServerError(w)
	}
}

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donors, err := s.donorsRepo.Donors(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load donors for dashboard")
		s.internalServerError(w)
		return
	}

	donations, err := s.donationsRepo.Donations(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load donations for dashboard")
		s.internalServerError(w)
		return
	}

	campaigns, err := s.campaignsRepo.Campaigns(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load campaigns for dashboard")
		s.internalServerError(w)
		return
	}

	tasks, err := s.tasksRepo.Tasks(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load tasks for dashboard")
		s.internalServerError(w)
		return
	}

	data := &dashboardPageData{
		BasePageData:    newBasePage(r, "Dashboard"),
		DonorCount:      len(donors),
		Donations:       stats.Donations(donations),
		Campaigns:       stats.Campaigns(campaigns),
		CampaignRows:    campaignRows(campaigns),
		TaskCounts:      orderedTaskCounts(tasks),
		RecentDonations: donations[:min(len(donations), recentDonationCount)],
		UpcomingTasks:   upcomingTasks(tasks, recentDonationCount),
	}

	if err := s.renderTemplate(w, r, "page.dashboard", data); err != nil {
		s.logger.WithError(err).Error("failed to render dashboard page")
		s.internalServerError(w)
	}
}

func campaignRows(campaigns []*types.Campaign) []campaignRow {
	rows := make([]campaignRow, 0, len(campaigns))
	for _, c := range campaigns {
		rows = append(rows, campaignRow{Campaign: c, Progress: stats.CampaignProgress(c)})
	}
	return rows
}

func orderedTaskCounts(tasks []*types.Task) []taskStatusCount {
	counts := stats.TaskCounts(tasks)
	out := make([]taskStatusCount, 0, len(types.TaskStatuses))
	for _, status := range types.TaskStatuses {
		out = append(out, taskStatusCount{Status: status, Count: counts[status]})
	}
	return out
}

// upcomingTasks returns open tasks ordered by due date.
func upcomingTasks(tasks []*types.Task, limit int) []*types.Task {
	open := make([]*types.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != types.TaskStatusCompleted {
			open = append(open, t)
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		return open[i].DueDate.Before(open[j].DueDate)
	})

	return open[:min(len(open), limit)]
}
