// Package stats computes the aggregate numbers shown on the dashboard and
// detail pages. Everything is derived from the rows passed in.
package stats

import (
	"math"

	"donorconnect/pkg/types"
)

type DonationTotals struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

func Donations(donations []*types.Donation) DonationTotals {
	var totals DonationTotals
	for _, d := range donations {
		totals.Count++
		totals.Total += d.Amount
	}

	if totals.Count > 0 {
		totals.Average = totals.Total / float64(totals.Count)
	}

	return totals
}

// ByDonor groups donation totals by donor id.
func ByDonor(donations []*types.Donation) map[string]DonationTotals {
	grouped := make(map[string][]*types.Donation)
	for _, d := range donations {
		grouped[d.DonorID] = append(grouped[d.DonorID], d)
	}

	out := make(map[string]DonationTotals, len(grouped))
	for donorID, list := range grouped {
		out[donorID] = Donations(list)
	}

	return out
}

// CampaignProgress is raised/goal as a whole percentage clamped to [0, 100].
func CampaignProgress(c *types.Campaign) int {
	if c == nil || c.Goal <= 0 {
		return 0
	}

	pct := math.Round(c.Raised / c.Goal * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}

	return int(pct)
}

type CampaignTotals struct {
	Count         int     `json:"count"`
	Active        int     `json:"active"`
	TotalRaised   float64 `json:"totalRaised"`
	TotalGoal     float64 `json:"totalGoal"`
	AverageRaised float64 `json:"averageRaised"`
}

func Campaigns(campaigns []*types.Campaign) CampaignTotals {
	var totals CampaignTotals
	for _, c := range campaigns {
		totals.Count++
		totals.TotalRaised += c.Raised
		totals.TotalGoal += c.Goal
		if c.Status == types.CampaignStatusActive {
			totals.Active++
		}
	}

	if totals.Count > 0 {
		totals.AverageRaised = totals.TotalRaised / float64(totals.Count)
	}

	return totals
}

// TaskCounts always carries every known status, zero when absent.
func TaskCounts(tasks []*types.Task) map[types.TaskStatus]int {
	counts := make(map[types.TaskStatus]int, len(types.TaskStatuses))
	for _, s := range types.TaskStatuses {
		counts[s] = 0
	}

	for _, t := range tasks {
		counts[t.Status]++
	}

	return counts
}

func RoleCounts(users []*types.User) map[types.Role]int {
	counts := map[types.Role]int{
		types.RoleAdmin: 0,
		types.RoleStaff: 0,
	}

	for _, u := range users {
		counts[u.Role]++
	}

	return counts
}
