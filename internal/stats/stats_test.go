package stats

import (
	"testing"

	"donorconnect/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestDonations(t *testing.T) {
	assert.Equal(t, DonationTotals{}, Donations(nil))

	totals := Donations([]*types.Donation{
		{Amount: 500, DonorID: "a"},
		{Amount: 1000, DonorID: "a"},
		{Amount: 250, DonorID: "b"},
	})
	assert.Equal(t, 3, totals.Count)
	assert.InDelta(t, 1750, totals.Total, 0.001)
	assert.InDelta(t, 583.333, totals.Average, 0.001)
}

func TestByDonor(t *testing.T) {
	out := ByDonor([]*types.Donation{
		{Amount: 500, DonorID: "a"},
		{Amount: 1000, DonorID: "a"},
		{Amount: 250, DonorID: "b"},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, 2, out["a"].Count)
	assert.InDelta(t, 750, out["a"].Average, 0.001)
	assert.InDelta(t, 250, out["b"].Total, 0.001)
	assert.Equal(t, DonationTotals{}, out["missing"])
}

func TestCampaignProgress(t *testing.T) {
	cases := []struct {
		name   string
		raised float64
		goal   float64
		want   int
	}{
		{"over goal clamps", 100000, 10000, 100},
		{"partial", 1000, 50000, 2},
		{"rounds", 1250, 10000, 13},
		{"zero goal", 500, 0, 0},
		{"negative goal", 500, -10, 0},
		{"negative raised", -500, 1000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CampaignProgress(&types.Campaign{Raised: tc.raised, Goal: tc.goal}))
		})
	}

	assert.Equal(t, 0, CampaignProgress(nil))
}

func TestCampaigns(t *testing.T) {
	totals := Campaigns([]*types.Campaign{
		{Raised: 100000, Goal: 10000, Status: types.CampaignStatusActive},
		{Raised: 1000, Goal: 50000, Status: types.CampaignStatusPaused},
	})

	assert.Equal(t, 2, totals.Count)
	assert.Equal(t, 1, totals.Active)
	assert.InDelta(t, 50500, totals.AverageRaised, 0.001)
	assert.InDelta(t, 60000, totals.TotalGoal, 0.001)
}

func TestTaskCounts(t *testing.T) {
	counts := TaskCounts([]*types.Task{
		{Status: types.TaskStatusPending},
		{Status: types.TaskStatusPending},
		{Status: types.TaskStatusCompleted},
	})

	assert.Equal(t, 2, counts[types.TaskStatusPending])
	assert.Equal(t, 1, counts[types.TaskStatusCompleted])
	assert.Equal(t, 0, counts[types.TaskStatusOverdue])
	assert.Len(t, counts, len(types.TaskStatuses))
}

func TestRoleCounts(t *testing.T) {
	counts := RoleCounts([]*types.User{{Role: types.RoleAdmin}, {Role: types.RoleStaff}, {Role: types.RoleStaff}})
	assert.Equal(t, 1, counts[types.RoleAdmin])
	assert.Equal(t, 2, counts[types.RoleStaff])
}
