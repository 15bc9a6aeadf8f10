package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepos struct {
	users     []*types.User
	donors    []*types.Donor
	donations []*types.Donation
	campaigns []*types.Campaign
	tasks     []*types.Task

	failDonations bool
}

func (m *memoryRepos) CreateUser(_ context.Context, u *types.User) error {
	u.ID = fmt.Sprintf("user-%d", len(m.users))
	m.users = append(m.users, u)
	return nil
}

func (m *memoryRepos) CreateDonor(_ context.Context, d *types.Donor) error {
	d.ID = fmt.Sprintf("donor-%d", len(m.donors))
	m.donors = append(m.donors, d)
	return nil
}

func (m *memoryRepos) CreateDonation(_ context.Context, d *types.Donation) error {
	if m.failDonations {
		return errors.New("insert failed")
	}
	m.donations = append(m.donations, d)
	return nil
}

func (m *memoryRepos) CreateCampaign(_ context.Context, c *types.Campaign) error {
	m.campaigns = append(m.campaigns, c)
	return nil
}

func (m *memoryRepos) CreateTask(_ context.Context, t *types.Task) error {
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *memoryRepos) repositories() Repositories {
	return Repositories{Users: m, Donors: m, Donations: m, Campaigns: m, Tasks: m}
}

func TestRun(t *testing.T) {
	m := new(memoryRepos)

	summary, err := Run(context.Background(), m.repositories())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Admins)
	assert.Equal(t, 1, summary.Staff)
	assert.Equal(t, 5, summary.Donors)
	assert.Equal(t, 10, summary.Donations)
	assert.Equal(t, 2, summary.Campaigns)
	assert.Equal(t, 1, summary.Tasks)
	assert.InDelta(t, 22800, summary.TotalRaised, 0.001)

	admin := m.users[0]
	assert.Equal(t, "admin@donorconnect.com", admin.Email)
	assert.Equal(t, types.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.Password, "admin123"))
	assert.True(t, auth.CheckPassword(m.users[1].Password, "staff123"))

	perDonor := make(map[string]int)
	for _, d := range m.donations {
		perDonor[d.DonorID]++
	}
	for _, d := range m.donors {
		assert.Equal(t, 2, perDonor[d.ID], d.Name)
	}

	assert.Equal(t, "JibhCF", m.campaigns[0].Name)
	assert.Equal(t, "Call Jane & John", m.tasks[0].Title)
	assert.Equal(t, "2025-01-20", m.tasks[0].DueDate.Format(types.DateLayout))
}

func TestRunStopsOnError(t *testing.T) {
	m := &memoryRepos{failDonations: true}

	_, err := Run(context.Background(), m.repositories())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed donations")
	assert.Empty(t, m.campaigns)
}
