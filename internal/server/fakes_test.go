package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"
)

// memoryStore backs every repository interface with maps.
type memoryStore struct {
	mu        sync.Mutex
	users     map[string]*types.User
	donors    map[string]*types.Donor
	donations map[string]*types.Donation
	campaigns map[string]*types.Campaign
	tasks     map[string]*types.Task
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     make(map[string]*types.User),
		donors:    make(map[string]*types.Donor),
		donations: make(map[string]*types.Donation),
		campaigns: make(map[string]*types.Campaign),
		tasks:     make(map[string]*types.Task),
	}
}

func (m *memoryStore) repositories() Repositories {
	return Repositories{
		Users:     memoryUsers{m},
		Donors:    memoryDonors{m},
		Donations: memoryDonations{m},
		Campaigns: memoryCampaigns{m},
		Tasks:     memoryTasks{m},
	}
}

func newID() string {
	return utils.NanoID()
}

type memoryUsers struct{ m *memoryStore }

func (r memoryUsers) UserByEmail(_ context.Context, email string) (*types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (r memoryUsers) Users(_ context.Context) ([]*types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*types.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r memoryUsers) CreateUser(_ context.Context, user *types.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.ID = newID()
	user.CreatedAt = time.Now()
	c := *user
	r.m.users[user.ID] = &c
	return nil
}

type memoryDonors struct{ m *memoryStore }

func (r memoryDonors) Donor(_ context.Context, donorID string) (*types.Donor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.donors[donorID]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	c := *d
	return &c, nil
}

func (r memoryDonors) Donors(_ context.Context) ([]*types.Donor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*types.Donor, 0, len(r.m.donors))
	for _, d := range r.m.donors {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memoryDonors) DonorsWithDonations(ctx context.Context) ([]*types.Donor, error) {
	donors, _ := r.Donors(ctx)
	for _, d := range donors {
		d.Donations, _ = memoryDonations(r).DonationsByDonor(ctx, d.ID)
	}
	return donors, nil
}

func (r memoryDonors) CreateDonor(_ context.Context, donor *types.Donor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	donor.ID = newID()
	donor.CreatedAt = time.Now()
	donor.UpdatedAt = donor.CreatedAt
	c := *donor
	r.m.donors[donor.ID] = &c
	return nil
}

func (r memoryDonors) UpdateDonor(_ context.Context, donor *types.Donor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.donors[donor.ID]; !ok {
		return types.ErrDonorNotFound
	}
	c := *donor
	r.m.donors[donor.ID] = &c
	return nil
}

func (r memoryDonors) DeleteDonor(_ context.Context, donorID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.donors[donorID]; !ok {
		return types.ErrDonorNotFound
	}
	delete(r.m.donors, donorID)
	for id, d := range r.m.donations {
		if d.DonorID == donorID {
			delete(r.m.donations, id)
		}
	}
	return nil
}

type memoryDonations struct{ m *memoryStore }

// withDonor must be called with the lock held.
func (r memoryDonations) withDonor(d *types.Donation) *types.Donation {
	c := *d
	if donor, ok := r.m.donors[d.DonorID]; ok {
		c.Donor = donor.Summary()
	}
	return &c
}

func (r memoryDonations) Donation(_ context.Context, donationID string) (*types.Donation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.donations[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	return r.withDonor(d), nil
}

func (r memoryDonations) list(keep func(*types.Donation) bool) []*types.Donation {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*types.Donation, 0)
	for _, d := range r.m.donations {
		if keep(d) {
			out = append(out, r.withDonor(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r memoryDonations) Donations(_ context.Context) ([]*types.Donation, error) {
	return r.list(func(*types.Donation) bool { return true }), nil
}

func (r memoryDonations) DonationsByDonor(_ context.Context, donorID string) ([]*types.Donation, error) {
	return r.list(func(d *types.Donation) bool { return d.DonorID == donorID }), nil
}

func (r memoryDonations) CreateDonation(_ context.Context, donation *types.Donation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.donors[donation.DonorID]; !ok {
		return types.NewValidationError("Donor not found")
	}
	donation.ID = newID()
	c := *donation
	r.m.donations[donation.ID] = &c
	return nil
}

func (r memoryDonations) UpdateDonation(_ context.Context, donation *types.Donation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.donations[donation.ID]; !ok {
		return types.ErrDonationNotFound
	}
	c := *donation
	c.Donor = nil
	r.m.donations[donation.ID] = &c
	return nil
}

func (r memoryDonations) DeleteDonation(_ context.Context, donationID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.donations[donationID]; !ok {
		return types.ErrDonationNotFound
	}
	delete(r.m.donations, donationID)
	return nil
}

type memoryCampaigns struct{ m *memoryStore }

func (r memoryCampaigns) Campaign(_ context.Context, campaignID string) (*types.Campaign, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.campaigns[campaignID]
	if !ok {
		return nil, types.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memoryCampaigns) Campaigns(_ context.Context) ([]*types.Campaign, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*types.Campaign, 0, len(r.m.campaigns))
	for _, c := range r.m.campaigns {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memoryCampaigns) CreateCampaign(_ context.Context, campaign *types.Campaign) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	campaign.ID = newID()
	cp := *campaign
	r.m.campaigns[campaign.ID] = &cp
	return nil
}

func (r memoryCampaigns) UpdateCampaign(_ context.Context, campaign *types.Campaign) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.campaigns[campaign.ID]; !ok {
		return types.ErrCampaignNotFound
	}
	cp := *campaign
	r.m.campaigns[campaign.ID] = &cp
	return nil
}

func (r memoryCampaigns) DeleteCampaign(_ context.Context, campaignID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.campaigns[campaignID]; !ok {
		return types.ErrCampaignNotFound
	}
	delete(r.m.campaigns, campaignID)
	return nil
}

type memoryTasks struct{ m *memoryStore }

func (r memoryTasks) Task(_ context.Context, taskID string) (*types.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tasks[taskID]
	if !ok {
		return nil, types.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memoryTasks) Tasks(_ context.Context) ([]*types.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*types.Task, 0, len(r.m.tasks))
	for _, t := range r.m.tasks {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r memoryTasks) CreateTask(_ context.Context, task *types.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	task.ID = newID()
	cp := *task
	r.m.tasks[task.ID] = &cp
	return nil
}

func (r memoryTasks) UpdateTask(_ context.Context, task *types.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tasks[task.ID]; !ok {
		return types.ErrTaskNotFound
	}
	cp := *task
	r.m.tasks[task.ID] = &cp
	return nil
}

func (r memoryTasks) DeleteTask(_ context.Context, taskID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tasks[taskID]; !ok {
		return types.ErrTaskNotFound
	}
	delete(r.m.tasks, taskID)
	return nil
}

type recordingCompleter struct {
	prompts []string
	reply   string
	err     error
}

func (c *recordingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.err
}

type fakeExporter struct {
	enabled bool
	key     string
	err     error
	donors  int
}

func (e *fakeExporter) Enabled() bool { return e.enabled }

func (e *fakeExporter) ExportDonors(_ context.Context, donors []*types.Donor) (string, error) {
	if !e.enabled {
		return "", types.ErrExportDisabled
	}
	e.donors = len(donors)
	return e.key, e.err
}

var errUpstream = errors.New("upstream unavailable")

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := types.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}
