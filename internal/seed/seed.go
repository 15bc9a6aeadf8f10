// Package seed loads the demo data set used for local development.
package seed

import (
	"context"
	"fmt"

	"donorconnect/pkg/types"
)

type UserCreator interface {
	CreateUser(ctx context.Context, user *types.User) error
}

type DonorCreator interface {
	CreateDonor(ctx context.Context, donor *types.Donor) error
}

type DonationCreator interface {
	CreateDonation(ctx context.Context, donation *types.Donation) error
}

type CampaignCreator interface {
	CreateCampaign(ctx context.Context, campaign *types.Campaign) error
}

type TaskCreator interface {
	CreateTask(ctx context.Context, task *types.Task) error
}

type Repositories struct {
	Users     UserCreator
	Donors    DonorCreator
	Donations DonationCreator
	Campaigns CampaignCreator
	Tasks     TaskCreator
}

type Summary struct {
	Admins      int
	Staff       int
	Donors      int
	Donations   int
	Campaigns   int
	Tasks       int
	TotalRaised float64
}

// Run inserts the demo data. Callers are expected to have emptied the tables first.
func Run(ctx context.Context, repos Repositories) (*Summary, error) {
	summary := new(Summary)

	users, err := SeedUsers(ctx, repos.Users)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		switch u.Role {
		case types.RoleAdmin:
			summary.Admins++
		case types.RoleStaff:
			summary.Staff++
		}
	}

	donors, err := SeedDonors(ctx, repos.Donors)
	if err != nil {
		return nil, err
	}
	summary.Donors = len(donors)

	donations, err := SeedDonations(ctx, repos.Donations, donors)
	if err != nil {
		return nil, err
	}
	summary.Donations = len(donations)
	for _, d := range donations {
		summary.TotalRaised += d.Amount
	}

	campaigns, err := SeedCampaigns(ctx, repos.Campaigns)
	if err != nil {
		return nil, err
	}
	summary.Campaigns = len(campaigns)

	tasks, err := SeedTasks(ctx, repos.Tasks)
	if err != nil {
		return nil, err
	}
	summary.Tasks = len(tasks)

	return summary, nil
}

func wrap(kind string, err error) error {
	return fmt.Errorf("failed to seed %s: %w", kind, err)
}
