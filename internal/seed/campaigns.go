package seed

import (
	"context"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"
)

func SeedCampaigns(ctx context.Context, repo CampaignCreator) ([]*types.Campaign, error) {
	campaigns := []*types.Campaign{
		{Name: "JibhCF", Type: types.DefaultCampaignType, Raised: 100000, Goal: 10000, Status: types.CampaignStatusActive},
		{Name: "Healthcare Initiative", Type: "Health", Raised: 1000, Goal: 50000, Status: types.CampaignStatusActive},
	}

	for _, c := range campaigns {
		if err := repo.CreateCampaign(ctx, c); err != nil {
			return nil, wrap("campaigns", err)
		}
	}

	return campaigns, nil
}

func SeedTasks(ctx context.Context, repo TaskCreator) ([]*types.Task, error) {
	tasks := []*types.Task{
		{
			Title:       "Call Jane & John",
			Description: utils.StringPtr("Follow up and thank for their donations"),
			DueDate:     time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
			Status:      types.TaskStatusPending,
		},
	}

	for _, t := range tasks {
		if err := repo.CreateTask(ctx, t); err != nil {
			return nil, wrap("tasks", err)
		}
	}

	return tasks, nil
}
