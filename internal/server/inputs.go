package server

import (
	"math"
	"strings"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"
)

// The new* functions validate a create payload, the apply* functions merge
// a partial update into a loaded row. Absent fields keep their value.

func newDonor(in types.DonorInput) (*types.Donor, error) {
	if strings.TrimSpace(utils.PtrString(in.Name)) == "" {
		return nil, types.NewValidationError("Donor name is required")
	}

	donor := new(types.Donor)
	if err := applyDonorInput(donor, in); err != nil {
		return nil, err
	}

	return donor, nil
}

func applyDonorInput(donor *types.Donor, in types.DonorInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return types.NewValidationError("Donor name cannot be empty")
		}
		donor.Name = name
	}

	if in.Email != nil {
		donor.Email = utils.NormalizePtr(in.Email)
	}
	if in.Phone != nil {
		donor.Phone = utils.NormalizePtr(in.Phone)
	}
	if in.Address != nil {
		donor.Address = utils.NormalizePtr(in.Address)
	}
	if in.City != nil {
		donor.City = utils.NormalizePtr(in.City)
	}
	if in.State != nil {
		donor.State = utils.NormalizePtr(in.State)
	}
	if in.ZipCode != nil {
		donor.ZipCode = utils.NormalizePtr(in.ZipCode)
	}
	if in.Notes != nil {
		donor.Notes = utils.NormalizePtr(in.Notes)
	}

	return nil
}

// Column limits: donations.amount is NUMERIC(12,2), campaign money NUMERIC(14,2).
const (
	maxDonationAmount = 1e10
	maxCampaignAmount = 1e12
)

// money rounds to cents and rejects values the column cannot hold.
func money(a types.Amount, label string, limit float64) (float64, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, types.NewValidationError("%s must be a number", label)
	}
	f = utils.RoundFloat64(f, 2)
	if math.Abs(f) >= limit {
		return 0, types.NewValidationError("%s is too large", label)
	}
	return f, nil
}

func newDonation(in types.DonationInput) (*types.Donation, error) {
	if in.Amount == nil || *in.Amount == 0 ||
		in.Date == nil || in.Date.IsZero() ||
		strings.TrimSpace(utils.PtrString(in.Type)) == "" ||
		strings.TrimSpace(utils.PtrString(in.DonorID)) == "" {
		return nil, types.NewValidationError("Missing required fields")
	}

	donation := new(types.Donation)
	if err := applyDonationInput(donation, in); err != nil {
		return nil, err
	}

	return donation, nil
}

func applyDonationInput(donation *types.Donation, in types.DonationInput) error {
	if in.Amount != nil {
		amount, err := money(*in.Amount, "Amount", maxDonationAmount)
		if err != nil {
			return err
		}
		if amount <= 0 {
			return types.NewValidationError("Amount must be greater than zero")
		}
		donation.Amount = amount
	}

	if in.Date != nil && !in.Date.IsZero() {
		donation.Date = in.Date.Time
	}

	if in.Type != nil {
		donationType := strings.TrimSpace(*in.Type)
		if donationType == "" {
			return types.NewValidationError("Donation type cannot be empty")
		}
		donation.Type = donationType
	}

	if in.Notes != nil {
		donation.Notes = utils.NormalizePtr(in.Notes)
	}

	if in.DonorID != nil {
		donorID := strings.TrimSpace(*in.DonorID)
		if donorID == "" {
			return types.NewValidationError("Donor is required")
		}
		donation.DonorID = donorID
	}

	return nil
}

func newCampaign(in types.CampaignInput) (*types.Campaign, error) {
	if strings.TrimSpace(utils.PtrString(in.Name)) == "" || in.Goal == nil || *in.Goal == 0 {
		return nil, types.NewValidationError("Campaign name and goal are required")
	}

	campaign := &types.Campaign{
		Type:   types.DefaultCampaignType,
		Status: types.CampaignStatusActive,
	}
	if err := applyCampaignInput(campaign, in); err != nil {
		return nil, err
	}

	return campaign, nil
}

func applyCampaignInput(campaign *types.Campaign, in types.CampaignInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return types.NewValidationError("Campaign name cannot be empty")
		}
		campaign.Name = name
	}

	if in.Type != nil {
		if campaignType := strings.TrimSpace(*in.Type); campaignType != "" {
			campaign.Type = campaignType
		}
	}

	if in.Raised != nil {
		raised, err := money(*in.Raised, "Raised", maxCampaignAmount)
		if err != nil {
			return err
		}
		if raised < 0 {
			return types.NewValidationError("Raised cannot be negative")
		}
		campaign.Raised = raised
	}

	if in.Goal != nil {
		goal, err := money(*in.Goal, "Goal", maxCampaignAmount)
		if err != nil {
			return err
		}
		if goal <= 0 {
			return types.NewValidationError("Goal must be greater than zero")
		}
		campaign.Goal = goal
	}

	if in.Status != nil && *in.Status != "" {
		if !in.Status.Valid() {
			return types.NewValidationError("Invalid campaign status %q", string(*in.Status))
		}
		campaign.Status = *in.Status
	}

	return nil
}

func newTask(in types.TaskInput) (*types.Task, error) {
	if strings.TrimSpace(utils.PtrString(in.Title)) == "" || in.DueDate == nil || in.DueDate.IsZero() {
		return nil, types.NewValidationError("Task title and due date are required")
	}

	task := &types.Task{Status: types.TaskStatusPending}
	if err := applyTaskInput(task, in); err != nil {
		return nil, err
	}

	return task, nil
}

func applyTaskInput(task *types.Task, in types.TaskInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return types.NewValidationError("Task title cannot be empty")
		}
		task.Title = title
	}

	if in.Description != nil {
		task.Description = utils.NormalizePtr(in.Description)
	}

	if in.DueDate != nil && !in.DueDate.IsZero() {
		task.DueDate = in.DueDate.Time
	}

	if in.Status != nil && *in.Status != "" {
		if !in.Status.Valid() {
			return types.NewValidationError("Invalid task status %q", string(*in.Status))
		}
		task.Status = *in.Status
	}

	return nil
}
