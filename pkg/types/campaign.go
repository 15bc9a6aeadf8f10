package types

import "time"

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	}
	return false
}

const DefaultCampaignType = "Fundraising"

// Campaign.Raised is edited by staff and is never reconciled against donations.
type Campaign struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Type      string         `db:"type" json:"type"`
	Raised    float64        `db:"raised" json:"raised"`
	Goal      float64        `db:"goal" json:"goal"`
	Status    CampaignStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

type CampaignInput struct {
	Name   *string         `json:"name"`
	Type   *string         `json:"type"`
	Raised *Amount         `json:"raised"`
	Goal   *Amount         `json:"goal"`
	Status *CampaignStatus `json:"status"`
}
