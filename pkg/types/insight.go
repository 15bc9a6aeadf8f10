package types

import "time"

type DonationSummary struct {
	TotalDonations   int              `json:"totalDonations"`
	TotalAmount      float64          `json:"totalAmount"`
	AverageDonation  float64          `json:"averageDonation"`
	LastDonationDate *time.Time       `json:"lastDonationDate"`
	DonationTypes    []string         `json:"donationTypes"`
	RecentDonations  []RecentDonation `json:"recentDonations"`
}

type RecentDonation struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Type   string    `json:"type"`
}

type Insight struct {
	Donor           *DonorSummary   `json:"donor"`
	DonationSummary DonationSummary `json:"donationSummary"`
	Insights        string          `json:"insights"`
}
