package seed

import (
	"context"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"
)

func demoDonors() []*types.Donor {
	return []*types.Donor{
		{
			Name:    "John Smith",
			Email:   utils.StringPtr("john.smith@email.com"),
			Phone:   utils.StringPtr("(555) 123-4567"),
			Address: utils.StringPtr("123 Main Street"),
			City:    utils.StringPtr("New York"),
			State:   utils.StringPtr("NY"),
			ZipCode: utils.StringPtr("10001"),
			Notes:   utils.StringPtr("Generous donor, prefers monthly donations"),
		},
		{
			Name:    "Sarah Johnson",
			Email:   utils.StringPtr("sarah.j@email.com"),
			Phone:   utils.StringPtr("(555) 234-5678"),
			Address: utils.StringPtr("456 Oak Avenue"),
			City:    utils.StringPtr("Los Angeles"),
			State:   utils.StringPtr("CA"),
			ZipCode: utils.StringPtr("90001"),
			Notes:   utils.StringPtr("Corporate matching gifts available"),
		},
		{
			Name:    "Michael Chen",
			Email:   utils.StringPtr("m.chen@email.com"),
			Phone:   utils.StringPtr("(555) 345-6789"),
			Address: utils.StringPtr("789 Pine Road"),
			City:    utils.StringPtr("Chicago"),
			State:   utils.StringPtr("IL"),
			ZipCode: utils.StringPtr("60601"),
			Notes:   utils.StringPtr("Interested in planned giving"),
		},
		{
			Name:    "Emily Rodriguez",
			Email:   utils.StringPtr("emily.r@email.com"),
			Phone:   utils.StringPtr("(555) 456-7890"),
			Address: utils.StringPtr("321 Elm Street"),
			City:    utils.StringPtr("Houston"),
			State:   utils.StringPtr("TX"),
			ZipCode: utils.StringPtr("77001"),
			Notes:   utils.StringPtr("Major donor, annual gala attendee"),
		},
		{
			Name:    "David Williams",
			Email:   utils.StringPtr("d.williams@email.com"),
			Phone:   utils.StringPtr("(555) 567-8901"),
			Address: utils.StringPtr("654 Maple Drive"),
			City:    utils.StringPtr("Phoenix"),
			State:   utils.StringPtr("AZ"),
			ZipCode: utils.StringPtr("85001"),
			Notes:   utils.StringPtr("First-time donor, very engaged"),
		},
	}
}

type seedDonation struct {
	DonorIndex int
	Amount     float64
	Date       string
	Type       string
	Notes      string
}

var demoDonations = []seedDonation{
	{DonorIndex: 0, Amount: 500, Date: "2024-01-15", Type: "Credit Card", Notes: "Monthly recurring donation"},
	{DonorIndex: 0, Amount: 1000, Date: "2024-02-20", Type: "Bank Transfer", Notes: "Special campaign contribution"},
	{DonorIndex: 1, Amount: 2500, Date: "2024-01-05", Type: "Check", Notes: "Annual giving pledge"},
	{DonorIndex: 1, Amount: 750, Date: "2024-03-10", Type: "Credit Card", Notes: "Tax-deductible donation"},
	{DonorIndex: 2, Amount: 5000, Date: "2024-02-28", Type: "Bank Transfer", Notes: "Major gift for new building fund"},
	{DonorIndex: 2, Amount: 300, Date: "2024-03-15", Type: "Cash", Notes: "In-person donation"},
	{DonorIndex: 3, Amount: 10000, Date: "2023-12-01", Type: "Stock", Notes: "Year-end major gift"},
	{DonorIndex: 3, Amount: 1500, Date: "2024-01-20", Type: "Credit Card", Notes: "Gala sponsorship"},
	{DonorIndex: 4, Amount: 250, Date: "2024-03-05", Type: "Check", Notes: "First donation"},
	{DonorIndex: 4, Amount: 1000, Date: "2024-03-25", Type: "Credit Card", Notes: "Matched by employer"},
}

func SeedDonors(ctx context.Context, repo DonorCreator) ([]*types.Donor, error) {
	donors := demoDonors()
	for _, d := range donors {
		if err := repo.CreateDonor(ctx, d); err != nil {
			return nil, wrap("donors", err)
		}
	}
	return donors, nil
}

// SeedDonations attaches the demo donations to donors by position.
func SeedDonations(ctx context.Context, repo DonationCreator, donors []*types.Donor) ([]*types.Donation, error) {
	donations := make([]*types.Donation, 0, len(demoDonations))
	for _, sd := range demoDonations {
		if sd.DonorIndex >= len(donors) {
			continue
		}

		date, err := time.Parse(types.DateLayout, sd.Date)
		if err != nil {
			return nil, wrap("donations", err)
		}

		donation := &types.Donation{
			Amount:  sd.Amount,
			Date:    date,
			Type:    sd.Type,
			Notes:   utils.StringPtr(sd.Notes),
			DonorID: donors[sd.DonorIndex].ID,
		}

		if err := repo.CreateDonation(ctx, donation); err != nil {
			return nil, wrap("donations", err)
		}

		donations = append(donations, donation)
	}

	return donations, nil
}
