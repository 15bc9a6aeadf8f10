package insights

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"
)

const recentDonationLimit = 5

const promptDateLayout = "1/2/2006"

// Summarize folds a donor's donations into the summary sent to the model and
// returned to the caller. Donations are ordered newest first before folding.
func Summarize(donations []*types.Donation) types.DonationSummary {
	sorted := make([]*types.Donation, len(donations))
	copy(sorted, donations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	summary := types.DonationSummary{
		TotalDonations:  len(sorted),
		DonationTypes:   make([]string, 0),
		RecentDonations: make([]types.RecentDonation, 0),
	}

	seen := make(map[string]bool)
	for i, d := range sorted {
		summary.TotalAmount += d.Amount

		if !seen[d.Type] {
			seen[d.Type] = true
			summary.DonationTypes = append(summary.DonationTypes, d.Type)
		}

		if i < recentDonationLimit {
			summary.RecentDonations = append(summary.RecentDonations, types.RecentDonation{
				Amount: d.Amount,
				Date:   d.Date,
				Type:   d.Type,
			})
		}
	}

	if len(sorted) > 0 {
		summary.AverageDonation = summary.TotalAmount / float64(len(sorted))
		summary.LastDonationDate = utils.TimePtr(sorted[0].Date)
	}

	return summary
}

// BuildPrompt renders the fixed analysis request for a donor.
func BuildPrompt(donor *types.Donor, summary types.DonationSummary) string {
	lastDonation := "Never"
	if summary.LastDonationDate != nil {
		lastDonation = summary.LastDonationDate.Format(promptDateLayout)
	}

	recent := make([]string, 0, len(summary.RecentDonations))
	for _, d := range summary.RecentDonations {
		recent = append(recent, fmt.Sprintf("- $%s on %s (%s)", formatAmount(d.Amount), d.Date.Format(promptDateLayout), d.Type))
	}

	var b strings.Builder
	b.WriteString("Analyze the following donor profile and provide insights about their giving patterns and engagement strategies:\n\n")
	fmt.Fprintf(&b, "Donor Name: %s\n", donor.Name)
	fmt.Fprintf(&b, "Email: %s\n", orDefault(donor.Email, "N/A"))
	fmt.Fprintf(&b, "Phone: %s\n", orDefault(donor.Phone, "N/A"))
	fmt.Fprintf(&b, "Address: %s, %s, %s %s\n",
		orDefault(donor.Address, "N/A"),
		utils.PtrString(donor.City),
		utils.PtrString(donor.State),
		utils.PtrString(donor.ZipCode),
	)
	fmt.Fprintf(&b, "Total Donations: %d\n", summary.TotalDonations)
	fmt.Fprintf(&b, "Total Amount: $%.2f\n", summary.TotalAmount)
	fmt.Fprintf(&b, "Average Donation: $%.2f\n", summary.AverageDonation)
	fmt.Fprintf(&b, "Last Donation: %s\n", lastDonation)
	fmt.Fprintf(&b, "Donation Types: %s\n", strings.Join(summary.DonationTypes, ", "))
	b.WriteString("\nRecent Donations:\n")
	b.WriteString(strings.Join(recent, "\n"))
	b.WriteString("\n\nPlease provide:\n")
	b.WriteString("1. A summary of this donor's giving pattern\n")
	b.WriteString("2. Key insights about their engagement level\n")
	b.WriteString("3. Specific recommendations to increase engagement and retention\n")
	b.WriteString("4. Suggested next steps for outreach")

	return b.String()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func orDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
