package server

import (
	"net/http"
	"strconv"
	"strings"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"
)

// Page forms hold raw strings so a rejected submission can be shown back
// exactly as typed.

type donorForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	Address string `form:"address"`
	City    string `form:"city"`
	State   string `form:"state"`
	ZipCode string `form:"zip_code"`
	Notes   string `form:"notes"`
}

func donorFormFrom(d *types.Donor) donorForm {
	return donorForm{
		Name:    d.Name,
		Email:   utils.PtrString(d.Email),
		Phone:   utils.PtrString(d.Phone),
		Address: utils.PtrString(d.Address),
		City:    utils.PtrString(d.City),
		State:   utils.PtrString(d.State),
		ZipCode: utils.PtrString(d.ZipCode),
		Notes:   utils.PtrString(d.Notes),
	}
}

func (f donorForm) input() types.DonorInput {
	return types.DonorInput{
		Name:    utils.StringPtr(f.Name),
		Email:   utils.StringPtr(f.Email),
		Phone:   utils.StringPtr(f.Phone),
		Address: utils.StringPtr(f.Address),
		City:    utils.StringPtr(f.City),
		State:   utils.StringPtr(f.State),
		ZipCode: utils.StringPtr(f.ZipCode),
		Notes:   utils.StringPtr(f.Notes),
	}
}

type donationForm struct {
	Amount  string `form:"amount"`
	Date    string `form:"date"`
	Type    string `form:"type"`
	Notes   string `form:"notes"`
	DonorID string `form:"donor_id"`
}

func donationFormFrom(d *types.Donation) donationForm {
	return donationForm{
		Amount:  formatAmountInput(d.Amount),
		Date:    d.Date.Format(types.DateLayout),
		Type:    d.Type,
		Notes:   utils.PtrString(d.Notes),
		DonorID: d.DonorID,
	}
}

func (f donationForm) input() (types.DonationInput, error) {
	in := types.DonationInput{
		Type:    utils.StringPtr(f.Type),
		Notes:   utils.StringPtr(f.Notes),
		DonorID: utils.StringPtr(f.DonorID),
	}

	amount, err := parseAmountField(f.Amount, "Amount")
	if err != nil {
		return in, err
	}
	in.Amount = amount

	date, err := parseDateField(f.Date, "Date")
	if err != nil {
		return in, err
	}
	in.Date = date

	return in, nil
}

type campaignForm struct {
	Name   string `form:"name"`
	Type   string `form:"type"`
	Raised string `form:"raised"`
	Goal   string `form:"goal"`
	Status string `form:"status"`
}

func campaignFormFrom(c *types.Campaign) campaignForm {
	return campaignForm{
		Name:   c.Name,
		Type:   c.Type,
		Raised: formatAmountInput(c.Raised),
		Goal:   formatAmountInput(c.Goal),
		Status: string(c.Status),
	}
}

func (f campaignForm) input() (types.CampaignInput, error) {
	status := types.CampaignStatus(strings.TrimSpace(f.Status))
	in := types.CampaignInput{
		Name:   utils.StringPtr(f.Name),
		Type:   utils.StringPtr(f.Type),
		Status: &status,
	}

	raised, err := parseAmountField(f.Raised, "Raised")
	if err != nil {
		return in, err
	}
	in.Raised = raised

	goal, err := parseAmountField(f.Goal, "Goal")
	if err != nil {
		return in, err
	}
	in.Goal = goal

	return in, nil
}

type taskForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	DueDate     string `form:"due_date"`
	Status      string `form:"status"`
}

func taskFormFrom(t *types.Task) taskForm {
	return taskForm{
		Title:       t.Title,
		Description: utils.PtrString(t.Description),
		DueDate:     t.DueDate.Format(types.DateLayout),
		Status:      string(t.Status),
	}
}

func (f taskForm) input() (types.TaskInput, error) {
	status := types.TaskStatus(strings.TrimSpace(f.Status))
	in := types.TaskInput{
		Title:       utils.StringPtr(f.Title),
		Description: utils.StringPtr(f.Description),
		Status:      &status,
	}

	due, err := parseDateField(f.DueDate, "Due date")
	if err != nil {
		return in, err
	}
	in.DueDate = due

	return in, nil
}

func parseAmountField(raw, label string) (*types.Amount, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	f, err := types.ParseAmount(raw)
	if err != nil {
		return nil, types.NewValidationError("%s must be a number", label)
	}

	amount := types.Amount(f)
	return &amount, nil
}

func parseDateField(raw, label string) (*types.DateOnly, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	t, err := types.ParseDate(raw)
	if err != nil {
		return nil, types.NewValidationError("%s must be a date (YYYY-MM-DD)", label)
	}

	return &types.DateOnly{Time: t}, nil
}

func formatAmountInput(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decodeForm parses a posted form into dst.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.PostForm)
}
