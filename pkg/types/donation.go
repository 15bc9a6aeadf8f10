package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var DonationTypes = []string{"Cash", "Check", "Credit Card", "Bank Transfer", "Stock", "Other"}

type Donation struct {
	ID        string    `db:"id" json:"id"`
	Amount    float64   `db:"amount" json:"amount"`
	Date      time.Time `db:"date" json:"date"`
	Type      string    `db:"type" json:"type"`
	Notes     *string   `db:"notes" json:"notes"`
	DonorID   string    `db:"donor_id" json:"donorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Donor *DonorSummary `db:"-" json:"donor,omitempty"`
}

// DonationInput is the create/update payload. Nil fields are left untouched on update.
type DonationInput struct {
	Amount  *Amount   `json:"amount"`
	Date    *DateOnly `json:"date"`
	Type    *string   `json:"type"`
	Notes   *string   `json:"notes"`
	DonorID *string   `json:"donorId"`
}

// Amount accepts a JSON number or a numeric string.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	if strings.TrimSpace(raw) == "" {
		*a = 0
		return nil
	}

	f, err := ParseAmount(raw)
	if err != nil {
		return err
	}

	*a = Amount(f)
	return nil
}

func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return f, nil
}

// DateOnly accepts "2006-01-02" or an RFC 3339 timestamp.
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	if strings.TrimSpace(s) == "" {
		return nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}

	d.Time = t
	return nil
}

const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}
