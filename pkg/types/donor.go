package types

import "time"

type Donor struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone"`
	Address   *string   `db:"address" json:"address"`
	City      *string   `db:"city" json:"city"`
	State     *string   `db:"state" json:"state"`
	ZipCode   *string   `db:"zip_code" json:"zipCode"`
	Notes     *string   `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Donations []*Donation `db:"-" json:"donations,omitempty"`
}

// DonorSummary is the slice of a donor embedded in donation responses.
type DonorSummary struct {
	ID    string  `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email *string `db:"email" json:"email"`
}

func (d *Donor) Summary() *DonorSummary {
	return &DonorSummary{ID: d.ID, Name: d.Name, Email: d.Email}
}

// DonorInput is the create/update payload. Nil fields are left untouched on update.
type DonorInput struct {
	Name    *string `json:"name" form:"name"`
	Email   *string `json:"email" form:"email"`
	Phone   *string `json:"phone" form:"phone"`
	Address *string `json:"address" form:"address"`
	City    *string `json:"city" form:"city"`
	State   *string `json:"state" form:"state"`
	ZipCode *string `json:"zipCode" form:"zip_code"`
	Notes   *string `json:"notes" form:"notes"`
}
