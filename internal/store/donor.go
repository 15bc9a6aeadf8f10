package store

import (
	"context"
	"fmt"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var donorColumns = utils.StructTagValues(types.Donor{})

type DonorRepository struct {
	pool *pgxpool.Pool
}

func NewDonorRepository(pool *pgxpool.Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

func (r *DonorRepository) Donor(ctx context.Context, donorID string) (*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"id": donorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor query: %w", err)
	}

	var donor = new(types.Donor)
	err = pgxscan.Get(ctx, r.pool, donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor %s: %w", donorID, err)
	}

	return donor, nil
}

func (r *DonorRepository) Donors(ctx context.Context) ([]*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		OrderBy("created_at DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donors query: %w", err)
	}

	donors := make([]*types.Donor, 0)
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	return donors, nil
}

// DonorsWithDonations returns every donor with its donations attached, newest first.
func (r *DonorRepository) DonorsWithDonations(ctx context.Context) ([]*types.Donor, error) {
	donors, err := r.Donors(ctx)
	if err != nil {
		return nil, err
	}

	if len(donors) == 0 {
		return donors, nil
	}

	ids := make([]string, 0, len(donors))
	byID := make(map[string]*types.Donor, len(donors))
	for _, d := range donors {
		d.Donations = make([]*types.Donation, 0)
		ids = append(ids, d.ID)
		byID[d.ID] = d
	}

	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"donor_id": ids}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor donations query: %w", err)
	}

	var donations []*types.Donation
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor donations: %w", err)
	}

	for _, donation := range donations {
		if donor, ok := byID[donation.DonorID]; ok {
			donor.Donations = append(donor.Donations, donation)
		}
	}

	return donors, nil
}

func (r *DonorRepository) CreateDonor(ctx context.Context, donor *types.Donor) error {
	now := time.Now()
	donor.ID = utils.NanoID()
	donor.CreatedAt = now
	donor.UpdatedAt = now

	query, args, err := psql().
		Insert(donorTableName).
		SetMap(utils.StructToMap(donor)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donor query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create donor")
}

func (r *DonorRepository) UpdateDonor(ctx context.Context, donor *types.Donor) error {
	donor.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(donorTableName).
		SetMap(utils.StructToMap(donor, "id", "created_at")).
		Where(sq.Eq{"id": donor.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donor query for donor %s: %w", donor.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update donor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorNotFound
	}

	return nil
}

// DeleteDonor removes the donor; its donations go with it through the foreign key cascade.
func (r *DonorRepository) DeleteDonor(ctx context.Context, donorID string) error {
	query, args, err := psql().Delete(donorTableName).Where(sq.Eq{"id": donorID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donor query for donor %s: %w", donorID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorNotFound
	}

	return nil
}
