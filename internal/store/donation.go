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

var donationColumns = utils.StructTagValues(types.Donation{})

// donationRow scans a donation joined with its donor's summary columns.
type donationRow struct {
	types.Donation
	Donor types.DonorSummary `db:"donor"`
}

func (row *donationRow) toDonation() *types.Donation {
	d := row.Donation
	donor := row.Donor
	d.Donor = &donor
	return &d
}

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func donationWithDonorQuery() sq.SelectBuilder {
	columns := prefixColumns("dn", donationColumns)
	columns = append(columns,
		`d.id AS "donor.id"`,
		`d.name AS "donor.name"`,
		`d.email AS "donor.email"`,
	)

	return psql().
		Select(columns...).
		From(donationTableName + " dn").
		Join(donorTableName + " d ON d.id = dn.donor_id")
}

func (r *DonationRepository) Donation(ctx context.Context, donationID string) (*types.Donation, error) {
	query, args, err := donationWithDonorQuery().
		Where(sq.Eq{"dn.id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var row donationRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation %s: %w", donationID, err)
	}

	return row.toDonation(), nil
}

// Donations returns every donation with its donor summary, most recent first.
func (r *DonationRepository) Donations(ctx context.Context) ([]*types.Donation, error) {
	query, args, err := donationWithDonorQuery().
		OrderBy("dn.date DESC", "dn.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	var rows []*donationRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	donations := make([]*types.Donation, 0, len(rows))
	for _, row := range rows {
		donations = append(donations, row.toDonation())
	}

	return donations, nil
}

func (r *DonationRepository) DonationsByDonor(ctx context.Context, donorID string) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"donor_id": donorID}).
		OrderBy("date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations by donor query: %w", err)
	}

	donations := make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations for donor %s: %w", donorID, err)
	}

	return donations, nil
}

func (r *DonationRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {
	now := time.Now()
	donation.ID = utils.NanoID()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	query, args, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.NewValidationError("Donor %s does not exist", donation.DonorID)
		}
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *DonationRepository) UpdateDonation(ctx context.Context, donation *types.Donation) error {
	donation.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(donationTableName).
		SetMap(utils.StructToMap(donation, "id", "created_at")).
		Where(sq.Eq{"id": donation.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donation query for donation %s: %w", donation.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.NewValidationError("Donor %s does not exist", donation.DonorID)
		}
		return fmt.Errorf("failed to update donation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}

func (r *DonationRepository) DeleteDonation(ctx context.Context, donationID string) error {
	query, args, err := psql().Delete(donationTableName).Where(sq.Eq{"id": donationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}
