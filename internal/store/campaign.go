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

var campaignColumns = utils.StructTagValues(types.Campaign{})

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) Campaign(ctx context.Context, campaignID string) (*types.Campaign, error) {
	query, args, err := psql().
		Select(campaignColumns...).
		From(campaignTableName).
		Where(sq.Eq{"id": campaignID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaign query: %w", err)
	}

	var campaign types.Campaign
	err = pgxscan.Get(ctx, r.pool, &campaign, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}

	return &campaign, nil
}

func (r *CampaignRepository) Campaigns(ctx context.Context) ([]*types.Campaign, error) {
	query, args, err := psql().
		Select(campaignColumns...).
		From(campaignTableName).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaigns query: %w", err)
	}

	campaigns := make([]*types.Campaign, 0)
	err = pgxscan.Select(ctx, r.pool, &campaigns, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *CampaignRepository) CreateCampaign(ctx context.Context, campaign *types.Campaign) error {
	now := time.Now()
	campaign.ID = utils.NanoID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query, args, err := psql().
		Insert(campaignTableName).
		SetMap(utils.StructToMap(campaign)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert campaign query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create campaign")
}

func (r *CampaignRepository) UpdateCampaign(ctx context.Context, campaign *types.Campaign) error {
	campaign.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(campaignTableName).
		SetMap(utils.StructToMap(campaign, "id", "created_at")).
		Where(sq.Eq{"id": campaign.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update campaign query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCampaignNotFound
	}

	return nil
}

func (r *CampaignRepository) DeleteCampaign(ctx context.Context, campaignID string) error {
	query, args, err := psql().Delete(campaignTableName).Where(sq.Eq{"id": campaignID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete campaign query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCampaignNotFound
	}

	return nil
}
