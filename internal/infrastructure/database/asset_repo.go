package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/adiwr/token-display/internal/domain/entities"
	"github.com/adiwr/token-display/internal/domain/repositories"
)

// Ensure AssetRepo implements AssetRepository
var _ repositories.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implements AssetRepository using PostgreSQL
type AssetRepo struct {
	db *sqlx.DB
}

// NewAssetRepo creates a new asset repository
func NewAssetRepo(db *sqlx.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

// GetBySymbol retrieves an asset by its display symbol
func (r *AssetRepo) GetBySymbol(ctx context.Context, symbol string) (*entities.Asset, error) {
	var asset entities.Asset
	query := `SELECT * FROM assets WHERE symbol = $1`

	if err := r.db.GetContext(ctx, &asset, query, strings.ToUpper(symbol)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return &asset, nil
}

// GetByAddress retrieves an asset by its contract address
func (r *AssetRepo) GetByAddress(ctx context.Context, address string) (*entities.Asset, error) {
	var asset entities.Asset
	query := `SELECT * FROM assets WHERE address = $1`

	if err := r.db.GetContext(ctx, &asset, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset by address: %w", err)
	}

	return &asset, nil
}

// GetAll retrieves all registered assets
func (r *AssetRepo) GetAll(ctx context.Context) ([]entities.Asset, error) {
	var assets []entities.Asset
	query := `SELECT * FROM assets ORDER BY symbol`

	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}

	return assets, nil
}

// sortColumns whitelists sortable columns to keep user input out of the
// ORDER BY clause.
var sortColumns = map[string]string{
	"symbol":     "symbol",
	"decimals":   "decimals",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// GetAllPaginated retrieves assets with pagination and sorting
func (r *AssetRepo) GetAllPaginated(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]*entities.Asset, int64, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "symbol"
	}
	order := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		order = "DESC"
	}

	query := fmt.Sprintf(`SELECT * FROM assets ORDER BY %s %s LIMIT $1 OFFSET $2`, column, order)

	var assets []*entities.Asset
	if err := r.db.SelectContext(ctx, &assets, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to get assets: %w", err)
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

// Count returns the total number of registered assets
func (r *AssetRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM assets`

	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}

	return count, nil
}

// Upsert creates or updates an asset. Symbol is the conflict key; an
// update refreshes name, address and decimals together so decimals are
// never changed in isolation from the asset identity.
func (r *AssetRepo) Upsert(ctx context.Context, asset *entities.Asset) error {
	query := `
		INSERT INTO assets (symbol, name, address, decimals)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			decimals = EXCLUDED.decimals,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		strings.ToUpper(asset.Symbol),
		asset.Name,
		asset.Address,
		asset.Decimals,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert asset: %w", err)
	}

	return nil
}
