package repositories

import (
	"context"

	"github.com/adiwr/token-display/internal/domain/entities"
)

// AssetRepository defines the interface for asset registry operations
type AssetRepository interface {
	// GetBySymbol retrieves an asset by its display symbol
	GetBySymbol(ctx context.Context, symbol string) (*entities.Asset, error)

	// GetByAddress retrieves an asset by its contract address
	GetByAddress(ctx context.Context, address string) (*entities.Asset, error)

	// GetAll retrieves all registered assets
	GetAll(ctx context.Context) ([]entities.Asset, error)

	// GetAllPaginated retrieves assets with pagination and sorting
	GetAllPaginated(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]*entities.Asset, int64, error)

	// Count returns the total number of registered assets
	Count(ctx context.Context) (int64, error)

	// Upsert creates or updates an asset
	Upsert(ctx context.Context, asset *entities.Asset) error
}
