package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adiwr/token-display/internal/domain/entities"
	"github.com/adiwr/token-display/internal/domain/repositories"
	"github.com/adiwr/token-display/internal/infrastructure/cache"
)

// ErrAssetNotFound indicates the requested symbol is not registered
var ErrAssetNotFound = errors.New("asset not found")

// ErrInvalidAsset indicates a registration request with bad fields
var ErrInvalidAsset = errors.New("invalid asset")

// AssetService provides business logic for the asset registry
type AssetService struct {
	assetRepo repositories.AssetRepository
	cache     *cache.RedisCache
	logger    *zap.Logger
}

// NewAssetService creates a new asset service
func NewAssetService(
	assetRepo repositories.AssetRepository,
	cache *cache.RedisCache,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		cache:     cache,
		logger:    logger,
	}
}

// AssetDTO is the API representation of a registered asset
type AssetDTO struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Decimals  int    `json:"decimals"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AssetListResponse is the API response for asset list queries
type AssetListResponse struct {
	Data       []AssetDTO         `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// AssetResponse is the API response for single asset queries
type AssetResponse struct {
	Data AssetDTO `json:"data"`
}

// PaginationResponse contains pagination metadata
type PaginationResponse struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// RegisterAssetRequest is the API request for asset registration
type RegisterAssetRequest struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// GetAllAssets retrieves registered assets with pagination and sorting
func (s *AssetService) GetAllAssets(ctx context.Context, limit, offset int, sortBy, sortOrder string) (*AssetListResponse, error) {
	cacheKey := fmt.Sprintf("assets:list:%d:%d:%s:%s", limit, offset, sortBy, sortOrder)

	var cached AssetListResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	assets, total, err := s.assetRepo.GetAllPaginated(ctx, limit, offset, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}

	dtos := make([]AssetDTO, len(assets))
	for i, a := range assets {
		dtos[i] = assetToDTO(a)
	}

	response := &AssetListResponse{
		Data: dtos,
		Pagination: PaginationResponse{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// GetBySymbol retrieves a single asset by symbol
func (s *AssetService) GetBySymbol(ctx context.Context, symbol string) (*AssetResponse, error) {
	symbol = strings.ToUpper(symbol)

	cacheKey := fmt.Sprintf("assets:%s", symbol)

	var cached AssetResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	asset, err := s.assetRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	if asset == nil {
		return nil, nil
	}

	response := &AssetResponse{
		Data: assetToDTO(asset),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// Register creates or updates an asset. The address is checksum-normalized
// before storage. Registration invalidates cached lookups for the symbol,
// since stale decimals would silently corrupt subsequent conversions.
func (s *AssetService) Register(ctx context.Context, req RegisterAssetRequest) (*AssetResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidAsset)
	}
	if req.Decimals < 0 || req.Decimals > entities.MaxDecimals {
		return nil, fmt.Errorf("%w: decimals %d out of range [0,%d]", ErrInvalidAsset, req.Decimals, entities.MaxDecimals)
	}
	if !entities.ValidAssetAddress(req.Address) {
		return nil, fmt.Errorf("%w: malformed address %q", ErrInvalidAsset, req.Address)
	}

	asset := &entities.Asset{
		Symbol:   symbol,
		Name:     req.Name,
		Address:  entities.NormalizeAssetAddress(req.Address),
		Decimals: req.Decimals,
	}

	if err := s.assetRepo.Upsert(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to register asset: %w", err)
	}

	s.invalidate(ctx, symbol)

	s.logger.Info("Registered asset",
		zap.String("symbol", symbol),
		zap.String("address", asset.Address),
		zap.Int("decimals", asset.Decimals),
	)

	return &AssetResponse{Data: assetToDTO(asset)}, nil
}

// Seed upserts the configured seed assets concurrently. Each entry is a
// SYMBOL:address:decimals triple; a malformed entry fails the whole seed
// so misconfiguration is caught at startup rather than at request time.
func (s *AssetService) Seed(ctx context.Context, entries []string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, entry := range entries {
		entry := strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		g.Go(func() error {
			req, err := parseSeedEntry(entry)
			if err != nil {
				return err
			}
			if _, err := s.Register(gCtx, req); err != nil {
				return fmt.Errorf("failed to seed %q: %w", entry, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// parseSeedEntry parses a SYMBOL:address:decimals seed triple
func parseSeedEntry(entry string) (RegisterAssetRequest, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 3 {
		return RegisterAssetRequest{}, fmt.Errorf("malformed seed entry %q, want SYMBOL:address:decimals", entry)
	}

	decimals, err := strconv.Atoi(parts[2])
	if err != nil {
		return RegisterAssetRequest{}, fmt.Errorf("malformed decimals in seed entry %q: %w", entry, err)
	}

	return RegisterAssetRequest{
		Symbol:   parts[0],
		Address:  parts[1],
		Decimals: decimals,
	}, nil
}

// invalidate drops cached responses affected by a registry change
func (s *AssetService) invalidate(ctx context.Context, symbol string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, fmt.Sprintf("assets:%s", symbol)); err != nil {
		s.logger.Warn("Failed to invalidate asset cache", zap.Error(err))
	}
	for _, pattern := range []string{"assets:list:*", fmt.Sprintf("format:%s:*", symbol)} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.logger.Warn("Failed to invalidate cache pattern",
				zap.String("pattern", pattern),
				zap.Error(err),
			)
		}
	}
}

// assetToDTO converts an asset entity to its API representation
func assetToDTO(a *entities.Asset) AssetDTO {
	return AssetDTO{
		Symbol:    a.Symbol,
		Name:      a.Name,
		Address:   a.Address,
		Decimals:  a.Decimals,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
