package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/adiwr/token-display/internal/domain/entities"
	"github.com/adiwr/token-display/internal/domain/repositories"
)

// Ensure MockAssetRepository implements AssetRepository
var _ repositories.AssetRepository = (*MockAssetRepository)(nil)

// MockAssetRepository is a mock implementation of AssetRepository
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]entities.Asset

	// Function hooks for custom behavior
	GetBySymbolFunc     func(ctx context.Context, symbol string) (*entities.Asset, error)
	GetByAddressFunc    func(ctx context.Context, address string) (*entities.Asset, error)
	GetAllFunc          func(ctx context.Context) ([]entities.Asset, error)
	GetAllPaginatedFunc func(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]*entities.Asset, int64, error)
	CountFunc           func(ctx context.Context) (int64, error)
	UpsertFunc          func(ctx context.Context, asset *entities.Asset) error

	// Call tracking
	Calls []MockCall
}

type MockCall struct {
	Method string
	Args   []interface{}
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{
		assets: make(map[string]entities.Asset),
		Calls:  make([]MockCall, 0),
	}
}

// AddAsset seeds the in-memory store
func (m *MockAssetRepository) AddAsset(asset entities.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[strings.ToUpper(asset.Symbol)] = asset
}

func (m *MockAssetRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockAssetRepository) GetBySymbol(ctx context.Context, symbol string) (*entities.Asset, error) {
	m.record("GetBySymbol", symbol)

	if m.GetBySymbolFunc != nil {
		return m.GetBySymbolFunc(ctx, symbol)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if asset, ok := m.assets[strings.ToUpper(symbol)]; ok {
		return &asset, nil
	}
	return nil, nil
}

func (m *MockAssetRepository) GetByAddress(ctx context.Context, address string) (*entities.Asset, error) {
	m.record("GetByAddress", address)

	if m.GetByAddressFunc != nil {
		return m.GetByAddressFunc(ctx, address)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, asset := range m.assets {
		if strings.EqualFold(asset.Address, address) {
			a := asset
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockAssetRepository) GetAll(ctx context.Context) ([]entities.Asset, error) {
	m.record("GetAll")

	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedAssets(), nil
}

func (m *MockAssetRepository) GetAllPaginated(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]*entities.Asset, int64, error) {
	m.record("GetAllPaginated", limit, offset, sortBy, sortOrder)

	if m.GetAllPaginatedFunc != nil {
		return m.GetAllPaginatedFunc(ctx, limit, offset, sortBy, sortOrder)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.sortedAssets()
	total := int64(len(all))

	if offset > len(all) {
		return []*entities.Asset{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	page := make([]*entities.Asset, 0, end-offset)
	for i := offset; i < end; i++ {
		a := all[i]
		page = append(page, &a)
	}

	return page, total, nil
}

func (m *MockAssetRepository) Count(ctx context.Context) (int64, error) {
	m.record("Count")

	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.assets)), nil
}

func (m *MockAssetRepository) Upsert(ctx context.Context, asset *entities.Asset) error {
	m.record("Upsert", asset)

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, asset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[strings.ToUpper(asset.Symbol)] = *asset
	return nil
}

// CallCount returns how many times the named method was invoked
func (m *MockAssetRepository) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.Calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// MockHealthChecker is a mock health checker for handler tests
type MockHealthChecker struct {
	healthy bool
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	return &MockHealthChecker{healthy: healthy}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	if !m.healthy {
		return errors.New("health check failed")
	}
	return nil
}

// sortedAssets returns the stored assets ordered by symbol; callers must
// hold the lock
func (m *MockAssetRepository) sortedAssets() []entities.Asset {
	assets := make([]entities.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets
}
