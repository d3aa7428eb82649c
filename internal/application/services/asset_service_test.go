package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/adiwr/token-display/internal/domain/entities"
	"github.com/adiwr/token-display/internal/testutil"
)

func setupAssetServiceTest() (*AssetService, *testutil.MockAssetRepository) {
	repo := testutil.NewMockAssetRepository()
	logger := zap.NewNop()
	return NewAssetService(repo, nil, logger), repo
}

func TestAssetService_GetAllAssets(t *testing.T) {
	ctx := context.Background()

	t.Run("returns paginated assets", func(t *testing.T) {
		service, repo := setupAssetServiceTest()
		repo.AddAsset(testutil.CreateTestAsset())
		repo.AddAsset(testutil.CreateTestAsset(
			testutil.AssetWithSymbol("USDT"),
			testutil.AssetWithAddress(testutil.USDTAddress),
		))

		result, err := service.GetAllAssets(ctx, 100, 0, "symbol", "asc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 assets, got %d", len(result.Data))
		}
		if result.Pagination.Total != 2 {
			t.Errorf("expected total 2, got %d", result.Pagination.Total)
		}
	})

	t.Run("propagates repository error", func(t *testing.T) {
		service, repo := setupAssetServiceTest()
		repo.GetAllPaginatedFunc = func(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]*entities.Asset, int64, error) {
			return nil, 0, errors.New("database error")
		}

		_, err := service.GetAllAssets(ctx, 100, 0, "symbol", "asc")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestAssetService_GetBySymbol(t *testing.T) {
	ctx := context.Background()

	t.Run("returns asset", func(t *testing.T) {
		service, repo := setupAssetServiceTest()
		repo.AddAsset(testutil.CreateTestAsset())

		result, err := service.GetBySymbol(ctx, "usdc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil {
			t.Fatal("expected result, got nil")
		}
		if result.Data.Symbol != "USDC" {
			t.Errorf("expected USDC, got %s", result.Data.Symbol)
		}
		if result.Data.Decimals != 6 {
			t.Errorf("expected decimals 6, got %d", result.Data.Decimals)
		}
	})

	t.Run("returns nil for unknown symbol", func(t *testing.T) {
		service, _ := setupAssetServiceTest()

		result, err := service.GetBySymbol(ctx, "DOGE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Errorf("expected nil, got %+v", result)
		}
	})
}

func TestAssetService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers asset with normalized address", func(t *testing.T) {
		service, repo := setupAssetServiceTest()

		result, err := service.Register(ctx, RegisterAssetRequest{
			Symbol:   "usdc",
			Name:     "USD Coin",
			Address:  "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
			Decimals: 6,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Data.Symbol != "USDC" {
			t.Errorf("expected uppercased symbol USDC, got %s", result.Data.Symbol)
		}
		// Lowercase input comes back EIP-55 checksummed
		if result.Data.Address != testutil.USDCAddress {
			t.Errorf("expected checksummed address %s, got %s", testutil.USDCAddress, result.Data.Address)
		}

		stored, _ := repo.GetBySymbol(ctx, "USDC")
		if stored == nil {
			t.Fatal("expected asset persisted")
		}
	})

	t.Run("rejects empty symbol", func(t *testing.T) {
		service, _ := setupAssetServiceTest()

		_, err := service.Register(ctx, RegisterAssetRequest{
			Address:  testutil.USDCAddress,
			Decimals: 6,
		})
		if !errors.Is(err, ErrInvalidAsset) {
			t.Errorf("expected ErrInvalidAsset, got %v", err)
		}
	})

	t.Run("rejects out-of-range decimals", func(t *testing.T) {
		service, _ := setupAssetServiceTest()

		for _, decimals := range []int{-1, entities.MaxDecimals + 1} {
			_, err := service.Register(ctx, RegisterAssetRequest{
				Symbol:   "FOO",
				Address:  testutil.USDCAddress,
				Decimals: decimals,
			})
			if !errors.Is(err, ErrInvalidAsset) {
				t.Errorf("decimals %d: expected ErrInvalidAsset, got %v", decimals, err)
			}
		}
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		service, _ := setupAssetServiceTest()

		_, err := service.Register(ctx, RegisterAssetRequest{
			Symbol:   "FOO",
			Address:  "0x1234",
			Decimals: 6,
		})
		if !errors.Is(err, ErrInvalidAsset) {
			t.Errorf("expected ErrInvalidAsset, got %v", err)
		}
	})

	t.Run("propagates repository error", func(t *testing.T) {
		service, repo := setupAssetServiceTest()
		repo.UpsertFunc = func(ctx context.Context, asset *entities.Asset) error {
			return errors.New("database error")
		}

		_, err := service.Register(ctx, RegisterAssetRequest{
			Symbol:   "FOO",
			Address:  testutil.USDCAddress,
			Decimals: 6,
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestAssetService_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds configured assets", func(t *testing.T) {
		service, repo := setupAssetServiceTest()

		entries := []string{
			"USDT:" + testutil.USDTAddress + ":6",
			"WETH:" + testutil.WETHAddress + ":18",
		}

		if err := service.Seed(ctx, entries, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		count, _ := repo.Count(ctx)
		if count != 2 {
			t.Errorf("expected 2 seeded assets, got %d", count)
		}

		weth, _ := repo.GetBySymbol(ctx, "WETH")
		if weth == nil {
			t.Fatal("expected WETH registered")
		}
		if weth.Decimals != 18 {
			t.Errorf("expected decimals 18, got %d", weth.Decimals)
		}
	})

	t.Run("skips blank entries", func(t *testing.T) {
		service, repo := setupAssetServiceTest()

		if err := service.Seed(ctx, []string{"", "  "}, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count, _ := repo.Count(ctx)
		if count != 0 {
			t.Errorf("expected no assets, got %d", count)
		}
	})

	t.Run("fails on malformed entry", func(t *testing.T) {
		service, _ := setupAssetServiceTest()

		err := service.Seed(ctx, []string{"USDT-6"}, 4)
		if err == nil {
			t.Fatal("expected error for malformed entry")
		}
	})

	t.Run("fails on bad decimals", func(t *testing.T) {
		service, _ := setupAssetServiceTest()

		err := service.Seed(ctx, []string{"USDT:" + testutil.USDTAddress + ":x"}, 4)
		if err == nil {
			t.Fatal("expected error for bad decimals")
		}
	})
}
