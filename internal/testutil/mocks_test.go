package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/adiwr/token-display/internal/domain/entities"
)

func TestMockAssetRepository_GetBySymbol(t *testing.T) {
	repo := NewMockAssetRepository()
	ctx := context.Background()

	repo.AddAsset(CreateTestAsset())
	repo.AddAsset(CreateTestAsset(
		AssetWithSymbol("USDT"),
		AssetWithName("Tether USD"),
		AssetWithAddress(USDTAddress),
	))

	asset, err := repo.GetBySymbol(ctx, "USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset == nil {
		t.Fatal("expected asset, got nil")
	}
	if asset.Name != "Tether USD" {
		t.Errorf("expected name Tether USD, got %s", asset.Name)
	}

	// Lookup is case-insensitive on symbol
	asset, err = repo.GetBySymbol(ctx, "usdc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset == nil {
		t.Fatal("expected asset for lowercase symbol, got nil")
	}

	// Unknown symbol returns nil, nil
	asset, err = repo.GetBySymbol(ctx, "DOGE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset != nil {
		t.Errorf("expected nil for unknown symbol, got %+v", asset)
	}

	// Test call tracking
	if repo.CallCount("GetBySymbol") != 3 {
		t.Errorf("expected 3 GetBySymbol calls, got %d", repo.CallCount("GetBySymbol"))
	}
}

func TestMockAssetRepository_GetAllPaginated(t *testing.T) {
	repo := NewMockAssetRepository()
	ctx := context.Background()

	repo.AddAsset(CreateTestAsset(AssetWithSymbol("AAA")))
	repo.AddAsset(CreateTestAsset(AssetWithSymbol("BBB")))
	repo.AddAsset(CreateTestAsset(AssetWithSymbol("CCC")))

	assets, total, err := repo.GetAllPaginated(ctx, 2, 0, "symbol", "asc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(assets) != 2 {
		t.Errorf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Symbol != "AAA" {
		t.Errorf("expected AAA first, got %s", assets[0].Symbol)
	}

	// Offset past the end returns an empty page
	assets, total, err = repo.GetAllPaginated(ctx, 2, 5, "symbol", "asc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(assets) != 0 {
		t.Errorf("expected empty page, got %d assets", len(assets))
	}
}

func TestMockAssetRepository_Upsert(t *testing.T) {
	repo := NewMockAssetRepository()
	ctx := context.Background()

	asset := CreateTestAsset()
	if err := repo.Upsert(ctx, &asset); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 asset, got %d", count)
	}

	// Upserting the same symbol replaces, not duplicates
	updated := CreateTestAsset(AssetWithDecimals(8))
	if err := repo.Upsert(ctx, &updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, _ = repo.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 asset after upsert, got %d", count)
	}

	got, _ := repo.GetBySymbol(ctx, "USDC")
	if got.Decimals != 8 {
		t.Errorf("expected decimals 8 after upsert, got %d", got.Decimals)
	}
}

func TestMockAssetRepository_FunctionHooks(t *testing.T) {
	repo := NewMockAssetRepository()
	ctx := context.Background()

	wantErr := errors.New("registry unavailable")
	repo.GetBySymbolFunc = func(ctx context.Context, symbol string) (*entities.Asset, error) {
		return nil, wantErr
	}

	_, err := repo.GetBySymbol(ctx, "USDC")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected hook error, got %v", err)
	}
}
