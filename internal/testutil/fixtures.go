package testutil

import (
	"time"

	"github.com/adiwr/token-display/internal/domain/entities"
)

// Common test asset addresses
const (
	USDTAddress = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	USDCAddress = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	WETHAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
)

// CreateTestAsset creates a test asset with default values
func CreateTestAsset(opts ...AssetOption) entities.Asset {
	a := entities.Asset{
		Symbol:    "USDC",
		Name:      "USD Coin",
		Address:   USDCAddress,
		Decimals:  6,
		CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	for _, opt := range opts {
		opt(&a)
	}

	return a
}

type AssetOption func(*entities.Asset)

func AssetWithSymbol(symbol string) AssetOption {
	return func(a *entities.Asset) {
		a.Symbol = symbol
	}
}

func AssetWithName(name string) AssetOption {
	return func(a *entities.Asset) {
		a.Name = name
	}
}

func AssetWithAddress(address string) AssetOption {
	return func(a *entities.Asset) {
		a.Address = address
	}
}

func AssetWithDecimals(decimals int) AssetOption {
	return func(a *entities.Asset) {
		a.Decimals = decimals
	}
}
