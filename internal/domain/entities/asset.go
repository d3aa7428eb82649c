package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Asset describes a registered token asset: the display symbol and the
// decimals used to scale between raw and human-readable amounts.
//
// Decimals is immutable for the lifetime of any conversion performed
// against the asset: changing it without re-deriving stored raw amounts
// corrupts their meaning, which is why updates go through an explicit
// upsert rather than field mutation.
type Asset struct {
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Decimals  int       `db:"decimals"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MaxDecimals bounds the scaling exponent; 18 covers every asset this
// service deals with (wei-denominated tokens).
const MaxDecimals = 18

// ValidAssetAddress reports whether s is a well-formed hex contract
// address.
func ValidAssetAddress(s string) bool {
	return common.IsHexAddress(s)
}

// NormalizeAssetAddress returns the EIP-55 checksummed form of a hex
// address. Callers must validate with ValidAssetAddress first.
func NormalizeAssetAddress(s string) string {
	return common.HexToAddress(s).Hex()
}
