package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adiwr/token-display/internal/domain/amount"
	"github.com/adiwr/token-display/internal/domain/repositories"
	"github.com/adiwr/token-display/internal/infrastructure/cache"
)

var (
	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "converter_conversions_total",
			Help: "Total number of amount conversions performed",
		},
		[]string{"direction", "symbol"},
	)

	invalidAmountsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "converter_invalid_amounts_total",
			Help: "Total number of conversion requests rejected as unparseable",
		},
	)

	conversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "converter_conversion_duration_seconds",
			Help:    "Time taken to perform a single conversion, including registry lookup",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
	)
)

// batchWorkers bounds concurrency for batch formatting
const batchWorkers = 8

// FormatService converts raw amounts to display strings and back, using
// the asset registry to resolve symbols to decimals
type FormatService struct {
	assetRepo repositories.AssetRepository
	cache     *cache.RedisCache
	logger    *zap.Logger
}

// NewFormatService creates a new format service
func NewFormatService(
	assetRepo repositories.AssetRepository,
	cache *cache.RedisCache,
	logger *zap.Logger,
) *FormatService {
	return &FormatService{
		assetRepo: assetRepo,
		cache:     cache,
		logger:    logger,
	}
}

// ConversionDTO is the API representation of a single conversion
type ConversionDTO struct {
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Raw      string `json:"raw"`
	Human    string `json:"human"`
	Display  string `json:"display"`
}

// ConversionResponse wraps a conversion for API responses
type ConversionResponse struct {
	Data ConversionDTO `json:"data"`
}

// BatchFormatItem is a single entry of a batch format request
type BatchFormatItem struct {
	Symbol    string `json:"symbol"`
	Raw       string `json:"raw"`
	AddSymbol bool   `json:"add_symbol"`
}

// BatchFormatRequest is the API request for batch formatting
type BatchFormatRequest struct {
	Items []BatchFormatItem `json:"items"`
}

// BatchFormatResult is a single entry of a batch format response. Error
// is set instead of the conversion fields when the item failed.
type BatchFormatResult struct {
	ConversionDTO
	Error string `json:"error,omitempty"`
}

// BatchFormatResponse wraps batch results for API responses
type BatchFormatResponse struct {
	Data []BatchFormatResult `json:"data"`
}

// FormatAmount converts a raw integer amount of the given asset into its
// human-readable value and display string. The raw input may be negative:
// deltas are displayed with a leading minus sign.
//
// Returns amount.ErrInvalidAmount for unparseable input and
// ErrAssetNotFound for unregistered symbols.
func (s *FormatService) FormatAmount(ctx context.Context, symbol, raw string, addSymbol bool) (*ConversionResponse, error) {
	start := time.Now()
	defer func() {
		conversionDuration.Observe(time.Since(start).Seconds())
	}()

	symbol = strings.ToUpper(symbol)

	cacheKey := fmt.Sprintf("format:%s:%s:%t", symbol, raw, addSymbol)

	var cached ConversionResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	asset, err := s.getAsset(ctx, symbol)
	if err != nil {
		return nil, err
	}

	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		invalidAmountsTotal.Inc()
		return nil, fmt.Errorf("%w: raw value %q", amount.ErrInvalidAmount, raw)
	}

	human := amount.RawToHuman(value, uint8(asset.Decimals))

	response := &ConversionResponse{
		Data: ConversionDTO{
			Symbol:   asset.Symbol,
			Decimals: asset.Decimals,
			Raw:      value.String(),
			Human:    human.String(),
			Display:  amount.FormatReadable(human, asset.Symbol, amount.Options{AddSymbol: addSymbol}),
		},
	}

	conversionsTotal.WithLabelValues("raw_to_human", symbol).Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// ParseAmount converts a human-readable amount of the given asset into
// its raw integer representation. Input with excess fractional digits is
// rounded half away from zero to the asset's decimals.
func (s *FormatService) ParseAmount(ctx context.Context, symbol, human string) (*ConversionResponse, error) {
	start := time.Now()
	defer func() {
		conversionDuration.Observe(time.Since(start).Seconds())
	}()

	symbol = strings.ToUpper(symbol)

	asset, err := s.getAsset(ctx, symbol)
	if err != nil {
		return nil, err
	}

	raw, err := amount.HumanToRaw(human, uint8(asset.Decimals))
	if err != nil {
		invalidAmountsTotal.Inc()
		return nil, err
	}

	// Re-derive the human value so the response reflects the rounding
	// that was applied, not the caller's original string.
	normalized := amount.RawToHuman(raw, uint8(asset.Decimals))

	conversionsTotal.WithLabelValues("human_to_raw", symbol).Inc()

	return &ConversionResponse{
		Data: ConversionDTO{
			Symbol:   asset.Symbol,
			Decimals: asset.Decimals,
			Raw:      raw.String(),
			Human:    normalized.String(),
			Display:  amount.FormatReadable(normalized, asset.Symbol, amount.Options{AddSymbol: true}),
		},
	}, nil
}

// FormatBatch formats many amounts in one call, fanning out with bounded
// concurrency. Per-item failures are reported in the item's Error field;
// the batch itself only fails on context cancellation.
func (s *FormatService) FormatBatch(ctx context.Context, req BatchFormatRequest) (*BatchFormatResponse, error) {
	results := make([]BatchFormatResult, len(req.Items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			resp, err := s.FormatAmount(gCtx, item.Symbol, item.Raw, item.AddSymbol)
			if err != nil {
				results[i] = BatchFormatResult{
					ConversionDTO: ConversionDTO{Symbol: strings.ToUpper(item.Symbol), Raw: item.Raw},
					Error:         err.Error(),
				}
				return nil
			}

			results[i] = BatchFormatResult{ConversionDTO: resp.Data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch format aborted: %w", err)
	}

	return &BatchFormatResponse{Data: results}, nil
}

// getAsset resolves a symbol through the cache and registry
func (s *FormatService) getAsset(ctx context.Context, symbol string) (*AssetDTO, error) {
	cacheKey := fmt.Sprintf("assets:%s", symbol)

	var cached AssetResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached.Data, nil
		}
	}

	asset, err := s.assetRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}

	dto := assetToDTO(asset)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, &AssetResponse{Data: dto}); err != nil {
			s.logger.Warn("Failed to cache asset", zap.Error(err))
		}
	}

	return &dto, nil
}
