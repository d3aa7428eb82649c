package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/adiwr/token-display/internal/application/services"
	"github.com/adiwr/token-display/internal/testutil"
)

func setupFormatHandlerTest() (*chi.Mux, *testutil.MockAssetRepository) {
	repo := testutil.NewMockAssetRepository()
	logger := zap.NewNop()

	service := services.NewFormatService(repo, nil, logger)
	handler := NewFormatHandler(service, logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	return r, repo
}

func TestFormatHandler_FormatAmount(t *testing.T) {
	router, repo := setupFormatHandlerTest()
	repo.AddAsset(testutil.CreateTestAsset())

	t.Run("formats amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/format?amount=10500000&add_symbol=true", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var response services.ConversionResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response.Data.Human != "10.5" {
			t.Errorf("expected human 10.5, got %s", response.Data.Human)
		}
		if response.Data.Display != "10.50 USDC" {
			t.Errorf("expected display %q, got %q", "10.50 USDC", response.Data.Display)
		}
	})

	t.Run("without add_symbol", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/format?amount=1000000", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		var response services.ConversionResponse
		json.NewDecoder(rec.Body).Decode(&response)

		if response.Data.Display != "1.00" {
			t.Errorf("expected display 1.00, got %q", response.Data.Display)
		}
	})

	t.Run("missing amount returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/format", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unparseable amount returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/format?amount=abc", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown symbol returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/DOGE/format?amount=100", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestFormatHandler_ParseAmount(t *testing.T) {
	router, repo := setupFormatHandlerTest()
	repo.AddAsset(testutil.CreateTestAsset())

	t.Run("parses amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/parse?amount=75.5", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var response services.ConversionResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response.Data.Raw != "75500000" {
			t.Errorf("expected raw 75500000, got %s", response.Data.Raw)
		}
	})

	t.Run("negative amount returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/parse?amount=-5", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("missing amount returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/USDC/parse", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestFormatHandler_FormatBatch(t *testing.T) {
	router, repo := setupFormatHandlerTest()
	repo.AddAsset(testutil.CreateTestAsset())

	t.Run("formats batch", func(t *testing.T) {
		body := `{"items":[
			{"symbol":"USDC","raw":"10500000","add_symbol":true},
			{"symbol":"DOGE","raw":"1"}
		]}`
		req := httptest.NewRequest(http.MethodPost, "/format/batch", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var response services.BatchFormatResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if len(response.Data) != 2 {
			t.Fatalf("expected 2 results, got %d", len(response.Data))
		}
		if response.Data[0].Display != "10.50 USDC" {
			t.Errorf("expected %q, got %q", "10.50 USDC", response.Data[0].Display)
		}
		if response.Data[1].Error == "" {
			t.Error("expected error for unknown symbol")
		}
	})

	t.Run("empty batch returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/format/batch", strings.NewReader(`{"items":[]}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/format/batch", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("oversized batch returns 400", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`{"items":[`)
		for i := 0; i < maxBatchItems+1; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`{"symbol":"USDC","raw":"1"}`)
		}
		b.WriteString(`]}`)

		req := httptest.NewRequest(http.MethodPost, "/format/batch", strings.NewReader(b.String()))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}
