package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlybirddelivery/EARLYAPP-sub001/config"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/cache"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/catalog"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/metrics"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"capacitor://*", "http://localhost:3000"},
		},
	}
}

// setupTestRouter creates a test router without a matching service
func setupTestRouter() *gin.Engine {
	handler := NewHandler(nil)
	return SetupRouter(testConfig(), handler, nil, nil)
}

// failingCatalog is a catalog repository that cannot be read
type failingCatalog struct{}

func (failingCatalog) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return nil, os.ErrNotExist
}

// setupTestRouterWithService creates a test router backed by a real
// ingestion service over the builtin catalog
func setupTestRouterWithService(t *testing.T, repo domain.CatalogRepository) *gin.Engine {
	t.Helper()

	store := cache.NewMemorySessionStore(time.Minute)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	service := usecase.NewIngestionService(
		repo,
		usecase.NewCatalogMatcher(usecase.MatchConfig{Strategy: usecase.StrategyFirst}),
		store,
		recorder,
		nil,
		usecase.IngestionServiceConfig{SessionTTL: time.Hour},
	)

	return SetupRouter(testConfig(), NewHandler(service), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil)
}

func doJSON(router *gin.Engine, method, path, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return response
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		w := doJSON(router, "GET", "/health", "")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decode(t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "earlybird-catalog-matcher" {
			t.Errorf("service = %v, want earlybird-catalog-matcher", response["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := doJSON(router, method, "/health", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestEndpointsWithoutService tests that API endpoints report a missing service
func TestEndpointsWithoutService(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/catalog"},
		{"POST", "/api/v1/match"},
		{"POST", "/api/v1/match/text"},
		{"GET", "/api/v1/sessions/abc"},
		{"DELETE", "/api/v1/sessions/abc"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()

			w := doJSON(router, endpoint.method, endpoint.path, `{}`)
			if w.Code != http.StatusNotImplemented {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
			}
			if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q, want application/json", got)
			}
			errorMsg, _ := decode(t, w)["error"].(string)
			if !strings.Contains(errorMsg, "not configured") {
				t.Errorf("error = %q, want to contain 'not configured'", errorMsg)
			}
		})
	}

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter()

		for _, path := range []string{"/api/match", "/match", "/api/v2/match"} {
			w := doJSON(router, "POST", path, "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Path %s: Status = %d, want %d", path, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for the mobile app", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "capacitor://localhost")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "capacitor://localhost", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("match endpoint has CORS for the dashboard", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/match", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter()
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := doJSON(router, "GET", "/panic", "")

	// Gin's default recovery returns 500
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// TestMatchItemsWithService tests batch matching through the router
func TestMatchItemsWithService(t *testing.T) {
	t.Run("matches alias with Devanagari unit", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		payload := `{"source":"voice","items":[{"name":"चावल","quantity":25,"unit":"किलो"}]}`
		w := doJSON(router, "POST", "/api/v1/match", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		response := decode(t, w)
		assert.NotEmpty(t, response["id"])
		assert.Equal(t, "voice", response["source"])
		assert.Equal(t, 0.8, response["threshold"])

		results := response["results"].([]interface{})
		require.Len(t, results, 1)
		result := results[0].(map[string]interface{})

		entry := result["matchedEntry"].(map[string]interface{})
		assert.Equal(t, "Rice", entry["name"])

		quantity := result["normalizedQuantity"].(map[string]interface{})
		assert.Equal(t, "kg", quantity["unit"])
		assert.Equal(t, "25 kg", quantity["display"])

		assert.GreaterOrEqual(t, result["confidence"].(float64), 0.7)
	})

	t.Run("unmatched transliteration is flagged", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		payload := `{"source":"ocr","items":[{"name":"chawal","quantity":25,"unit":"kg"}]}`
		w := doJSON(router, "POST", "/api/v1/match", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		response := decode(t, w)
		result := response["results"].([]interface{})[0].(map[string]interface{})
		assert.Nil(t, result["matchedEntry"])
		assert.Equal(t, true, result["flagged"])
		assert.LessOrEqual(t, result["confidence"].(float64), 0.6)
		assert.Equal(t, 1.0, response["flaggedCount"])
		assert.Equal(t, 0.0, response["matchedCount"])
	})

	t.Run("accepts quantities sent as strings", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		payload := `{"source":"ocr","items":[{"name":"चावल","quantity":"25","unit":"किलो"},{"name":"doodh","quantity":"500","unit":"ml"}]}`
		w := doJSON(router, "POST", "/api/v1/match", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		results := decode(t, w)["results"].([]interface{})
		require.Len(t, results, 2)
		first := results[0].(map[string]interface{})
		assert.Equal(t, "25 kg", first["normalizedQuantity"].(map[string]interface{})["display"])
		second := results[1].(map[string]interface{})
		assert.Equal(t, "0.5 L", second["normalizedQuantity"].(map[string]interface{})["display"])
	})

	t.Run("returns 400 for a non-numeric quantity", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		w := doJSON(router, "POST", "/api/v1/match", `{"source":"ocr","items":[{"name":"rice","quantity":"two"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for unknown source", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		w := doJSON(router, "POST", "/api/v1/match", `{"source":"fax","items":[{"name":"rice"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotNil(t, decode(t, w)["error"])
	})

	t.Run("returns 400 when every name is blank", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		w := doJSON(router, "POST", "/api/v1/match", `{"source":"voice","items":[{"name":"  "}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		router := setupTestRouterWithService(t, catalog.Builtin())

		w := doJSON(router, "POST", "/api/v1/match", `{invalid json}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 503 when catalog is unavailable", func(t *testing.T) {
		router := setupTestRouterWithService(t, failingCatalog{})

		w := doJSON(router, "POST", "/api/v1/match", `{"source":"voice","items":[{"name":"rice"}]}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Catalog temporarily unavailable", decode(t, w)["error"])
	})
}

// TestMatchTextWithService tests transcript matching and session review
func TestMatchTextWithService(t *testing.T) {
	router := setupTestRouterWithService(t, catalog.Builtin())

	payload := `{"source":"voice","text":"mujhe 2 kg aloo aur 500 ml doodh chahiye","sourceConfidence":0.9}`
	w := doJSON(router, "POST", "/api/v1/match/text", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	results := response["results"].([]interface{})
	require.Len(t, results, 2)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "Potato", first["matchedEntry"].(map[string]interface{})["name"])
	assert.Equal(t, "2 kg", first["normalizedQuantity"].(map[string]interface{})["display"])

	second := results[1].(map[string]interface{})
	assert.Equal(t, "Milk", second["matchedEntry"].(map[string]interface{})["name"])
	assert.Equal(t, "0.5 L", second["normalizedQuantity"].(map[string]interface{})["display"])

	sessionID := response["id"].(string)

	t.Run("session can be fetched for review", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/sessions/"+sessionID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, sessionID, decode(t, w)["id"])
	})

	t.Run("session can be cleared", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/v1/sessions/"+sessionID, "")
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "GET", "/api/v1/sessions/"+sessionID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for text without items", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/match/text", `{"source":"voice","text":"please 5"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("metrics reflect the batch", func(t *testing.T) {
		w := doJSON(router, "GET", "/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `earlybird_match_results_total{outcome="matched",source="voice"} 2`)
	})
}

// TestListCatalogWithService tests the catalog endpoint
func TestListCatalogWithService(t *testing.T) {
	router := setupTestRouterWithService(t, catalog.Builtin())

	w := doJSON(router, "GET", "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, float64(catalog.Builtin().Len()), response["count"])
}
