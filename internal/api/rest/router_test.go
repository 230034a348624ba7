package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/config"
	"github.com/soapbox/bible-verses/internal/lookup"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/search"
	"github.com/soapbox/bible-verses/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: 8080, Mode: "test"},
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 3},
	}
}

func TestSetupRouter(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	prov, err := provider.New(canon.Default())
	require.NoError(t, err)
	svc := lookup.NewService(repo, prov, search.NewEngine(db), lookup.DefaultOptions())

	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	router := SetupRouter(cfg, db, repo, svc)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/stats", http.StatusOK},
		{"/api/v1/verses/John/3/16?translation=ESV", http.StatusOK},
		{"/api/v1/verses?ref=John+11:35", http.StatusOK},
		{"/api/v1/verses/random", http.StatusOK},
		{"/api/v1/verses/search?q=wept", http.StatusOK},
		{"/api/v1/verses/search", http.StatusBadRequest},
		{"/api/v1/books", http.StatusOK},
		{"/api/v1/books/Ruth", http.StatusOK},
		{"/api/v1/translations", http.StatusOK},
		{"/api/v1/poems", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	// The earlier lookup of John 11:35 is searchable.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verses/search?q=wept", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"], 1)
}

func TestSetupRouterRateLimit(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	prov, err := provider.New(canon.Default())
	require.NoError(t, err)
	svc := lookup.NewService(repo, prov, search.NewEngine(db), lookup.DefaultOptions())

	router := SetupRouter(testConfig(), db, repo, svc)

	codes := make([]int, 0, 4)
	for range 4 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, http.StatusTooManyRequests}, codes)
}
