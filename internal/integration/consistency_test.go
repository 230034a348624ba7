package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soapbox/bible-verses/internal/api/rest"
	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/config"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/lookup"
	"github.com/soapbox/bible-verses/internal/processor"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/search"
	"github.com/soapbox/bible-verses/internal/testutil"
	"github.com/soapbox/bible-verses/internal/translation"
)

// setupTestEnv populates a store through the processor and serves it over REST
// with the lookup cache enabled.
func setupTestEnv(t *testing.T, opts processor.Options) (*gin.Engine, *database.Repository, *processor.Report) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, repo := testutil.SetupTestDB(t)
	prov, err := provider.New(canon.Default())
	require.NoError(t, err)

	proc := processor.NewProcessor(repo, prov, 4)
	report, err := proc.Process(t.Context(), opts)
	require.NoError(t, err)

	cached := database.NewCachedRepository(repo, 128, 0)
	svc := lookup.NewService(cached, prov, search.NewEngine(db), lookup.DefaultOptions())

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
	}
	return rest.SetupRouter(cfg, db, cached, svc), repo, report
}

func getJSON(t *testing.T, router *gin.Engine, url string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPopulatedRowsMatchREST(t *testing.T) {
	router, repo, report := setupTestEnv(t, processor.Options{
		Translations: []translation.Code{translation.KJV, translation.NIV},
		Books:        []string{"Jude", "John"},
	})
	require.Zero(t, report.Failed)

	before, err := repo.CountVerses(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(report.Written), before)

	for _, tc := range []struct {
		url, reference, translation string
	}{
		{"/api/v1/verses/John/3/16?translation=NIV", "John 3:16", "NIV"},
		{"/api/v1/verses/Jude/1/25", "Jude 1:25", "KJV"},
		{"/api/v1/verses?ref=Jn+11:35&translation=kjv", "John 11:35", "KJV"},
	} {
		t.Run(tc.reference, func(t *testing.T) {
			stored, err := repo.GetVerse(t.Context(), tc.reference, tc.translation)
			require.NoError(t, err)

			data := getJSON(t, router, tc.url)["data"].(map[string]any)
			assert.Equal(t, stored.Reference, data["reference"])
			assert.Equal(t, stored.Text, data["text"])
			assert.Equal(t, stored.IsAuthentic, data["is_authentic"])
			assert.Equal(t, float64(stored.PopularityScore), data["popularity_score"])
		})
	}

	// Lookups of populated verses never write.
	after, err := repo.CountVerses(t.Context())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// A verse outside the populated range is created once, then served.
	getJSON(t, router, "/api/v1/verses/Ruth/1/16?translation=NIV")
	getJSON(t, router, "/api/v1/verses/Ruth/1/16?translation=NIV")
	after, err = repo.CountVerses(t.Context())
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestStatsAndBooksAgree(t *testing.T) {
	router, repo, _ := setupTestEnv(t, processor.Options{
		Translations: []translation.Code{translation.ESV},
		Books:        []string{"Philemon", "Jude"},
	})

	stats := getJSON(t, router, "/api/v1/stats")["data"].(map[string]any)
	assert.Equal(t, float64(50), stats["total_verses"])
	assert.Equal(t, float64(50), stats["distinct_references"])

	books := getJSON(t, router, "/api/v1/books?translation=ESV")["data"].([]any)
	var stored float64
	for _, b := range books {
		stored += b.(map[string]any)["stored_verses"].(float64)
	}
	assert.Equal(t, float64(50), stored)

	counts, err := repo.CountByBook(t.Context(), "ESV")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Philemon": 25, "Jude": 25}, counts)
}

func TestPriorityRunServesRandomAndSearch(t *testing.T) {
	router, _, report := setupTestEnv(t, processor.Options{
		Translations: []translation.Code{translation.KJV},
		PriorityOnly: true,
	})
	require.Positive(t, report.Written)

	random := getJSON(t, router, "/api/v1/verses/random")["data"].(map[string]any)
	assert.Equal(t, "KJV", random["translation"])
	assert.Greater(t, random["popularity_score"].(float64), float64(50))

	found := getJSON(t, router, "/api/v1/verses/search?q=shepherd")
	data := found["data"].([]any)
	require.NotEmpty(t, data)
	assert.Equal(t, "Psalms 23:1", data[0].(map[string]any)["reference"])
}
