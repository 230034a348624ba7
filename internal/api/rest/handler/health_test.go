package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/testutil"
)

func TestHealthHandler(t *testing.T) {
	router, _, _ := setupVerseRouter(t)

	tests := []struct {
		name           string
		expectedStatus int
		checkResponse  func(*testing.T, map[string]any)
	}{
		{
			name:           "healthy database",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, "healthy", resp["status"])
				assert.Equal(t, float64(database.SchemaVersion), resp["schema_version"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := doGet(t, router, "/health")
			assert.Equal(t, tt.expectedStatus, status)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestHealthHandlerClosedDatabase(t *testing.T) {
	db, _ := testutil.SetupTestDB(t)
	router := testutil.SetupTestGin()
	router.GET("/health", HealthHandler(db))

	require.NoError(t, db.Close())

	status, resp := doGet(t, router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", resp["status"])
}

func TestStatsHandler(t *testing.T) {
	router, _, repo := setupVerseRouter(t)
	testutil.SeedVerses(t, repo,
		testutil.Verse("John", 43, 3, 16, "KJV", "For God so loved the world", 100, true),
		testutil.Verse("John", 43, 3, 16, "NIV", "For God so loved the world", 100, true),
		testutil.Verse("John", 43, 3, 17, "NIV", "placeholder", 10, false),
	)

	status, resp := doGet(t, router, "/stats")
	require.Equal(t, http.StatusOK, status)

	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total_verses"])
	assert.Equal(t, float64(2), data["authentic_verses"])
	assert.Equal(t, float64(1), data["placeholder_verses"])
	assert.Equal(t, float64(2), data["distinct_references"])
	assert.Len(t, data["by_translation"], 2)
}
