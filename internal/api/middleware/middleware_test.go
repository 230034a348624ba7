package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soapbox/bible-verses/internal/logger"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r
}

func request(r *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := newRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/ping", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/ping", "10.0.0.1:1234").Code)

	w := request(r, http.MethodGet, "/ping", "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMITED", resp["error"]["code"])

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/ping", "10.0.0.2:1234").Code)
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiterReusesLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	a := rl.getLimiter("a")
	assert.Same(t, a, rl.getLimiter("a"))
	assert.NotSame(t, a, rl.getLimiter("b"))
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS())
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := request(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(r, http.MethodOptions, "/ping", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.SetLogger(zap.New(core))
	t.Cleanup(restore)

	r := newRouter(RequestLogger())
	request(r, http.MethodGet, "/ping?x=1", "")
	request(r, http.MethodGet, "/boom", "")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, "x=1", fields["query"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
