package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedEngine() *gin.Engine {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, map[string]int{"n": 1}, "public, max-age=60", true)
	})
	return r
}

func TestWriteJSONWithCache_NotModified(t *testing.T) {
	r := cachedEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, w.Code)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("If-None-Match", tag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestEtagMatches(t *testing.T) {
	tag := etagOf([]byte(`{"n":1}`), true)

	assert.True(t, etagMatches(tag, tag))
	assert.True(t, etagMatches(`"other", `+tag, tag))
	assert.True(t, etagMatches(tag[2:], tag), "weak comparison ignores W/")
	assert.True(t, etagMatches("*", tag))
	assert.False(t, etagMatches("", tag))
	assert.False(t, etagMatches(`"other"`, tag))
}
