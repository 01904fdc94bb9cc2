package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/localeflow/internal/state"
)

type fakeCache struct {
	values  map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) GetString(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeCache) SetWithExpiration(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.values[key] = string(value.([]byte))
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func newCachedRouter(cache Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newTestService(state.NewStore()), cache).RegisterRoutes(router.Group("/api"))
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSummaryHandler_PopulatesCache(t *testing.T) {
	cache := newFakeCache()
	router := newCachedRouter(cache)

	w := get(router, "/api/analytics/summary")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, cache.values[summaryCacheKey])
	assert.Contains(t, w.Body.String(), "total_jobs")
}

func TestSummaryHandler_ServesCachedPayload(t *testing.T) {
	cache := newFakeCache()
	cache.values[summaryCacheKey] = `{"total_jobs":42}`
	router := newCachedRouter(cache)

	w := get(router, "/api/analytics/summary")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_jobs":42`)
}

func TestDashboardHandler_NilCache(t *testing.T) {
	router := newCachedRouter(nil)

	w := get(router, "/api/dashboard/summary")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "active_projects")
}

func TestInvalidateCache(t *testing.T) {
	cache := newFakeCache()
	cache.values[summaryCacheKey] = "{}"
	handler := NewHandler(newTestService(state.NewStore()), cache)

	require.NoError(t, handler.InvalidateCache(context.Background()))

	assert.Empty(t, cache.values)
	assert.ElementsMatch(t, []string{summaryCacheKey, overviewCacheKey, dashboardCacheKey}, cache.deleted)

	assert.NoError(t, NewHandler(newTestService(state.NewStore()), nil).InvalidateCache(context.Background()))
}
