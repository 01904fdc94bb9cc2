package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func paramsFor(query string) Params {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/projects"+query, nil)
	return ParseParams(c)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, DefaultOffset},
		{"explicit values", "?limit=5&offset=40", 5, 40},
		{"limit capped", "?limit=500", MaxLimit, DefaultOffset},
		{"zero limit ignored", "?limit=0", DefaultLimit, DefaultOffset},
		{"negative offset ignored", "?offset=-3", DefaultLimit, DefaultOffset},
		{"garbage ignored", "?limit=abc&offset=xyz", DefaultLimit, DefaultOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := paramsFor(tt.query)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(20, 40, 95)

	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 40, meta.Offset)
	assert.Equal(t, int64(95), meta.Total)
	assert.Equal(t, 5, meta.TotalPages)

	empty := BuildMeta(20, 0, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(0, 20, 95))
	assert.True(t, HasMore(60, 20, 95))
	assert.False(t, HasMore(80, 20, 95))
	assert.False(t, HasMore(0, 20, 20))
}

func TestGetCurrentPage(t *testing.T) {
	assert.Equal(t, 1, GetCurrentPage(0, 20))
	assert.Equal(t, 3, GetCurrentPage(40, 20))
	assert.Equal(t, 1, GetCurrentPage(10, 0))
}
