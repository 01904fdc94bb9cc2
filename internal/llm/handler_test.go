package llm

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/config"
)

func newLLMRouter(requestTimeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newStubService(), requestTimeout).RegisterRoutes(router.Group("/api"))
	return router
}

func TestTranslateEndpoint(t *testing.T) {
	router := newLLMRouter(time.Second)

	body := `{"source_text":"Welcome","source_lang":"en-US","target_lang":"fr-FR"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"provider":"stub"`)
}

func TestTranslateEndpoint_InvalidBody(t *testing.T) {
	router := newLLMRouter(time.Second)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimeoutMiddleware_TimesOut(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newStubService(), 20*time.Millisecond)

	router := gin.New()
	router.POST("/slow", h.timeoutMiddleware(), func(c *gin.Context) {
		time.Sleep(200 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "llm request timed out")
}

func TestNewService_RegistersConfiguredProviders(t *testing.T) {
	svc := NewService(config.LLMConfig{
		OpenAIKey:      "sk-test",
		AnthropicKey:   "ak-test",
		GoogleKey:      "gk-test",
		RequestTimeout: 15,
	}, zap.NewNop())

	assert.Len(t, svc.providers, 3)
}
