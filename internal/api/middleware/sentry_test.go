package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiCall struct {
	endpoint string
	status   int
}

type recordingAPI struct {
	calls []apiCall
}

func (r *recordingAPI) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, _ time.Duration) {
	r.calls = append(r.calls, apiCall{endpoint: endpoint, status: statusCode})
}

func TestRequestTracking(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &recordingAPI{}
	router := gin.New()
	router.Use(RequestTracking(rec))
	router.GET("/items/:id", func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString("request_id"))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, apiCall{endpoint: "/items/:id", status: http.StatusNoContent}, rec.calls[0])
}

func TestRecoverWithSentry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoverWithSentry())
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"data":null`)
	assert.Contains(t, w.Body.String(), "Generation failed")
}
