package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})
	return r
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	r := requestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	rid := w.Header().Get(HeaderXRequestID)
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
	assert.Equal(t, rid, w.Body.String(), "context and header carry the same id")
}

func TestRequestIDHonorsValidInboundID(t *testing.T) {
	r := requestIDRouter()
	inbound := uuid.New().String()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, inbound)
	r.ServeHTTP(w, req)

	assert.Equal(t, inbound, w.Header().Get(HeaderXRequestID))
}

func TestRequestIDReplacesNonUUIDInboundID(t *testing.T) {
	r := requestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "not-a-uuid\r\ninjected: header")
	r.ServeHTTP(w, req)

	rid := w.Header().Get(HeaderXRequestID)
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
	assert.NotContains(t, rid, "injected")
}
