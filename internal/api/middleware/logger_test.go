package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLogFormatter_RedactsToken(t *testing.T) {
	line := LogFormatter(gin.LogFormatterParams{
		TimeStamp:  time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		StatusCode: http.StatusSwitchingProtocols,
		Method:     http.MethodGet,
		Path:       "/api/v1/events/e1/live?token=eyJhbGciOi.secret&x=1",
	})

	assert.NotContains(t, line, "secret")
	assert.Contains(t, line, "/api/v1/events/e1/live?token=REDACTED&x=1")
}

func TestLogFormatter_KeepsPlainQuery(t *testing.T) {
	line := LogFormatter(gin.LogFormatterParams{Path: "/api/v1/events?category=Learn"})
	assert.Contains(t, line, "/api/v1/events?category=Learn")

	line = LogFormatter(gin.LogFormatterParams{Path: "/api/v1/events"})
	assert.Contains(t, line, `"/api/v1/events"`)
}

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out bytes.Buffer
	defaultWriter := gin.DefaultWriter
	gin.DefaultWriter = &out
	t.Cleanup(func() { gin.DefaultWriter = defaultWriter })

	r := gin.New()
	r.Use(Logger())
	r.GET("/live", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live?token=leaky", nil))

	assert.NotContains(t, out.String(), "leaky")
	assert.Contains(t, out.String(), "token=REDACTED")
}
