package middleware

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// redactedParams never reach the access log in clear.
var redactedParams = []string{"token"}

// Logger is gin's access log with credentials stripped from the query.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: LogFormatter,
	})
}

func LogFormatter(param gin.LogFormatterParams) string {
	if param.Latency > time.Minute {
		param.Latency = param.Latency.Truncate(time.Second)
	}

	return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
		param.TimeStamp.Format("2006/01/02 - 15:04:05"),
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		redactQuery(param.Path),
		param.ErrorMessage,
	)
}

func redactQuery(p string) string {
	base, raw, found := strings.Cut(p, "?")
	if !found {
		return p
	}

	query, err := url.ParseQuery(raw)
	if err != nil {
		return base + "?REDACTED"
	}
	for _, name := range redactedParams {
		if query.Has(name) {
			query.Set(name, "REDACTED")
		}
	}

	return base + "?" + query.Encode()
}
