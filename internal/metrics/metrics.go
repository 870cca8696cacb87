package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubevents_checkins_total",
			Help: "Successful attendance registrations",
		},
		[]string{"plus_one"},
	)

	photoUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubevents_photo_uploads_total",
			Help: "Photo uploads by outcome",
		},
		[]string{"status"},
	)

	photoUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clubevents_photo_upload_duration_seconds",
			Help:    "Duration of single photo uploads",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	liveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubevents_live_subscribers",
			Help: "Open live check-in connections",
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubevents_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func CheckIn(plusOne bool) {
	checkIns.WithLabelValues(strconv.FormatBool(plusOne)).Inc()
}

func PhotoUpload(started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}

	photoUploads.WithLabelValues(status).Inc()
	photoUploadDuration.Observe(time.Since(started).Seconds())
}

func LiveSubscribers(n int) {
	liveSubscribers.Set(float64(n))
}

// Middleware records request latency labelled with the matched route
// pattern, so path parameters do not blow up cardinality.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		started := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		requestDuration.
			WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).
			Observe(time.Since(started).Seconds())
	}
}
