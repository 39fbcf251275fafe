package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts, by result.",
	}, []string{"result"})
	registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Users registered.",
	})
	activitiesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "activities",
		Name:      "created_total",
		Help:      "Activities created, by activity type.",
	}, []string{"activity_type"})
)

const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginError   = "error"
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, logins, registrations, activitiesCreated)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

func RecordRegistration() {
	registrations.Inc()
}

func RecordActivityCreated(activityType string) {
	activitiesCreated.WithLabelValues(activityType).Inc()
}
