package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	submissions *prometheus.CounterVec
	pushes      *prometheus.CounterVec
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	httpReqs    *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skirent_reservation_validations_total",
			Help: "Reservation drafts evaluated, grouped by outcome.",
		}, []string{"outcome"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skirent_reservation_submissions_total",
			Help: "Reservation submissions grouped by result.",
		}, []string{"result"}),
		pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skirent_push_messages_total",
			Help: "Push notifications handed to the provider, grouped by result.",
		}, []string{"result"}),
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skirent_job_runs_total",
			Help: "Scheduled job executions grouped by job and result.",
		}, []string{"job", "result"}),
		jobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skirent_job_duration_seconds",
			Help:    "Duration of scheduled job executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		httpReqs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skirent_http_requests_total",
			Help: "HTTP requests grouped by route template, method and status code.",
		}, []string{"route", "method", "code"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skirent_http_request_duration_seconds",
			Help:    "HTTP request latency by route template.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry is exposed so transport layers can add their own collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveValidation(outcome string) {
	m.validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSubmission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

// ObservePush counts delivered or failed device messages.
func (m *Metrics) ObservePush(result string, count int) {
	m.pushes.WithLabelValues(result).Add(float64(count))
}

func (m *Metrics) ObserveJob(job, result string, seconds float64) {
	m.jobRuns.WithLabelValues(job, result).Inc()
	m.jobDuration.WithLabelValues(job).Observe(seconds)
}

// ObserveHTTPRequest records one served request. route is the matched template, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(route, method string, code int, seconds float64) {
	m.httpReqs.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(seconds)
}
