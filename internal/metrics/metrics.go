// Package metrics provides Prometheus metrics for model calls, interview
// sessions and document analysis.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadolammi/maarg/internal/interview"
)

// Recorder owns every maarg collector. It satisfies llm.Observer.
type Recorder struct {
	gatherer         prometheus.Gatherer
	llmRequests      *prometheus.CounterVec
	llmDuration      *prometheus.HistogramVec
	transitions      *prometheus.CounterVec
	documents        *prometheus.CounterVec
	activeInterviews prometheus.Gauge
}

// NewRecorder registers the collectors on a fresh registry that also carries
// the Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewRecorderWith(reg, reg)
}

func NewRecorderWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		gatherer: gatherer,
		llmRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maarg_llm_requests_total",
				Help: "Total number of model requests by provider, feature and status",
			},
			[]string{"provider", "feature", "status"},
		),
		llmDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maarg_llm_request_duration_seconds",
				Help:    "Duration of model requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "feature"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maarg_interview_transitions_total",
				Help: "Interview phase transitions by target phase",
			},
			[]string{"phase"},
		),
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maarg_documents_processed_total",
				Help: "Uploaded documents processed by the analysis workers",
			},
			[]string{"status"},
		),
		activeInterviews: factory.NewGauge(prometheus.GaugeOpts{
			Name: "maarg_interview_sessions_active",
			Help: "Interview sessions currently held in memory",
		}),
	}
}

func (r *Recorder) ObserveLLMRequest(provider, feature, status string, elapsed time.Duration) {
	r.llmRequests.WithLabelValues(provider, feature, status).Inc()
	r.llmDuration.WithLabelValues(provider, feature).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveDocument(status string) {
	r.documents.WithLabelValues(status).Inc()
}

func (r *Recorder) SetActiveInterviews(n int) {
	r.activeInterviews.Set(float64(n))
}

// InterviewListener counts phase transitions of a controller.
func (r *Recorder) InterviewListener() interview.Listener {
	return func(ev interview.Event) {
		switch ev.Kind {
		case interview.EventPhaseChanged:
			r.transitions.WithLabelValues(string(ev.Phase)).Inc()
		case interview.EventEnded:
			r.transitions.WithLabelValues(string(interview.EventEnded)).Inc()
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
