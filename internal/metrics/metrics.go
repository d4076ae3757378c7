package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bramble_search_requests_total",
			Help: "Total number of result page requests executed",
		},
		[]string{"locale", "status", "blocked", "reason"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bramble_search_duration_seconds",
			Help:    "Duration of result page requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"locale"},
	)

	SearchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bramble_search_bytes_total",
			Help: "Total bytes downloaded across all result pages",
		},
		[]string{"locale"},
	)

	QuestionsDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bramble_questions_discovered_total",
			Help: "Total related questions extracted from result pages",
		},
	)

	AnswersExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bramble_answers_extracted_total",
			Help: "Total featured snippets successfully extracted",
		},
	)

	ProxyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bramble_proxy_failures_total",
			Help: "Total number of proxy failures during requests",
		},
		[]string{"proxy_url"},
	)
)

// RecordSearch updates the request metrics for one result page fetch.
// status is the numeric HTTP status as a string, or "error" when the
// request never produced a response.
func RecordSearch(locale, status string, blocked bool, reason string, bytes int, d time.Duration) {
	blockedStr := "false"
	if blocked {
		blockedStr = "true"
	}
	SearchRequestsTotal.WithLabelValues(locale, status, blockedStr, reason).Inc()
	SearchDuration.WithLabelValues(locale).Observe(d.Seconds())
	SearchBytesTotal.WithLabelValues(locale).Add(float64(bytes))
}

// RecordQuestions counts related questions pulled off a page.
func RecordQuestions(n int) {
	if n > 0 {
		QuestionsDiscovered.Add(float64(n))
	}
}

// RecordAnswer counts one extracted featured snippet.
func RecordAnswer() {
	AnswersExtracted.Inc()
}

// RecordProxyFailure counts a failed request through the given proxy.
func RecordProxyFailure(proxyURL string) {
	ProxyFailures.WithLabelValues(proxyURL).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
