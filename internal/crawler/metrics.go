package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalDocuments tracks pages and files successfully fetched and emitted.
	TotalDocuments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_documents_total",
		Help: "The total number of documents successfully fetched and extracted.",
	})
	// TotalFetchErrors tracks URLs that failed to probe, fetch, or download.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_fetch_errors_total",
		Help: "The total number of URLs skipped because of fetch failures.",
	})
	// TotalSkippedMedia tracks URLs skipped for an unsupported media type.
	TotalSkippedMedia = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_skipped_media_total",
		Help: "The total number of URLs skipped for unsupported media types.",
	})
	// RateLimitWait observes time spent waiting on the politeness limiter.
	RateLimitWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_rate_limit_wait_seconds",
		Help:    "Time spent waiting on the inter-request rate limiter.",
		Buckets: prometheus.DefBuckets,
	})
)
