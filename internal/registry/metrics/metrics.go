package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PapersRegistered prometheus.Counter
	VersionsAdded    prometheus.Counter
	TitleCacheHits   prometheus.Counter
	TitleCacheMisses prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		PapersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_registry_papers_registered_total",
			Help: "Total number of papers registered",
		}),
		VersionsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_registry_versions_added_total",
			Help: "Total number of paper versions appended",
		}),
		TitleCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_registry_title_cache_hits_total",
			Help: "Title existence checks answered from the cache",
		}),
		TitleCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_registry_title_cache_misses_total",
			Help: "Title existence checks that fell through to the store",
		}),
	}
}

func (m *Metrics) IncrementPapersRegistered() {
	if m != nil {
		m.PapersRegistered.Inc()
	}
}

func (m *Metrics) IncrementVersionsAdded() {
	if m != nil {
		m.VersionsAdded.Inc()
	}
}

func (m *Metrics) IncrementTitleCacheHits() {
	if m != nil {
		m.TitleCacheHits.Inc()
	}
}

func (m *Metrics) IncrementTitleCacheMisses() {
	if m != nil {
		m.TitleCacheMisses.Inc()
	}
}
