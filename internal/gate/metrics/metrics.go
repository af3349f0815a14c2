package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksRecorded prometheus.Counter
	StrikesTotal   prometheus.Counter
	BansTotal      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ChecksRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_gate_checks_recorded_total",
			Help: "Total number of plagiarism checks recorded against author state",
		}),
		StrikesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_gate_strikes_total",
			Help: "Total number of high similarity strikes recorded",
		}),
		BansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "opus_gate_bans_total",
			Help: "Total number of authors banned by the gate",
		}),
	}
}

func (m *Metrics) IncrementChecksRecorded() {
	if m != nil {
		m.ChecksRecorded.Inc()
	}
}

func (m *Metrics) IncrementStrikes() {
	if m != nil {
		m.StrikesTotal.Inc()
	}
}

func (m *Metrics) IncrementBans() {
	if m != nil {
		m.BansTotal.Inc()
	}
}
