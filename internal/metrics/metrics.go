package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes.
const (
	OutcomeCompleted   = "completed"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
	OutcomeStreamError = "stream_error"
	OutcomeDisconnect  = "client_disconnect"
)

var (
	ChatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cvchat",
		Subsystem: "chat",
		Name:      "turns_total",
		Help:      "Chat turns by outcome.",
	}, []string{"outcome"})

	StreamChunks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cvchat",
		Subsystem: "chat",
		Name:      "stream_chunks_total",
		Help:      "Generated text chunks forwarded to clients.",
	})
)

func RecordTurn(outcome string) {
	ChatTurns.WithLabelValues(outcome).Inc()
}

func RecordChunks(n int) {
	StreamChunks.Add(float64(n))
}
