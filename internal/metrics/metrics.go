package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "multisig"

var (
	MessagesStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_stored_total",
		Help:      "Number of user messages accepted and persisted.",
	})

	MessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_rejected_total",
		Help:      "Number of user messages rejected, by reason.",
	}, []string{"reason"})

	MessagesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_pruned_total",
		Help:      "Number of user messages removed by the retention sweep.",
	})

	Sweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweeps_total",
		Help:      "Number of retention sweep passes, by outcome.",
	}, []string{"outcome"})

	IndexedAddresses = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "indexed_addresses",
		Help:      "Number of addresses in the global address index after the last write.",
	})
)
