package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ExpiredOnRespond = "respond"
	ExpiredOnSweep   = "sweep"
)

var (
	TransfersInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memora_transfers_initiated_total",
		Help: "Total number of patient transfers successfully initiated.",
	})

	TransfersResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memora_transfers_resolved_total",
		Help: "Total number of transfers that left the pending state, by resulting status.",
	},
		[]string{"status"},
	)

	TransfersExpiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memora_transfers_expired_total",
		Help: "Total number of transfers moved to expired, by the path that noticed it.",
	},
		[]string{"path"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memora_transfer_operation_errors_total",
		Help: "Total number of unexpected errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OutboxPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memora_outbox_published_total",
		Help: "Total number of outbox tasks delivered to the producer.",
	})

	OutboxFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memora_outbox_failed_total",
		Help: "Total number of outbox task delivery failures.",
	})

	CaregiverCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memora_caregiver_cache_items",
		Help: "Current number of caregivers held in the lookup cache.",
	})
)
