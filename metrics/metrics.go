package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BetsCreated counts bet records added to any user's slip
	BetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betslip_bets_created_total",
		Help: "Number of bet records created",
	})

	// BetsSettled counts settlements by outcome (won/lost)
	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betslip_bets_settled_total",
		Help: "Number of bet records settled, by outcome",
	}, []string{"outcome"})

	// SettlementFailures counts settlements aborted by odds or stake
	// validation
	SettlementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betslip_settlement_failures_total",
		Help: "Number of settlements aborted by profit computation failures",
	})

	// BetsRemoved counts bet record deletions
	BetsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betslip_bets_removed_total",
		Help: "Number of bet records removed",
	})

	// FeedEmissions counts snapshots emitted to live sync consumers
	FeedEmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betslip_feed_emissions_total",
		Help: "Number of snapshots emitted by the live sync feed",
	})

	// FeedErrors counts live sync subscriptions that terminated abnormally
	FeedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betslip_feed_errors_total",
		Help: "Number of live sync subscriptions terminated by errors",
	})
)
