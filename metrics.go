package doclink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for findsTotal.
const (
	outcomeResolved              = "resolved"
	outcomeNotFound              = "not_found"
	outcomeUnknownName           = "unknown_name"
	outcomeUnknownDisambiguation = "unknown_disambiguation"
	outcomeLookupCollision       = "lookup_collision"
	outcomeUnfindableMatch       = "unfindable_match"
	outcomeNonSymbolMatch        = "non_symbol_match"
)

// Strategy labels for collisionsResolvedTotal.
const (
	strategyLookahead  = "lookahead"
	strategySameSymbol = "same_symbol"
	strategyFavored    = "favored"
	strategyKindClass  = "kind_class"
)

var (
	// findsTotal counts Find calls by outcome.
	findsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "doclink",
		Subsystem: "resolver",
		Name:      "finds_total",
		Help:      "Total link resolutions by outcome",
	}, []string{"outcome"})

	// collisionsResolvedTotal counts collisions broken by a tie-break rule.
	collisionsResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "doclink",
		Subsystem: "resolver",
		Name:      "collisions_resolved_total",
		Help:      "Total link collisions resolved without disambiguation, by strategy",
	}, []string{"strategy"})
)

func (h *Hierarchy) recordFind(outcome string) {
	if h.metrics {
		findsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Hierarchy) recordCollisionResolved(strategy string) {
	if h.metrics {
		collisionsResolvedTotal.WithLabelValues(strategy).Inc()
	}
}

func findOutcome(err error) string {
	switch err.(type) {
	case *NotFoundError:
		return outcomeNotFound
	case *UnknownNameError:
		return outcomeUnknownName
	case *UnknownDisambiguationError:
		return outcomeUnknownDisambiguation
	case *LookupCollisionError:
		return outcomeLookupCollision
	case *UnfindableMatchError:
		return outcomeUnfindableMatch
	case *NonSymbolMatchError:
		return outcomeNonSymbolMatch
	}
	return "error"
}
