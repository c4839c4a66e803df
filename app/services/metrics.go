package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation counters, served on /metrics.
var (
	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eval_sessions_completed_total",
		Help: "Number of evaluation sessions completed by evaluators.",
	})

	ResultsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eval_results_computed_total",
		Help: "Number of candidate result aggregations computed.",
	})

	VotesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eval_votes_submitted_total",
		Help: "Number of question votes submitted (including re-submissions).",
	})

	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eval_reports_generated_total",
		Help: "Number of AI candidate reports generated successfully.",
	})
)
