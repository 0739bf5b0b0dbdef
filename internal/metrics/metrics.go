// Package metrics exposes Prometheus metrics for the queue scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the application's own registry, served at /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// TicketsScheduledTotal counts successfully booked tickets per branch.
var TicketsScheduledTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "temucs",
	Subsystem: "scheduler",
	Name:      "tickets_scheduled_total",
	Help:      "Tickets successfully scheduled, by branch code",
}, []string{"branch"})

// ScheduleFailuresTotal counts failed booking attempts by reason.
var ScheduleFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "temucs",
	Subsystem: "scheduler",
	Name:      "failures_total",
	Help:      "Booking attempts that failed, by reason",
}, []string{"reason"})

// RolloverDays observes how many day advances a booking needed before a
// slot was found. Mostly 0; weekend skips give 1-2.
var RolloverDays = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "temucs",
	Subsystem: "scheduler",
	Name:      "rollover_days",
	Help:      "Day advances per booking before a slot was found",
	Buckets:   []float64{0, 1, 2, 3, 5, 7},
})

// ScheduleDurationSeconds observes end-to-end booking latency including
// the day replay and the persist.
var ScheduleDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "temucs",
	Subsystem: "scheduler",
	Name:      "duration_seconds",
	Help:      "Time taken to schedule and persist one ticket",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// StatusTransitionsTotal counts accepted status transitions by target
// status.
var StatusTransitionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "temucs",
	Subsystem: "tickets",
	Name:      "status_transitions_total",
	Help:      "Accepted ticket status transitions, by new status",
}, []string{"status"})

// NotifyFlagsSetTotal counts tickets flagged notification-eligible by the
// queue-position refresh.
var NotifyFlagsSetTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "temucs",
	Subsystem: "tickets",
	Name:      "notify_flags_set_total",
	Help:      "Waiting tickets flagged for proactive notification",
})

// TicketsRescheduledTotal counts tickets moved by the holiday batch job.
var TicketsRescheduledTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "temucs",
	Subsystem: "scheduler",
	Name:      "tickets_rescheduled_total",
	Help:      "Tickets moved to a new day by the reschedule job",
})

// HolidayChecksTotal counts holiday oracle lookups by outcome (hit means
// answered from the daily cache).
var HolidayChecksTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "temucs",
	Subsystem: "holiday",
	Name:      "checks_total",
	Help:      "Holiday oracle lookups, by cache outcome",
}, []string{"outcome"})
