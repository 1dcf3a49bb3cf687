// Package metrics счётчики Prometheus, общие для сервисов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result для AuthAttempts.
const (
	AuthSuccess = "success"
	AuthFailure = "failure"
	AuthError   = "error"
)

var (
	// LeadsCaptured принятые заявки по виду: contact, newsletter, request.
	LeadsCaptured = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leads_captured_total",
		Help: "Number of accepted lead submissions by kind.",
	}, []string{"kind"})

	// BestEffortFailures сбои побочных операций, не прервавшие запрос.
	BestEffortFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "best_effort_failures_total",
		Help: "Number of failed best-effort operations by name.",
	}, []string{"operation"})

	// AuthAttempts попытки входа по результату.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Number of login attempts by result.",
	}, []string{"result"})
)
