package model

import (
	"context"
	"time"
)

// InsightsRunner executes the external analysis process and returns its raw
// standard output.
type InsightsRunner interface {
	Run(ctx context.Context) (string, error)
}

// Insights statuses surfaced to clients. Process failures are reported as
// critical_error with the error text passed through verbatim.
const (
	InsightsStatusOK            = "ok"
	InsightsStatusCriticalError = "critical_error"
)

// InsightsReport is the outcome of an analysis run.
type InsightsReport struct {
	Status      string
	Report      string
	GeneratedAt time.Time
}
