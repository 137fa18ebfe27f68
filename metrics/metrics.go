// Package metrics defines the instrumentation contract for the donation
// core: counters for resolution and payment events, latency for
// collaborator calls.
package metrics

import "time"

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Event and operation names recorded by the core packages.
const (
	EventResolution      = "resolution"
	EventPaymentStarted  = "payment_started"
	EventPaymentSuccess  = "payment_success"
	EventPaymentFailed   = "payment_failed"
	OperationGitHubFetch = "github_fetch"
	OperationFeeQuote    = "fee_quote"
	OperationSettle      = "settle"
)
