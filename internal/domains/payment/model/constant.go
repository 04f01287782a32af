package model

// =====================================================
// PAYMENT STATUS
// =====================================================
// pending is the only non-terminal status. Transitions are monotone:
// pending -> success or pending -> failed, never out of a terminal
// state. Whichever of the webhook and the status verifier lands first
// wins; the loser sees zero rows updated and backs off.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Gateway-agnostic outcome of a webhook event or status check.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailed  = "FAILED"
	OutcomePending = "PENDING"
)

// Response codes recorded on terminal transitions that did not come
// from the gateway.
const (
	ResponseCodeExpired = "EXPIRED"
)

// The gateway only settles INR.
const CurrencyINR = "INR"

func IsTerminal(status string) bool {
	return status == StatusSuccess || status == StatusFailed
}
