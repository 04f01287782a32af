package shared

// Asynq task types and queues.
// Kept here (not in the domain packages) to avoid import cycles between
// the queue client and the domains that enqueue work.
const (
	TypeSendBookingConfirmation = "email:booking_confirmation"
	TypeExpirePendingPayments   = "payment:expire_pending"
	TypeAbandonStaleCarts       = "cart:abandon_stale"
)

const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ExpirePendingPaymentsPayload is the (empty) payload for the payment sweep job
type ExpirePendingPaymentsPayload struct{}

// AbandonStaleCartsPayload is the (empty) payload for the cart sweep job
type AbandonStaleCartsPayload struct{}
