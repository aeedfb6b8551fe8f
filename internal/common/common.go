package common

// Job statuses. Statuses beyond these are reachable through admin
// tooling only; any non-open status locks the job.
const (
	JobOpen      = "open"
	JobAwarded   = "awarded"
	JobCompleted = "completed"
)

// Bid statuses.
const (
	BidActive   = "active"
	BidAccepted = "accepted"
	BidRejected = "rejected"
)

// User roles.
const (
	UserContractor = "contractor"
	UserProvider   = "provider"
)

// KYC verification states.
const (
	KycPending  = "pending"
	KycVerified = "verified"
	KycFailed   = "failed"
)
