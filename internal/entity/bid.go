package entity

import (
	"github.com/google/uuid"
)

// db model
type Bid struct {
	Id         uuid.UUID `json:"id" db:"id"`
	JobId      uuid.UUID `json:"jobId" db:"job_id"`
	ProviderId uuid.UUID `json:"providerId" db:"provider_id"`
	Amount     float64   `json:"amount" db:"amount"`
	Note       string    `json:"note" db:"note"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  string    `json:"bidCreatedAt" db:"created_at"`
	UpdatedAt  string    `json:"bidUpdatedAt" db:"updated_at"`
}

// service + repo input model
type CreateBidInput struct {
	JobId      string  // given
	ProviderId string  // given
	Amount     float64 // given
	Note       string  // given, optional
	Status     string  // should be set: "active"
	// Id UUID sets automatically
	// CreatedAt / UpdatedAt set automatically
}

// partial update; nil fields are left untouched
type BidPatch struct {
	Amount *float64
	Note   *string
}

func (p *BidPatch) Empty() bool {
	return p.Amount == nil && p.Note == nil
}

// controller model
type BidOutputModel struct {
	Id         string  `json:"id"`
	JobId      string  `json:"jobId"`
	ProviderId string  `json:"providerId"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"bidCreatedAt"`
	UpdatedAt  string  `json:"bidUpdatedAt"`
}

// controller model for the per-job bid listing
type JobBidsOutputModel struct {
	Bids       []BidOutputModel `json:"bids"`
	HighestBid *BidOutputModel  `json:"highestBid"`
}

// controller model for a successful acceptance
type AwardOutputModel struct {
	Job JobOutputModel `json:"job"`
	Bid BidOutputModel `json:"bid"`
}
