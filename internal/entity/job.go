package entity

import (
	"github.com/google/uuid"
)

// db model
type Job struct {
	Id                uuid.UUID  `json:"id" db:"id"`
	PosterId          uuid.UUID  `json:"posterId" db:"poster_id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	BudgetAmount      float64    `json:"budgetAmount" db:"budget_amount"`
	Latitude          float64    `json:"latitude" db:"latitude"`
	Longitude         float64    `json:"longitude" db:"longitude"`
	Address           string     `json:"address" db:"address"`
	Status            string     `json:"status" db:"status"`
	AwardedBidId      *uuid.UUID `json:"awardedBidId" db:"awarded_bid_id"`
	AwardedProviderId *uuid.UUID `json:"awardedProviderId" db:"awarded_provider_id"`
	CreatedAt         string     `json:"createdAt" db:"created_at"`
	UpdatedAt         string     `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateJobInput struct {
	PosterId     string // given
	Title        string // given
	Description  string // given
	BudgetAmount float64 // given, advisory minimum bid
	Latitude     float64 // given
	Longitude    float64 // given
	Address      string // given, optional
	Status       string // should be set: "open"
	// Id UUID sets automatically
	// CreatedAt / UpdatedAt set automatically
}

// partial update; nil fields are left untouched
type JobPatch struct {
	Title        *string
	Description  *string
	BudgetAmount *float64
	Latitude     *float64
	Longitude    *float64
	Address      *string
}

func (p *JobPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.BudgetAmount == nil &&
		p.Latitude == nil && p.Longitude == nil && p.Address == nil
}

// controller model
type JobOutputModel struct {
	Id                string  `json:"id"`
	PosterId          string  `json:"posterId"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	BudgetAmount      float64 `json:"budgetAmount"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Address           string  `json:"address,omitempty"`
	Status            string  `json:"status"`
	AwardedBidId      string  `json:"awardedBidId,omitempty"`
	AwardedProviderId string  `json:"awardedProviderId,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}
