package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrJobNotFound       = errors.New("job not found")
	ErrBidNotFound       = errors.New("bid not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrForbidden      = errors.New("actor does not own the target record")
	ErrContractorOnly = errors.New("only contractors can post jobs")
	ErrKycRequired    = errors.New("identity verification must be completed first")
	ErrOwnJobBid      = errors.New("contractors cannot bid on their own jobs")

	ErrJobLocked     = errors.New("job is no longer open")
	ErrBiddingClosed = errors.New("bidding on this job is closed")
	ErrBidClosed     = errors.New("bid is no longer active")

	ErrInvalidAmount    = errors.New("amount must be a finite number greater than zero")
	ErrNoUpdateFields   = errors.New("at least one of amount or note must be supplied")
	ErrBidAlreadyExists = errors.New("provider already has a live bid on this job")
)

// BidBelowBudgetError carries the job's bid floor so the response can
// tell the client the minimum acceptable amount.
type BidBelowBudgetError struct {
	MinAmount float64
}

func (e *BidBelowBudgetError) Error() string {
	return fmt.Sprintf("bid is below the job's minimum of %v", e.MinAmount)
}
