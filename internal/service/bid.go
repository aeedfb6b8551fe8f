package service

import (
	"context"
	"errors"
	"math"
	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo"
	"openbid/internal/repo/repo_errors"
)

type BidService struct {
	bidRepo  repo.Bid
	jobRepo  repo.Job
	userRepo repo.User
}

func NewBidService(repos *repo.Repositories) *BidService {
	return &BidService{
		bidRepo:  repos.Bid,
		jobRepo:  repos.Job,
		userRepo: repos.User,
	}
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount > 0
}

// budgetFloor returns the job's minimum acceptable bid, or 0 when the
// job does not impose one. The budget acts as a floor here, not a
// ceiling.
func budgetFloor(job *entity.Job) float64 {
	if validAmount(job.BudgetAmount) {
		return job.BudgetAmount
	}

	return 0
}

// CreateBid places a bid on an open job. The checks run in a fixed
// order; the first failure wins.
func (s *BidService) CreateBid(ctx context.Context, actorId string, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	job, err := s.jobRepo.GetJobById(ctx, input.JobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	if job.PosterId.String() == actorId {
		return nil, ErrOwnJobBid
	}

	actor, err := s.userRepo.GetUserById(ctx, actorId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if actor.KycStatus != common.KycVerified {
		return nil, ErrKycRequired
	}

	if job.Status != common.JobOpen {
		return nil, ErrBiddingClosed
	}

	if !validAmount(input.Amount) {
		return nil, ErrInvalidAmount
	}
	if floor := budgetFloor(job); floor > 0 && input.Amount < floor {
		return nil, &BidBelowBudgetError{MinAmount: floor}
	}

	exists, err := s.bidRepo.HasOpenBid(ctx, input.JobId, actorId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBidAlreadyExists
	}

	input.ProviderId = actorId
	input.Status = common.BidActive
	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		// A racing duplicate insert lands on the unique index.
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrBidAlreadyExists
		}

		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

// EditBidById lets the bid's provider change amount or note while the
// job is open and the bid is still active.
func (s *BidService) EditBidById(ctx context.Context, actorId string, jobId string, bidId string, patch *entity.BidPatch) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}
	if bid.JobId.String() != jobId {
		return nil, ErrBidNotFound
	}

	if bid.ProviderId.String() != actorId {
		return nil, ErrForbidden
	}

	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}
	if job.Status != common.JobOpen {
		return nil, ErrBiddingClosed
	}

	if bid.Status != common.BidActive {
		return nil, ErrBidClosed
	}

	if patch.Empty() {
		return nil, ErrNoUpdateFields
	}
	if patch.Amount != nil {
		if !validAmount(*patch.Amount) {
			return nil, ErrInvalidAmount
		}
		if floor := budgetFloor(job); floor > 0 && *patch.Amount < floor {
			return nil, &BidBelowBudgetError{MinAmount: floor}
		}
	}

	if err := s.bidRepo.EditBidById(ctx, bidId, patch); err != nil {
		return nil, err
	}

	bid, err = s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

// DeleteBidById withdraws a provider's own bid. Accepted bids can
// never be withdrawn, and once the job leaves the open state every
// remaining bid is frozen.
func (s *BidService) DeleteBidById(ctx context.Context, actorId string, bidId string) error {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrBidNotFound
		}

		return err
	}

	if bid.ProviderId.String() != actorId {
		return ErrForbidden
	}

	if bid.Status == common.BidAccepted {
		return ErrBidClosed
	}

	job, err := s.jobRepo.GetJobById(ctx, bid.JobId.String())
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return err
	}
	if job != nil && job.Status != common.JobOpen {
		return ErrBiddingClosed
	}

	return s.bidRepo.DeleteBidById(ctx, bidId)
}

// AcceptBid awards the job to one bid. The bid flips to accepted and
// the job to awarded as a single unit; every sibling bid stays active
// in storage but is frozen by the job leaving the open state.
func (s *BidService) AcceptBid(ctx context.Context, actorId string, jobId string, bidId string) (*entity.AwardOutputModel, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	if job.PosterId.String() != actorId {
		return nil, ErrForbidden
	}
	if job.Status != common.JobOpen {
		return nil, ErrJobLocked
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}
	if bid.JobId.String() != jobId {
		return nil, ErrBidNotFound
	}
	if bid.Status != common.BidActive {
		return nil, ErrBidClosed
	}

	err = s.bidRepo.AcceptBid(ctx, jobId, bidId, bid.ProviderId.String())
	if err != nil {
		// Lost the race against a concurrent accept or job mutation.
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrJobLocked
		}

		return nil, err
	}

	job, err = s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		return nil, err
	}
	bid, err = s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return &entity.AwardOutputModel{Job: *mapJob(job), Bid: *mapBid(bid)}, nil
}

// GetJobBids lists a job's bids together with the current highest bid
// (highest amount, earliest placed on ties).
func (s *BidService) GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) (*entity.JobBidsOutputModel, error) {
	if _, err := s.jobRepo.GetJobById(ctx, jobId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetJobBids(ctx, jobId, pg)
	if err != nil {
		return nil, err
	}

	out := &entity.JobBidsOutputModel{Bids: mapBids(bids)}
	highest, err := s.bidRepo.GetHighestBid(ctx, jobId)
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, err
	}
	if highest != nil {
		out.HighestBid = mapBid(highest)
	}

	return out, nil
}

// GetUserBids lists a provider's bids, most recent first.
func (s *BidService) GetUserBids(ctx context.Context, actorId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetUserBids(ctx, actorId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}
