package memory

import (
	"context"
	"sort"
	"time"

	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type BidRepo struct {
	store *Store
}

func NewBidRepo(store *Store) *BidRepo {
	return &BidRepo{store}
}

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	jobId, err := uuid.Parse(input.JobId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}
	providerId, err := uuid.Parse(input.ProviderId)
	if err != nil {
		return uuid.Nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Mirrors the partial unique index of the Postgres adapter.
	for _, record := range r.store.bids {
		if record.bid.JobId == jobId && record.bid.ProviderId == providerId &&
			(record.bid.Status == common.BidActive || record.bid.Status == common.BidAccepted) {
			return uuid.Nil, repo_errors.ErrConflict
		}
	}

	now := time.Now()
	bid := entity.Bid{
		Id:         uuid.New(),
		JobId:      jobId,
		ProviderId: providerId,
		Amount:     input.Amount,
		Note:       input.Note,
		Status:     input.Status,
		CreatedAt:  timestamp(now),
		UpdatedAt:  timestamp(now),
	}
	r.store.bids[bid.Id] = &bidRecord{bid: bid, createdAt: now, seq: r.store.nextSeq()}

	return bid.Id, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return copyBid(&record.bid), nil
}

func (r *BidRepo) EditBidById(ctx context.Context, id string, patch *entity.BidPatch) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.bids[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}

	if patch.Amount != nil {
		record.bid.Amount = *patch.Amount
	}
	if patch.Note != nil {
		record.bid.Note = *patch.Note
	}
	record.bid.UpdatedAt = timestamp(time.Now())

	return nil
}

func (r *BidRepo) DeleteBidById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.bids[uuidForm]; !ok {
		return repo_errors.ErrNotFound
	}
	delete(r.store.bids, uuidForm)

	return nil
}

func (r *BidRepo) GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(jobId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.collect(pg, true, func(b *entity.Bid) bool {
		return b.JobId == uuidForm
	})
}

func (r *BidRepo) GetUserBids(ctx context.Context, providerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(providerId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.collect(pg, false, func(b *entity.Bid) bool {
		return b.ProviderId == uuidForm
	})
}

func (r *BidRepo) HasOpenBid(ctx context.Context, jobId string, providerId string) (bool, error) {
	jobUuid, err := uuid.Parse(jobId)
	if err != nil {
		return false, repo_errors.ErrNotFound
	}
	providerUuid, err := uuid.Parse(providerId)
	if err != nil {
		return false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, record := range r.store.bids {
		if record.bid.JobId == jobUuid && record.bid.ProviderId == providerUuid &&
			(record.bid.Status == common.BidActive || record.bid.Status == common.BidAccepted) {
			return true, nil
		}
	}

	return false, nil
}

// AcceptBid performs the bid and job status flips under the store lock,
// re-checking both current statuses the way the Postgres adapter's
// guarded transaction does.
func (r *BidRepo) AcceptBid(ctx context.Context, jobId string, bidId string, providerId string) error {
	jobUuid, err := uuid.Parse(jobId)
	if err != nil {
		return repo_errors.ErrNotFound
	}
	bidUuid, err := uuid.Parse(bidId)
	if err != nil {
		return repo_errors.ErrNotFound
	}
	providerUuid, err := uuid.Parse(providerId)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	bidRec, ok := r.store.bids[bidUuid]
	if !ok || bidRec.bid.JobId != jobUuid || bidRec.bid.Status != common.BidActive {
		return repo_errors.ErrConflict
	}
	jobRec, ok := r.store.jobs[jobUuid]
	if !ok || jobRec.job.Status != common.JobOpen {
		return repo_errors.ErrConflict
	}

	now := timestamp(time.Now())
	bidRec.bid.Status = common.BidAccepted
	bidRec.bid.UpdatedAt = now
	jobRec.job.Status = common.JobAwarded
	jobRec.job.AwardedBidId = &bidUuid
	jobRec.job.AwardedProviderId = &providerUuid
	jobRec.job.UpdatedAt = now

	return nil
}

func (r *BidRepo) collect(pg *entity.PaginationInput, oldestFirst bool, keep func(*entity.Bid) bool) ([]entity.Bid, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := make([]*bidRecord, 0)
	for _, record := range r.store.bids {
		if keep(&record.bid) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			if oldestFirst {
				return records[i].createdAt.Before(records[j].createdAt)
			}

			return records[i].createdAt.After(records[j].createdAt)
		}
		if oldestFirst {
			return records[i].seq < records[j].seq
		}

		return records[i].seq > records[j].seq
	})

	start, end := paginate(len(records), pg)
	bids := make([]entity.Bid, 0, end-start)
	for _, record := range records[start:end] {
		bids = append(bids, *copyBid(&record.bid))
	}

	return bids, nil
}

func (r *BidRepo) GetHighestBid(ctx context.Context, jobId string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(jobId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var best *bidRecord
	for _, record := range r.store.bids {
		if record.bid.JobId != uuidForm {
			continue
		}
		if record.bid.Status != common.BidActive && record.bid.Status != common.BidAccepted {
			continue
		}
		if best == nil || record.bid.Amount > best.bid.Amount {
			best = record
			continue
		}
		// Ties go to the earliest bid.
		if record.bid.Amount == best.bid.Amount && record.createdAt.Before(best.createdAt) {
			best = record
		}
	}

	if best == nil {
		return nil, repo_errors.ErrNotFound
	}

	return copyBid(&best.bid), nil
}
