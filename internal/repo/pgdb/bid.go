package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo/repo_errors"
	"openbid/pkg/postgres"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

const bidColumns = "id, job_id, provider_id, amount, note, status, created_at, updated_at"

const uniqueViolation = "23505"

// CreateBid inserts a new active bid. The partial unique index on
// (job_id, provider_id) rejects a second active or accepted bid for the
// same pair, so a racing duplicate insert surfaces as ErrConflict.
func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	jobId, err := uuid.Parse(input.JobId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}
	providerId, err := uuid.Parse(input.ProviderId)
	if err != nil {
		return uuid.Nil, err
	}

	createBidReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("job_id", "provider_id", "amount", "note", "status").
		Values(jobId, providerId, input.Amount, input.Note, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createBidReq, args...).Scan(&bidId); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, repo_errors.ErrConflict
		}

		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("id = ?", uuidForm).
		ToSql()

	row := r.Database.QueryRowContext(ctx, getBidReq, args...)
	bid, err := scanBid(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return bid, nil
}

func (r *BidRepo) EditBidById(ctx context.Context, id string, patch *entity.BidPatch) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	update := r.SqlBuilder.
		Update("bid").
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm)

	if patch.Amount != nil {
		update = update.Set("amount", *patch.Amount)
	}
	if patch.Note != nil {
		update = update.Set("note", *patch.Note)
	}

	editBidReq, args, _ := update.ToSql()
	result, err := r.Database.ExecContext(ctx, editBidReq, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *BidRepo) DeleteBidById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	deleteBidReq, args, _ := r.SqlBuilder.
		Delete("bid").
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, deleteBidReq, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *BidRepo) GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(jobId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidsReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("job_id = ?", uuidForm).
		OrderBy("created_at ASC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryBids(ctx, getBidsReq, args)
}

func (r *BidRepo) GetUserBids(ctx context.Context, providerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(providerId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidsReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("provider_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryBids(ctx, getBidsReq, args)
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

	existsReq, args, _ := r.SqlBuilder.
		Select("1").
		From("bid").
		Where("job_id = ?", jobUuid).
		Where("provider_id = ?", providerUuid).
		Where(squirrel.Eq{"status": []string{common.BidActive, common.BidAccepted}}).
		ToSql()

	var one int
	err = r.Database.QueryRowContext(ctx, existsReq, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// AcceptBid flips the bid to accepted and the job to awarded in one
// transaction. Both updates carry a current-status guard, so a
// concurrent accept or job mutation makes one of them touch zero rows
// and the whole transaction rolls back with ErrConflict.
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

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	acceptBidReq, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.BidAccepted).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", bidUuid).
		Where("job_id = ?", jobUuid).
		Where("status = ?", common.BidActive).
		ToSql()

	result, err := tx.ExecContext(ctx, acceptBidReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected, _ := result.RowsAffected(); affected != 1 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrConflict
	}

	awardJobReq, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", common.JobAwarded).
		Set("awarded_bid_id", bidUuid).
		Set("awarded_provider_id", providerUuid).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", jobUuid).
		Where("status = ?", common.JobOpen).
		ToSql()

	result, err = tx.ExecContext(ctx, awardJobReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected, _ := result.RowsAffected(); affected != 1 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrConflict
	}

	return tx.Commit()
}

func (r *BidRepo) queryBids(ctx context.Context, query string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}

	return bids, rows.Err()
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var createdAt, updatedAt time.Time

	err := row.Scan(&bid.Id, &bid.JobId, &bid.ProviderId, &bid.Amount, &bid.Note,
		&bid.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	bid.CreatedAt = createdAt.Format(time.RFC3339)
	bid.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &bid, nil
}

// GetHighestBid returns the winning candidate among the job's live
// bids: highest amount, earliest creation on ties. ErrNotFound when
// the job has no active or accepted bids.
func (r *BidRepo) GetHighestBid(ctx context.Context, jobId string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(jobId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getHighestReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("job_id = ?", uuidForm).
		Where(squirrel.Eq{"status": []string{common.BidActive, common.BidAccepted}}).
		OrderBy("amount DESC", "created_at ASC").
		Limit(1).
		ToSql()

	row := r.Database.QueryRowContext(ctx, getHighestReq, args...)
	bid, err := scanBid(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return bid, nil
}
