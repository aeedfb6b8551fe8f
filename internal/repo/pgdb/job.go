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
)

type JobRepo struct {
	*postgres.Postgres
}

func NewJobRepo(pgdb *postgres.Postgres) *JobRepo {
	return &JobRepo{pgdb}
}

const jobColumns = "id, poster_id, title, description, budget_amount, latitude, longitude, address, status, awarded_bid_id, awarded_provider_id, created_at, updated_at"

func (r *JobRepo) CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error) {
	posterId, err := uuid.Parse(input.PosterId)
	if err != nil {
		return uuid.Nil, err
	}

	createJobReq, args, _ := r.SqlBuilder.
		Insert("job").
		Columns("poster_id", "title", "description", "budget_amount", "latitude", "longitude", "address", "status").
		Values(posterId, input.Title, input.Description, input.BudgetAmount, input.Latitude, input.Longitude, input.Address, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var jobId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createJobReq, args...).Scan(&jobId); err != nil {
		return uuid.Nil, err
	}

	return jobId, nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id string) (*entity.Job, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getJobReq, args, _ := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("id = ?", uuidForm).
		ToSql()

	row := r.Database.QueryRowContext(ctx, getJobReq, args...)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return job, nil
}

func (r *JobRepo) EditJobById(ctx context.Context, id string, patch *entity.JobPatch) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	update := r.SqlBuilder.
		Update("job").
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm)

	if patch.Title != nil {
		update = update.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		update = update.Set("description", *patch.Description)
	}
	if patch.BudgetAmount != nil {
		update = update.Set("budget_amount", *patch.BudgetAmount)
	}
	if patch.Latitude != nil {
		update = update.Set("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		update = update.Set("longitude", *patch.Longitude)
	}
	if patch.Address != nil {
		update = update.Set("address", *patch.Address)
	}

	editJobReq, args, _ := update.ToSql()
	result, err := r.Database.ExecContext(ctx, editJobReq, args...)
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

// DeleteJobById removes the job; its bids go with it through the
// ON DELETE CASCADE foreign key.
func (r *JobRepo) DeleteJobById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	deleteJobReq, args, _ := r.SqlBuilder.
		Delete("job").
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, deleteJobReq, args...)
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

func (r *JobRepo) GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error) {
	getJobsReq, args, _ := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("status = ?", common.JobOpen).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryJobs(ctx, getJobsReq, args)
}

func (r *JobRepo) GetJobsVisibleToUser(ctx context.Context, viewerId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	uuidForm, err := uuid.Parse(viewerId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getJobsReq, args, _ := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("status = ? OR poster_id = ? OR awarded_provider_id = ?", common.JobOpen, uuidForm, uuidForm).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryJobs(ctx, getJobsReq, args)
}

func (r *JobRepo) queryJobs(ctx context.Context, query string, args []interface{}) ([]entity.Job, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]entity.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var job entity.Job
	var awardedBid, awardedProvider uuid.NullUUID
	var createdAt, updatedAt time.Time

	err := row.Scan(&job.Id, &job.PosterId, &job.Title, &job.Description, &job.BudgetAmount,
		&job.Latitude, &job.Longitude, &job.Address, &job.Status,
		&awardedBid, &awardedProvider, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if awardedBid.Valid {
		job.AwardedBidId = &awardedBid.UUID
	}
	if awardedProvider.Valid {
		job.AwardedProviderId = &awardedProvider.UUID
	}
	job.CreatedAt = createdAt.Format(time.RFC3339)
	job.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &job, nil
}
