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

type JobRepo struct {
	store *Store
}

func NewJobRepo(store *Store) *JobRepo {
	return &JobRepo{store}
}

func (r *JobRepo) CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error) {
	posterId, err := uuid.Parse(input.PosterId)
	if err != nil {
		return uuid.Nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	job := entity.Job{
		Id:           uuid.New(),
		PosterId:     posterId,
		Title:        input.Title,
		Description:  input.Description,
		BudgetAmount: input.BudgetAmount,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
		Status:       input.Status,
		CreatedAt:    timestamp(now),
		UpdatedAt:    timestamp(now),
	}
	r.store.jobs[job.Id] = &jobRecord{job: job, createdAt: now, seq: r.store.nextSeq()}

	return job.Id, nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id string) (*entity.Job, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.jobs[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return copyJob(&record.job), nil
}

func (r *JobRepo) EditJobById(ctx context.Context, id string, patch *entity.JobPatch) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.jobs[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}

	if patch.Title != nil {
		record.job.Title = *patch.Title
	}
	if patch.Description != nil {
		record.job.Description = *patch.Description
	}
	if patch.BudgetAmount != nil {
		record.job.BudgetAmount = *patch.BudgetAmount
	}
	if patch.Latitude != nil {
		record.job.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		record.job.Longitude = *patch.Longitude
	}
	if patch.Address != nil {
		record.job.Address = *patch.Address
	}
	record.job.UpdatedAt = timestamp(time.Now())

	return nil
}

func (r *JobRepo) DeleteJobById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.jobs[uuidForm]; !ok {
		return repo_errors.ErrNotFound
	}

	delete(r.store.jobs, uuidForm)
	for bidId, record := range r.store.bids {
		if record.bid.JobId == uuidForm {
			delete(r.store.bids, bidId)
		}
	}

	return nil
}

func (r *JobRepo) GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error) {
	return r.collect(pg, func(j *entity.Job) bool {
		return j.Status == common.JobOpen
	})
}

func (r *JobRepo) GetJobsVisibleToUser(ctx context.Context, viewerId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	uuidForm, err := uuid.Parse(viewerId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.collect(pg, func(j *entity.Job) bool {
		if j.Status == common.JobOpen || j.PosterId == uuidForm {
			return true
		}

		return j.AwardedProviderId != nil && *j.AwardedProviderId == uuidForm
	})
}

func (r *JobRepo) collect(pg *entity.PaginationInput, keep func(*entity.Job) bool) ([]entity.Job, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := make([]*jobRecord, 0)
	for _, record := range r.store.jobs {
		if keep(&record.job) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].createdAt.After(records[j].createdAt)
		}

		return records[i].seq > records[j].seq
	})

	start, end := paginate(len(records), pg)
	jobs := make([]entity.Job, 0, end-start)
	for _, record := range records[start:end] {
		jobs = append(jobs, *copyJob(&record.job))
	}

	return jobs, nil
}
