package service

import (
	"context"
	"errors"
	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo"
	"openbid/internal/repo/repo_errors"
)

type JobService struct {
	jobRepo  repo.Job
	userRepo repo.User
}

func NewJobService(repos *repo.Repositories) *JobService {
	return &JobService{
		jobRepo:  repos.Job,
		userRepo: repos.User,
	}
}

// CreateJob opens a new job for bidding. Only KYC-verified contractors
// may post.
func (s *JobService) CreateJob(ctx context.Context, actorId string, input *entity.CreateJobInput) (*entity.JobOutputModel, error) {
	actor, err := s.userRepo.GetUserById(ctx, actorId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if actor.UserType != common.UserContractor {
		return nil, ErrContractorOnly
	}
	if actor.KycStatus != common.KycVerified {
		return nil, ErrKycRequired
	}

	input.PosterId = actorId
	input.Status = common.JobOpen
	id, err := s.jobRepo.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetJobById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapJob(job), nil
}

// EditJobById applies a partial update. Only the poster may edit, and
// only while the job is still open. posterId and status are never
// settable through this path.
func (s *JobService) EditJobById(ctx context.Context, actorId string, jobId string, patch *entity.JobPatch) (*entity.JobOutputModel, error) {
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

	if err := s.jobRepo.EditJobById(ctx, jobId, patch); err != nil {
		return nil, err
	}

	job, err = s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		return nil, err
	}

	return mapJob(job), nil
}

// DeleteJobById removes an open job and every bid on it.
func (s *JobService) DeleteJobById(ctx context.Context, actorId string, jobId string) error {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrJobNotFound
		}

		return err
	}

	if job.PosterId.String() != actorId {
		return ErrForbidden
	}
	if job.Status != common.JobOpen {
		return ErrJobLocked
	}

	return s.jobRepo.DeleteJobById(ctx, jobId)
}

func (s *JobService) GetJobById(ctx context.Context, jobId string) (*entity.JobOutputModel, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	return mapJob(job), nil
}

// GetJobs lists jobs for a viewer. Jobs that are no longer open drop
// out of the listing unless the viewer posted them or won them.
func (s *JobService) GetJobs(ctx context.Context, viewerId string, viewerPassed bool, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	var jobs []entity.Job
	var err error
	if viewerPassed {
		jobs, err = s.jobRepo.GetJobsVisibleToUser(ctx, viewerId, pg)
	} else {
		jobs, err = s.jobRepo.GetOpenJobs(ctx, pg)
	}
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}
