package service

import (
	"context"
	"openbid/internal/entity"
	"openbid/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	CreateUser(ctx context.Context, input *entity.CreateUserInput) (*entity.UserOutputModel, error)
	GetUserById(ctx context.Context, id string) (*entity.UserOutputModel, error)
	UpdateKycStatus(ctx context.Context, id string, status string) error
}

type Job interface {
	CreateJob(ctx context.Context, actorId string, input *entity.CreateJobInput) (*entity.JobOutputModel, error)
	EditJobById(ctx context.Context, actorId string, jobId string, patch *entity.JobPatch) (*entity.JobOutputModel, error)
	DeleteJobById(ctx context.Context, actorId string, jobId string) error
	GetJobById(ctx context.Context, jobId string) (*entity.JobOutputModel, error)
	GetJobs(ctx context.Context, viewerId string, viewerPassed bool, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
}

type Bid interface {
	CreateBid(ctx context.Context, actorId string, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	EditBidById(ctx context.Context, actorId string, jobId string, bidId string, patch *entity.BidPatch) (*entity.BidOutputModel, error)
	DeleteBidById(ctx context.Context, actorId string, bidId string) error
	AcceptBid(ctx context.Context, actorId string, jobId string, bidId string) (*entity.AwardOutputModel, error)
	GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) (*entity.JobBidsOutputModel, error)
	GetUserBids(ctx context.Context, actorId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	User        User
	Job         Job
	Bid         Bid
}

func NewServices(repos *repo.Repositories) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		User:        NewUserService(repos),
		Job:         NewJobService(repos),
		Bid:         NewBidService(repos),
	}
}
