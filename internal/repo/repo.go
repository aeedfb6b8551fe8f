package repo

import (
	"context"
	"openbid/internal/entity"
	"openbid/internal/repo/memory"
	"openbid/internal/repo/pgdb"
	"openbid/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	CreateUser(ctx context.Context, input *entity.CreateUserInput) (uuid.UUID, error)
	GetUserById(ctx context.Context, id string) (*entity.User, error)
	UpdateKycStatus(ctx context.Context, id string, status string) error
}

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error)
	GetJobById(ctx context.Context, id string) (*entity.Job, error)
	EditJobById(ctx context.Context, id string, patch *entity.JobPatch) error
	DeleteJobById(ctx context.Context, id string) error
	GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error)
	GetJobsVisibleToUser(ctx context.Context, viewerId string, pg *entity.PaginationInput) ([]entity.Job, error)
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	EditBidById(ctx context.Context, id string, patch *entity.BidPatch) error
	DeleteBidById(ctx context.Context, id string) error
	GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetUserBids(ctx context.Context, providerId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	HasOpenBid(ctx context.Context, jobId string, providerId string) (bool, error)
	GetHighestBid(ctx context.Context, jobId string) (*entity.Bid, error)
	AcceptBid(ctx context.Context, jobId string, bidId string, providerId string) error
}

type Repositories struct {
	Diagnostics
	User
	Job
	Bid
}

func NewPostgresRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		User:        pgdb.NewUserRepo(p),
		Job:         pgdb.NewJobRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}

func NewMemoryRepositories() *Repositories {
	store := memory.NewStore()

	return &Repositories{
		Diagnostics: memory.NewDiagnosticsRepo(store),
		User:        memory.NewUserRepo(store),
		Job:         memory.NewJobRepo(store),
		Bid:         memory.NewBidRepo(store),
	}
}
