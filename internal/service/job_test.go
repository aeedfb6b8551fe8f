package service

import (
	"context"
	"testing"

	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	services *Services

	contractor  string // verified contractor
	contractor2 string // second verified contractor
	provider    string // verified provider
	provider2   string // second verified provider
	pending     string // provider with KYC still pending
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := repo.NewMemoryRepositories()
	f := &fixture{services: NewServices(repos)}

	seed := func(userType, kycStatus string) string {
		id := uuid.NewString()
		_, err := repos.User.CreateUser(context.Background(), &entity.CreateUserInput{
			Id:          id,
			Email:       id + "@openbid.test",
			DisplayName: "user " + id[:8],
			UserType:    userType,
			KycStatus:   kycStatus,
		})
		require.NoError(t, err)

		return id
	}

	f.contractor = seed(common.UserContractor, common.KycVerified)
	f.contractor2 = seed(common.UserContractor, common.KycVerified)
	f.provider = seed(common.UserProvider, common.KycVerified)
	f.provider2 = seed(common.UserProvider, common.KycVerified)
	f.pending = seed(common.UserProvider, common.KycPending)

	return f
}

func (f *fixture) postJob(t *testing.T, budget float64) *entity.JobOutputModel {
	t.Helper()

	job, err := f.services.Job.CreateJob(context.Background(), f.contractor, &entity.CreateJobInput{
		Title:        "Fence repair",
		Description:  "Replace two broken panels",
		BudgetAmount: budget,
		Latitude:     40.7128,
		Longitude:    -74.006,
		Address:      "Brooklyn, NY",
	})
	require.NoError(t, err)

	return job
}

func (f *fixture) placeBid(t *testing.T, actor, jobId string, amount float64) *entity.BidOutputModel {
	t.Helper()

	bid, err := f.services.Bid.CreateBid(context.Background(), actor, &entity.CreateBidInput{
		JobId:  jobId,
		Amount: amount,
	})
	require.NoError(t, err)

	return bid
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.postJob(t, 500)
	assert.Equal(t, common.JobOpen, job.Status)
	assert.Equal(t, f.contractor, job.PosterId)
	assert.Equal(t, 500.0, job.BudgetAmount)
	assert.NotEmpty(t, job.Id)
	assert.NotEmpty(t, job.CreatedAt)
	assert.Empty(t, job.AwardedBidId)

	_, err := f.services.Job.CreateJob(ctx, f.provider, &entity.CreateJobInput{Title: "x"})
	assert.ErrorIs(t, err, ErrContractorOnly)

	// pending is a provider, so the role check fires before KYC
	contractorPending := uuid.NewString()
	repos := repo.NewMemoryRepositories()
	svcs := NewServices(repos)
	_, err = repos.User.CreateUser(ctx, &entity.CreateUserInput{
		Id: contractorPending, Email: "p@openbid.test", DisplayName: "p",
		UserType: common.UserContractor, KycStatus: common.KycPending,
	})
	require.NoError(t, err)
	_, err = svcs.Job.CreateJob(ctx, contractorPending, &entity.CreateJobInput{Title: "x"})
	assert.ErrorIs(t, err, ErrKycRequired)

	_, err = f.services.Job.CreateJob(ctx, uuid.NewString(), &entity.CreateJobInput{Title: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEditJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, 500)

	title := "Fence repair and painting"
	updated, err := f.services.Job.EditJobById(ctx, f.contractor, job.Id, &entity.JobPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	// untouched fields survive a partial patch
	assert.Equal(t, job.Description, updated.Description)
	assert.Equal(t, job.BudgetAmount, updated.BudgetAmount)

	_, err = f.services.Job.EditJobById(ctx, f.contractor2, job.Id, &entity.JobPatch{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.services.Job.EditJobById(ctx, f.contractor, uuid.NewString(), &entity.JobPatch{Title: &title})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestEditJobLockedAfterAward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, 500)
	bid := f.placeBid(t, f.provider, job.Id, 600)

	_, err := f.services.Bid.AcceptBid(ctx, f.contractor, job.Id, bid.Id)
	require.NoError(t, err)

	title := "too late"
	_, err = f.services.Job.EditJobById(ctx, f.contractor, job.Id, &entity.JobPatch{Title: &title})
	assert.ErrorIs(t, err, ErrJobLocked)

	err = f.services.Job.DeleteJobById(ctx, f.contractor, job.Id)
	assert.ErrorIs(t, err, ErrJobLocked)
}

func TestDeleteJobCascadesBids(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, 500)
	bid1 := f.placeBid(t, f.provider, job.Id, 600)
	bid2 := f.placeBid(t, f.provider2, job.Id, 700)

	err := f.services.Job.DeleteJobById(ctx, f.provider, job.Id)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.services.Job.DeleteJobById(ctx, f.contractor, job.Id))

	_, err = f.services.Job.GetJobById(ctx, job.Id)
	assert.ErrorIs(t, err, ErrJobNotFound)

	for _, provider := range []string{f.provider, f.provider2} {
		bids, err := f.services.Bid.GetUserBids(ctx, provider, entity.NewPaginationInput(10, 0))
		require.NoError(t, err)
		assert.Empty(t, bids, "bids %s and %s should be gone", bid1.Id, bid2.Id)
	}
}

func TestGetJobByIdIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.postJob(t, 500)

	first, err := f.services.Job.GetJobById(ctx, job.Id)
	require.NoError(t, err)
	second, err := f.services.Job.GetJobById(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListJobsVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pg := entity.NewPaginationInput(50, 0)

	openJob := f.postJob(t, 100)
	awardedJob := f.postJob(t, 100)
	bid := f.placeBid(t, f.provider, awardedJob.Id, 150)
	_, err := f.services.Bid.AcceptBid(ctx, f.contractor, awardedJob.Id, bid.Id)
	require.NoError(t, err)

	ids := func(jobs []entity.JobOutputModel) []string {
		out := make([]string, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, j.Id)
		}
		return out
	}

	// anonymous viewers and uninvolved users see only open jobs
	jobs, err := f.services.Job.GetJobs(ctx, "", false, pg)
	require.NoError(t, err)
	assert.Contains(t, ids(jobs), openJob.Id)
	assert.NotContains(t, ids(jobs), awardedJob.Id)

	jobs, err = f.services.Job.GetJobs(ctx, f.provider2, true, pg)
	require.NoError(t, err)
	assert.NotContains(t, ids(jobs), awardedJob.Id)

	// the poster and the winning provider still see it
	jobs, err = f.services.Job.GetJobs(ctx, f.contractor, true, pg)
	require.NoError(t, err)
	assert.Contains(t, ids(jobs), awardedJob.Id)

	jobs, err = f.services.Job.GetJobs(ctx, f.provider, true, pg)
	require.NoError(t, err)
	assert.Contains(t, ids(jobs), awardedJob.Id)
}
