package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"openbid/internal/auth"
	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo"
	"openbid/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler *echo.Echo
	repos   *repo.Repositories

	contractor string
	provider   string
	provider2  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := repo.NewMemoryRepositories()
	services := service.NewServices(repos)

	log := logrus.New()
	log.SetOutput(io.Discard)

	handler := echo.New()
	SetupRoutesHandlers(handler, services, auth.NewHeaderVerifier(), log)

	ts := &testServer{handler: handler, repos: repos}
	ts.contractor = ts.seedUser(t, common.UserContractor, common.KycVerified)
	ts.provider = ts.seedUser(t, common.UserProvider, common.KycVerified)
	ts.provider2 = ts.seedUser(t, common.UserProvider, common.KycVerified)

	return ts
}

func (ts *testServer) seedUser(t *testing.T, userType, kycStatus string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := ts.repos.User.CreateUser(context.Background(), &entity.CreateUserInput{
		Id:          id,
		Email:       id + "@openbid.test",
		DisplayName: "user " + id[:8],
		UserType:    userType,
		KycStatus:   kycStatus,
	})
	require.NoError(t, err)

	return id
}

func (ts *testServer) do(t *testing.T, method, path, actor string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != "" {
		req.Header.Set("X-User-Id", actor)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp errorResponse
	decode(t, rec, &resp)

	return resp.Code
}

func (ts *testServer) postJob(t *testing.T, budget float64) string {
	t.Helper()

	body := fmt.Sprintf(`{"title":"Deck build","description":"12x16 cedar deck","budgetAmount":%v,"latitude":40.7,"longitude":-74.0}`, budget)
	rec := ts.do(t, http.MethodPost, "/api/jobs", ts.contractor, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp jobResponse
	decode(t, rec, &resp)

	return resp.Job.Id
}

func (ts *testServer) postBid(t *testing.T, actor, jobId string, amount float64) string {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/bids/"+jobId, actor, fmt.Sprintf(`{"amount":%v}`, amount))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp bidResponse
	decode(t, rec, &resp)

	return resp.Bid.Id
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/ping", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/jobs", "", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/bids/myBids", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostJobRoleChecks(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/jobs", ts.provider, `{"title":"Deck build"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "contractor_only", errorCode(t, rec))

	pendingContractor := ts.seedUser(t, common.UserContractor, common.KycPending)
	rec = ts.do(t, http.MethodPost, "/api/jobs", pendingContractor, `{"title":"Deck build"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "kyc_required", errorCode(t, rec))
}

func TestBidValidationCodes(t *testing.T) {
	ts := newTestServer(t)
	jobId := ts.postJob(t, 60000)

	// own-job bids are refused no matter the amount
	rec := ts.do(t, http.MethodPost, "/api/bids/"+jobId, ts.contractor, `{"amount":70000}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "own_job_bid", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/bids/"+jobId, ts.provider, `{"amount":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/bids/"+jobId, ts.provider, `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/bids/"+jobId, ts.provider, `{"amount":59999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "bid_below_budget", resp.Code)
	require.NotNil(t, resp.MinAmount)
	assert.Equal(t, 60000.0, *resp.MinAmount)

	ts.postBid(t, ts.provider, jobId, 60000)

	rec = ts.do(t, http.MethodPost, "/api/bids/"+jobId, ts.provider, `{"amount":61000}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "bid_already_exists", errorCode(t, rec))

	rec = ts.do(t, http.MethodGet, "/api/bids/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAwardLifecycle(t *testing.T) {
	ts := newTestServer(t)
	jobId := ts.postJob(t, 42000)
	winnerId := ts.postBid(t, ts.provider, jobId, 60000)
	siblingId := ts.postBid(t, ts.provider2, jobId, 65000)

	// only the poster can accept
	rec := ts.do(t, http.MethodPost, "/api/bids/"+jobId+"/"+winnerId+"/accept", ts.provider, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/bids/"+jobId+"/"+winnerId+"/accept", ts.contractor, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var award entity.AwardOutputModel
	decode(t, rec, &award)
	assert.Equal(t, common.JobAwarded, award.Job.Status)
	assert.Equal(t, winnerId, award.Job.AwardedBidId)
	assert.Equal(t, ts.provider, award.Job.AwardedProviderId)
	assert.Equal(t, common.BidAccepted, award.Bid.Status)

	// the job is locked for edits and deletion
	rec = ts.do(t, http.MethodPatch, "/api/jobs/"+jobId, ts.contractor, `{"title":"new title"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "job_locked", errorCode(t, rec))

	rec = ts.do(t, http.MethodDelete, "/api/jobs/"+jobId, ts.contractor, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// sibling bids are frozen
	rec = ts.do(t, http.MethodPatch, "/api/bids/"+jobId+"/"+siblingId, ts.provider2, `{"amount":70000}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "bidding_closed", errorCode(t, rec))

	rec = ts.do(t, http.MethodDelete, "/api/bids/"+siblingId, ts.provider2, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// uninvolved viewers no longer see the job in the listing
	uninvolved := ts.seedUser(t, common.UserProvider, common.KycVerified)
	rec = ts.do(t, http.MethodGet, "/api/jobs", uninvolved, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing jobsResponse
	decode(t, rec, &listing)
	for _, job := range listing.Jobs {
		assert.NotEqual(t, jobId, job.Id)
	}

	// the winner still does
	rec = ts.do(t, http.MethodGet, "/api/jobs", ts.provider, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &listing)
	found := false
	for _, job := range listing.Jobs {
		found = found || job.Id == jobId
	}
	assert.True(t, found)
}

func TestJobReadIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	jobId := ts.postJob(t, 1000)

	first := ts.do(t, http.MethodGet, "/api/jobs/"+jobId, "", "")
	second := ts.do(t, http.MethodGet, "/api/jobs/"+jobId, "", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec := ts.do(t, http.MethodGet, "/api/jobs/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestDeleteJobCascades(t *testing.T) {
	ts := newTestServer(t)
	jobId := ts.postJob(t, 1000)
	ts.postBid(t, ts.provider, jobId, 1500)
	ts.postBid(t, ts.provider2, jobId, 2000)

	rec := ts.do(t, http.MethodDelete, "/api/jobs/"+jobId, ts.provider, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/jobs/"+jobId, ts.contractor, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/jobs/"+jobId, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/bids/myBids", ts.provider, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine bidsResponse
	decode(t, rec, &mine)
	assert.Empty(t, mine.Bids)
}

func TestHighestBidInListing(t *testing.T) {
	ts := newTestServer(t)
	jobId := ts.postJob(t, 0)
	ts.postBid(t, ts.provider, jobId, 150)
	highId := ts.postBid(t, ts.provider2, jobId, 400)

	rec := ts.do(t, http.MethodGet, "/api/bids/"+jobId, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out entity.JobBidsOutputModel
	decode(t, rec, &out)
	assert.Len(t, out.Bids, 2)
	require.NotNil(t, out.HighestBid)
	assert.Equal(t, highId, out.HighestBid.Id)
}

func TestUserProvisioning(t *testing.T) {
	ts := newTestServer(t)
	uid := uuid.NewString()

	rec := ts.do(t, http.MethodPost, "/api/users", uid, `{"email":"new@openbid.test","displayName":"New User","userType":"provider"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp userResponse
	decode(t, rec, &resp)
	assert.Equal(t, uid, resp.User.Id)
	assert.Equal(t, common.KycPending, resp.User.KycStatus)

	rec = ts.do(t, http.MethodPost, "/api/users", uid, `{"email":"new@openbid.test","displayName":"New User","userType":"provider"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user_exists", errorCode(t, rec))

	rec = ts.do(t, http.MethodGet, "/api/users/me", uid, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/users", uid, `{"email":"bad","displayName":"x","userType":"alien"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
