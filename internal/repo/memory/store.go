// Package memory implements the persistence adapter over in-process
// maps. It backs the prototype mode and the test suites, and must
// behave exactly like the Postgres adapter: same sentinel errors, same
// uniqueness and cascade rules, copies in and out so callers never
// share mutable state with the store.
package memory

import (
	"sync"
	"time"

	"openbid/internal/entity"

	"github.com/google/uuid"
)

type jobRecord struct {
	job       entity.Job
	createdAt time.Time
	seq       uint64
}

type bidRecord struct {
	bid       entity.Bid
	createdAt time.Time
	seq       uint64
}

type userRecord struct {
	user entity.User
}

// Store holds all durable state behind one lock. The single lock is
// what makes multi-record operations (accept, cascade delete) atomic
// in this adapter.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*userRecord
	jobs  map[uuid.UUID]*jobRecord
	bids  map[uuid.UUID]*bidRecord
	seq   uint64
}

func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]*userRecord),
		jobs:  make(map[uuid.UUID]*jobRecord),
		bids:  make(map[uuid.UUID]*bidRecord),
	}
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func copyJob(j *entity.Job) *entity.Job {
	out := *j
	if j.AwardedBidId != nil {
		id := *j.AwardedBidId
		out.AwardedBidId = &id
	}
	if j.AwardedProviderId != nil {
		id := *j.AwardedProviderId
		out.AwardedProviderId = &id
	}

	return &out
}

func copyBid(b *entity.Bid) *entity.Bid {
	out := *b
	return &out
}

func copyUser(u *entity.User) *entity.User {
	out := *u
	return &out
}

func paginate(length int, pg *entity.PaginationInput) (int, int) {
	start := pg.Offset
	if start > length {
		start = length
	}
	end := start + pg.Limit
	if end > length {
		end = length
	}

	return start, end
}
