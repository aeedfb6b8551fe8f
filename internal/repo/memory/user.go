package memory

import (
	"context"
	"time"

	"openbid/internal/entity"
	"openbid/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store}
}

func (r *UserRepo) CreateUser(ctx context.Context, input *entity.CreateUserInput) (uuid.UUID, error) {
	uuidForm, err := uuid.Parse(input.Id)
	if err != nil {
		return uuid.Nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[uuidForm]; ok {
		return uuid.Nil, repo_errors.ErrConflict
	}
	for _, record := range r.store.users {
		if record.user.Email == input.Email {
			return uuid.Nil, repo_errors.ErrConflict
		}
	}

	user := entity.User{
		Id:          uuidForm,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		UserType:    input.UserType,
		KycStatus:   input.KycStatus,
		CreatedAt:   timestamp(time.Now()),
	}
	r.store.users[uuidForm] = &userRecord{user: user}

	return uuidForm, nil
}

func (r *UserRepo) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.users[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return copyUser(&record.user), nil
}

func (r *UserRepo) UpdateKycStatus(ctx context.Context, id string, status string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.users[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	record.user.KycStatus = status

	return nil
}
