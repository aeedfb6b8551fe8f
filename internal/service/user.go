package service

import (
	"context"
	"errors"
	"openbid/internal/common"
	"openbid/internal/entity"
	"openbid/internal/repo"
	"openbid/internal/repo/repo_errors"
)

type UserService struct {
	userRepo repo.User
}

func NewUserService(repos *repo.Repositories) *UserService {
	return &UserService{userRepo: repos.User}
}

// CreateUser provisions the local profile for an identity issued by
// the external provider. KYC starts out pending.
func (s *UserService) CreateUser(ctx context.Context, input *entity.CreateUserInput) (*entity.UserOutputModel, error) {
	input.KycStatus = common.KycPending
	id, err := s.userRepo.CreateUser(ctx, input)
	if err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	user, err := s.userRepo.GetUserById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapUser(user), nil
}

func (s *UserService) GetUserById(ctx context.Context, id string) (*entity.UserOutputModel, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return mapUser(user), nil
}

// UpdateKycStatus is the hook a verification provider callback calls
// when a user's check settles.
func (s *UserService) UpdateKycStatus(ctx context.Context, id string, status string) error {
	err := s.userRepo.UpdateKycStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrUserNotFound
		}

		return err
	}

	return nil
}
