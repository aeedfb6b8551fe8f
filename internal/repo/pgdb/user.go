package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"openbid/internal/entity"
	"openbid/internal/repo/repo_errors"
	"openbid/pkg/postgres"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

const userColumns = "id, email, display_name, user_type, kyc_status, created_at"

func (r *UserRepo) CreateUser(ctx context.Context, input *entity.CreateUserInput) (uuid.UUID, error) {
	uuidForm, err := uuid.Parse(input.Id)
	if err != nil {
		return uuid.Nil, err
	}

	createUserReq, args, _ := r.SqlBuilder.
		Insert("app_user").
		Columns("id", "email", "display_name", "user_type", "kyc_status").
		Values(uuidForm, input.Email, input.DisplayName, input.UserType, input.KycStatus).
		ToSql()

	if _, err := r.Database.ExecContext(ctx, createUserReq, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, repo_errors.ErrConflict
		}

		return uuid.Nil, err
	}

	return uuidForm, nil
}

func (r *UserRepo) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getUserReq, args, _ := r.SqlBuilder.
		Select(userColumns).
		From("app_user").
		Where("id = ?", uuidForm).
		ToSql()

	var user entity.User
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, getUserReq, args...)
	err = row.Scan(&user.Id, &user.Email, &user.DisplayName, &user.UserType, &user.KycStatus, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	user.CreatedAt = createdAt.Format(time.RFC3339)

	return &user, nil
}

func (r *UserRepo) UpdateKycStatus(ctx context.Context, id string, status string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("app_user").
		Set("kyc_status", status).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, updateReq, args...)
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
