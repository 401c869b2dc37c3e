package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/pkg/tracing"
)

type UserRepository struct {
	db      *sqlite.DB
	scanner *sqlite.Scanner
}

func NewUserRepository(db *sqlite.DB) port.UserRepository {
	return &UserRepository{
		db:      db,
		scanner: sqlite.NewScanner(),
	}
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "age", "created_at", "updated_at").
		Values(user.UUID.String(), user.Name, user.Email, user.EncryptedPassword, user.Age, user.CreatedAt, user.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, port.ErrEmailTaken
		}

		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.User{}, err
	}

	return ur.GetByID(ctx, int(id))
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	return ur.getOne(ctx, sq.Eq{"id": id})
}

func (ur *UserRepository) GetByUUID(ctx context.Context, uid string) (domain.User, error) {
	return ur.getOne(ctx, sq.Eq{"uuid": uid})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getOne(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) getOne(ctx context.Context, pred sq.Eq) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(pred).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var user domain.User

	err = tracing.DatabaseSpanWrapper(ctx, "users", "get", stmt, func(ctx context.Context) error {
		rows, err := ur.db.QueryContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		return ur.scanner.ScanRowToStruct(rows, &user)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, port.ErrNotFound
		}

		slog.Error("Error getting user", "error", err)
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.QueryBuilder.Update("users").
		SetMap(map[string]interface{}{
			"name":               user.Name,
			"email":              user.Email,
			"encrypted_password": user.EncryptedPassword,
			"age":                user.Age,
			"updated_at":         user.UpdatedAt,
		}).
		Where(sq.Eq{"id": user.ID})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, port.ErrEmailTaken
		}

		return domain.User{}, err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return domain.User{}, err
	}

	if affected == 0 {
		return domain.User{}, port.ErrNotFound
	}

	return ur.GetByID(ctx, user.ID)
}

func (ur *UserRepository) DeleteByID(ctx context.Context, id int) error {
	query := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting user", "error", err)
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return port.ErrNotFound
	}

	return nil
}

func (ur *UserRepository) AddToken(ctx context.Context, userID int, token string) error {
	query := ur.db.QueryBuilder.Insert("user_tokens").
		Columns("user_id", "token", "created_at").
		Values(userID, token, time.Now())

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	_, err = ur.db.ExecContext(ctx, stmt, args...)

	return err
}

func (ur *UserRepository) HasToken(ctx context.Context, userID int, token string) (bool, error) {
	query := ur.db.QueryBuilder.Select("COUNT(1)").
		From("user_tokens").
		Where(sq.Eq{"user_id": userID, "token": token})

	stmt, args, err := query.ToSql()

	if err != nil {
		return false, err
	}

	var count int

	if err := ur.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (ur *UserRepository) RemoveToken(ctx context.Context, userID int, token string) error {
	query := ur.db.QueryBuilder.Delete("user_tokens").
		Where(sq.Eq{"user_id": userID, "token": token})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	_, err = ur.db.ExecContext(ctx, stmt, args...)

	return err
}

func (ur *UserRepository) RemoveAllTokens(ctx context.Context, userID int) error {
	query := ur.db.QueryBuilder.Delete("user_tokens").
		Where(sq.Eq{"user_id": userID})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	_, err = ur.db.ExecContext(ctx, stmt, args...)

	return err
}

func (ur *UserRepository) SetAvatar(ctx context.Context, userID int, data []byte, contentType string) error {
	return ur.updateAvatar(ctx, userID, data, contentType)
}

func (ur *UserRepository) ClearAvatar(ctx context.Context, userID int) error {
	return ur.updateAvatar(ctx, userID, nil, "")
}

func (ur *UserRepository) updateAvatar(ctx context.Context, userID int, data []byte, contentType string) error {
	query := ur.db.QueryBuilder.Update("users").
		SetMap(map[string]interface{}{
			"avatar":              data,
			"avatar_content_type": contentType,
			"updated_at":          time.Now(),
		}).
		Where(sq.Eq{"id": userID})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return port.ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
