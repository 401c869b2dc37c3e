package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "taskapp/internal/adapter/database/postgres"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

const userColumns = "id, uuid, name, email, encrypted_password, age, avatar, avatar_content_type, created_at, updated_at"

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Name,
		&user.Email,
		&user.EncryptedPassword,
		&user.Age,
		&user.Avatar,
		&user.AvatarContentType,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, port.ErrNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "age", "created_at", "updated_at").
		Values(user.UUID.String(), user.Name, user.Email, user.EncryptedPassword, user.Age, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING " + userColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	saved, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, port.ErrEmailTaken
		}

		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	return saved, nil
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
	query := ur.db.QueryBuilder.Select(userColumns).
		From("users").
		Where(pred).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...))
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
		Where(sq.Eq{"id": user.ID}).
		Suffix("RETURNING " + userColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	saved, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, port.ErrEmailTaken
		}

		return domain.User{}, err
	}

	return saved, nil
}

func (ur *UserRepository) DeleteByID(ctx context.Context, id int) error {
	stmt, args, err := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.Exec(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return port.ErrNotFound
	}

	return nil
}

func (ur *UserRepository) AddToken(ctx context.Context, userID int, token string) error {
	stmt, args, err := ur.db.QueryBuilder.Insert("user_tokens").
		Columns("user_id", "token", "created_at").
		Values(userID, token, time.Now()).
		ToSql()

	if err != nil {
		return err
	}

	_, err = ur.db.Exec(ctx, stmt, args...)

	return err
}

func (ur *UserRepository) HasToken(ctx context.Context, userID int, token string) (bool, error) {
	stmt, args, err := ur.db.QueryBuilder.Select("COUNT(1)").
		From("user_tokens").
		Where(sq.Eq{"user_id": userID, "token": token}).
		ToSql()

	if err != nil {
		return false, err
	}

	var count int

	if err := ur.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (ur *UserRepository) RemoveToken(ctx context.Context, userID int, token string) error {
	stmt, args, err := ur.db.QueryBuilder.Delete("user_tokens").
		Where(sq.Eq{"user_id": userID, "token": token}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = ur.db.Exec(ctx, stmt, args...)

	return err
}

func (ur *UserRepository) RemoveAllTokens(ctx context.Context, userID int) error {
	stmt, args, err := ur.db.QueryBuilder.Delete("user_tokens").
		Where(sq.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = ur.db.Exec(ctx, stmt, args...)

	return err
}

func (ur *UserRepository) SetAvatar(ctx context.Context, userID int, data []byte, contentType string) error {
	return ur.updateAvatar(ctx, userID, data, contentType)
}

func (ur *UserRepository) ClearAvatar(ctx context.Context, userID int) error {
	return ur.updateAvatar(ctx, userID, nil, "")
}

func (ur *UserRepository) updateAvatar(ctx context.Context, userID int, data []byte, contentType string) error {
	stmt, args, err := ur.db.QueryBuilder.Update("users").
		SetMap(map[string]interface{}{
			"avatar":              data,
			"avatar_content_type": contentType,
			"updated_at":          time.Now(),
		}).
		Where(sq.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.Exec(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return port.ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
