package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
)

type UserService struct {
	users  port.UserRepository
	tasks  port.TaskRepository
	mailer port.Mailer
}

func NewUserService(users port.UserRepository, tasks port.TaskRepository, mailer port.Mailer) *UserService {
	return &UserService{users: users, tasks: tasks, mailer: mailer}
}

func (s *UserService) GetByID(ctx context.Context, id int) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req *request.UpdateUserRequest) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return domain.User{}, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if req.Password != nil {
		encrypted, err := util.GenerateEncrypt(*req.Password)

		if err != nil {
			return domain.User{}, err
		}

		user.EncryptedPassword = encrypted
	}

	if req.Age != nil {
		user.Age = *req.Age
	}

	user.UpdatedAt = time.Now()

	return s.users.Update(ctx, user)
}

// DeleteAccount removes the user together with every task they own,
// then dispatches the goodbye mail without waiting for it.
func (s *UserService) DeleteAccount(ctx context.Context, userID int) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return domain.User{}, err
	}

	if err := s.tasks.DeleteAllByOwner(ctx, userID); err != nil {
		return domain.User{}, err
	}

	if err := s.users.RemoveAllTokens(ctx, userID); err != nil {
		return domain.User{}, err
	}

	if err := s.users.DeleteByID(ctx, userID); err != nil {
		return domain.User{}, err
	}

	go func() {
		if err := s.mailer.SendGoodbye(context.Background(), user.Email, user.Name); err != nil {
			slog.Error("goodbye mail failed", "email", user.Email, "error", err)
		}
	}()

	return user, nil
}

func (s *UserService) SetAvatar(ctx context.Context, userID int, upload []byte) error {
	thumb, err := util.NormalizeAvatar(upload)

	if err != nil {
		return err
	}

	return s.users.SetAvatar(ctx, userID, thumb, util.AvatarContentType)
}

func (s *UserService) ClearAvatar(ctx context.Context, userID int) error {
	return s.users.ClearAvatar(ctx, userID)
}

func (s *UserService) AvatarByUUID(ctx context.Context, uuid string) ([]byte, string, error) {
	user, err := s.users.GetByUUID(ctx, uuid)

	if err != nil {
		return nil, "", err
	}

	if !user.HasAvatar() {
		return nil, "", port.ErrNotFound
	}

	return user.Avatar, user.AvatarContentType, nil
}
