package port

import (
	"context"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int) (domain.User, error)
	GetByUUID(ctx context.Context, uuid string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	DeleteByID(ctx context.Context, id int) error

	AddToken(ctx context.Context, userID int, token string) error
	HasToken(ctx context.Context, userID int, token string) (bool, error)
	RemoveToken(ctx context.Context, userID int, token string) error
	RemoveAllTokens(ctx context.Context, userID int) error

	SetAvatar(ctx context.Context, userID int, data []byte, contentType string) error
	ClearAvatar(ctx context.Context, userID int) error
}

type UserService interface {
	GetByID(ctx context.Context, id int) (domain.User, error)
	UpdateProfile(ctx context.Context, userID int, req *request.UpdateUserRequest) (domain.User, error)
	DeleteAccount(ctx context.Context, userID int) (domain.User, error)
	SetAvatar(ctx context.Context, userID int, upload []byte) error
	ClearAvatar(ctx context.Context, userID int) error
	AvatarByUUID(ctx context.Context, uuid string) ([]byte, string, error)
}
