package port

import (
	"context"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignUpRequest) (*domain.User, string, error)
	Login(ctx context.Context, req *request.LoginRequest) (*domain.User, string, error)
	Logout(ctx context.Context, userID int, token string) error
	LogoutAll(ctx context.Context, userID int) error

	// Authorize resolves a bearer token to its user, confirming the exact
	// token is still part of the user's session set.
	Authorize(ctx context.Context, token string) (*domain.User, error)
}
