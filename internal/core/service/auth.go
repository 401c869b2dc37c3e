package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
	"taskapp/pkg/auth"
)

// ErrInvalidCredentials deliberately covers both an unknown email and a
// wrong password, so login responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("unable to login")

type AuthService struct {
	repo   port.UserRepository
	jwt    *auth.JWT
	mailer port.Mailer
}

func NewAuthService(repo port.UserRepository, jwt *auth.JWT, mailer port.Mailer) *AuthService {
	return &AuthService{repo: repo, jwt: jwt, mailer: mailer}
}

func (s *AuthService) Signup(ctx context.Context, req *request.SignUpRequest) (*domain.User, string, error) {
	now := time.Now()

	user := domain.User{
		UUID:      uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Age:       req.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		return nil, "", err
	}

	user.EncryptedPassword = encrypted

	saved, err := s.repo.Create(ctx, user)

	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.CreateToken(saved.ID)

	if err != nil {
		return nil, "", err
	}

	if err := s.repo.AddToken(ctx, saved.ID, token); err != nil {
		return nil, "", err
	}

	go func() {
		if err := s.mailer.SendWelcome(context.Background(), saved.Email, saved.Name); err != nil {
			slog.Error("welcome mail failed", "email", saved.Email, "error", err)
		}
	}()

	return &saved, token, nil
}

func (s *AuthService) Login(ctx context.Context, req *request.LoginRequest) (*domain.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))

	if err != nil {
		slog.Info("Auth#Login", "get_by_email", err)
		return nil, "", ErrInvalidCredentials
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.CreateToken(user.ID)

	if err != nil {
		return nil, "", err
	}

	if err := s.repo.AddToken(ctx, user.ID, token); err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int, token string) error {
	return s.repo.RemoveToken(ctx, userID, token)
}

func (s *AuthService) LogoutAll(ctx context.Context, userID int) error {
	return s.repo.RemoveAllTokens(ctx, userID)
}

func (s *AuthService) Authorize(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.jwt.VerifyToken(token)

	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)

	if err != nil {
		return nil, err
	}

	active, err := s.repo.HasToken(ctx, user.ID, token)

	if err != nil {
		return nil, err
	}

	if !active {
		return nil, auth.ErrInvalidToken
	}

	return &user, nil
}
