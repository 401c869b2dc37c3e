package service_test

import (
	"context"
	"testing"

	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/mailer"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/pkg/auth"
	. "taskapp/pkg/test"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	users port.UserRepository
	svc   port.AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	db := InitTestDB()

	s.users = repository.NewUserRepository(db)
	s.svc = service.NewAuthService(s.users, auth.NewJWT("test-secret"), mailer.NewLogMailer())
}

func TestAuthServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) signup() (string, string) {
	user, token, err := s.svc.Signup(context.Background(), &request.SignUpRequest{
		Name:     "  Ahmed  ",
		Email:    "Ahmed@Example.com",
		Password: "myPass777",
		Age:      27,
	})

	s.Require().NoError(err)

	return user.Email, token
}

func (s *AuthServiceTestSuite) TestSignupNormalizesAndStoresSession() {
	email, token := s.signup()

	assert.Equal(s.T(), "ahmed@example.com", email)
	assert.NotEmpty(s.T(), token)

	user, err := s.svc.Authorize(context.Background(), token)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Ahmed", user.Name)
}

func (s *AuthServiceTestSuite) TestSignupNeverStoresPlainPassword() {
	email, _ := s.signup()

	stored, err := s.users.GetByEmail(context.Background(), email)
	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), "myPass777", stored.EncryptedPassword)
	assert.NotEmpty(s.T(), stored.EncryptedPassword)
}

func (s *AuthServiceTestSuite) TestLoginIssuesFreshToken() {
	_, signupToken := s.signup()

	_, loginToken, err := s.svc.Login(context.Background(), &request.LoginRequest{
		Email:    "ahmed@example.com",
		Password: "myPass777",
	})

	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), signupToken, loginToken)

	// both sessions stay valid
	_, err = s.svc.Authorize(context.Background(), signupToken)
	assert.NoError(s.T(), err)
	_, err = s.svc.Authorize(context.Background(), loginToken)
	assert.NoError(s.T(), err)
}

func (s *AuthServiceTestSuite) TestLoginFailuresAreIndistinguishable() {
	s.signup()

	_, _, wrongPassword := s.svc.Login(context.Background(), &request.LoginRequest{
		Email:    "ahmed@example.com",
		Password: "nope",
	})

	_, _, unknownEmail := s.svc.Login(context.Background(), &request.LoginRequest{
		Email:    "ghost@example.com",
		Password: "myPass777",
	})

	assert.ErrorIs(s.T(), wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(s.T(), unknownEmail, service.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogoutRevokesSingleSession() {
	_, first := s.signup()

	user, second, err := s.svc.Login(context.Background(), &request.LoginRequest{
		Email:    "ahmed@example.com",
		Password: "myPass777",
	})
	s.Require().NoError(err)

	assert.NoError(s.T(), s.svc.Logout(context.Background(), user.ID, second))

	_, err = s.svc.Authorize(context.Background(), second)
	assert.Error(s.T(), err)

	_, err = s.svc.Authorize(context.Background(), first)
	assert.NoError(s.T(), err)
}

func (s *AuthServiceTestSuite) TestLogoutAll() {
	_, first := s.signup()

	user, second, err := s.svc.Login(context.Background(), &request.LoginRequest{
		Email:    "ahmed@example.com",
		Password: "myPass777",
	})
	s.Require().NoError(err)

	assert.NoError(s.T(), s.svc.LogoutAll(context.Background(), user.ID))

	_, err = s.svc.Authorize(context.Background(), first)
	assert.Error(s.T(), err)
	_, err = s.svc.Authorize(context.Background(), second)
	assert.Error(s.T(), err)
}

func (s *AuthServiceTestSuite) TestAuthorizeRejectsForeignSignature() {
	otherJWT := auth.NewJWT("other-secret")

	token, err := otherJWT.CreateToken(1)
	s.Require().NoError(err)

	_, err = s.svc.Authorize(context.Background(), token)
	assert.Error(s.T(), err)
}
