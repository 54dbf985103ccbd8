package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"blog_publisher/internal/domain"
	"blog_publisher/internal/service/mocks"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	users *mocks.MockUserStore

	service *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserStore(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewAuthService(s.users, logger)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister_HashesPassword() {
	ctx := context.Background()

	var stored *domain.User
	s.users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user *domain.User) (int64, error) {
			stored = user
			return 42, nil
		},
	)

	user, err := s.service.Register(ctx, "alice", "secret")

	s.NoError(err)
	s.Equal(int64(42), user.ID)
	s.Equal("alice", user.Username)

	s.Require().NotNil(stored)
	s.NotEqual("secret", stored.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func (s *AuthServiceTestSuite) TestRegister_UsernameTaken() {
	ctx := context.Background()

	s.users.EXPECT().Create(ctx, gomock.Any()).Return(int64(0), domain.ErrUsernameTaken)

	user, err := s.service.Register(ctx, "alice", "secret")

	s.ErrorIs(err, domain.ErrUsernameTaken)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.users.EXPECT().GetByUsername(ctx, "alice").Return(&domain.User{
		ID:           42,
		Username:     "alice",
		PasswordHash: string(hash),
	}, nil)

	user, err := s.service.Login(ctx, "alice", "secret")

	s.NoError(err)
	s.Equal(int64(42), user.ID)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.users.EXPECT().GetByUsername(ctx, "alice").Return(&domain.User{
		ID:           42,
		Username:     "alice",
		PasswordHash: string(hash),
	}, nil)

	user, err := s.service.Login(ctx, "alice", "wrong")

	s.ErrorIs(err, domain.ErrInvalidCredentials)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "ghost").Return(nil, domain.ErrNotFound)

	user, err := s.service.Login(ctx, "ghost", "secret")

	s.ErrorIs(err, domain.ErrInvalidCredentials)
	s.Nil(user)
}
