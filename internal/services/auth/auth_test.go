package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/cloud-chaser/internal/lib/jwt"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/password"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	"github.com/magabrotheeeer/cloud-chaser/internal/rabbitmq"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/auth"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

// Мок для Publisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		inputName  string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:      "successful registration lowercases email",
			inputName: "Alice",
			email:     "Alice@Example.COM",
			password:  "tEst123!",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("GetUserByEmail", mock.Anything, "alice@example.com").
					Return(nil, repository.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "alice@example.com" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "tEst123!" &&
						user.Role == models.RoleClient
				})).Return(int64(10), nil).Once()
				p.On("Publish", rabbitmq.RoutingKeyUserRegistered, mock.MatchedBy(func(event services.RegisteredEvent) bool {
					return event.Email == "alice@example.com" && event.Name == "Alice"
				})).Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name:      "weak password rejected before any repository call",
			inputName: "Bob",
			email:     "bob@example.com",
			password:  "short",
			setupMocks: func(_ *UserRepoMock, _ *PublisherMock) {
			},
			wantErr: password.ErrTooShort,
		},
		{
			name:      "email already taken by pre-check",
			inputName: "Carol",
			email:     "carol@example.com",
			password:  "tEst123!",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("GetUserByEmail", mock.Anything, "carol@example.com").
					Return(&models.User{ID: 5, Email: "carol@example.com"}, nil).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:      "email taken in concurrent registration race",
			inputName: "Dave",
			email:     "dave@example.com",
			password:  "tEst123!",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("GetUserByEmail", mock.Anything, "dave@example.com").
					Return(nil, repository.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(int64(0), repository.ErrDuplicate).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			pub := new(PublisherMock)
			svc := services.NewAuthService(repo, jwtMock, pub, newNoopLogger())

			tt.setupMocks(repo, pub)

			got, err := svc.Register(context.Background(), tt.inputName, tt.email, tt.password, nil, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, int64(10), got.ID)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(UserRepoMock)
	pub := new(PublisherMock)
	svc := services.NewAuthService(repo, new(JwtMakerMock), pub, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "eve@example.com").
		Return(nil, repository.ErrNotFound).Once()
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(int64(3), nil).Once()
	pub.On("Publish", rabbitmq.RoutingKeyUserRegistered, mock.Anything).
		Return(errors.New("broker down")).Once()

	got, err := svc.Register(context.Background(), "Eve", "eve@example.com", "tEst123!", nil, nil)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "tEst123!"

	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		ID:           42,
		Name:         "testuser",
		Email:        "test@example.com",
		PasswordHash: hashedPassword,
		Role:         models.RoleClient,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantRole   models.Role
		wantErr    error
	}{
		{
			name:     "successful login refreshes last login",
			email:    "Test@Example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				j.On("GenerateToken", int64(42), "CLIENT").Return("jwt-token-123", nil).Once()
				r.On("TouchLastLogin", mock.Anything, int64(42), mock.Anything).Return(nil).Once()
			},
			wantToken: "jwt-token-123",
			wantRole:  models.RoleClient,
		},
		{
			name:     "unknown email gives the same error as wrong password",
			email:    "nobody@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "token generation error",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				j.On("GenerateToken", int64(42), "CLIENT").Return("", errors.New("token error")).Once()
			},
			wantErr: errors.New("token error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock, nil, newNoopLogger())

			tt.setupMocks(repo, jwtMock)

			token, role, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_TouchFailureIsNotFatal(t *testing.T) {
	rawPassword := "tEst123!"
	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := services.NewAuthService(repo, jwtMock, nil, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(&models.User{
		ID:           1,
		Email:        "test@example.com",
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
	}, nil).Once()
	jwtMock.On("GenerateToken", int64(1), "ADMIN").Return("token", nil).Once()
	repo.On("TouchLastLogin", mock.Anything, int64(1), mock.Anything).
		Return(errors.New("db error")).Once()

	token, role, err := svc.Login(context.Background(), "test@example.com", rawPassword)
	assert.NoError(t, err)
	assert.Equal(t, "token", token)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestAuthService_ResolveToken(t *testing.T) {
	testUser := &models.User{ID: 42, Email: "test@example.com", Role: models.RoleClient}

	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name: "valid token resolves user",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(&customjwt.CustomClaims{UserID: 42, Role: "CLIENT"}, nil).Once()
				r.On("GetUser", mock.Anything, int64(42)).Return(testUser, nil).Once()
			},
		},
		{
			name: "parse error",
			setupMocks: func(_ *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(nil, errors.New("bad token")).Once()
			},
			wantErr: services.ErrUnauthorized,
		},
		{
			name: "claims without user id",
			setupMocks: func(_ *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(&customjwt.CustomClaims{Role: "CLIENT"}, nil).Once()
			},
			wantErr: services.ErrUnauthorized,
		},
		{
			// Токен не отзывается, но переживший удаление пользователя
			// токен отклоняется при разрешении в пользователя.
			name: "token outlives deleted user",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(&customjwt.CustomClaims{UserID: 42, Role: "CLIENT"}, nil).Once()
				r.On("GetUser", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock, nil, newNoopLogger())

			tt.setupMocks(repo, jwtMock)

			user, err := svc.ResolveToken(context.Background(), "token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testUser, user)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}
