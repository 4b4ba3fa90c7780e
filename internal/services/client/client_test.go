package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cloud-chaser/internal/lib/password"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/client"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// Мок для ClientRepository
type ClientRepoMock struct {
	mock.Mock
}

func (m *ClientRepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ClientRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *ClientRepoMock) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *ClientRepoMock) ListClients(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *ClientRepoMock) UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *ClientRepoMock) DeleteUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestClientService_Create(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		role       models.Role
		setupMocks func(r *ClientRepoMock)
		wantErr    error
	}{
		{
			name:     "creates operative with normalized email",
			email:    "Bob@Example.COM",
			password: "tEst123!",
			role:     models.RoleOperative,
			setupMocks: func(r *ClientRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, repository.ErrNotFound)
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "bob@example.com" && u.Role == models.RoleOperative && u.PasswordHash != "tEst123!"
				})).Return(int64(3), nil)
			},
		},
		{
			name:       "weak password rejected before repository",
			email:      "bob@example.com",
			password:   "short",
			role:       models.RoleClient,
			setupMocks: func(r *ClientRepoMock) {},
			wantErr:    password.ErrTooShort,
		},
		{
			name:     "email already taken",
			email:    "bob@example.com",
			password: "tEst123!",
			role:     models.RoleClient,
			setupMocks: func(r *ClientRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "bob@example.com").
					Return(&models.User{ID: 1, Email: "bob@example.com"}, nil)
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:     "concurrent insert loses to unique index",
			email:    "bob@example.com",
			password: "tEst123!",
			role:     models.RoleClient,
			setupMocks: func(r *ClientRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, repository.ErrNotFound)
				r.On("CreateUser", mock.Anything, mock.AnythingOfType("models.User")).
					Return(int64(0), repository.ErrDuplicate)
			},
			wantErr: services.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ClientRepoMock)
			tt.setupMocks(repo)

			svc := services.NewClientService(repo, newNoopLogger())
			user, err := svc.Create(context.Background(), "Bob", tt.email, tt.password, tt.role, nil, nil)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, int64(3), user.ID)
				assert.Equal(t, tt.role, user.Role)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestClientService_Update(t *testing.T) {
	newName := "Robert"

	tests := []struct {
		name       string
		setupMocks func(r *ClientRepoMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *ClientRepoMock) {
				r.On("UpdateUser", mock.Anything, int64(3), models.UserPatch{Name: &newName}).
					Return(&models.User{ID: 3, Name: "Robert"}, nil)
			},
		},
		{
			name: "not found",
			setupMocks: func(r *ClientRepoMock) {
				r.On("UpdateUser", mock.Anything, int64(3), mock.Anything).Return(nil, repository.ErrNotFound)
			},
			wantErr: services.ErrNotFound,
		},
		{
			name: "new email already taken",
			setupMocks: func(r *ClientRepoMock) {
				r.On("UpdateUser", mock.Anything, int64(3), mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: services.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ClientRepoMock)
			tt.setupMocks(repo)

			svc := services.NewClientService(repo, newNoopLogger())
			user, err := svc.Update(context.Background(), 3, models.UserPatch{Name: &newName})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Robert", user.Name)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestClientService_Delete(t *testing.T) {
	repo := new(ClientRepoMock)
	repo.On("DeleteUser", mock.Anything, int64(3)).Return(1, nil).Once()
	repo.On("DeleteUser", mock.Anything, int64(99)).Return(0, nil).Once()

	svc := services.NewClientService(repo, newNoopLogger())

	require.NoError(t, svc.Delete(context.Background(), 3))
	require.ErrorIs(t, svc.Delete(context.Background(), 99), services.ErrNotFound)
	repo.AssertExpectations(t)
}
