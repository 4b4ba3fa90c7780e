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

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/subscription"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// Мок для SubscriptionRepository
type SubscriptionRepoMock struct {
	mock.Mock
}

func (m *SubscriptionRepoMock) CreateActiveSubscription(ctx context.Context, userID, productID int64, startDate time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, userID, productID, startDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *SubscriptionRepoMock) ListActiveProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *SubscriptionRepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "success invalidates cached product ids",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				r.On("CreateActiveSubscription", mock.Anything, int64(7), int64(3), mock.AnythingOfType("time.Time")).
					Return(&models.Subscription{ID: 11, UserID: 7, ProductID: 3, Status: models.SubscriptionActive}, nil)
				c.On("Invalidate", "subscription:active-ids:7").Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "duplicate active subscription",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				r.On("CreateActiveSubscription", mock.Anything, int64(7), int64(3), mock.AnythingOfType("time.Time")).
					Return(nil, repository.ErrDuplicate)
			},
			wantErr: services.ErrAlreadySubscribed,
		},
		{
			name: "cache invalidation failure is not fatal",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				r.On("CreateActiveSubscription", mock.Anything, int64(7), int64(3), mock.AnythingOfType("time.Time")).
					Return(&models.Subscription{ID: 12, UserID: 7, ProductID: 3, Status: models.SubscriptionActive}, nil)
				c.On("Invalidate", "subscription:active-ids:7").Return(errors.New("redis down"))
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubscriptionRepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := services.NewSubscriptionService(repo, cache, newNoopLogger())
			sub, err := svc.Subscribe(context.Background(), 7, 3)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sub)
			} else {
				require.NoError(t, err)
				require.NotNil(t, sub)
				assert.Equal(t, models.SubscriptionActive, sub.Status)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Subscribe_StartDateIsToday(t *testing.T) {
	repo := new(SubscriptionRepoMock)
	cache := new(CacheMock)

	var gotStart time.Time
	repo.On("CreateActiveSubscription", mock.Anything, int64(1), int64(2), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			gotStart = args.Get(3).(time.Time)
		}).
		Return(&models.Subscription{ID: 1, UserID: 1, ProductID: 2, Status: models.SubscriptionActive}, nil)
	cache.On("Invalidate", "subscription:active-ids:1").Return(nil)

	svc := services.NewSubscriptionService(repo, cache, newNoopLogger())
	_, err := svc.Subscribe(context.Background(), 1, 2)
	require.NoError(t, err)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	assert.Equal(t, today, gotStart)
}

func TestSubscriptionService_ListActiveProductIDs(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *SubscriptionRepoMock, c *CacheMock)
		want       []int64
		wantErr    bool
	}{
		{
			name: "cache hit skips repository",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				c.On("Get", "subscription:active-ids:5", mock.Anything).
					Run(func(args mock.Arguments) {
						ids := args.Get(1).(*[]int64)
						*ids = []int64{1, 4}
					}).
					Return(true, nil)
			},
			want: []int64{1, 4},
		},
		{
			name: "cache miss loads and stores",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				c.On("Get", "subscription:active-ids:5", mock.Anything).Return(false, nil)
				r.On("ListActiveProductIDs", mock.Anything, int64(5)).Return([]int64{2, 9}, nil)
				c.On("Set", "subscription:active-ids:5", []int64{2, 9}, time.Hour).Return(nil)
			},
			want: []int64{2, 9},
		},
		{
			name: "cache read failure falls back to repository",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				c.On("Get", "subscription:active-ids:5", mock.Anything).Return(false, errors.New("redis down"))
				r.On("ListActiveProductIDs", mock.Anything, int64(5)).Return([]int64{3}, nil)
				c.On("Set", "subscription:active-ids:5", []int64{3}, time.Hour).Return(errors.New("redis down"))
			},
			want: []int64{3},
		},
		{
			name: "repository failure",
			setupMocks: func(r *SubscriptionRepoMock, c *CacheMock) {
				c.On("Get", "subscription:active-ids:5", mock.Anything).Return(false, nil)
				r.On("ListActiveProductIDs", mock.Anything, int64(5)).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubscriptionRepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := services.NewSubscriptionService(repo, cache, newNoopLogger())
			ids, err := svc.ListActiveProductIDs(context.Background(), 5)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
