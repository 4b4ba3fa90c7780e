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
	"github.com/magabrotheeeer/cloud-chaser/internal/rabbitmq"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// Мок для CampaignRepository
type CampaignRepoMock struct {
	mock.Mock
}

func (m *CampaignRepoMock) CreateCampaignForActiveSubscription(ctx context.Context, userID, productID int64, campaign models.Campaign) (*models.Campaign, error) {
	args := m.Called(ctx, userID, productID, campaign)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *CampaignRepoMock) GetCampaign(ctx context.Context, campaignID int64) (*models.Campaign, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *CampaignRepoMock) UpdateCampaign(ctx context.Context, campaignID int64, patch models.CampaignPatch) (*models.Campaign, error) {
	args := m.Called(ctx, campaignID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *CampaignRepoMock) DeleteCampaign(ctx context.Context, campaignID int64) (int, error) {
	args := m.Called(ctx, campaignID)
	return args.Int(0), args.Error(1)
}

func (m *CampaignRepoMock) ListCampaignsForUser(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Campaign), args.Error(1)
}

func (m *CampaignRepoMock) ListAllCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Campaign), args.Error(1)
}

func (m *CampaignRepoMock) GetCampaignOwner(ctx context.Context, campaignID int64) (*models.User, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для Publisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCampaignService_Create(t *testing.T) {
	start := date(2026, time.September, 1)
	end := date(2026, time.September, 30)

	tests := []struct {
		name       string
		start, end time.Time
		setupMocks func(r *CampaignRepoMock)
		wantErr    error
	}{
		{
			name:  "success",
			start: start,
			end:   end,
			setupMocks: func(r *CampaignRepoMock) {
				r.On("CreateCampaignForActiveSubscription", mock.Anything, int64(7), int64(3),
					models.Campaign{Name: "Autumn launch", StartDate: start, EndDate: end}).
					Return(&models.Campaign{ID: 1, Name: "Autumn launch", Status: models.CampaignPending, StartDate: start, EndDate: end}, nil)
			},
		},
		{
			name:       "start after end rejected before repository",
			start:      end,
			end:        start,
			setupMocks: func(r *CampaignRepoMock) {},
			wantErr:    services.ErrInvalidDateRange,
		},
		{
			name:  "no active subscription",
			start: start,
			end:   end,
			setupMocks: func(r *CampaignRepoMock) {
				r.On("CreateCampaignForActiveSubscription", mock.Anything, int64(7), int64(3), mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			wantErr: services.ErrNoActiveSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CampaignRepoMock)
			tt.setupMocks(repo)

			svc := services.NewCampaignService(repo, nil, newNoopLogger())
			created, err := svc.Create(context.Background(), 7, 3, "Autumn launch", tt.start, tt.end)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.Equal(t, models.CampaignPending, created.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCampaignService_Update_DateRangeRevalidated(t *testing.T) {
	existing := &models.Campaign{
		ID:        4,
		Name:      "Autumn launch",
		Status:    models.CampaignPending,
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2026, time.September, 30),
	}

	repo := new(CampaignRepoMock)
	repo.On("GetCampaign", mock.Anything, int64(4)).Return(existing, nil)

	// Патч двигает начало за существующий конец.
	badStart := date(2026, time.October, 15)
	svc := services.NewCampaignService(repo, nil, newNoopLogger())
	_, err := svc.Update(context.Background(), 4, models.CampaignPatch{StartDate: &badStart})

	require.ErrorIs(t, err, services.ErrInvalidDateRange)
	repo.AssertNotCalled(t, "UpdateCampaign", mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignService_Update_NotFound(t *testing.T) {
	repo := new(CampaignRepoMock)
	repo.On("GetCampaign", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	svc := services.NewCampaignService(repo, nil, newNoopLogger())
	_, err := svc.Update(context.Background(), 99, models.CampaignPatch{})

	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestCampaignService_Update_StatusChangePublishesEvent(t *testing.T) {
	existing := &models.Campaign{
		ID:        4,
		Name:      "Autumn launch",
		Status:    models.CampaignPending,
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2026, time.September, 30),
	}
	newStatus := models.CampaignActive
	updated := &models.Campaign{
		ID:        4,
		Name:      "Autumn launch",
		Status:    newStatus,
		StartDate: existing.StartDate,
		EndDate:   existing.EndDate,
	}
	owner := &models.User{ID: 7, Name: "Alice", Email: "alice@example.com"}

	repo := new(CampaignRepoMock)
	repo.On("GetCampaign", mock.Anything, int64(4)).Return(existing, nil)
	repo.On("UpdateCampaign", mock.Anything, int64(4), models.CampaignPatch{Status: &newStatus}).Return(updated, nil)
	repo.On("GetCampaignOwner", mock.Anything, int64(4)).Return(owner, nil)

	pub := new(PublisherMock)
	pub.On("Publish", rabbitmq.RoutingKeyCampaignStatus, services.StatusChangedEvent{
		CampaignID: 4,
		Name:       "Autumn launch",
		Status:     "Active",
		UserName:   "Alice",
		Email:      "alice@example.com",
	}).Return(nil)

	svc := services.NewCampaignService(repo, pub, newNoopLogger())
	got, err := svc.Update(context.Background(), 4, models.CampaignPatch{Status: &newStatus})

	require.NoError(t, err)
	assert.Equal(t, newStatus, got.Status)
	pub.AssertExpectations(t)
}

func TestCampaignService_Update_SameStatusDoesNotPublish(t *testing.T) {
	existing := &models.Campaign{
		ID:        4,
		Name:      "Autumn launch",
		Status:    models.CampaignActive,
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2026, time.September, 30),
	}
	sameStatus := models.CampaignActive

	repo := new(CampaignRepoMock)
	repo.On("GetCampaign", mock.Anything, int64(4)).Return(existing, nil)
	repo.On("UpdateCampaign", mock.Anything, int64(4), mock.Anything).Return(existing, nil)

	pub := new(PublisherMock)

	svc := services.NewCampaignService(repo, pub, newNoopLogger())
	_, err := svc.Update(context.Background(), 4, models.CampaignPatch{Status: &sameStatus})

	require.NoError(t, err)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCampaignService_Update_OwnerLookupFailureStillPublishes(t *testing.T) {
	existing := &models.Campaign{
		ID:        4,
		Name:      "Autumn launch",
		Status:    models.CampaignPending,
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2026, time.September, 30),
	}
	newStatus := models.CampaignCompleted
	updated := &models.Campaign{
		ID:        4,
		Name:      "Autumn launch",
		Status:    newStatus,
		StartDate: existing.StartDate,
		EndDate:   existing.EndDate,
	}

	repo := new(CampaignRepoMock)
	repo.On("GetCampaign", mock.Anything, int64(4)).Return(existing, nil)
	repo.On("UpdateCampaign", mock.Anything, int64(4), mock.Anything).Return(updated, nil)
	repo.On("GetCampaignOwner", mock.Anything, int64(4)).Return(nil, errors.New("db down"))

	pub := new(PublisherMock)
	pub.On("Publish", rabbitmq.RoutingKeyCampaignStatus, services.StatusChangedEvent{
		CampaignID: 4,
		Name:       "Autumn launch",
		Status:     "Completed",
	}).Return(nil)

	svc := services.NewCampaignService(repo, pub, newNoopLogger())
	_, err := svc.Update(context.Background(), 4, models.CampaignPatch{Status: &newStatus})

	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestCampaignService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *CampaignRepoMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *CampaignRepoMock) {
				r.On("DeleteCampaign", mock.Anything, int64(4)).Return(1, nil)
			},
		},
		{
			name: "not found",
			setupMocks: func(r *CampaignRepoMock) {
				r.On("DeleteCampaign", mock.Anything, int64(4)).Return(0, nil)
			},
			wantErr: services.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CampaignRepoMock)
			tt.setupMocks(repo)

			svc := services.NewCampaignService(repo, nil, newNoopLogger())
			err := svc.Delete(context.Background(), 4)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
