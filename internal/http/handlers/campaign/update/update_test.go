package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/campaign"
)

// Мок сервиса с методом Update
type CampaignServiceMock struct {
	mock.Mock
}

func (m *CampaignServiceMock) Update(ctx context.Context, campaignID int64, patch models.CampaignPatch) (*models.Campaign, error) {
	args := m.Called(ctx, campaignID, patch)
	campaign, _ := args.Get(0).(*models.Campaign)
	return campaign, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func strPtr(s string) *string { return &s }

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	mockService := new(CampaignServiceMock)
	logger := newNoopLogger()

	handler := New(logger, mockService)

	updated := &models.Campaign{
		ID:             4,
		SubscriptionID: 2,
		Name:           "Autumn launch",
		Status:         models.CampaignActive,
		StartDate:      time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
		ProductName:    "Cloud Pro",
	}

	tests := []struct {
		name           string
		id             string
		requestBody    interface{}
		mockCampaign   *models.Campaign
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "status change to Active",
			id:             "4",
			requestBody:    Request{Status: strPtr("Active")},
			mockCampaign:   updated,
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"Active"`,
		},
		{
			name:           "on hold spelling with underscore accepted",
			id:             "4",
			requestBody:    Request{Status: strPtr("On_Hold")},
			mockCampaign:   updated,
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"Active"`,
		},
		{
			name:           "invalid id format",
			id:             "abc",
			requestBody:    Request{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid id",
		},
		{
			name:           "invalid json body",
			id:             "4",
			requestBody:    "not a json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "malformed date rejected by validation",
			id:             "4",
			requestBody:    Request{StartDate: strPtr("01-09-2026")},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field StartDate can contain only date in format 2006-01-02",
		},
		{
			name:           "unknown status",
			id:             "4",
			requestBody:    Request{Status: strPtr("Paused")},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "unknown campaign status",
		},
		{
			name:           "campaign not found",
			id:             "4",
			requestBody:    Request{Name: strPtr("Renamed")},
			mockErr:        services.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "campaign not found",
		},
		{
			name:           "patch breaks date range",
			id:             "4",
			requestBody:    Request{StartDate: strPtr("2026-10-15")},
			mockErr:        services.ErrInvalidDateRange,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "start date must not be after end date",
		},
		{
			name:           "service error",
			id:             "4",
			requestBody:    Request{Name: strPtr("Renamed")},
			mockErr:        errors.New("db error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "could not update campaign",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService.ExpectedCalls = nil
			mockService.Calls = nil

			if tt.mockCampaign != nil || tt.mockErr != nil {
				mockService.On("Update", mock.Anything, int64(4), mock.AnythingOfType("models.CampaignPatch")).
					Return(tt.mockCampaign, tt.mockErr).Once()
			}

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPatch, "/campaigns/"+tt.id, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			// Устанавливаем URL параметр id для chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
