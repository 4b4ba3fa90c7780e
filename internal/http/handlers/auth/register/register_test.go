package register

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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cloud-chaser/internal/lib/password"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	services "github.com/magabrotheeeer/cloud-chaser/internal/services/auth"
)

// Мок сервиса с методом Register
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, name, email, rawPassword string, phoneNumber, address *string) (*models.User, error) {
	args := m.Called(ctx, name, email, rawPassword, phoneNumber, address)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "tEst123!",
			},
			mockUser:       &models.User{ID: 1, Email: "alice@example.com", Role: models.RoleClient},
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"id_user": float64(1),
				"email":   "alice@example.com",
				"role":    "CLIENT",
			},
			wantError:  "",
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				Name:  "Alice",
				Email: "alice@example.com",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantData:       nil,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad email",
			requestBody: Request{
				Name:     "Alice",
				Email:    "not-an-email",
				Password: "tEst123!",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantData:       nil,
			wantError:      "field Email must be a valid email address",
			wantStatus:     "Error",
		},
		{
			name: "email already registered",
			requestBody: Request{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "tEst123!",
			},
			mockErr:        services.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantData:       nil,
			wantError:      "email already registered",
			wantStatus:     "Error",
		},
		{
			name: "weak password",
			requestBody: Request{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "weakpass",
			},
			mockErr:        password.ErrNoUppercase,
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      password.ErrNoUppercase.Error(),
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "tEst123!",
			},
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantData:       nil,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockUser != nil || tt.mockErr != nil {
				authMock.On("Register", mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			} else {
				assert.Nil(t, got["data"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
