package status

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/access-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/access-gate/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ResolveForUser(ctx context.Context, userUID string) models.SubscriptionStatus {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.SubscriptionStatus)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatusHandler_ServeHTTP(t *testing.T) {
	validUntil := time.Now().UTC().Add(24 * time.Hour)

	tests := []struct {
		name          string
		ctxUID        string
		mockStatus    models.SubscriptionStatus
		wantPlan      string
		wantHasExpiry bool
	}{
		{
			name:          "authenticated pro user",
			ctxUID:        "b7e4d9ab-0001-4abc-8def-0123456789ab",
			mockStatus:    models.SubscriptionStatus{Plan: models.PlanPro, ValidUntil: &validUntil},
			wantPlan:      models.PlanPro,
			wantHasExpiry: true,
		},
		{
			name:       "authenticated free user",
			ctxUID:     "b7e4d9ab-0002-4abc-8def-0123456789ab",
			mockStatus: models.SubscriptionStatus{Plan: models.PlanFree},
			wantPlan:   models.PlanFree,
		},
		{
			name:       "anonymous caller still gets 200 with free",
			ctxUID:     "",
			mockStatus: models.SubscriptionStatus{Plan: models.PlanFree},
			wantPlan:   models.PlanFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			serviceMock.On("ResolveForUser", mock.Anything, tt.ctxUID).
				Return(tt.mockStatus).Once()
			handler := New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodGet, "/api/subscription", nil)
			if tt.ctxUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.ctxUID)
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "OK", resp["status"])

			data, ok := resp["data"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantPlan, data["plan"])
			if tt.wantHasExpiry {
				assert.NotEmpty(t, data["valid_until"])
			} else {
				assert.Nil(t, data["valid_until"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
