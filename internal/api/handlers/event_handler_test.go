package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamakj/auth-app-be/internal/models"
)

type stubEventService struct {
	gotLimit int
}

func (s *stubEventService) CreateEvent(eventType, level, message string, userID *string) error {
	return nil
}

func (s *stubEventService) GetRecentEvents(limit int) ([]models.Event, error) {
	s.gotLimit = limit
	return []models.Event{}, nil
}

func (s *stubEventService) PruneEventsBefore(cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestEventHandler_GetRecent_LimitBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default", "", 20},
		{"explicit", "?limit=5", 5},
		{"non-numeric", "?limit=abc", 20},
		{"negative", "?limit=-3", 20},
		{"clamped", "?limit=5000", maxEventLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubEventService{}
			handler := NewEventHandler(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/events"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.GetRecent(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, svc.gotLimit)
		})
	}
}
