package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/vyra/usage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	getUsageFunc func(ctx context.Context, userID string) (usage.Record, error)
}

func (m *mockReader) GetUsage(ctx context.Context, userID string) (usage.Record, error) {
	return m.getUsageFunc(ctx, userID)
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
}

func setupRouter(reader usage.Reader, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(auth.ContextUserID, userID)
		}
		c.Next()
	})

	gate := usage.NewGate(reader, usage.DefaultLimits())
	RegisterRoutes(r.Group("/api/v1"), reader, gate, fixedNow)
	return r
}

func get(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/usage", nil))
	return w
}

func TestGetUsage(t *testing.T) {
	tests := []struct {
		name string
		rec  usage.Record
		want UsageResponse
	}{
		{
			name: "new user",
			rec:  usage.Record{Tier: usage.TierFree},
			want: UsageResponse{Tier: "free", Today: 0, Limit: 5, Remaining: 5, Date: "2026-10-16"},
		},
		{
			name: "free user mid day",
			rec: usage.Record{
				Tier:                 usage.TierFree,
				DailyGenerationCount: 3,
				LastGenerationDate:   "2026-10-16",
				TotalGenerations:     40,
				XP:                   400,
			},
			want: UsageResponse{Tier: "free", Today: 3, Limit: 5, Remaining: 2, TotalGenerations: 40, XP: 400, Date: "2026-10-16"},
		},
		{
			name: "stale counter",
			rec: usage.Record{
				Tier:                 usage.TierFree,
				DailyGenerationCount: 5,
				LastGenerationDate:   "2026-10-15",
				TotalGenerations:     5,
				XP:                   50,
			},
			want: UsageResponse{Tier: "free", Today: 0, Limit: 5, Remaining: 5, TotalGenerations: 5, XP: 50, Date: "2026-10-16"},
		},
		{
			name: "premium",
			rec: usage.Record{
				Tier:                 usage.TierPremium,
				DailyGenerationCount: 50,
				LastGenerationDate:   "2026-10-16",
			},
			want: UsageResponse{Tier: "premium", Today: 50, Limit: 100, Remaining: 50, Date: "2026-10-16"},
		},
		{
			name: "over limit after downgrade",
			rec: usage.Record{
				Tier:                 usage.TierFree,
				DailyGenerationCount: 9,
				LastGenerationDate:   "2026-10-16",
			},
			want: UsageResponse{Tier: "free", Today: 9, Limit: 5, Remaining: 0, Date: "2026-10-16"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &mockReader{
				getUsageFunc: func(_ context.Context, userID string) (usage.Record, error) {
					assert.Equal(t, "user-1", userID)
					return tt.rec, nil
				},
			}

			w := get(setupRouter(reader, "user-1"))

			require.Equal(t, http.StatusOK, w.Code)
			var resp UsageResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestGetUsage_Unauthenticated(t *testing.T) {
	reader := &mockReader{
		getUsageFunc: func(context.Context, string) (usage.Record, error) {
			t.Fatal("reader must not be called")
			return usage.Record{}, nil
		},
	}

	w := get(setupRouter(reader, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUsage_ReadFailure(t *testing.T) {
	reader := &mockReader{
		getUsageFunc: func(context.Context, string) (usage.Record, error) {
			return usage.Record{}, errors.New("connection refused")
		},
	}

	w := get(setupRouter(reader, "user-1"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
