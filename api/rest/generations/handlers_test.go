package generations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/vyra/generations"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	listFunc func(ctx context.Context, userID string, limit, offset int) ([]generations.Record, int, error)
}

func (m *mockLister) ListByUser(ctx context.Context, userID string, limit, offset int) ([]generations.Record, int, error) {
	return m.listFunc(ctx, userID, limit, offset)
}

func setupRouter(lister *mockLister, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(auth.ContextUserID, userID)
		}
		c.Next()
	})

	RegisterRoutes(r.Group("/api/v1"), lister)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListHandler_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "?limit=10&offset=30", 10, 30},
		{"capped", "?limit=500", 50, 0},
		{"negative offset", "?offset=-4", 20, 0},
		{"garbage", "?limit=abc&offset=xyz", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit, gotOffset int
			lister := &mockLister{
				listFunc: func(_ context.Context, userID string, limit, offset int) ([]generations.Record, int, error) {
					assert.Equal(t, "user-1", userID)
					gotLimit, gotOffset = limit, offset
					return nil, 0, nil
				},
			}

			w := get(setupRouter(lister, "user-1"), "/api/v1/generations"+tt.query)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, tt.wantOffset, gotOffset)
		})
	}
}

func TestListHandler_Body(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	lister := &mockLister{
		listFunc: func(context.Context, string, int, int) ([]generations.Record, int, error) {
			return []generations.Record{
				{ID: "g-2", UserID: "user-1", OriginalPrompt: "a fox", ImageURL: "https://img.example/2.png", CreatedAt: created},
				{ID: "g-1", UserID: "user-1", OriginalPrompt: "a cat", ImageURL: "https://img.example/1.png", CreatedAt: created.Add(-time.Hour)},
			}, 3, nil
		},
	}

	w := get(setupRouter(lister, "user-1"), "/api/v1/generations?limit=2")

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Generations, 2)
	assert.Equal(t, "g-2", resp.Generations[0].ID)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasMore)
}

func TestListHandler_EmptyListIsArray(t *testing.T) {
	lister := &mockLister{
		listFunc: func(context.Context, string, int, int) ([]generations.Record, int, error) {
			return nil, 0, nil
		},
	}

	w := get(setupRouter(lister, "user-1"), "/api/v1/generations")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"generations":[]`)
}

func TestListHandler_Unauthenticated(t *testing.T) {
	w := get(setupRouter(&mockLister{}, ""), "/api/v1/generations")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListHandler_StoreFailure(t *testing.T) {
	lister := &mockLister{
		listFunc: func(context.Context, string, int, int) ([]generations.Record, int, error) {
			return nil, 0, errors.New("pool closed")
		},
	}

	w := get(setupRouter(lister, "user-1"), "/api/v1/generations")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
