package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/domain/match"
	"jobmatch/internal/infrastructure/persistence/memory"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecs struct{}

func (stubRecs) Recommend(context.Context, usecase.RecommendRequest) ([]match.MatchResult, error) {
	return []match.MatchResult{}, nil
}

func newApp(t *testing.T) (*fiber.App, jwt.Service) {
	t.Helper()
	tokens := jwt.NewHMACService("test-secret", time.Minute)
	store := memory.NewDocumentStore()
	admin := usecase.NewProfileStore(repository.NewDocumentMatchingConfigRepository(store), nil, nil, nil, nil)
	_, _, err := admin.EnsureDefault(context.Background())
	require.NoError(t, err)

	errMw := middleware.NewErrorMiddleware(nil)
	app := fiber.New(fiber.Config{ErrorHandler: errMw.ErrorHandler})
	app.Use(errMw.Middleware())
	NewRegistry(Deps{
		JWT:      tokens,
		Store:    store,
		Recs:     stubRecs{},
		Feedback: usecase.NewFeedbackTracker(repository.NewDocumentMatchResultRepository(store), nil),
		Admin:    admin,
		Hub:      ws.NewHub(nil),
	}).Register(app)
	return app, tokens
}

func status(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	return resp.StatusCode
}

func TestRegistry_AccessControl(t *testing.T) {
	app, tokens := newApp(t)
	userTok, err := tokens.GenerateAccessToken(uuid.New(), jwt.RoleUser)
	require.NoError(t, err)
	adminTok, err := tokens.GenerateAccessToken(uuid.New(), jwt.RoleAdmin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"api needs a token", http.MethodGet, "/api/v1/recommendations", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/recommendations", "garbage", http.StatusUnauthorized},
		{"user recommendations", http.MethodGet, "/api/v1/recommendations", userTok, http.StatusOK},
		{"user history", http.MethodGet, "/api/v1/recommendations/history", userTok, http.StatusOK},
		{"user insights", http.MethodGet, "/api/v1/recommendations/insights?weeks=4", userTok, http.StatusOK},
		{"admin config as user", http.MethodGet, "/api/v1/admin/matching/config", userTok, http.StatusForbidden},
		{"admin config", http.MethodGet, "/api/v1/admin/matching/config", adminTok, http.StatusOK},
		{"admin profiles", http.MethodGet, "/api/v1/admin/matching/profiles", adminTok, http.StatusOK},
		{"admin user insights", http.MethodGet, "/api/v1/admin/users/" + uuid.NewString() + "/insights", adminTok, http.StatusOK},
		{"ws needs a token", http.MethodGet, "/ws/recommendations", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, status(t, app, tc.method, tc.path, tc.token))
		})
	}
}
