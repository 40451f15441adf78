package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/pkg/validate"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type mockRecs struct {
	got   usecase.RecommendRequest
	items []match.MatchResult
	err   error
}

func (m *mockRecs) Recommend(_ context.Context, req usecase.RecommendRequest) ([]match.MatchResult, error) {
	m.got = req
	return m.items, m.err
}

type mockFeedback struct {
	gotReq   usecase.FeedbackRequest
	gotUser  uuid.UUID
	gotWeeks int
	result   match.MatchResult
	items    []match.MatchResult
	snap     match.InsightSnapshot
	err      error
}

func (m *mockFeedback) RecordFeedback(_ context.Context, req usecase.FeedbackRequest) (match.MatchResult, error) {
	m.gotReq = req
	return m.result, m.err
}

func (m *mockFeedback) ListRecommendations(_ context.Context, userID uuid.UUID, weeks int) ([]match.MatchResult, error) {
	m.gotUser, m.gotWeeks = userID, weeks
	return m.items, m.err
}

func (m *mockFeedback) SummarizeInsights(_ context.Context, userID uuid.UUID, weeks int) (match.InsightSnapshot, error) {
	m.gotUser, m.gotWeeks = userID, weeks
	return m.snap, m.err
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

// newTestApp mounts register under /api/v1 behind the error middleware and
// a stub that authenticates every request as userID.
func newTestApp(userID uuid.UUID, register func(fiber.Router)) *fiber.App {
	errMw := middleware.NewErrorMiddleware(nil)
	app := fiber.New(fiber.Config{ErrorHandler: errMw.ErrorHandler})
	app.Use(errMw.Middleware())
	app.Use(func(c fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.CtxUserIDKey, userID)
		}
		return c.Next()
	})
	register(app.Group("/api/v1"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) envelope {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	return env
}

func TestRecommendationHandler_Recommend(t *testing.T) {
	uid := uuid.New()
	pid := uuid.New()
	rec := match.NewMatchResult(uid, uuid.New(), matching.Score{JobID: uuid.New(), MatchScore: 88, ConfidenceLevel: 0.88}, matching.VariantHybrid, time.Now().UTC())
	recs := &mockRecs{items: []match.MatchResult{rec}}
	app := newTestApp(uid, NewRecommendationHandler(recs, &mockFeedback{}).RegisterRoutes)

	env := doJSON(t, app, http.MethodGet, "/api/v1/recommendations?algorithm=hybrid&limit=5&profile_id="+pid.String(), nil)
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, uid, recs.got.UserID)
	assert.Equal(t, "hybrid", recs.got.Algorithm)
	assert.Equal(t, 5, recs.got.Limit)
	require.NotNil(t, recs.got.ProfileID)
	assert.Equal(t, pid, *recs.got.ProfileID)

	var out struct {
		Count int `json:"count"`
		Items []struct {
			ID         uuid.UUID `json:"id"`
			MatchScore float64   `json:"matchScore"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, rec.ID, out.Items[0].ID)
	assert.Equal(t, 88.0, out.Items[0].MatchScore)
}

func TestRecommendationHandler_BadQuery(t *testing.T) {
	recs := &mockRecs{}
	app := newTestApp(uuid.New(), NewRecommendationHandler(recs, &mockFeedback{}).RegisterRoutes)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/v1/recommendations?limit=ten", nil).Status)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/v1/recommendations?profile_id=nope", nil).Status)
	assert.Equal(t, uuid.Nil, recs.got.UserID)
}

func TestRecommendationHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &usecase.ValidationError{Fields: []validate.FieldError{{Field: "algorithm", Tag: "variant", Message: "algorithm is invalid"}}}, http.StatusBadRequest},
		{"not found", usecase.ErrCandidateNotFound, http.StatusNotFound},
		{"disabled", usecase.ErrMatchingDisabled, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"internal", usecase.ErrInternal, http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(uuid.New(), NewRecommendationHandler(&mockRecs{err: tc.err}, &mockFeedback{}).RegisterRoutes)
			env := doJSON(t, app, http.MethodGet, "/api/v1/recommendations", nil)
			assert.Equal(t, tc.status, env.Status)
			switch tc.status {
			case http.StatusInternalServerError:
				assert.Equal(t, "internal server error", env.Message)
			case http.StatusNotFound:
				assert.Equal(t, "candidate not found", env.Message)
			case http.StatusServiceUnavailable:
				assert.Equal(t, "Matching is disabled", env.Message)
			case http.StatusGatewayTimeout:
				assert.Equal(t, "Request timed out", env.Message)
			case http.StatusBadRequest:
				assert.Contains(t, string(env.Data), `"algorithm"`)
			}
		})
	}
}

type blockingRecs struct{}

func (blockingRecs) Recommend(ctx context.Context, _ usecase.RecommendRequest) ([]match.MatchResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRecommendationHandler_RequestTimeout(t *testing.T) {
	errMw := middleware.NewErrorMiddleware(nil)
	app := fiber.New(fiber.Config{ErrorHandler: errMw.ErrorHandler})
	app.Use(errMw.Middleware())
	app.Use(middleware.Timeout(20 * time.Millisecond))
	app.Use(func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, uuid.New())
		return c.Next()
	})
	NewRecommendationHandler(blockingRecs{}, &mockFeedback{}).RegisterRoutes(app.Group("/api/v1"))

	env := doJSON(t, app, http.MethodGet, "/api/v1/recommendations", nil)
	assert.Equal(t, http.StatusGatewayTimeout, env.Status)
	assert.Equal(t, "Request timed out", env.Message)
}

func TestRecommendationHandler_RequiresCaller(t *testing.T) {
	app := newTestApp(uuid.Nil, NewRecommendationHandler(&mockRecs{}, &mockFeedback{}).RegisterRoutes)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, app, http.MethodGet, "/api/v1/recommendations", nil).Status)
}

func TestRecommendationHandler_Feedback(t *testing.T) {
	uid := uuid.New()
	recID := uuid.New()
	fb := &mockFeedback{result: match.MatchResult{ID: recID, UserID: uid, Clicked: true}}
	app := newTestApp(uid, NewRecommendationHandler(&mockRecs{}, fb).RegisterRoutes)

	env := doJSON(t, app, http.MethodPost, "/api/v1/recommendations/"+recID.String()+"/feedback", map[string]string{"action": "click"})
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, usecase.FeedbackRequest{UserID: uid, RecommendationID: recID, Action: "click"}, fb.gotReq)

	env = doJSON(t, app, http.MethodPost, "/api/v1/recommendations/not-a-uuid/feedback", map[string]string{"action": "click"})
	assert.Equal(t, http.StatusBadRequest, env.Status)

	fb.err = usecase.ErrRecommendationNotFound
	env = doJSON(t, app, http.MethodPost, "/api/v1/recommendations/"+recID.String()+"/feedback", map[string]string{"feedback": "relevant"})
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "recommendation not found", env.Message)
}

func TestRecommendationHandler_HistoryAndInsights(t *testing.T) {
	uid := uuid.New()
	fb := &mockFeedback{
		items: []match.MatchResult{},
		snap:  match.InsightSnapshot{UserID: uid, WindowWeeks: 2, EngagementTier: match.EngagementNone},
	}
	app := newTestApp(uid, NewRecommendationHandler(&mockRecs{}, fb).RegisterRoutes)

	env := doJSON(t, app, http.MethodGet, "/api/v1/recommendations/history?weeks=3", nil)
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, uid, fb.gotUser)
	assert.Equal(t, 3, fb.gotWeeks)
	assert.JSONEq(t, `{"userId":"`+uid.String()+`","count":0,"items":[]}`, string(env.Data))

	env = doJSON(t, app, http.MethodGet, "/api/v1/recommendations/insights?weeks=2", nil)
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, 2, fb.gotWeeks)
	var snap match.InsightSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, match.EngagementNone, snap.EngagementTier)

	fb.err = &usecase.ValidationError{Fields: []validate.FieldError{{Field: "weeks", Tag: "range", Message: "weeks must be between 1 and 52"}}}
	env = doJSON(t, app, http.MethodGet, "/api/v1/recommendations/insights?weeks=99", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "weeks must be between 1 and 52", env.Message)
}

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name   string
		store  error
		cache  error
		status int
		state  string
	}{
		{"all up", nil, nil, http.StatusOK, "ok"},
		{"cache down", nil, errors.New("down"), http.StatusOK, "degraded"},
		{"store down", errors.New("down"), nil, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(mockPinger{tc.store}, mockPinger{tc.cache}).RegisterRoutes(app)
			env := doJSON(t, app, http.MethodGet, "/health", nil)
			assert.Equal(t, tc.status, env.Status)
			var out struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &out))
			assert.Equal(t, tc.state, out.Status)
		})
	}
}

func TestAdminUserHandler(t *testing.T) {
	target := uuid.New()
	recs := &mockRecs{items: []match.MatchResult{}}
	fb := &mockFeedback{snap: match.InsightSnapshot{UserID: target}}
	app := newTestApp(uuid.New(), func(r fiber.Router) {
		NewAdminUserHandler(recs, fb).RegisterRoutes(r.Group("/admin"))
	})

	env := doJSON(t, app, http.MethodPost, "/api/v1/admin/users/"+target.String()+"/recommendations", map[string]any{"algorithm": "collaborative", "limit": 3})
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, target, recs.got.UserID)
	assert.Equal(t, "collaborative", recs.got.Algorithm)
	assert.Equal(t, 3, recs.got.Limit)

	env = doJSON(t, app, http.MethodPost, "/api/v1/admin/users/"+target.String()+"/recommendations", nil)
	require.Equal(t, http.StatusOK, env.Status)
	assert.Empty(t, recs.got.Algorithm)

	env = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/"+target.String()+"/insights?weeks=8", nil)
	require.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, target, fb.gotUser)
	assert.Equal(t, 8, fb.gotWeeks)

	env = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/nobody/insights", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}
