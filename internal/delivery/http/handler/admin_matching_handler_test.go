package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"jobmatch/internal/domain/matching"
	"jobmatch/internal/infrastructure/persistence/memory"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp(t *testing.T) (*usecase.ProfileStore, func(method, path string, body any) envelope) {
	t.Helper()
	store := usecase.NewProfileStore(repository.NewDocumentMatchingConfigRepository(memory.NewDocumentStore()), nil, nil, nil, nil)
	_, _, err := store.EnsureDefault(context.Background())
	require.NoError(t, err)

	app := newTestApp(uuid.New(), func(r fiber.Router) {
		NewAdminMatchingHandler(store).RegisterRoutes(r.Group("/admin"))
	})
	return store, func(method, path string, body any) envelope {
		return doJSON(t, app, method, "/api/v1/admin/matching"+path, body)
	}
}

func TestAdminMatchingHandler_Config(t *testing.T) {
	_, do := newAdminApp(t)

	env := do(http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, env.Status)
	var cfg matching.MatchingConfig
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.True(t, cfg.MatchingEnabled)

	env = do(http.MethodPut, "/config", map[string]any{"batchSize": 250, "matchingEnabled": false})
	require.Equal(t, http.StatusOK, env.Status)
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.Equal(t, 250, cfg.BatchSize)
	assert.False(t, cfg.MatchingEnabled)
	assert.NotEmpty(t, cfg.UpdatedBy)

	env = do(http.MethodPut, "/config", map[string]any{"batchSize": 5})
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Contains(t, string(env.Data), `"batchSize"`)

	env = do(http.MethodPut, "/weights", map[string]any{"skillWeightFactor": 0.9})
	require.Equal(t, http.StatusOK, env.Status)
	var w matching.WeightFactors
	require.NoError(t, json.Unmarshal(env.Data, &w))
	assert.Equal(t, 0.9, w.SkillWeightFactor)

	env = do(http.MethodPut, "/weights", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestAdminMatchingHandler_ProfileLifecycle(t *testing.T) {
	_, do := newAdminApp(t)

	env := do(http.MethodPost, "/profiles", map[string]any{
		"profileName":       "Frontend",
		"minimumMatchScore": 50,
		"rules": []map[string]any{
			{"name": "React skill", "ruleType": "skill", "operator": "contains", "value": "React", "weight": 50},
		},
	})
	require.Equal(t, http.StatusCreated, env.Status)
	var p matching.MatchingProfile
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.NotEqual(t, uuid.Nil, p.ID)
	base := "/profiles/" + p.ID.String()

	env = do(http.MethodPost, "/profiles", map[string]any{"profileName": "frontend"})
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Contains(t, string(env.Data), `"unique"`)

	env = do(http.MethodPost, base+"/test", map[string]any{"title": "UI Dev", "requiredSkills": []string{"React"}})
	require.Equal(t, http.StatusOK, env.Status)
	var res matching.ProfileTestResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 100, res.MatchScore)
	assert.True(t, res.IsMatch)

	env = do(http.MethodPut, base, map[string]any{"description": "react roles"})
	require.Equal(t, http.StatusOK, env.Status)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "react roles", p.Description)

	env = do(http.MethodGet, "/profiles", nil)
	require.Equal(t, http.StatusOK, env.Status)
	var list usecase.ProfileList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Profiles, 1)
	require.NotNil(t, list.DefaultProfileID)
	assert.Equal(t, p.ID, *list.DefaultProfileID)

	env = do(http.MethodPost, base+"/default", nil)
	assert.Equal(t, http.StatusOK, env.Status)

	env = do(http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, env.Status)
	assert.JSONEq(t, `{"deletedProfileId":"`+p.ID.String()+`","defaultProfileId":null}`, string(env.Data))

	env = do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "matching profile not found", env.Message)

	env = do(http.MethodGet, "/profiles/123", nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}
