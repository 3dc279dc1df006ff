package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"erp-featurestore-be/internal/config"
	"erp-featurestore-be/internal/metrics"
	"erp-featurestore-be/internal/model"
	"erp-featurestore-be/internal/pkg/logger"
	"erp-featurestore-be/internal/pkg/serverutils"
	"erp-featurestore-be/internal/repository/memory"
	"erp-featurestore-be/internal/repository/unitofwork"
	"erp-featurestore-be/internal/service"
	"erp-featurestore-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := database.NewSqliteDB(":memory:", true)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.FeatureDefinition{},
		&model.FeatureSnapshot{},
		&model.Project{},
		&model.ProjectMember{},
		&model.TimeEntry{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.DefaultFeatureStore()
	log := logger.NewNopLogger()
	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())
	clock := func() time.Time { return testNow }

	uowFactory := unitofwork.NewRepositoryFactory(db)
	registry := service.NewFeatureRegistryService(uowFactory, memory.NewDefinitionCache(time.Minute), log)
	store := service.NewSnapshotStoreService(uowFactory, cfg)
	writer := service.NewSnapshotWriter(store, service.NewFeatureEventPublisher(nil, log), m)

	ctrl := NewFeatureStoreController(
		service.NewFeatureStoreService(registry, store, writer),
		service.NewCapacitySyncService(uowFactory, registry, writer, nil, clock, m, log),
		service.NewCapacityForecastService(uowFactory, registry, store, writer, clock, cfg.ForecastHistory, m, log),
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	ctrl.RegisterRoutes(app.Group("/api"), serverutils.NewJwtMiddleware(testSecret))
	return app, db
}

func bearer(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops", "exp": time.Now().Add(time.Hour).Unix()})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, auth string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestFeatureStoreController_Definitions(t *testing.T) {
	app, _ := newTestApp(t)
	base := "/api/feature-store/v1"
	body := map[string]interface{}{"name": "user_activity", "entity": "user", "config": map[string]interface{}{"source": "audit"}}

	code, _ := do(t, app, http.MethodPost, base+"/definitions", body, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := do(t, app, http.MethodPost, base+"/definitions", map[string]interface{}{"entity": "user"}, bearer(t))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, env = do(t, app, http.MethodPost, base+"/definitions", body, bearer(t))
	require.Equal(t, http.StatusOK, code, env.Message)

	var created struct {
		Id      uuid.UUID `json:"id"`
		Version int       `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEqual(t, uuid.Nil, created.Id)
	assert.Equal(t, 1, created.Version)

	code, env = do(t, app, http.MethodGet, base+"/definitions/user_activity", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), created.Id.String())

	code, _ = do(t, app, http.MethodGet, base+"/definitions/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, app, http.MethodGet, base+"/definitions", nil, "")
	assert.Equal(t, http.StatusOK, code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = do(t, app, http.MethodGet, base+"/definitions?entity=user", nil, "")
	assert.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = do(t, app, http.MethodGet, base+"/definitions?entity=project", nil, "")
	assert.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)
}

func TestFeatureStoreController_Snapshots(t *testing.T) {
	app, _ := newTestApp(t)
	base := "/api/feature-store/v1"

	code, _ := do(t, app, http.MethodPost, base+"/definitions", map[string]interface{}{"name": "user_activity", "entity": "user"}, bearer(t))
	require.Equal(t, http.StatusOK, code)

	items := map[string]interface{}{
		"items": []map[string]interface{}{
			{"entity_id": "u1", "ts": testNow.Add(-time.Hour).Format(time.RFC3339), "value": map[string]interface{}{"logins": 1}},
			{"entity_id": "u1", "ts": testNow.Format(time.RFC3339), "value": map[string]interface{}{"logins": 2}},
		},
	}

	code, _ = do(t, app, http.MethodPost, base+"/features/user_activity/snapshots", items, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, app, http.MethodPost, base+"/features/unknown/snapshots", items, bearer(t))
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, app, http.MethodPost, base+"/features/user_activity/snapshots", items, bearer(t))
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"feature":"user_activity","written":2}`, string(env.Data))

	code, env = do(t, app, http.MethodGet, base+"/features/user_activity/entities/u1/latest", nil, "")
	require.Equal(t, http.StatusOK, code)
	var latest struct {
		Value map[string]interface{} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &latest))
	assert.Equal(t, float64(2), latest.Value["logins"])

	code, _ = do(t, app, http.MethodGet, base+"/features/user_activity/entities/u2/latest", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, app, http.MethodGet, base+"/features/user_activity/entities/u1/timeseries?limit=1", nil, "")
	require.Equal(t, http.StatusOK, code)
	var series struct {
		Items []map[string]interface{} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &series))
	assert.Len(t, series.Items, 1)
}

func TestFeatureStoreController_Sync(t *testing.T) {
	app, db := newTestApp(t)
	base := "/api/feature-store/v1"

	projectId := uuid.New()
	require.NoError(t, db.Create(&model.Project{Id: projectId, Name: "Alpha", Status: "active"}).Error)
	end := testNow.Add(-time.Hour)
	require.NoError(t, db.Create(&model.TimeEntry{Id: uuid.New(), ProjectId: &projectId, UserId: uuid.New(), StartTime: testNow.Add(-3 * time.Hour), EndTime: &end}).Error)

	for _, path := range []string{"/sync/capacity", "/sync/capacity-forecast"} {
		code, _ := do(t, app, http.MethodPost, base+path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}
	var written int64
	require.NoError(t, db.Model(&model.FeatureSnapshot{}).Count(&written).Error)
	assert.Zero(t, written)

	code, env := do(t, app, http.MethodPost, base+"/sync/capacity-forecast", nil, bearer(t))
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"pipeline":"capacity_forecast","processed":0,"error":"`+service.ErrPrerequisiteMissing.Error()+`"}`, string(env.Data))

	code, env = do(t, app, http.MethodPost, base+"/sync/capacity", nil, bearer(t))
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"pipeline":"capacity_sync","processed":1}`, string(env.Data))

	code, env = do(t, app, http.MethodPost, base+"/sync/capacity-forecast", nil, bearer(t))
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"pipeline":"capacity_forecast","processed":1}`, string(env.Data))

	code, env = do(t, app, http.MethodGet, base+"/features/project_capacity_window/entities/"+projectId.String()+"/latest", nil, "")
	require.Equal(t, http.StatusOK, code)
	var snap struct {
		Value map[string]interface{} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 2.0, snap.Value["hours_7d"])
}
