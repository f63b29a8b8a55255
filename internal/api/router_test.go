package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btr-engine/backend/internal/astro"
	rediscache "github.com/btr-engine/backend/internal/cache/redis"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/internal/storage/sqlite"
)

const sampleBirth = `{"date":"1985-05-20","time":"14:30:15","tz_offset":5.5,"latitude":13.6288,"longitude":79.4192,"name":"Rama","gender":"male"`

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, kind rediscache.Kind, hash string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[rediscache.Key(kind, hash)]
	return d, ok, nil
}

func (m *memoryCache) Set(_ context.Context, kind rediscache.Kind, hash string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rediscache.Key(kind, hash)] = data
	return nil
}

func newTestApp(t *testing.T, cache *memoryCache) *fiber.App {
	t.Helper()
	store, err := sqlite.NewClient(filepath.Join(t.TempDir(), "btr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())

	d := Deps{
		Engine: search.NewEngine(astro.NewEphemeris()),
		Store:  store,
		Ready:  store.Ping,
	}
	if cache != nil {
		d.Cache = cache
	}

	app := fiber.New()
	Register(app, d)
	return app
}

// do sends a request and returns the status, the decoded body and the X-Cache header.
func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out, resp.Header.Get("X-Cache")
}

func TestChart(t *testing.T) {
	app := newTestApp(t, nil)

	status, out, _ := do(t, app, "POST", "/api/v1/chart", sampleBirth+`}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "14:30:15", out["local_time"])

	report, ok := out["report"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, report["checks"], 4)

	chart, ok := out["chart"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, chart["sunrise_available"])
	assert.NotNil(t, out["vighatika"])
}

func TestChart_IncompleteInput(t *testing.T) {
	app := newTestApp(t, nil)

	status, out, _ := do(t, app, "POST", "/api/v1/chart", `{"date":"1985-05-20","time":"14:30"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, out["error"], "incomplete input")
}

func TestRectify(t *testing.T) {
	app := newTestApp(t, nil)

	t.Run("sweep", func(t *testing.T) {
		status, out, _ := do(t, app, "POST", "/api/v1/rectify/sweep", sampleBirth+`}`)
		require.Equal(t, fiber.StatusOK, status)
		candidates := out["candidates"].([]any)
		assert.Len(t, candidates, 81)
		first := candidates[0].(map[string]any)
		assert.Nil(t, first["result"])
	})

	t.Run("autocorrect", func(t *testing.T) {
		status, out, _ := do(t, app, "POST", "/api/v1/rectify/autocorrect", sampleBirth+`,"direction":1}`)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, out["found"])
		corr := out["correction"].(map[string]any)
		assert.Greater(t, corr["offset_seconds"].(float64), 0.0)
	})

	t.Run("autocorrect bad direction", func(t *testing.T) {
		status, _, _ := do(t, app, "POST", "/api/v1/rectify/autocorrect", sampleBirth+`,"direction":0}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("pranapada", func(t *testing.T) {
		status, out, _ := do(t, app, "POST", "/api/v1/rectify/pranapada", sampleBirth+`}`)
		require.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, out, "found")
	})

	t.Run("microscan", func(t *testing.T) {
		status, out, _ := do(t, app, "POST", "/api/v1/rectify/microscan", sampleBirth+`}`)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, out["slits"], 21)
	})

	t.Run("timeline", func(t *testing.T) {
		status, out, _ := do(t, app, "POST", "/api/v1/rectify/timeline", sampleBirth+`}`)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, out["segments"], 17)
	})
}

func TestSweep_Cached(t *testing.T) {
	cache := &memoryCache{data: make(map[string][]byte)}
	app := newTestApp(t, cache)

	_, first, r1 := do(t, app, "POST", "/api/v1/rectify/sweep", sampleBirth+`}`)
	_, second, r2 := do(t, app, "POST", "/api/v1/rectify/sweep", sampleBirth+`}`)

	assert.Equal(t, "MISS", r1)
	assert.Equal(t, "HIT", r2)
	assert.Equal(t, first, second)
	assert.Len(t, cache.data, 1)
}

func TestAuditAndMarriage(t *testing.T) {
	app := newTestApp(t, nil)

	status, out, _ := do(t, app, "POST", "/api/v1/audit", sampleBirth+`,"overrides":{"d60":"PASS","kunda":"FAIL"}}`)
	require.Equal(t, fiber.StatusOK, status)
	panel := out["panel"].(map[string]any)
	rows := panel["rows"].([]any)
	require.Len(t, rows, 4)
	assert.Equal(t, true, rows[0].(map[string]any)["passed"])
	assert.Equal(t, false, rows[2].(map[string]any)["passed"])

	status, _, _ = do(t, app, "POST", "/api/v1/audit", sampleBirth+`,"overrides":{"arudha":"PASS"}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, out, _ = do(t, app, "POST", "/api/v1/marriage", sampleBirth+`}`)
	require.Equal(t, fiber.StatusOK, status)
	report := out["report"].(map[string]any)
	assert.Contains(t, []any{"Severely Challenged", "Average / Mixed", "Favorable"}, report["conclusion"].(map[string]any)["status"])
}

func TestNatives(t *testing.T) {
	app := newTestApp(t, nil)

	status, out, _ := do(t, app, "POST", "/api/v1/natives", `{"name":"Sita","gender":"f","birth_date":"1990-01-01","birth_time":"06:00","tz_offset":5.5,"latitude":28.61,"longitude":77.23}`)
	require.Equal(t, fiber.StatusCreated, status)
	id := out["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "FEMALE", out["gender"])

	status, out, _ = do(t, app, "GET", "/api/v1/natives", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["natives"], 1)

	status, out, _ = do(t, app, "GET", "/api/v1/natives/"+id+"/chart", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotNil(t, out["result"])

	status, _, _ = do(t, app, "DELETE", "/api/v1/natives/"+id, "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _, _ = do(t, app, "GET", "/api/v1/natives/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = do(t, app, "POST", "/api/v1/natives", `{"name":"BadClock","birth_date":"1990-01-01","birth_time":"25:00","tz_offset":5.5}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHealthReadySounds(t *testing.T) {
	app := newTestApp(t, nil)

	status, out, _ := do(t, app, "GET", "/api/v1/health", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "healthy", out["status"])

	status, out, _ = do(t, app, "GET", "/api/v1/ready", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", out["status"])
	assert.Equal(t, "disabled", out["cache"])

	status, out, _ = do(t, app, "GET", "/api/v1/sounds", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "mo", out["default"])
	assert.Len(t, out["sounds"], 70)
}

func TestReady_Unavailable(t *testing.T) {
	app := fiber.New()
	Register(app, Deps{
		Engine: search.NewEngine(astro.NewEphemeris()),
		Ready:  func() error { return errors.New("database is locked") },
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestReady_CacheStatus(t *testing.T) {
	app := fiber.New()
	Register(app, Deps{
		Engine:      search.NewEngine(astro.NewEphemeris()),
		CacheStatus: func() string { return "open" },
	})

	status, out, _ := do(t, app, "GET", "/api/v1/ready", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", out["status"])
	assert.Equal(t, "open", out["cache"])
}
