package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/raid"
	"focus-quest/internal/domain/randsrc"
	"focus-quest/internal/domain/user"
	"focus-quest/internal/middleware"
	"focus-quest/internal/modules/progression/service"
	"focus-quest/internal/pkg/i18n"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/response"
	"focus-quest/internal/pkg/validator"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	mu sync.Mutex
	m  map[string]user.UserProgress
}

func (r *memUsers) Get(_ context.Context, id string) (*user.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[id]
	if !ok {
		return nil, xerrors.NewUserProgressNotFoundError(id)
	}
	return &p, nil
}

func (r *memUsers) Update(_ context.Context, id string, fn func(*user.UserProgress) error) (*user.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[id]
	if !ok {
		p = *user.NewUserProgress(id, time.Now())
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	r.m[id] = p
	return &p, nil
}

type memRaids struct {
	mu    sync.Mutex
	m     map[string]raid.PortalRaidProgress
	users *memUsers
}

func (r *memRaids) ListByUser(_ context.Context, userID string) (map[string]*raid.PortalRaidProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*raid.PortalRaidProgress{}
	for _, p := range r.m {
		if p.UserID == userID {
			p := p
			out[p.BossID] = &p
		}
	}
	return out, nil
}

func (r *memRaids) Update(_ context.Context, userID, bossID string, maxHP int, fn interfaces.RaidUpdateFunc) (*raid.PortalRaidProgress, *user.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	p, ok := r.m[userID+"/"+bossID]
	if !ok {
		p = *raid.NewRaidProgress(userID, bossID, maxHP, time.Now())
	}
	owner, ok := r.users.m[userID]
	if !ok {
		owner = *user.NewUserProgress(userID, time.Now())
	}
	ownerChanged, err := fn(&p, &owner)
	if err != nil {
		return nil, nil, err
	}
	r.m[userID+"/"+bossID] = p
	if ownerChanged {
		r.users.m[userID] = owner
	}
	return &p, &owner, nil
}

type memBosses struct{ bosses []raid.PortalBoss }

func (r memBosses) List(context.Context) ([]raid.PortalBoss, error) { return r.bosses, nil }

func (r memBosses) Get(_ context.Context, id string) (raid.PortalBoss, error) {
	for _, b := range r.bosses {
		if b.ID == id {
			return b, nil
		}
	}
	return raid.PortalBoss{}, xerrors.NewBossNotFoundError(id)
}

type memSettings struct{ m map[string]string }

func (r *memSettings) List(context.Context) ([]progression.Setting, error) {
	out := []progression.Setting{}
	for k, v := range r.m {
		out = append(out, progression.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (r *memSettings) Set(_ context.Context, k, v string) error {
	r.m[k] = v
	return nil
}

func newTestServer(t *testing.T) (*echo.Echo, *memUsers) {
	t.Helper()
	logger := log.NewLogger(slog.DiscardHandler)
	users := &memUsers{m: map[string]user.UserProgress{}}
	services := service.NewServiceContainer(service.Repositories{
		Users:    users,
		Raids:    &memRaids{m: map[string]raid.PortalRaidProgress{}, users: users},
		Bosses:   memBosses{bosses: raid.DefaultBosses()},
		Settings: &memSettings{m: map[string]string{}},
	}, service.Deps{
		Metrics: metrics.NewGameMetricsWithRegistry("test", prometheus.NewRegistry()),
		Logger:  logger,
		Random:  &randsrc.Scripted{Fallback: 0.99},
	})

	e := echo.New()
	e.Validator = validator.New()
	e.Use(middleware.RequestID(), i18n.Middleware())
	NewProgressionHandler(services, response.NewResponseHandler(logger)).RegisterRoutes(e)
	return e, users
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID string          `json:"request_id"`
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestCompleteSessionThenProfile(t *testing.T) {
	e, _ := newTestServer(t)

	rec, env := do(t, e, http.MethodPost, "/api/v1/sessions/complete",
		`{"user_id":"u1","duration_minutes":25,"completed":true,"first_session_of_day":true,"current_streak":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int(xerrors.CodeSuccess), env.Code)
	assert.NotEmpty(t, env.RequestID)

	var res service.CompleteSessionResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 300, res.Reward.XP.TotalXP)
	assert.Equal(t, 3, res.Reward.NewLevel)

	rec, env = do(t, e, http.MethodGet, "/api/v1/users/u1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.ProfileView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 300, view.TotalXP)
	assert.Equal(t, progression.RankE, view.Rank.Code)
}

func TestCompleteSession_ValidationError(t *testing.T) {
	e, _ := newTestServer(t)

	rec, env := do(t, e, http.MethodPost, "/api/v1/sessions/complete?lang=en", `{"duration_minutes":25}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int(xerrors.CodeInvalidParams), env.Code)
	assert.NotEmpty(t, env.Error)

	rec, env = do(t, e, http.MethodPost, "/api/v1/sessions/complete", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int(xerrors.CodeInvalidRequest), env.Code)
}

func TestProfile_NotFound(t *testing.T) {
	e, _ := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/v1/users/ghost/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int(xerrors.CodeUserProgressNotFound), env.Code)
}

func TestFight(t *testing.T) {
	e, users := newTestServer(t)

	rec, env := do(t, e, http.MethodPost, "/api/v1/battles",
		`{"user_id":"u1","opponent":{"id":"npc-1","name":"Bandit","stats":{"health":150,"attack":10,"defense":10,"speed":10,"level":1}},"deterministic_gold":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res service.FightResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.NotEmpty(t, res.BattleID)
	assert.False(t, res.Result.Won)

	p, err := users.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.BattlesLost)

	rec, env = do(t, e, http.MethodPost, "/api/v1/battles", `{"user_id":"u1","opponent":{"name":""}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int(xerrors.CodeInvalidParams), env.Code)
}

func TestPortalsAndRaid(t *testing.T) {
	e, _ := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/v1/users/u1/portals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var portals []service.PortalView
	require.NoError(t, json.Unmarshal(env.Data, &portals))
	assert.Len(t, portals, raid.PortalCount)

	rec, env = do(t, e, http.MethodPost, "/api/v1/users/u1/raids/e-mud-golem/attempts", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var attack service.AttackResult
	require.NoError(t, json.Unmarshal(env.Data, &attack))
	assert.Greater(t, attack.Progress.CurrentDamage, 0)
	require.NotNil(t, attack.Estimate)

	rec, env = do(t, e, http.MethodPost, "/api/v1/users/u1/raids/sss-shadow-monarch/attempts", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, int(xerrors.CodePortalNotAvailable), env.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/v1/users/u1/raids/missing/attempts", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRanksAndSettings(t *testing.T) {
	e, _ := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/v1/ranks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ranks []progression.RankInfo
	require.NoError(t, json.Unmarshal(env.Data, &ranks))
	assert.Len(t, ranks, 8)

	rec, env = do(t, e, http.MethodPut, "/api/v1/settings/completion_bonus", `{"value":"40"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cfg progression.XPConfig
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.Equal(t, 40, cfg.CompletionBonus)

	rec, _ = do(t, e, http.MethodPut, "/api/v1/settings/bogus", `{"value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
