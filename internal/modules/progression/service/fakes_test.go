package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/raid"
	"focus-quest/internal/domain/randsrc"
	"focus-quest/internal/domain/user"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/notify"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"

	"github.com/prometheus/client_golang/prometheus"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// clone 通过 JSON 深拷贝, 模拟存储层的序列化边界
func clone[T any](t *T) *T {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.UserProgress
	err   error
}

func newFakeUserRepo(seed ...*user.UserProgress) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*user.UserProgress{}}
	for _, u := range seed {
		r.users[u.UserID] = clone(u)
	}
	return r
}

func (r *fakeUserRepo) Get(_ context.Context, userID string) (*user.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.users[userID]
	if !ok {
		return nil, xerrors.NewUserProgressNotFoundError(userID)
	}
	return clone(p), nil
}

func (r *fakeUserRepo) Update(_ context.Context, userID string, fn func(p *user.UserProgress) error) (*user.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.users[userID]
	if ok {
		p = clone(p)
	} else {
		p = user.NewUserProgress(userID, testNow)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	r.users[userID] = clone(p)
	return p, nil
}

// fakeRaidRepo 与 fakeUserRepo 共享用户进度, Update 要么两者都写入要么都不写
type fakeRaidRepo struct {
	mu       sync.Mutex
	users    *fakeUserRepo
	progress map[string]map[string]*raid.PortalRaidProgress
	// ownerWriteErr 非空时, 需要同时写入用户进度的提交失败
	ownerWriteErr error
}

func newFakeRaidRepo(users *fakeUserRepo) *fakeRaidRepo {
	return &fakeRaidRepo{users: users, progress: map[string]map[string]*raid.PortalRaidProgress{}}
}

func (r *fakeRaidRepo) put(p *raid.PortalRaidProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress[p.UserID] == nil {
		r.progress[p.UserID] = map[string]*raid.PortalRaidProgress{}
	}
	r.progress[p.UserID][p.BossID] = clone(p)
}

func (r *fakeRaidRepo) ListByUser(_ context.Context, userID string) (map[string]*raid.PortalRaidProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*raid.PortalRaidProgress{}
	for id, p := range r.progress[userID] {
		out[id] = clone(p)
	}
	return out, nil
}

func (r *fakeRaidRepo) Update(_ context.Context, userID, bossID string, maxHP int, fn interfaces.RaidUpdateFunc) (*raid.PortalRaidProgress, *user.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users.mu.Lock()
	defer r.users.mu.Unlock()

	p, ok := r.progress[userID][bossID]
	if ok {
		p = clone(p)
	} else {
		p = raid.NewRaidProgress(userID, bossID, maxHP, testNow)
	}
	owner, ok := r.users.users[userID]
	if ok {
		owner = clone(owner)
	} else {
		owner = user.NewUserProgress(userID, testNow)
	}

	ownerChanged, err := fn(p, owner)
	if err != nil {
		return nil, nil, err
	}
	if ownerChanged && r.ownerWriteErr != nil {
		return nil, nil, r.ownerWriteErr
	}

	if r.progress[userID] == nil {
		r.progress[userID] = map[string]*raid.PortalRaidProgress{}
	}
	r.progress[userID][bossID] = clone(p)
	if ownerChanged {
		r.users.users[userID] = clone(owner)
	}
	return p, owner, nil
}

type fakeBossRepo struct {
	bosses []raid.PortalBoss
}

func (r *fakeBossRepo) List(context.Context) ([]raid.PortalBoss, error) {
	out := make([]raid.PortalBoss, len(r.bosses))
	copy(out, r.bosses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeBossRepo) Get(_ context.Context, bossID string) (raid.PortalBoss, error) {
	for _, b := range r.bosses {
		if b.ID == bossID {
			return b, nil
		}
	}
	return raid.PortalBoss{}, xerrors.NewBossNotFoundError(bossID)
}

type fakeSettingsRepo struct {
	values map[string]string
	err    error
}

func (r *fakeSettingsRepo) List(context.Context) ([]progression.Setting, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]progression.Setting, 0, len(r.values))
	for k, v := range r.values {
		out = append(out, progression.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (r *fakeSettingsRepo) Set(_ context.Context, key, value string) error {
	if r.err != nil {
		return r.err
	}
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[key] = value
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBoom = errors.New("boom")

// testDeps 固定时钟、独立指标注册表与可回放随机源
func testDeps(t *testing.T, rng randsrc.Source) (Deps, *recordingPublisher, *metrics.GameMetrics) {
	t.Helper()
	pub := &recordingPublisher{}
	m := metrics.NewGameMetricsWithRegistry("test", prometheus.NewRegistry())
	return Deps{
		Curve:     progression.DefaultCurve,
		Publisher: pub,
		Metrics:   m,
		Logger:    log.NewLogger(slog.DiscardHandler),
		Random:    rng,
		Clock:     func() time.Time { return testNow },
	}, pub, m
}
