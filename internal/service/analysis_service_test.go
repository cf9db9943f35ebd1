package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"workshopzones/internal/metrics"
	"workshopzones/internal/model"
	"workshopzones/internal/scoring"
)

type fakeSnapshotRepo struct {
	mu      sync.Mutex
	saved   map[string]*model.AnalysisSnapshot
	saveErr error
	getErr  error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{saved: map[string]*model.AnalysisSnapshot{}}
}

func (r *fakeSnapshotRepo) Save(_ context.Context, s *model.AnalysisSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved[s.GroupID] = s
	return nil
}

func (r *fakeSnapshotRepo) GetLatest(_ context.Context, groupID string) (*model.AnalysisSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.saved[groupID], nil
}

func (r *fakeSnapshotRepo) EnsureIndexes(context.Context) error { return nil }

type fakeCache struct {
	entries map[string]*model.GroupAnalysisResult
	gets    int
	sets    int
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*model.GroupAnalysisResult{}}
}

func (c *fakeCache) Get(_ context.Context, groupID, fp string) (*model.GroupAnalysisResult, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[groupID+"/"+fp], nil
}

func (c *fakeCache) Set(_ context.Context, fp string, r *model.GroupAnalysisResult) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[r.GroupID+"/"+fp] = r
	return nil
}

type broadcast struct {
	groupID string
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	sent []broadcast
}

func (b *fakeBroadcaster) BroadcastToGroup(groupID, msgType string, payload interface{}) {
	b.sent = append(b.sent, broadcast{groupID, msgType, payload})
}

func divergentRoster() []model.RosterRecord {
	return []model.RosterRecord{
		{Email: "r1@example.com", Name: "R1", Answers: map[string]any{"q1": 5, "q2": 1}},
		{Email: "r2@example.com", Name: "R2", Answers: map[string]any{"q1": 2, "q2": 3}},
		{Email: "r3@example.com", Name: "R3", Answers: map[string]any{"q1": 2, "q2": 3}},
	}
}

type serviceFixture struct {
	svc   *AnalysisService
	repo  *fakeSnapshotRepo
	cache *fakeCache
	bc    *fakeBroadcaster
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, maxRoster int) serviceFixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := serviceFixture{
		repo:  newFakeSnapshotRepo(),
		cache: newFakeCache(),
		bc:    &fakeBroadcaster{},
		logs:  logs,
	}
	engine := scoring.NewEngine(nil, scoring.DefaultOptions())
	f.svc = NewAnalysisService(engine, f.repo, f.cache, metrics.New(), zap.New(core), maxRoster)
	f.svc.SetBroadcaster(f.bc)
	return f
}

func TestAnalysisService_Analyze(t *testing.T) {
	f := newFixture(t, 100)

	res, err := f.svc.Analyze(context.Background(), " ws-1 ", divergentRoster())
	require.NoError(t, err)

	assert.Equal(t, "ws-1", res.GroupID)
	assert.Equal(t, 3, res.RespondentCount)
	assert.Len(t, res.Respondents, 3)
	assert.True(t, res.Divergent)

	snap := f.repo.saved["ws-1"]
	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Fingerprint, 64)
	assert.Empty(t, snap.Result.Respondents, "snapshots keep the group reading only")
	assert.Equal(t, res.ZoneByAverage, snap.Result.ZoneByAverage)
	assert.Equal(t, res.ZoneByCount, snap.Result.ZoneByCount)

	require.Len(t, f.bc.sent, 1)
	assert.Equal(t, "ws-1", f.bc.sent[0].groupID)
	assert.Equal(t, EventAnalysisReady, f.bc.sent[0].msgType)
	evt, ok := f.bc.sent[0].payload.(AnalysisReadyEvent)
	require.True(t, ok)
	assert.Equal(t, snap.ID, evt.SnapshotID)
	assert.True(t, evt.Divergent)

	assert.Equal(t, 1, f.cache.sets)
	assert.Equal(t, 1, f.logs.FilterMessage("workshop analyzed").Len())
}

func TestAnalysisService_ServesFromCache(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()

	first, err := f.svc.Analyze(ctx, "ws-1", divergentRoster())
	require.NoError(t, err)
	second, err := f.svc.Analyze(ctx, "ws-1", divergentRoster())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.cache.sets)
	assert.Equal(t, 2, f.cache.gets)
	assert.Len(t, f.bc.sent, 2)

	changed := append(divergentRoster(), model.RosterRecord{Email: "r4@example.com", Answers: []int{5}})
	third, err := f.svc.Analyze(ctx, "ws-1", changed)
	require.NoError(t, err)
	assert.Equal(t, 4, third.RespondentCount)
	assert.Equal(t, 2, f.cache.sets)
}

func TestAnalysisService_CacheFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t, 100)
	f.cache.getErr = errors.New("redis down")
	f.cache.setErr = errors.New("redis down")

	res, err := f.svc.Analyze(context.Background(), "ws-1", divergentRoster())
	require.NoError(t, err)
	assert.Equal(t, 3, res.RespondentCount)
	assert.Equal(t, 1, f.logs.FilterMessage("analysis cache unavailable").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("failed to cache analysis").Len())
}

func TestAnalysisService_Validation(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.svc.Analyze(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, ErrMissingGroupID)

	_, err = f.svc.Analyze(context.Background(), "ws", divergentRoster())
	assert.ErrorIs(t, err, ErrRosterTooLarge)

	assert.Empty(t, f.repo.saved)
	assert.Empty(t, f.bc.sent)
}

func TestAnalysisService_EmptyRoster(t *testing.T) {
	f := newFixture(t, 10)

	res, err := f.svc.Analyze(context.Background(), "ws-empty", nil)
	require.NoError(t, err)
	assert.Zero(t, res.RespondentCount)
	assert.Equal(t, model.Undetermined(), res.ZoneByAverage)
	assert.Equal(t, model.Undetermined(), res.ZoneByCount)
}

func TestAnalysisService_SaveFailure(t *testing.T) {
	f := newFixture(t, 10)
	boom := errors.New("mongo unavailable")
	f.repo.saveErr = boom

	_, err := f.svc.Analyze(context.Background(), "ws-1", divergentRoster())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.bc.sent)
}

func TestAnalysisService_Latest(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Latest(ctx, "ws-1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = f.svc.Analyze(ctx, "ws-1", divergentRoster())
	require.NoError(t, err)

	snap, err := f.svc.Latest(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, "ws-1", snap.GroupID)

	f.repo.getErr = errors.New("timeout")
	_, err = f.svc.Latest(ctx, "ws-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)
}

func TestAnalysisService_ClassifyAndInstrument(t *testing.T) {
	f := newFixture(t, 10)

	r := f.svc.Classify(model.RosterRecord{Email: "x@example.com", Answers: []int{1, 1, 5, 1}})
	assert.Equal(t, model.Single(model.CategoryC), r.Zone)
	assert.Len(t, f.svc.Instrument().Items, 36)
	assert.Empty(t, f.repo.saved)
}

func TestAnalysisService_NilBroadcasterAndCache(t *testing.T) {
	engine := scoring.NewEngine(nil, scoring.DefaultOptions())
	svc := NewAnalysisService(engine, newFakeSnapshotRepo(), nil, nil, nil, 0)

	res, err := svc.Analyze(context.Background(), "ws", divergentRoster())
	require.NoError(t, err)
	assert.Equal(t, 3, res.RespondentCount)
}
