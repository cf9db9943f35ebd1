package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"workshopzones/internal/cache"
	"workshopzones/internal/logging"
	"workshopzones/internal/metrics"
	"workshopzones/internal/model"
	"workshopzones/internal/repository"
	"workshopzones/internal/scoring"
)

var (
	ErrMissingGroupID   = errors.New("workshop id is required")
	ErrRosterTooLarge   = errors.New("roster exceeds the configured maximum")
	ErrSnapshotNotFound = errors.New("no analysis stored for workshop")
)

// AnalysisReadyEvent is pushed to dashboards after every analysis
type AnalysisReadyEvent struct {
	GroupID         string               `json:"groupId"`
	SnapshotID      string               `json:"snapshotId"`
	RespondentCount int                  `json:"respondentCount"`
	ZoneByAverage   model.ZoneAssignment `json:"zoneByAverage"`
	ZoneByCount     model.ZoneAssignment `json:"zoneByCount"`
	Divergent       bool                 `json:"divergent"`
}

// AnalysisService runs the scoring engine for workshops and keeps the latest
// group reading of each workshop
type AnalysisService struct {
	engine      *scoring.Engine
	snapshots   repository.SnapshotRepo
	cache       cache.AnalysisCache
	metrics     *metrics.Metrics
	logger      *zap.Logger
	maxRoster   int
	broadcaster Broadcaster
	now         func() time.Time
}

// NewAnalysisService creates a new analysis service. cache and m may be nil.
func NewAnalysisService(
	engine *scoring.Engine,
	snapshots repository.SnapshotRepo,
	analysisCache cache.AnalysisCache,
	m *metrics.Metrics,
	logger *zap.Logger,
	maxRoster int,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		engine:    engine,
		snapshots: snapshots,
		cache:     analysisCache,
		metrics:   m,
		logger:    logger.Named("analysis"),
		maxRoster: maxRoster,
		now:       time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AnalysisService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Analyze classifies a workshop roster, stores the group reading and
// notifies dashboards. Identical rosters under the same scoring
// configuration are served from cache.
func (s *AnalysisService) Analyze(ctx context.Context, groupID string, roster []model.RosterRecord) (*model.GroupAnalysisResult, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, ErrMissingGroupID
	}
	if s.maxRoster > 0 && len(roster) > s.maxRoster {
		return nil, fmt.Errorf("%w: %d > %d", ErrRosterTooLarge, len(roster), s.maxRoster)
	}

	log := logging.FromContext(ctx, s.logger).With(zap.String("group_id", groupID))

	fp, err := s.fingerprint(groupID, roster)
	if err != nil {
		return nil, err
	}

	result := s.cached(ctx, log, groupID, fp)
	if result != nil {
		s.metrics.ObserveAnalysis(metrics.SourceCache, result.RespondentCount, result.Divergent, 0)
	} else {
		start := s.now()
		computed := s.engine.Analyze(roster, groupID)
		took := s.now().Sub(start)
		result = &computed
		s.metrics.ObserveAnalysis(metrics.SourceComputed, result.RespondentCount, result.Divergent, took)

		if s.cache != nil {
			if err := s.cache.Set(ctx, fp, result); err != nil {
				log.Warn("failed to cache analysis", zap.Error(err))
			}
		}
	}

	snapshot := &model.AnalysisSnapshot{
		ID:          uuid.NewString(),
		GroupID:     groupID,
		Fingerprint: fp,
		Result:      groupReading(result),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	log.Info("workshop analyzed",
		zap.String("snapshot_id", snapshot.ID),
		zap.Int("respondents", result.RespondentCount),
		zap.Stringer("zone_by_average", result.ZoneByAverage),
		zap.Stringer("zone_by_count", result.ZoneByCount),
		zap.Bool("divergent", result.Divergent),
	)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToGroup(groupID, EventAnalysisReady, AnalysisReadyEvent{
			GroupID:         groupID,
			SnapshotID:      snapshot.ID,
			RespondentCount: result.RespondentCount,
			ZoneByAverage:   result.ZoneByAverage,
			ZoneByCount:     result.ZoneByCount,
			Divergent:       result.Divergent,
		})
	}
	return result, nil
}

// Latest returns the stored group reading of a workshop
func (s *AnalysisService) Latest(ctx context.Context, groupID string) (*model.AnalysisSnapshot, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, ErrMissingGroupID
	}
	snapshot, err := s.snapshots.GetLatest(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, ErrSnapshotNotFound
	}
	return snapshot, nil
}

// Classify scores one respondent for live feedback. Nothing is stored.
func (s *AnalysisService) Classify(record model.RosterRecord) model.RespondentResult {
	return s.engine.Classify(record)
}

// Instrument describes the questionnaire and scale in use
func (s *AnalysisService) Instrument() model.Instrument {
	return s.engine.Instrument()
}

func (s *AnalysisService) cached(ctx context.Context, log *zap.Logger, groupID, fp string) *model.GroupAnalysisResult {
	if s.cache == nil {
		return nil
	}
	result, err := s.cache.Get(ctx, groupID, fp)
	if err != nil {
		log.Warn("analysis cache unavailable", zap.Error(err))
		return nil
	}
	return result
}

// fingerprint identifies a roster under the current scoring configuration
func (s *AnalysisService) fingerprint(groupID string, roster []model.RosterRecord) (string, error) {
	data, err := json.Marshal(roster)
	if err != nil {
		return "", fmt.Errorf("encode roster: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(s.engine.Signature()))
	h.Write([]byte{0})
	h.Write([]byte(groupID))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// groupReading drops the per-respondent breakdown so snapshots never hold
// respondent records
func groupReading(r *model.GroupAnalysisResult) model.GroupAnalysisResult {
	out := *r
	out.Respondents = []model.RespondentResult{}
	return out
}
