package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"workshopzones/internal/model"
)

// Options tune the engine. Zero or inconsistent values fall back to defaults.
type Options struct {
	ScaleMin int
	ScaleMax int
	Epsilon  float64
	Workers  int
	// PreferStoredLabels makes a record's precomputed zone its vote even
	// when raw answers are present.
	PreferStoredLabels bool
}

// DefaultOptions returns the 1..5 scale, 0.01 tolerance and one worker per CPU
func DefaultOptions() Options {
	return Options{
		ScaleMin: DefaultScale.Min,
		ScaleMax: DefaultScale.Max,
		Epsilon:  DefaultEpsilon,
		Workers:  runtime.GOMAXPROCS(0),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if !(Scale{Min: o.ScaleMin, Max: o.ScaleMax}).valid() {
		o.ScaleMin, o.ScaleMax = def.ScaleMin, def.ScaleMax
	}
	if o.Epsilon <= 0 || o.Epsilon >= 1 {
		o.Epsilon = def.Epsilon
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	return o
}

// Engine classifies respondents and groups against one QuestionMap.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	qm    *QuestionMap
	scale Scale
	opts  Options
}

// NewEngine builds an engine. A nil map selects DefaultQuestionMap.
func NewEngine(qm *QuestionMap, opts Options) *Engine {
	if qm == nil {
		qm = DefaultQuestionMap()
	}
	opts = opts.withDefaults()
	return &Engine{
		qm:    qm,
		scale: Scale{Min: opts.ScaleMin, Max: opts.ScaleMax},
		opts:  opts,
	}
}

func (e *Engine) QuestionMap() *QuestionMap { return e.qm }

func (e *Engine) Options() Options { return e.opts }

// Instrument describes the questionnaire this engine scores
func (e *Engine) Instrument() model.Instrument {
	return model.Instrument{
		ScaleMin: e.scale.Min,
		ScaleMax: e.scale.Max,
		Epsilon:  e.opts.Epsilon,
		Items:    e.qm.Items(),
	}
}

// Classify scores a single roster record
func (e *Engine) Classify(r model.RosterRecord) model.RespondentResult {
	scores, answered := Transform(e.qm, e.scale, NormalizeAnswers(r.Answers))
	res := model.RespondentResult{
		RespondentID:  respondentID(r),
		Name:          strings.TrimSpace(r.Name),
		Scores:        scores,
		Zone:          Classify(scores, e.opts.Epsilon),
		AnsweredItems: answered,
	}
	if c, ok := model.ParseCategory(r.Zone); ok {
		res.StoredLabel = c
	}
	return res
}

// Vote is the zone a respondent contributes to the count tally. The stored
// label stands in when there are no usable answers or when stored labels
// are preferred.
func (e *Engine) Vote(r model.RespondentResult) model.ZoneAssignment {
	if r.StoredLabel.Valid() && (r.AnsweredItems == 0 || e.opts.PreferStoredLabels) {
		return model.Single(r.StoredLabel)
	}
	return r.Zone
}

// Analyze runs the full pipeline for one group: normalize, dedup, classify
// every respondent, then compute both the mean-of-means and the vote-count
// readings. It never fails; missing data shows up as Undetermined.
func (e *Engine) Analyze(roster []model.RosterRecord, groupID string) model.GroupAnalysisResult {
	records := Dedupe(roster)
	results := make([]model.RespondentResult, len(records))

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for i := range records {
		g.Go(func() error {
			results[i] = e.Classify(records[i])
			return nil
		})
	}
	_ = g.Wait()

	votes := make([]model.ZoneAssignment, len(results))
	for i, r := range results {
		votes[i] = e.Vote(r)
	}

	groupScores, byAverage, valid := MeanOfMeans(results, e.opts.Epsilon)
	counts, byCount, voting := TallyVotes(votes)

	return model.GroupAnalysisResult{
		GroupID:               groupID,
		RespondentCount:       len(results),
		ValidRespondentCount:  valid,
		VotingRespondentCount: voting,
		GroupScores:           groupScores,
		ZoneByAverage:         byAverage,
		ZoneCounts:            counts,
		ZoneByCount:           byCount,
		Divergent:             !byAverage.Equal(byCount),
		Respondents:           results,
	}
}

// Signature identifies the scoring configuration. Two engines with the same
// signature produce the same results for the same roster.
func (e *Engine) Signature() string {
	h := sha256.New()
	fmt.Fprintf(h, "scale=%d..%d;eps=%g;stored=%t;", e.scale.Min, e.scale.Max, e.opts.Epsilon, e.opts.PreferStoredLabels)
	for _, it := range e.qm.items {
		fmt.Fprintf(h, "%s:%s:%t;", it.ItemID, it.Category, it.Reversed)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func respondentID(r model.RosterRecord) string {
	if id := strings.TrimSpace(r.RespondentID); id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(r.Email))
}
