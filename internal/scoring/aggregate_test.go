package scoring

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopzones/internal/model"
)

func resultFor(s model.CategoryScores) model.RespondentResult {
	return model.RespondentResult{Scores: s, Zone: Classify(s, DefaultEpsilon)}
}

func votesOf(results []model.RespondentResult) []model.ZoneAssignment {
	out := make([]model.ZoneAssignment, len(results))
	for i, r := range results {
		out[i] = r.Zone
	}
	return out
}

func TestAggregators_WorkshopScenario(t *testing.T) {
	results := []model.RespondentResult{
		resultFor(model.CategoryScores{A: 5, B: 1, C: 1, D: 1}),
		resultFor(model.CategoryScores{A: 5, B: 1, C: 1, D: 1}),
		resultFor(model.CategoryScores{A: 1, B: 4.9, C: 1, D: 1}),
	}

	group, byAvg, valid := MeanOfMeans(results, DefaultEpsilon)
	assert.Equal(t, 3, valid)
	assert.InDelta(t, 3.6667, group.A, 1e-3)
	assert.InDelta(t, 2.3, group.B, 1e-9)
	assert.InDelta(t, 1.0, group.C, 1e-9)
	assert.InDelta(t, 1.0, group.D, 1e-9)
	assert.Equal(t, model.Single(model.CategoryA), byAvg)

	counts, byCount, voting := TallyVotes(votesOf(results))
	assert.Equal(t, model.ZoneCounts{A: 2, B: 1}, counts)
	assert.Equal(t, model.Single(model.CategoryA), byCount)
	assert.Equal(t, 3, voting)
}

func TestAggregators_CanDisagree(t *testing.T) {
	results := []model.RespondentResult{
		resultFor(model.CategoryScores{A: 5, B: 1}),
		resultFor(model.CategoryScores{A: 2, B: 2.5}),
		resultFor(model.CategoryScores{A: 2, B: 2.5}),
	}

	_, byAvg, _ := MeanOfMeans(results, DefaultEpsilon)
	_, byCount, _ := TallyVotes(votesOf(results))

	assert.Equal(t, model.Single(model.CategoryA), byAvg)
	assert.Equal(t, model.Single(model.CategoryB), byCount)
}

func TestMeanOfMeans_IgnoresEmptyRespondents(t *testing.T) {
	results := []model.RespondentResult{
		resultFor(model.CategoryScores{C: 4}),
		resultFor(model.CategoryScores{}),
		resultFor(model.CategoryScores{C: 2, D: 1}),
	}

	group, zone, valid := MeanOfMeans(results, DefaultEpsilon)
	assert.Equal(t, 2, valid)
	assert.InDelta(t, 3.0, group.C, 1e-9)
	assert.InDelta(t, 0.5, group.D, 1e-9)
	assert.Equal(t, model.Single(model.CategoryC), zone)
}

func TestMeanOfMeans_NoValidRespondents(t *testing.T) {
	for _, results := range [][]model.RespondentResult{nil, {resultFor(model.CategoryScores{})}} {
		group, zone, valid := MeanOfMeans(results, DefaultEpsilon)
		assert.Zero(t, valid)
		assert.True(t, group.IsZero())
		assert.Equal(t, model.Undetermined(), zone)
	}
}

func TestTallyVotes_SkipsTiedAndUndetermined(t *testing.T) {
	votes := []model.ZoneAssignment{
		model.Single(model.CategoryD),
		model.Tied(model.CategoryA, model.CategoryD),
		model.Undetermined(),
		model.Single(model.CategoryB),
	}

	counts, zone, voting := TallyVotes(votes)
	assert.Equal(t, model.ZoneCounts{B: 1, D: 1}, counts)
	assert.Equal(t, model.Tied(model.CategoryB, model.CategoryD), zone)
	assert.Equal(t, 2, voting)
}

func TestTallyVotes_Empty(t *testing.T) {
	counts, zone, voting := TallyVotes(nil)
	assert.Zero(t, counts.Total())
	assert.Equal(t, model.Undetermined(), zone)
	assert.Zero(t, voting)
}

// Property: shuffling the respondents changes neither group reading
func TestAggregators_OrderIndependent_Property(t *testing.T) {
	f := func(raw [][4]uint8, seed int64) bool {
		results := make([]model.RespondentResult, len(raw))
		for i, r := range raw {
			var s model.CategoryScores
			for j, c := range model.CanonicalOrder {
				if v := r[j] % 6; v > 0 {
					s = s.With(c, float64(v))
				}
			}
			results[i] = resultFor(s)
		}

		shuffled := append([]model.RespondentResult(nil), results...)
		rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		g1, z1, v1 := MeanOfMeans(results, DefaultEpsilon)
		g2, z2, v2 := MeanOfMeans(shuffled, DefaultEpsilon)
		c1, zc1, _ := TallyVotes(votesOf(results))
		c2, zc2, _ := TallyVotes(votesOf(shuffled))

		for _, c := range model.CanonicalOrder {
			if d := g1.Get(c) - g2.Get(c); d > 1e-9 || d < -1e-9 {
				return false
			}
		}
		return z1.Equal(z2) && v1 == v2 && c1 == c2 && zc1.Equal(zc2)
	}
	require.NoError(t, quick.Check(f, nil))
}
