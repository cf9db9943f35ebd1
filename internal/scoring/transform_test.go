package scoring

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopzones/internal/model"
)

func TestScale_ReverseIsInvolution(t *testing.T) {
	f := func(raw uint8) bool {
		v := DefaultScale.Min + int(raw)%(DefaultScale.Max-DefaultScale.Min+1)
		r := DefaultScale.Reverse(v)
		return DefaultScale.Contains(r) && DefaultScale.Reverse(r) == v
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestTransform_ReversedItems(t *testing.T) {
	qm := DefaultQuestionMap()

	// q1 is direct, q9 reverse-coded; both belong to A
	scores, answered := Transform(qm, DefaultScale, model.RawResponse{"q1": 5, "q9": 5})
	assert.Equal(t, 2, answered)
	assert.InDelta(t, 3.0, scores.A, 1e-9)

	scores, _ = Transform(qm, DefaultScale, model.RawResponse{"q9": 1})
	assert.InDelta(t, 5.0, scores.A, 1e-9)
}

func TestTransform_SkipsUnknownAndOutOfRange(t *testing.T) {
	qm := DefaultQuestionMap()
	resp := model.RawResponse{
		"q1":     4,
		"q5":     0,
		"q13":    6,
		"q2":     -3,
		"lead_1": 5,
	}

	scores, answered := Transform(qm, DefaultScale, resp)
	assert.Equal(t, 1, answered)
	assert.Equal(t, model.CategoryScores{A: 4}, scores)
}

func TestTransform_Empty(t *testing.T) {
	scores, answered := Transform(DefaultQuestionMap(), DefaultScale, nil)
	assert.Zero(t, answered)
	assert.True(t, scores.IsZero())
}

func TestTransform_OnlyCategoryD(t *testing.T) {
	scores, answered := Transform(DefaultQuestionMap(), DefaultScale, model.RawResponse{"q4": 4, "q20": 1})

	assert.Equal(t, 2, answered)
	assert.Zero(t, scores.A)
	assert.Zero(t, scores.B)
	assert.Zero(t, scores.C)
	assert.InDelta(t, 4.5, scores.D, 1e-9)
	assert.Equal(t, model.Single(model.CategoryD), Classify(scores, DefaultEpsilon))
}

func TestTransform_CustomScale(t *testing.T) {
	scale := Scale{Min: 1, Max: 7}
	scores, answered := Transform(DefaultQuestionMap(), scale, model.RawResponse{"q9": 7, "q1": 6})

	assert.Equal(t, 2, answered)
	// q9 reversed: 8-7 = 1
	assert.InDelta(t, 3.5, scores.A, 1e-9)
}

// Property: every category score is 0 or lies within the scale
func TestTransform_ScoresWithinScale_Property(t *testing.T) {
	qm := DefaultQuestionMap()
	f := func(vals [36]int8) bool {
		resp := make(model.RawResponse, len(vals))
		for i, v := range vals {
			resp[positionalID(i)] = int(v) % 8
		}
		scores, _ := Transform(qm, DefaultScale, resp)
		for _, c := range model.CanonicalOrder {
			s := scores.Get(c)
			if s != 0 && (s < 1 || s > 5) {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(f, nil))
}

// Property: the result does not depend on how the response map was built
func TestTransform_Deterministic_Property(t *testing.T) {
	qm := DefaultQuestionMap()
	f := func(vals [36]uint8) bool {
		fwd := make(model.RawResponse, len(vals))
		rev := make(model.RawResponse, len(vals))
		for i := range vals {
			fwd[positionalID(i)] = 1 + int(vals[i])%5
		}
		for i := len(vals) - 1; i >= 0; i-- {
			rev[positionalID(i)] = 1 + int(vals[i])%5
		}
		a, na := Transform(qm, DefaultScale, fwd)
		b, nb := Transform(qm, DefaultScale, rev)
		return a == b && na == nb && na == 36
	}
	require.NoError(t, quick.Check(f, nil))
}
