package scoring

import "workshopzones/internal/model"

// Scale is the inclusive Likert range an answer must fall in
type Scale struct {
	Min int
	Max int
}

// DefaultScale is the 1..5 agreement scale
var DefaultScale = Scale{Min: 1, Max: 5}

// Contains reports whether v is a valid answer on the scale
func (s Scale) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Reverse maps v to its mirror position on the scale
func (s Scale) Reverse(v int) int {
	return s.Min + s.Max - v
}

func (s Scale) valid() bool {
	return s.Min >= 1 && s.Max > s.Min
}

// Transform reduces a response to per-category mean scores. Items missing
// from the map or outside the scale are skipped. answered is the number of
// items that contributed. Sums are kept as integers so the result does not
// depend on map iteration order.
func Transform(qm *QuestionMap, scale Scale, resp model.RawResponse) (scores model.CategoryScores, answered int) {
	var (
		sum   [4]int
		count [4]int
	)
	for id, v := range resp {
		it, ok := qm.Lookup(id)
		if !ok || !scale.Contains(v) {
			continue
		}
		if it.Reversed {
			v = scale.Reverse(v)
		}
		i := it.Category.Index()
		sum[i] += v
		count[i]++
		answered++
	}

	for i, c := range model.CanonicalOrder {
		if count[i] > 0 {
			scores = scores.With(c, float64(sum[i])/float64(count[i]))
		}
	}
	return scores, answered
}
