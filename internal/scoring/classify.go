package scoring

import "workshopzones/internal/model"

// DefaultEpsilon is the tie tolerance for averaged scores
const DefaultEpsilon = 0.01

// tieSlack absorbs representation error so a gap of exactly epsilon ties
// whatever the operands
const tieSlack = 1e-9

// Classify picks the dominant zone of a score vector. Every category within
// epsilon of the maximum qualifies, boundary included; an all-zero vector is
// undetermined.
func Classify(s model.CategoryScores, epsilon float64) model.ZoneAssignment {
	top := s.Max()
	if top <= 0 {
		return model.Undetermined()
	}

	qualified := make([]model.Category, 0, len(model.CanonicalOrder))
	for _, c := range model.CanonicalOrder {
		if top-s.Get(c) <= epsilon+tieSlack {
			qualified = append(qualified, c)
		}
	}
	return model.Tied(qualified...)
}

// ClassifyCounts picks the plurality zone of a tally. Counts are exact, so
// ties are strict equality.
func ClassifyCounts(z model.ZoneCounts) model.ZoneAssignment {
	top := 0
	for _, c := range model.CanonicalOrder {
		if n := z.Get(c); n > top {
			top = n
		}
	}
	if top == 0 {
		return model.Undetermined()
	}

	var winners []model.Category
	for _, c := range model.CanonicalOrder {
		if z.Get(c) == top {
			winners = append(winners, c)
		}
	}
	return model.Tied(winners...)
}
