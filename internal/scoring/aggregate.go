package scoring

import "workshopzones/internal/model"

// MeanOfMeans averages the score vectors of valid respondents (any non-zero
// category) and classifies the result once. Respondents are summed in slice
// order so repeated calls give bit-identical output.
func MeanOfMeans(results []model.RespondentResult, epsilon float64) (model.CategoryScores, model.ZoneAssignment, int) {
	var (
		sum   [4]float64
		valid int
	)
	for _, r := range results {
		if r.Scores.IsZero() {
			continue
		}
		valid++
		for i, c := range model.CanonicalOrder {
			sum[i] += r.Scores.Get(c)
		}
	}
	if valid == 0 {
		return model.CategoryScores{}, model.Undetermined(), 0
	}

	var group model.CategoryScores
	for i, c := range model.CanonicalOrder {
		group = group.With(c, sum[i]/float64(valid))
	}
	return group, Classify(group, epsilon), valid
}

// TallyVotes counts single-zone votes and classifies the plurality. Tied and
// undetermined votes are ignored. voting is the number of counted votes.
func TallyVotes(votes []model.ZoneAssignment) (counts model.ZoneCounts, zone model.ZoneAssignment, voting int) {
	for _, v := range votes {
		c, ok := v.Dominant()
		if !ok {
			continue
		}
		counts = counts.Inc(c)
		voting++
	}
	return counts, ClassifyCounts(counts), voting
}
