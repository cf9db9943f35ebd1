package model

import "time"

// GroupAnalysisResult carries both group readings side by side.
// ZoneByAverage classifies the mean of per-respondent means; ZoneByCount is the
// plurality of individual dominant zones. They can disagree.
type GroupAnalysisResult struct {
	GroupID         string `json:"groupId" bson:"groupId" yaml:"groupId"`
	RespondentCount int    `json:"respondentCount" bson:"respondentCount" yaml:"respondentCount"`
	// Respondents with a non-zero score vector
	ValidRespondentCount int `json:"validRespondentCount" bson:"validRespondentCount" yaml:"validRespondentCount"`
	// Respondents that cast a single-zone vote
	VotingRespondentCount int `json:"votingRespondentCount" bson:"votingRespondentCount" yaml:"votingRespondentCount"`

	GroupScores   CategoryScores `json:"groupScores" bson:"groupScores" yaml:"groupScores"`
	ZoneByAverage ZoneAssignment `json:"zoneByAverage" bson:"zoneByAverage" yaml:"zoneByAverage"`
	ZoneCounts    ZoneCounts     `json:"zoneCounts" bson:"zoneCounts" yaml:"zoneCounts"`
	ZoneByCount   ZoneAssignment `json:"zoneByCount" bson:"zoneByCount" yaml:"zoneByCount"`
	Divergent     bool           `json:"divergent" bson:"divergent" yaml:"divergent"`

	Respondents []RespondentResult `json:"respondents" bson:"respondents" yaml:"respondents"`
}

// AnalysisSnapshot is the stored copy of the latest analysis for a workshop.
// Only derived results are kept, never raw answers.
type AnalysisSnapshot struct {
	ID          string              `json:"id" bson:"snapshotId"`
	GroupID     string              `json:"groupId" bson:"groupId"`
	Fingerprint string              `json:"fingerprint" bson:"fingerprint"`
	Result      GroupAnalysisResult `json:"result" bson:"result"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// Instrument describes the questionnaire served to clients
type Instrument struct {
	ScaleMin int              `json:"scaleMin" yaml:"scaleMin"`
	ScaleMax int              `json:"scaleMax" yaml:"scaleMax"`
	Epsilon  float64          `json:"epsilon" yaml:"epsilon"`
	Items    []ItemDefinition `json:"items" yaml:"items"`
}
