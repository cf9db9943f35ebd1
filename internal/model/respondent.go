package model

import "time"

// ItemDefinition maps one questionnaire item to its category
type ItemDefinition struct {
	ItemID   string   `json:"itemId" yaml:"id" validate:"required"`
	Category Category `json:"category" yaml:"category" validate:"required,oneof=A B C D"`
	Reversed bool     `json:"reversed" yaml:"reversed"` // scored as (min+max) - value
}

// RawResponse is one respondent's answers keyed by canonical item id
type RawResponse map[string]int

// RosterRecord is a respondent as delivered by the upstream roster source
type RosterRecord struct {
	RespondentID string    `json:"respondentId,omitempty" yaml:"respondentId,omitempty"`
	Email        string    `json:"email,omitempty" yaml:"email,omitempty"` // identity key
	Name         string    `json:"name" yaml:"name"`
	Answers      any       `json:"answers,omitempty" yaml:"answers,omitempty"` // keyed object or positional array
	Zone         string    `json:"zone,omitempty" yaml:"zone,omitempty"`       // precomputed label from the store
	SubmittedAt  time.Time `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
}

// RespondentResult is the per-respondent classification
type RespondentResult struct {
	RespondentID  string         `json:"respondentId" bson:"respondentId" yaml:"respondentId"`
	Name          string         `json:"name" bson:"name" yaml:"name"`
	Scores        CategoryScores `json:"scores" bson:"scores" yaml:"scores"`
	Zone          ZoneAssignment `json:"zone" bson:"zone" yaml:"zone"`
	AnsweredItems int            `json:"answeredItems" bson:"answeredItems" yaml:"answeredItems"`
	StoredLabel   Category       `json:"storedLabel,omitempty" bson:"storedLabel,omitempty" yaml:"storedLabel,omitempty"`
}
