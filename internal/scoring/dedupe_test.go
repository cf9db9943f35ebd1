package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopzones/internal/model"
)

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "email:ann@example.com", IdentityKey(model.RosterRecord{Email: "  Ann@Example.com ", RespondentID: "r1"}))
	assert.Equal(t, "id:r1", IdentityKey(model.RosterRecord{RespondentID: " r1"}))
	assert.Empty(t, IdentityKey(model.RosterRecord{Name: "anon"}))
}

func TestDedupe(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	roster := []model.RosterRecord{
		{Email: "ann@example.com", Name: "Ann v1", SubmittedAt: t0},
		{Email: "bob@example.com", Name: "Bob"},
		{Name: "anon 1"},
		{Email: "ANN@example.com", Name: "Ann v2", SubmittedAt: t0.Add(time.Hour)},
		{Name: "anon 2"},
		{Email: "ann@example.com", Name: "Ann v0", SubmittedAt: t0.Add(-time.Hour)},
		{Email: "bob@example.com", Name: "Bob again"},
	}

	got := Dedupe(roster)
	require.Len(t, got, 4)
	assert.Equal(t, "Ann v2", got[0].Name)
	assert.Equal(t, "Bob", got[1].Name, "first occurrence wins on equal timestamps")
	assert.Equal(t, "anon 1", got[2].Name)
	assert.Equal(t, "anon 2", got[3].Name)
}

func TestDedupe_MatchesOnEitherKey(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	roster := []model.RosterRecord{
		{Email: "gil@example.com", RespondentID: "r7", Name: "Gil v1", SubmittedAt: t0},
		{RespondentID: "r7", Name: "Gil v2", SubmittedAt: t0.Add(time.Hour)},
		{RespondentID: "r8", Name: "Hal v1", SubmittedAt: t0},
		{Email: "hal@example.com", RespondentID: "r8", Name: "Hal v2", SubmittedAt: t0.Add(time.Hour)},
		{Email: "hal@example.com", Name: "Hal v3", SubmittedAt: t0.Add(2 * time.Hour)},
	}

	got := Dedupe(roster)
	require.Len(t, got, 2)
	assert.Equal(t, "Gil v2", got[0].Name)
	assert.Equal(t, "Hal v3", got[1].Name, "email learned from a merged record still matches")
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}
