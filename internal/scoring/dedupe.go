package scoring

import (
	"strings"

	"workshopzones/internal/model"
)

// IdentityKey is the primary dedup key of a roster record: the normalized
// email, falling back to the respondent id. Records with neither return ""
// and are never merged.
func IdentityKey(r model.RosterRecord) string {
	if keys := identityKeys(r); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// identityKeys lists every key a record can be matched on, email first
func identityKeys(r model.RosterRecord) []string {
	keys := make([]string, 0, 2)
	if email := strings.ToLower(strings.TrimSpace(r.Email)); email != "" {
		keys = append(keys, "email:"+email)
	}
	if id := strings.TrimSpace(r.RespondentID); id != "" {
		keys = append(keys, "id:"+id)
	}
	return keys
}

// Dedupe collapses records that share an email or a respondent id. The
// record with the latest SubmittedAt wins (first occurrence on ties) and
// takes the slot of the first occurrence, so output order follows the
// roster. A record matching two different earlier records merges into the
// one matched by email.
func Dedupe(roster []model.RosterRecord) []model.RosterRecord {
	out := make([]model.RosterRecord, 0, len(roster))
	slot := make(map[string]int, len(roster))
	for _, r := range roster {
		keys := identityKeys(r)
		if len(keys) == 0 {
			out = append(out, r)
			continue
		}

		var (
			i    int
			seen bool
		)
		for _, k := range keys {
			if i, seen = slot[k]; seen {
				break
			}
		}
		if !seen {
			i = len(out)
			out = append(out, r)
		} else if r.SubmittedAt.After(out[i].SubmittedAt) {
			out[i] = r
		}
		for _, k := range keys {
			if _, taken := slot[k]; !taken {
				slot[k] = i
			}
		}
	}
	return out
}
