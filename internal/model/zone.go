package model

import "strings"

// Category is one of the four behavioral zones
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
	CategoryD Category = "D"
)

// CanonicalOrder is the fixed ordering used for tied sets and output
var CanonicalOrder = [4]Category{CategoryA, CategoryB, CategoryC, CategoryD}

// Index returns the canonical position of the category, or -1 if unknown
func (c Category) Index() int {
	switch c {
	case CategoryA:
		return 0
	case CategoryB:
		return 1
	case CategoryC:
		return 2
	case CategoryD:
		return 3
	}
	return -1
}

// Valid reports whether c is one of the four canonical categories
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// ParseCategory accepts "A", " b ", "zone C" and similar spellings
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimSpace(strings.TrimPrefix(s, "ZONE"))
	c := Category(s)
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// ZoneKind tags which variant a ZoneAssignment holds
type ZoneKind string

const (
	ZoneUndetermined ZoneKind = "undetermined" // no usable data
	ZoneSingle       ZoneKind = "single"       // exactly one dominant category
	ZoneTied         ZoneKind = "tied"         // two or more categories share the maximum
)

// ZoneAssignment is the result of classifying a score vector or a tally.
// Build it with Undetermined, Single or Tied; Zones is always in canonical order.
type ZoneAssignment struct {
	Kind  ZoneKind   `json:"kind" bson:"kind" yaml:"kind"`
	Zones []Category `json:"zones" bson:"zones" yaml:"zones"`
}

// Undetermined returns the "no usable data" assignment
func Undetermined() ZoneAssignment {
	return ZoneAssignment{Kind: ZoneUndetermined, Zones: []Category{}}
}

// Single returns an assignment with one dominant category
func Single(c Category) ZoneAssignment {
	return ZoneAssignment{Kind: ZoneSingle, Zones: []Category{c}}
}

// Tied returns the assignment for a set of categories. Duplicates and unknown
// categories are dropped; a set that collapses to one category becomes Single
// and an empty set becomes Undetermined.
func Tied(cs ...Category) ZoneAssignment {
	var present [4]bool
	for _, c := range cs {
		if i := c.Index(); i >= 0 {
			present[i] = true
		}
	}
	zones := make([]Category, 0, len(CanonicalOrder))
	for i, c := range CanonicalOrder {
		if present[i] {
			zones = append(zones, c)
		}
	}
	switch len(zones) {
	case 0:
		return Undetermined()
	case 1:
		return Single(zones[0])
	}
	return ZoneAssignment{Kind: ZoneTied, Zones: zones}
}

// Dominant returns the single category when the assignment is not tied or undetermined
func (z ZoneAssignment) Dominant() (Category, bool) {
	if z.Kind != ZoneSingle || len(z.Zones) != 1 {
		return "", false
	}
	return z.Zones[0], true
}

// Contains reports whether c is part of the assignment
func (z ZoneAssignment) Contains(c Category) bool {
	for _, zc := range z.Zones {
		if zc == c {
			return true
		}
	}
	return false
}

// Equal compares kind and categories
func (z ZoneAssignment) Equal(o ZoneAssignment) bool {
	if z.Kind != o.Kind || len(z.Zones) != len(o.Zones) {
		return false
	}
	for i := range z.Zones {
		if z.Zones[i] != o.Zones[i] {
			return false
		}
	}
	return true
}

// String renders "A", "A+C" or "undetermined"
func (z ZoneAssignment) String() string {
	if z.Kind == ZoneUndetermined || len(z.Zones) == 0 {
		return string(ZoneUndetermined)
	}
	parts := make([]string, len(z.Zones))
	for i, c := range z.Zones {
		parts[i] = string(c)
	}
	return strings.Join(parts, "+")
}

// CategoryScores holds one mean score per category. 0 means no answered items.
type CategoryScores struct {
	A float64 `json:"A" bson:"a" yaml:"A"`
	B float64 `json:"B" bson:"b" yaml:"B"`
	C float64 `json:"C" bson:"c" yaml:"C"`
	D float64 `json:"D" bson:"d" yaml:"D"`
}

// Get returns the score for c, 0 for unknown categories
func (s CategoryScores) Get(c Category) float64 {
	switch c {
	case CategoryA:
		return s.A
	case CategoryB:
		return s.B
	case CategoryC:
		return s.C
	case CategoryD:
		return s.D
	}
	return 0
}

// With returns a copy of s with the score for c replaced
func (s CategoryScores) With(c Category, v float64) CategoryScores {
	switch c {
	case CategoryA:
		s.A = v
	case CategoryB:
		s.B = v
	case CategoryC:
		s.C = v
	case CategoryD:
		s.D = v
	}
	return s
}

// IsZero reports whether no category carries any data
func (s CategoryScores) IsZero() bool {
	return s.A == 0 && s.B == 0 && s.C == 0 && s.D == 0
}

// Max returns the highest category score
func (s CategoryScores) Max() float64 {
	m := s.A
	for _, v := range [...]float64{s.B, s.C, s.D} {
		if v > m {
			m = v
		}
	}
	return m
}

// ZoneCounts tallies individual dominant zones per category
type ZoneCounts struct {
	A int `json:"A" bson:"a" yaml:"A"`
	B int `json:"B" bson:"b" yaml:"B"`
	C int `json:"C" bson:"c" yaml:"C"`
	D int `json:"D" bson:"d" yaml:"D"`
}

// Get returns the count for c
func (z ZoneCounts) Get(c Category) int {
	switch c {
	case CategoryA:
		return z.A
	case CategoryB:
		return z.B
	case CategoryC:
		return z.C
	case CategoryD:
		return z.D
	}
	return 0
}

// Inc returns a copy of z with c incremented
func (z ZoneCounts) Inc(c Category) ZoneCounts {
	switch c {
	case CategoryA:
		z.A++
	case CategoryB:
		z.B++
	case CategoryC:
		z.C++
	case CategoryD:
		z.D++
	}
	return z
}

// Total is the number of respondents that cast a single-zone vote
func (z ZoneCounts) Total() int {
	return z.A + z.B + z.C + z.D
}
