package scoring

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"workshopzones/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	ErrInvalidItem     = errors.New("invalid item definition")
	ErrDuplicateItem   = errors.New("duplicate item id")
	ErrEmptyCategory   = errors.New("category has no items")
	ErrUnbalanced      = errors.New("categories have unequal item counts")
	ErrEmptyInstrument = errors.New("instrument has no items")
)

// QuestionMap is the single authoritative item -> category table.
// It is immutable once built.
type QuestionMap struct {
	items []model.ItemDefinition
	byID  map[string]model.ItemDefinition
	count [4]int
}

// NewQuestionMap validates items and builds a map. Item ids are canonicalized
// with CanonicalItemID. Every category must own the same, non-zero number of items.
func NewQuestionMap(items []model.ItemDefinition) (*QuestionMap, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInstrument
	}

	qm := &QuestionMap{
		items: make([]model.ItemDefinition, 0, len(items)),
		byID:  make(map[string]model.ItemDefinition, len(items)),
	}
	for _, it := range items {
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidItem, it.ItemID, err)
		}
		it.ItemID = CanonicalItemID(it.ItemID)
		if _, dup := qm.byID[it.ItemID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, it.ItemID)
		}
		qm.byID[it.ItemID] = it
		qm.items = append(qm.items, it)
		qm.count[it.Category.Index()]++
	}

	for i, c := range model.CanonicalOrder {
		if qm.count[i] == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyCategory, c)
		}
		if qm.count[i] != qm.count[0] {
			return nil, fmt.Errorf("%w: %s has %d, A has %d", ErrUnbalanced, c, qm.count[i], qm.count[0])
		}
	}
	return qm, nil
}

// Lookup returns the definition for itemID. Unknown items report false.
func (q *QuestionMap) Lookup(itemID string) (model.ItemDefinition, bool) {
	it, ok := q.byID[CanonicalItemID(itemID)]
	return it, ok
}

// Items returns a copy of the definitions in instrument order
func (q *QuestionMap) Items() []model.ItemDefinition {
	out := make([]model.ItemDefinition, len(q.items))
	copy(out, q.items)
	return out
}

// Len is the number of items in the instrument
func (q *QuestionMap) Len() int { return len(q.items) }

// CategorySize is the number of items mapped to c
func (q *QuestionMap) CategorySize(c model.Category) int {
	if i := c.Index(); i >= 0 {
		return q.count[i]
	}
	return 0
}

type instrumentFile struct {
	Items []model.ItemDefinition `yaml:"items"`
}

// LoadQuestionMap reads a YAML instrument:
//
//	items:
//	  - id: q1
//	    category: A
//	    reversed: false
func LoadQuestionMap(r io.Reader) (*QuestionMap, error) {
	var f instrumentFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode instrument: %w", err)
	}
	return NewQuestionMap(f.Items)
}

// CanonicalItemID lower-cases and trims an item id. Bare or q-prefixed
// numbers become "q<n>" so "Q07", "7" and "q7" all name the same item.
func CanonicalItemID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	digits := strings.TrimPrefix(s, "q")
	if digits == "" {
		return s
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || strings.ContainsAny(digits, "+-") {
		return s
	}
	return "q" + strconv.Itoa(n)
}

// DefaultQuestionMap returns the 36-item instrument, 9 items per category.
var DefaultQuestionMap = sync.OnceValue(func() *QuestionMap {
	qm, err := NewQuestionMap(defaultItems)
	if err != nil {
		panic(fmt.Sprintf("default instrument: %v", err))
	}
	return qm
})

// Items rotate A, B, C, D; two items per category are reverse-coded.
var defaultItems = []model.ItemDefinition{
	{ItemID: "q1", Category: model.CategoryA},
	{ItemID: "q2", Category: model.CategoryB},
	{ItemID: "q3", Category: model.CategoryC},
	{ItemID: "q4", Category: model.CategoryD},
	{ItemID: "q5", Category: model.CategoryA},
	{ItemID: "q6", Category: model.CategoryB},
	{ItemID: "q7", Category: model.CategoryC, Reversed: true},
	{ItemID: "q8", Category: model.CategoryD},
	{ItemID: "q9", Category: model.CategoryA, Reversed: true},
	{ItemID: "q10", Category: model.CategoryB},
	{ItemID: "q11", Category: model.CategoryC},
	{ItemID: "q12", Category: model.CategoryD},
	{ItemID: "q13", Category: model.CategoryA},
	{ItemID: "q14", Category: model.CategoryB, Reversed: true},
	{ItemID: "q15", Category: model.CategoryC},
	{ItemID: "q16", Category: model.CategoryD},
	{ItemID: "q17", Category: model.CategoryA},
	{ItemID: "q18", Category: model.CategoryB},
	{ItemID: "q19", Category: model.CategoryC},
	{ItemID: "q20", Category: model.CategoryD, Reversed: true},
	{ItemID: "q21", Category: model.CategoryA},
	{ItemID: "q22", Category: model.CategoryB},
	{ItemID: "q23", Category: model.CategoryC, Reversed: true},
	{ItemID: "q24", Category: model.CategoryD},
	{ItemID: "q25", Category: model.CategoryA, Reversed: true},
	{ItemID: "q26", Category: model.CategoryB},
	{ItemID: "q27", Category: model.CategoryC},
	{ItemID: "q28", Category: model.CategoryD},
	{ItemID: "q29", Category: model.CategoryA},
	{ItemID: "q30", Category: model.CategoryB, Reversed: true},
	{ItemID: "q31", Category: model.CategoryC},
	{ItemID: "q32", Category: model.CategoryD},
	{ItemID: "q33", Category: model.CategoryA},
	{ItemID: "q34", Category: model.CategoryB},
	{ItemID: "q35", Category: model.CategoryC},
	{ItemID: "q36", Category: model.CategoryD, Reversed: true},
}
