package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"workshopzones/internal/model"
)

// maxAnswer bounds accepted magnitudes before int conversion
const maxAnswer = 1e9

// NormalizeAnswers turns whatever the roster source delivered into a
// RawResponse keyed by canonical item id. Accepted shapes are keyed objects
// and positional arrays (index i answers item q<i+1>). Values may be
// integers, integral floats, json.Number or numeric strings; anything else
// is treated as unanswered and left out.
func NormalizeAnswers(answers any) model.RawResponse {
	switch a := answers.(type) {
	case nil:
		return model.RawResponse{}
	case model.RawResponse:
		return normalizeKeyed(len(a), func(yield func(string, any)) {
			for k, v := range a {
				yield(k, v)
			}
		})
	case map[string]int:
		return normalizeKeyed(len(a), func(yield func(string, any)) {
			for k, v := range a {
				yield(k, v)
			}
		})
	case map[string]any:
		return normalizeKeyed(len(a), func(yield func(string, any)) {
			for k, v := range a {
				yield(k, v)
			}
		})
	case map[any]any:
		// yaml.v3 decodes mappings with non-string keys (answers: {1: 5}) this way
		return normalizeKeyed(len(a), func(yield func(string, any)) {
			for k, v := range a {
				yield(fmt.Sprint(k), v)
			}
		})
	case []int:
		out := make(model.RawResponse, len(a))
		for i, v := range a {
			out[positionalID(i)] = v
		}
		return out
	case []any:
		out := make(model.RawResponse, len(a))
		for i, raw := range a {
			if v, ok := toAnswer(raw); ok {
				out[positionalID(i)] = v
			}
		}
		return out
	}
	return model.RawResponse{}
}

func positionalID(i int) string {
	return "q" + strconv.Itoa(i+1)
}

type keyedAnswer struct {
	raw   string
	value int
}

// normalizeKeyed canonicalizes keys. When several raw keys collapse onto the
// same canonical id, an exact canonical key wins, otherwise the smallest raw
// key in byte order.
func normalizeKeyed(n int, each func(yield func(string, any))) model.RawResponse {
	byID := make(map[string][]keyedAnswer, n)
	each(func(k string, raw any) {
		v, ok := toAnswer(raw)
		if !ok {
			return
		}
		id := CanonicalItemID(k)
		byID[id] = append(byID[id], keyedAnswer{raw: k, value: v})
	})

	out := make(model.RawResponse, len(byID))
	for id, cands := range byID {
		if len(cands) > 1 {
			sort.Slice(cands, func(i, j int) bool {
				ei, ej := cands[i].raw == id, cands[j].raw == id
				if ei != ej {
					return ei
				}
				return cands[i].raw < cands[j].raw
			})
		}
		out[id] = cands[0].value
	}
	return out
}

func toAnswer(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return fromFloat(float64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return fromFloat(float64(v))
	case uint64:
		return fromFloat(float64(v))
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	}
	return 0, false
}

// fromFloat accepts finite integral values of sane magnitude
func fromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxAnswer || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
