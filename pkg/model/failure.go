package model

import (
	"fmt"
	"math"
	"strconv"
)

// MessageKey is the detail entry validators use to carry an explicit message.
const MessageKey = "message"

// Detail carries the payload of a single validation failure, e.g.
// {"requiredLength": 5, "actualLength": 2}.
type Detail map[string]any

// Message returns the explicit message override embedded in the detail, if
// any. Empty strings, false, nil and numeric zeros carry no override; other
// values are printed with fmt.
func (d Detail) Message() string {
	if d == nil {
		return ""
	}
	switch v := d[MessageKey].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, _ := strconv.ParseFloat(fmt.Sprint(v), 64)
		if f == 0 || math.IsNaN(f) {
			return ""
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of the detail.
func (d Detail) Clone() Detail {
	if d == nil {
		return nil
	}
	out := make(Detail, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}

// Failure pairs a failure kind (required, minlength, ...) with its detail.
type Failure struct {
	Kind   string `json:"kind"`
	Detail Detail `json:"detail,omitempty"`
}

// Failures is the ordered set of failures reported for a control. Order is the
// order in which validators produced them; kinds are unique.
type Failures []Failure

// Empty reports whether no failures are present.
func (f Failures) Empty() bool {
	return len(f) == 0
}

// Get returns the detail recorded for kind.
func (f Failures) Get(kind string) (Detail, bool) {
	for _, failure := range f {
		if failure.Kind == kind {
			return failure.Detail, true
		}
	}
	return nil, false
}

// Has reports whether kind is present.
func (f Failures) Has(kind string) bool {
	_, ok := f.Get(kind)
	return ok
}

// Set returns a copy of f with kind recorded. Existing kinds keep their
// position and have their detail replaced.
func (f Failures) Set(kind string, detail Detail) Failures {
	out := make(Failures, 0, len(f)+1)
	replaced := false
	for _, failure := range f {
		if failure.Kind == kind {
			out = append(out, Failure{Kind: kind, Detail: detail})
			replaced = true
			continue
		}
		out = append(out, failure)
	}
	if !replaced {
		out = append(out, Failure{Kind: kind, Detail: detail})
	}
	return out
}

// Without returns a copy of f without kind.
func (f Failures) Without(kind string) Failures {
	if !f.Has(kind) {
		return f
	}
	out := make(Failures, 0, len(f)-1)
	for _, failure := range f {
		if failure.Kind != kind {
			out = append(out, failure)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Kinds lists the failure kinds in order.
func (f Failures) Kinds() []string {
	if len(f) == 0 {
		return nil
	}
	kinds := make([]string, 0, len(f))
	for _, failure := range f {
		kinds = append(kinds, failure.Kind)
	}
	return kinds
}

// Merge concatenates failure sets. Later sets win on duplicate kinds while the
// first position of a kind is kept.
func Merge(sets ...Failures) Failures {
	var out Failures
	for _, set := range sets {
		for _, failure := range set {
			out = out.Set(failure.Kind, failure.Detail)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
