package visibility

import (
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// Policy decides whether formatted errors should be displayed for the given
// interaction state. Policies must be pure.
type Policy func(state model.State) bool

// DefaultPolicy shows errors once the control was edited and left, or after
// the enclosing form was submitted.
func DefaultPolicy(state model.State) bool {
	return (state.Dirty && state.Touched) || state.Submitted
}

// Always shows errors whenever any exist.
func Always(model.State) bool {
	return true
}

// Never suppresses display entirely.
func Never(model.State) bool {
	return false
}

// ShouldShow reports whether errors should be displayed. Empty error sets are
// never shown; a nil policy shows any non-empty set.
func ShouldShow(errors []model.FormattedError, policy Policy, state model.State) bool {
	if len(errors) == 0 {
		return false
	}
	if policy == nil {
		return true
	}
	return policy(state)
}

// Any combines policies with logical OR. Nil entries are skipped; with no
// usable policies the result never shows.
func Any(policies ...Policy) Policy {
	return func(state model.State) bool {
		for _, policy := range policies {
			if policy != nil && policy(state) {
				return true
			}
		}
		return false
	}
}
