package render

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans rendered markup before it is attached to the document.
type Sanitizer interface {
	Sanitize(markup string) string
}

// MessageElements lists the elements message markup may contain.
var MessageElements = []string{
	"validation-messages", "mat-error", "div", "span", "p", "ul", "ol", "li",
	"small", "strong", "em", "b", "i", "br",
}

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// MessagePolicy returns the shared bluemonday policy for message markup:
// structural and inline text elements with class, role, id, aria and data
// attributes.
func MessagePolicy() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(MessageElements...)
		policy.AllowAttrs("class", "role", "id", "aria-live", "aria-atomic").Globally()
		policy.AllowDataAttributes()
		messagePolicy = policy
	})
	return messagePolicy
}

// NoSanitizer passes markup through untouched.
type NoSanitizer struct{}

// Sanitize returns markup unchanged.
func (NoSanitizer) Sanitize(markup string) string { return markup }
