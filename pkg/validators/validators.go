package validators

import (
	"fmt"
	"math"
	"net/netip"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	gvalidator "github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formvalidator/pkg/events"
	"github.com/goliatone/go-formvalidator/pkg/forms"
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// Failure kinds produced by this package.
const (
	KindMin        = "min"
	KindMax        = "max"
	KindRequired   = "required"
	KindEmail      = "email"
	KindMinLength  = "minlength"
	KindMaxLength  = "maxlength"
	KindPattern    = "pattern"
	KindRange      = "range"
	KindURL        = "url"
	KindEqual      = "equal"
	KindEqualTo    = "equalTo"
	KindWhitespace = "whitespace"
)

// checker is the shared go-playground instance used for format checks.
var checker = gvalidator.New()

func fail(kind string, detail model.Detail, message []string) model.Failures {
	if detail == nil {
		detail = model.Detail{}
	}
	if msg := firstMessage(message); msg != "" {
		detail[model.MessageKey] = msg
	}
	return model.Failures{{Kind: kind, Detail: detail}}
}

func firstMessage(message []string) string {
	for _, m := range message {
		if strings.TrimSpace(m) != "" {
			return m
		}
	}
	return ""
}

// Min requires a numeric value greater than or equal to min.
func Min(min float64, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) {
			return nil
		}
		n, ok := toFloat(value)
		if !ok || n >= min {
			return nil
		}
		return fail(KindMin, model.Detail{"min": min, "actual": value}, message)
	}
}

// Max requires a numeric value less than or equal to max.
func Max(max float64, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) {
			return nil
		}
		n, ok := toFloat(value)
		if !ok || n <= max {
			return nil
		}
		return fail(KindMax, model.Detail{"max": max, "actual": value}, message)
	}
}

// Required rejects nil, empty strings and empty collections.
func Required(message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		if !IsEmpty(c.Value()) {
			return nil
		}
		return fail(KindRequired, nil, message)
	}
}

// RequiredTrue requires the value to be the boolean true. It reports the
// "required" kind.
func RequiredTrue(message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		if v, ok := c.Value().(bool); ok && v {
			return nil
		}
		return fail(KindRequired, nil, message)
	}
}

// Email requires a syntactically valid address.
func Email(message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) {
			return nil
		}
		if checker.Var(fmt.Sprint(value), "email") == nil {
			return nil
		}
		return fail(KindEmail, nil, message)
	}
}

// MinLength requires at least n characters or elements.
func MinLength(n int, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		length, ok := lengthOf(c.Value())
		if !ok || length == 0 || length >= n {
			return nil
		}
		return fail(KindMinLength, model.Detail{"requiredLength": n, "actualLength": length}, message)
	}
}

// MaxLength allows at most n characters or elements.
func MaxLength(n int, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		length, ok := lengthOf(c.Value())
		if !ok || length <= n {
			return nil
		}
		return fail(KindMaxLength, model.Detail{"requiredLength": n, "actualLength": length}, message)
	}
}

// Pattern requires the whole value to match expr. Anchors are added when
// missing. An invalid expression panics, like regexp.MustCompile.
func Pattern(expr string, message ...string) forms.ValidatorFn {
	anchored := expr
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	re := regexp.MustCompile(anchored)
	return PatternRegexp(re, message...)
}

// PatternRegexp requires value to match re as given.
func PatternRegexp(re *regexp.Regexp, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) {
			return nil
		}
		text := fmt.Sprint(value)
		if re.MatchString(text) {
			return nil
		}
		return fail(KindPattern, model.Detail{"requiredPattern": re.String(), "actualValue": text}, message)
	}
}

// Range requires a numeric value within [min, max]. Non-numeric values pass.
func Range(min, max float64, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) {
			return nil
		}
		n, ok := toFloat(value)
		if !ok || (n >= min && n <= max) {
			return nil
		}
		return fail(KindRange, model.Detail{"range": []float64{min, max}, "min": min, "max": max, "actual": value}, message)
	}
}

// urlPattern accepts http, https and ftp URLs, or protocol-relative ones,
// whose host is a dotted IPv4 address or a name with an alphabetic TLD.
var urlPattern = regexp.MustCompile(`(?i)^(?:(?:https?|ftp):)?//(?:\S+(?::\S*)?@)?` +
	`(?:(?P<ip>(?:[1-9]\d?|1\d\d|2[01]\d|22[0-3])(?:\.(?:1?\d{1,2}|2[0-4]\d|25[0-5])){2}\.(?:[1-9]\d?|1\d\d|2[0-4]\d|25[0-4]))` +
	`|(?:(?:[a-z\x{00a1}-\x{ffff}0-9]-*)*[a-z\x{00a1}-\x{ffff}0-9]+)(?:\.(?:[a-z\x{00a1}-\x{ffff}0-9]-*)*[a-z\x{00a1}-\x{ffff}0-9]+)*\.[a-z\x{00a1}-\x{ffff}]{2,}\.?)` +
	`(?::\d{2,5})?(?:[/?#]\S*)?$`)

var urlIPGroup = urlPattern.SubexpIndex("ip")

// URL requires an http, https or ftp URL (or a protocol-relative one) with a
// public host. Loopback, private and link-local IPv4 hosts fail.
func URL(message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) {
			return nil
		}
		if validURL(fmt.Sprint(value)) {
			return nil
		}
		return fail(KindURL, nil, message)
	}
}

func validURL(raw string) bool {
	match := urlPattern.FindStringSubmatch(raw)
	if match == nil {
		return false
	}
	ip := match[urlIPGroup]
	if ip == "" {
		return true
	}
	if checker.Var(ip, "ipv4") != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return !addr.IsLoopback() && !addr.IsPrivate() && !addr.IsLinkLocalUnicast()
}

// Equal requires the value to equal want.
func Equal(want any, message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if IsEmpty(value) || IsEmpty(want) || reflect.DeepEqual(value, want) {
			return nil
		}
		return fail(KindEqual, model.Detail{"requiredValue": want, "actual": value}, message)
	}
}

// EqualTo requires the value to equal the control at path, resolved from the
// root group. The first evaluation subscribes to the other control so this
// control is revalidated whenever it changes.
func EqualTo(path string, message ...string) forms.ValidatorFn {
	var sub events.Subscription
	return func(c forms.AbstractControl) model.Failures {
		root, ok := c.Root().(*forms.Group)
		if !ok || strings.TrimSpace(path) == "" {
			return nil
		}
		other := root.Get(path)
		if other == nil {
			return nil
		}
		if sub == nil {
			sub = other.ValueChanges().Subscribe(func(any) {
				c.UpdateValueAndValidity()
			})
		}
		value := c.Value()
		if IsEmpty(value) || reflect.DeepEqual(value, other.Value()) {
			return nil
		}
		return fail(KindEqualTo, model.Detail{"requiredValue": other.Value(), "actual": value}, message)
	}
}

// NoWhitespace rejects values that are empty once trimmed.
func NoWhitespace(message ...string) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		value := c.Value()
		if value != nil && strings.TrimSpace(fmt.Sprint(value)) != "" {
			return nil
		}
		return fail(KindWhitespace, nil, message)
	}
}

// Compose merges the failures of several validators in order.
func Compose(validators ...forms.ValidatorFn) forms.ValidatorFn {
	return func(c forms.AbstractControl) model.Failures {
		sets := make([]model.Failures, 0, len(validators))
		for _, validate := range validators {
			if validate != nil {
				sets = append(sets, validate(c))
			}
		}
		return model.Merge(sets...)
	}
}

// IsEmpty reports whether value counts as "no input": nil, an empty string,
// or an empty slice, array or map.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func lengthOf(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
