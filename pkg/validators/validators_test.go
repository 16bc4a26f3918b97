package validators

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formvalidator/pkg/forms"
	"github.com/goliatone/go-formvalidator/pkg/model"
)

func run(fn forms.ValidatorFn, value any) model.Failures {
	return fn(forms.NewControl(value))
}

func TestValidators(t *testing.T) {
	cases := []struct {
		name  string
		fn    forms.ValidatorFn
		value any
		want  model.Failures
	}{
		{"min passes", Min(3), 3, nil},
		{"min fails", Min(3), 2, model.Failures{{Kind: "min", Detail: model.Detail{"min": 3.0, "actual": 2}}}},
		{"min numeric string", Min(3), "1.5", model.Failures{{Kind: "min", Detail: model.Detail{"min": 3.0, "actual": "1.5"}}}},
		{"min ignores text", Min(3), "abc", nil},
		{"min ignores empty", Min(3), "", nil},
		{"max fails", Max(10), 11, model.Failures{{Kind: "max", Detail: model.Detail{"max": 10.0, "actual": 11}}}},
		{"max passes", Max(10), 10.0, nil},
		{"required empty", Required(), "", model.Failures{{Kind: "required", Detail: model.Detail{}}}},
		{"required nil", Required(), nil, model.Failures{{Kind: "required", Detail: model.Detail{}}}},
		{"required empty slice", Required(), []string{}, model.Failures{{Kind: "required", Detail: model.Detail{}}}},
		{"required zero number", Required(), 0, nil},
		{"required message", Required("Name please"), "", model.Failures{{Kind: "required", Detail: model.Detail{"message": "Name please"}}}},
		{"required true", RequiredTrue(), true, nil},
		{"required true fails", RequiredTrue(), "true", model.Failures{{Kind: "required", Detail: model.Detail{}}}},
		{"email ok", Email(), "ada@example.com", nil},
		{"email bad", Email(), "bad@", model.Failures{{Kind: "email", Detail: model.Detail{}}}},
		{"email empty", Email(), "", nil},
		{"minlength", MinLength(5), "ab", model.Failures{{Kind: "minlength", Detail: model.Detail{"requiredLength": 5, "actualLength": 2}}}},
		{"minlength runes", MinLength(3), "héé", nil},
		{"minlength empty", MinLength(5), "", nil},
		{"maxlength", MaxLength(2), []int{1, 2, 3}, model.Failures{{Kind: "maxlength", Detail: model.Detail{"requiredLength": 2, "actualLength": 3}}}},
		{"maxlength number ignored", MaxLength(2), 12345, nil},
		{"pattern anchored", Pattern("[a-z]+"), "abc1", model.Failures{{Kind: "pattern", Detail: model.Detail{"requiredPattern": "^[a-z]+$", "actualValue": "abc1"}}}},
		{"pattern ok", Pattern("^[a-z]+$"), "abc", nil},
		{"range below", Range(1, 5, "1 to 5"), 0, model.Failures{{Kind: "range", Detail: model.Detail{
			"range": []float64{1, 5}, "min": 1.0, "max": 5.0, "actual": 0, "message": "1 to 5"}}}},
		{"range inside", Range(1, 5), "3", nil},
		{"url ok", URL(), "https://example.com/a?b=c", nil},
		{"url bad", URL("Bad link"), "example", model.Failures{{Kind: "url", Detail: model.Detail{"message": "Bad link"}}}},
		{"url rejects javascript:alert(1)", URL(), "javascript:alert(1)", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects foo:bar", URL(), "foo:bar", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects file:///etc/passwd", URL(), "file:///etc/passwd", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects http://localhost", URL(), "http://localhost", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects http://10.0.0.1", URL(), "http://10.0.0.1", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects http://192.168.1.20/admin", URL(), "http://192.168.1.20/admin", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects http://172.16.0.1", URL(), "http://172.16.0.1", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects http://127.0.0.1:8080", URL(), "http://127.0.0.1:8080", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url rejects http://169.254.0.7", URL(), "http://169.254.0.7", model.Failures{{Kind: "url", Detail: model.Detail{}}}},
		{"url accepts //example.com/x", URL(), "//example.com/x", nil},
		{"url accepts ftp://files.example.org/pub", URL(), "ftp://files.example.org/pub", nil},
		{"url accepts http://8.8.8.8", URL(), "http://8.8.8.8", nil},
		{"url accepts https://user:pw@example.co.uk:8443/p#top", URL(), "https://user:pw@example.co.uk:8443/p#top", nil},
		{"url accepts http://example.com.", URL(), "http://example.com.", nil},
		{"equal", Equal("yes"), "no", model.Failures{{Kind: "equal", Detail: model.Detail{"requiredValue": "yes", "actual": "no"}}}},
		{"equal ok", Equal("yes"), "yes", nil},
		{"whitespace", NoWhitespace("Blank"), "   ", model.Failures{{Kind: "whitespace", Detail: model.Detail{"message": "Blank"}}}},
		{"whitespace nil", NoWhitespace(), nil, model.Failures{{Kind: "whitespace", Detail: model.Detail{}}}},
		{"whitespace ok", NoWhitespace(), " a ", nil},
	}

	for _, tc := range cases {
		got := run(tc.fn, tc.value)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: failures mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestEqualToRevalidatesOnOtherChange(t *testing.T) {
	password := forms.NewControl("secret")
	confirm := forms.NewControl("")
	confirm.AddValidators(EqualTo("password", "Passwords differ"))
	forms.NewGroup().Add("password", password).Add("confirm", confirm)

	confirm.Input("secret")
	if !confirm.Valid() {
		t.Fatalf("expected confirm valid, got %v", confirm.Errors())
	}

	password.Input("changed")
	detail, ok := confirm.Errors().Get("equalTo")
	if !ok {
		t.Fatalf("expected equalTo failure after other control changed")
	}
	if diff := cmp.Diff(model.Detail{"requiredValue": "changed", "actual": "secret", "message": "Passwords differ"}, detail); diff != "" {
		t.Fatalf("detail mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeKeepsOrder(t *testing.T) {
	got := run(Compose(Required(), MinLength(3), Pattern("[0-9]+")), "ab")
	if diff := cmp.Diff([]string{"minlength", "pattern"}, got.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestIsEmpty(t *testing.T) {
	var nilMap map[string]int
	for _, v := range []any{nil, "", []int{}, nilMap} {
		if !IsEmpty(v) {
			t.Fatalf("expected %#v empty", v)
		}
	}
	for _, v := range []any{0, false, " ", []int{1}} {
		if IsEmpty(v) {
			t.Fatalf("expected %#v not empty", v)
		}
	}
}
