package forms

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formvalidator/pkg/model"
)

func requiredFn(c AbstractControl) model.Failures {
	if v, _ := c.Value().(string); v == "" {
		return model.Failures{{Kind: "required"}}
	}
	return nil
}

func TestControlValidatesOnConstructionAndSetValue(t *testing.T) {
	c := NewControl("", requiredFn)
	if !c.Invalid() || !c.Errors().Has("required") {
		t.Fatalf("expected required failure at construction")
	}

	var statuses []model.Status
	var values []any
	c.StatusChanges().Subscribe(func(s model.Status) { statuses = append(statuses, s) })
	c.ValueChanges().Subscribe(func(v any) { values = append(values, v) })

	c.Input("ada")
	if !c.Valid() || !c.Dirty() {
		t.Fatalf("expected valid dirty control, got %s dirty=%v", c.Status(), c.Dirty())
	}
	if diff := cmp.Diff([]model.Status{model.StatusValid}, statuses); diff != "" {
		t.Fatalf("status notifications (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"ada"}, values); diff != "" {
		t.Fatalf("value notifications (-want +got):\n%s", diff)
	}
}

func TestGroupAggregatesChildren(t *testing.T) {
	name := NewControl("", requiredFn)
	city := NewControl("Paris")
	address := NewGroup().Add("city", city)
	form := NewGroup().Add("name", name).Add("address", address)

	if !form.Invalid() {
		t.Fatalf("expected invalid group while a child is invalid")
	}
	want := map[string]any{"name": "", "address": map[string]any{"city": "Paris"}}
	if diff := cmp.Diff(want, form.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	var groupValues int
	form.ValueChanges().Subscribe(func(any) { groupValues++ })

	name.Input("Ada")
	if !form.Valid() {
		t.Fatalf("expected valid group")
	}
	if groupValues != 1 {
		t.Fatalf("expected one group value notification, got %d", groupValues)
	}
	if !form.Dirty() {
		t.Fatalf("expected dirtiness to propagate")
	}

	if form.Get("address.city") != city {
		t.Fatalf("expected dotted lookup")
	}
	if form.Get("address.zip") != nil || form.Get("name.first") != nil {
		t.Fatalf("expected nil for unknown paths")
	}
	if city.Root() != form {
		t.Fatalf("expected root to be the outer form")
	}
	if diff := cmp.Diff([]string{"name", "address"}, form.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrorsRefreshesWithoutRevalidating(t *testing.T) {
	runs := 0
	confirm := NewControl("x")
	form := NewGroup(func(AbstractControl) model.Failures {
		runs++
		return nil
	}).Add("confirm", confirm)
	runs = 0

	var statuses []model.Status
	form.StatusChanges().Subscribe(func(s model.Status) { statuses = append(statuses, s) })

	confirm.SetErrors(model.Failures{{Kind: "passwordMismatch"}})

	if runs != 0 {
		t.Fatalf("group validators ran %d times", runs)
	}
	if !confirm.Invalid() || !form.Invalid() {
		t.Fatalf("expected invalid control and group")
	}
	if diff := cmp.Diff([]model.Status{model.StatusInvalid}, statuses); diff != "" {
		t.Fatalf("group status notifications (-want +got):\n%s", diff)
	}
}

func TestGroupValidatorSettingChildErrors(t *testing.T) {
	password := NewControl("")
	confirm := NewControl("")
	match := func(c AbstractControl) model.Failures {
		g := c.(*Group)
		p, cp := g.Control("password"), g.Control("confirm")
		if p == nil || cp == nil {
			return nil
		}
		if p.Value() != cp.Value() {
			cp.SetErrors(model.Failures{{Kind: "passwordMismatch", Detail: model.Detail{"message": "Confirm password not match"}}})
		} else {
			cp.SetErrors(nil)
		}
		return nil
	}
	form := NewGroup(match).Add("password", password).Add("confirm", confirm)

	password.Input("secret")
	if !confirm.Errors().Has("passwordMismatch") || !form.Invalid() {
		t.Fatalf("expected mismatch on confirm")
	}

	confirm.Input("secret")
	// confirm's own validators clear its errors; the group validator then agrees.
	if !confirm.Valid() || !form.Valid() {
		t.Fatalf("expected valid form, got confirm=%s form=%s", confirm.Status(), form.Status())
	}
}

func TestDisableExcludesControl(t *testing.T) {
	name := NewControl("", requiredFn)
	form := NewGroup().Add("name", name).Add("nick", NewControl("n"))

	name.Disable()
	if name.Status() != model.StatusDisabled || name.Errors() != nil {
		t.Fatalf("expected disabled control without errors")
	}
	if !form.Valid() {
		t.Fatalf("expected group valid with disabled child")
	}
	if diff := cmp.Diff(map[string]any{"nick": "n"}, form.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	name.Enable()
	if !form.Invalid() {
		t.Fatalf("expected invalid group after enable")
	}
}

func TestSubmittedTouchedAndReset(t *testing.T) {
	name := NewControl("a", requiredFn)
	inner := NewGroup().Add("city", NewControl(""))
	form := NewGroup().Add("name", name).Add("address", inner)

	form.MarkSubmitted()
	form.MarkAllAsTouched()
	name.Input("")

	if !form.Submitted() || !name.Touched() || !inner.Control("city").Touched() {
		t.Fatalf("expected submitted form with touched children")
	}

	form.Reset()
	if form.Submitted() || name.Touched() || name.Dirty() || name.Value() != "a" {
		t.Fatalf("expected reset state, got submitted=%v touched=%v dirty=%v value=%v",
			form.Submitted(), name.Touched(), name.Dirty(), name.Value())
	}
	if !form.Valid() {
		t.Fatalf("expected valid form after reset")
	}
}

func TestAddDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewGroup().Add("a", NewControl(nil)).Add("a", NewControl(nil))
}
