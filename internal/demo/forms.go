package demo

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formvalidator/pkg/forms"
	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/validators"
)

// FormID is the id of the <form> element in every demo markup.
const FormID = "demo-form"

// FieldSpec ties a control path to its host element.
type FieldSpec struct {
	Path     string
	HostID   string
	TargetID string
	Label    string
	Secret   bool
}

// GroupSpec ties a nested group to its host element.
type GroupSpec struct {
	Name   string
	HostID string
}

// Step is one scripted interaction: type Value into the control at Path, then
// leave it.
type Step struct {
	Path  string
	Value any
}

// Form is a demo form: markup, the reactive model and how they connect.
type Form struct {
	Name      string
	Framework model.Framework
	Markup    string
	Group     *forms.Group
	Groups    []GroupSpec
	Fields    []FieldSpec
	Script    []Step
}

var builders = map[string]func() *Form{
	"simple":   simpleForm,
	"nested":   nestedForm,
	"material": materialForm,
	"plain":    plainForm,
}

// Names lists the available demo forms.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns a fresh instance of the named form.
func Build(name string) (*Form, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("demo: unknown form %q (want one of %v)", name, Names())
	}
	return build(), nil
}

func simpleForm() *Form {
	group := forms.NewGroup().
		Add("name", forms.NewControl("", validators.Required(), validators.MinLength(3))).
		Add("email", forms.NewControl("", validators.Required(), validators.Email())).
		Add("age", forms.NewControl("", validators.Min(18), validators.Max(120)))

	return &Form{
		Name:      "simple",
		Framework: model.FrameworkBootstrap,
		Markup: `<form id="demo-form" novalidate>
<div class="mb-3"><label for="name" class="form-label">Name</label><input id="name" name="name" class="form-control"/></div>
<div class="mb-3"><label for="email" class="form-label">Email</label><div class="input-group"><span class="input-group-text">@</span><input id="email" name="email" class="form-control"/></div></div>
<div class="mb-3"><label for="age" class="form-label">Age</label><input id="age" name="age" class="form-control"/></div>
<button type="submit" class="btn btn-primary">Save</button>
</form>`,
		Group: group,
		Fields: []FieldSpec{
			{Path: "name", HostID: "name", Label: "Name"},
			{Path: "email", HostID: "email", Label: "Email"},
			{Path: "age", HostID: "age", Label: "Age"},
		},
		Script: []Step{
			{Path: "name", Value: "Al"},
			{Path: "email", Value: "al@"},
			{Path: "age", Value: "16"},
		},
	}
}

// MatchPassword flags confirmPassword when it differs from password.
func MatchPassword(c forms.AbstractControl) model.Failures {
	group, ok := c.(*forms.Group)
	if !ok {
		return nil
	}
	password, confirm := group.Control("password"), group.Control("confirmPassword")
	if password == nil || confirm == nil {
		return nil
	}
	if validators.IsEmpty(confirm.Value()) || password.Value() == confirm.Value() {
		if confirm.Errors().Has("passwordMismatch") {
			confirm.UpdateValueAndValidity(forms.OnlySelf())
		}
		return nil
	}
	confirm.SetErrors(confirm.Errors().Set("passwordMismatch", model.Detail{
		model.MessageKey: "Confirm password not match",
	}))
	return nil
}

func nestedForm() *Form {
	address := forms.NewGroup().
		Add("street", forms.NewControl("", validators.Required())).
		Add("city", forms.NewControl("", validators.Required())).
		Add("zip", forms.NewControl("", validators.Pattern(`[0-9]{5}`)))
	passwords := forms.NewGroup(MatchPassword).
		Add("password", forms.NewControl("", validators.Required(), validators.MinLength(6))).
		Add("confirmPassword", forms.NewControl("", validators.Required()))
	group := forms.NewGroup().
		Add("name", forms.NewControl("", validators.Required(), validators.NoWhitespace("Name cannot be blank"))).
		Add("address", address).
		Add("passwords", passwords)

	return &Form{
		Name:      "nested",
		Framework: model.FrameworkBootstrap,
		Markup: `<form id="demo-form" novalidate>
<div class="mb-3"><label for="name" class="form-label">Name</label><input id="name" name="name" class="form-control"/></div>
<fieldset id="address"><legend>Address</legend>
<div class="mb-3"><input id="street" name="street" class="form-control"/></div>
<div class="mb-3"><input id="city" name="city" class="form-control"/></div>
<div class="mb-3" data-validator-container><input id="zip" name="zip" class="form-control"/><small class="form-text">Five digits</small><div data-validator-target></div></div>
</fieldset>
<fieldset id="passwords"><legend>Password</legend>
<div class="mb-3"><input id="password" name="password" type="password" class="form-control"/></div>
<div class="mb-3"><input id="confirmPassword" name="confirmPassword" type="password" class="form-control"/></div>
</fieldset>
<button type="submit" class="btn btn-primary">Register</button>
</form>`,
		Group: group,
		Groups: []GroupSpec{
			{Name: "address", HostID: "address"},
			{Name: "passwords", HostID: "passwords"},
		},
		Fields: []FieldSpec{
			{Path: "name", HostID: "name", Label: "Name"},
			{Path: "address.street", HostID: "street", Label: "Street"},
			{Path: "address.city", HostID: "city", Label: "City"},
			{Path: "address.zip", HostID: "zip", Label: "Zip"},
			{Path: "passwords.password", HostID: "password", Label: "Password", Secret: true},
			{Path: "passwords.confirmPassword", HostID: "confirmPassword", Label: "Confirm password", Secret: true},
		},
		Script: []Step{
			{Path: "name", Value: "   "},
			{Path: "address.zip", Value: "12a"},
			{Path: "passwords.password", Value: "secret1"},
			{Path: "passwords.confirmPassword", Value: "secret2"},
		},
	}
}

func materialForm() *Form {
	group := forms.NewGroup().
		Add("name", forms.NewControl("", validators.Required(), validators.MaxLength(20))).
		Add("email", forms.NewControl("", validators.Required(), validators.Email()))

	return &Form{
		Name:      "material",
		Framework: model.FrameworkMaterial,
		Markup: `<form id="demo-form" novalidate>
<mat-form-field class="mat-mdc-form-field"><div class="mat-mdc-text-field-wrapper"><input id="name" name="name" class="mat-mdc-input-element"/></div><div class="mat-mdc-form-field-subscript-wrapper"></div></mat-form-field>
<mat-form-field class="mat-mdc-form-field"><div class="mat-mdc-text-field-wrapper"><input id="email" name="email" class="mat-mdc-input-element"/></div><div class="mat-mdc-form-field-subscript-wrapper"></div></mat-form-field>
<button type="submit">Save</button>
</form>`,
		Group: group,
		Fields: []FieldSpec{
			{Path: "name", HostID: "name", Label: "Name"},
			{Path: "email", HostID: "email", Label: "Email"},
		},
		Script: []Step{
			{Path: "name", Value: "A name that is clearly too long"},
			{Path: "email", Value: "nobody"},
		},
	}
}

func plainForm() *Form {
	group := forms.NewGroup().
		Add("username", forms.NewControl("", validators.Required(), validators.Pattern(`[a-z0-9_]+`))).
		Add("website", forms.NewControl("", validators.URL("Enter a full URL, including https://")))

	return &Form{
		Name:      "plain",
		Framework: model.FrameworkNone,
		Markup: `<form id="demo-form" novalidate>
<p><label>Username <input id="username" name="username"/></label></p>
<p><label>Website <input id="website" name="website"/></label></p>
<div id="errors"></div>
<button type="submit">Save</button>
</form>`,
		Group: group,
		Fields: []FieldSpec{
			{Path: "username", HostID: "username", Label: "Username"},
			{Path: "website", HostID: "website", TargetID: "errors", Label: "Website"},
		},
		Script: []Step{
			{Path: "username", Value: "Bad Name"},
			{Path: "website", Value: "example.org"},
		},
	}
}
