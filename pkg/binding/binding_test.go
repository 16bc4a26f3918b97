package binding

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/config"
	"github.com/goliatone/go-formvalidator/pkg/dom"
	"github.com/goliatone/go-formvalidator/pkg/forms"
	"github.com/goliatone/go-formvalidator/pkg/framework"
	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/render"
	"github.com/goliatone/go-formvalidator/pkg/testsupport"
	"github.com/goliatone/go-formvalidator/pkg/validators"
	"github.com/goliatone/go-formvalidator/pkg/visibility"
)

const plainForm = `<form id="form"><div id="row"><input id="email" name="email"/></div></form>`

var (
	always      = config.Override{VisibleWhen: visibility.Always}
	requiredErr = model.FormattedError{Key: "required", Message: "This field is required."}
	minLenErr   = model.FormattedError{Key: "minlength", Message: "Should have at least 5 characters."}
)

type harness struct {
	body   *html.Node
	form   *forms.Group
	email  *forms.Control
	root   *GroupBinding
	mounts *testsupport.CountingMounts
	unit   *testsupport.RecordingUnit
}

func newHarness(t *testing.T, markup string, override config.Override, opts ...GroupOption) *harness {
	t.Helper()

	h := &harness{
		body:   testsupport.MustParseBody(t, markup),
		email:  forms.NewControl("", validators.Required(), validators.MinLength(5)),
		mounts: testsupport.NewCountingMounts(),
		unit:   &testsupport.RecordingUnit{},
	}
	h.form = forms.NewGroup().Add("email", h.email)

	display := config.Default()
	display.MessageUnit = h.unit
	display = override.Apply(display)

	groupOpts := append([]GroupOption{WithDisplay(display), WithMounts(h.mounts)}, opts...)
	root, err := BindGroup(nil, h.form, testsupport.MustFindID(t, h.body, "form"), groupOpts...)
	if err != nil {
		t.Fatalf("bind group: %v", err)
	}
	t.Cleanup(root.Destroy)
	h.root = root
	return h
}

func (h *harness) bindEmail(t *testing.T, opts ...FieldOption) *FieldBinding {
	t.Helper()
	field, err := BindField(h.root, h.email, testsupport.MustFindID(t, h.body, "email"), opts...)
	if err != nil {
		t.Fatalf("bind field: %v", err)
	}
	t.Cleanup(field.Destroy)
	return field
}

func (h *harness) lastErrors(t *testing.T) []model.FormattedError {
	t.Helper()
	if len(h.unit.Calls) == 0 {
		t.Fatalf("message unit was never called")
	}
	return h.unit.Calls[len(h.unit.Calls)-1]
}

func (h *harness) html(t *testing.T, id string) string {
	t.Helper()
	return dom.Render(testsupport.MustFindID(t, h.body, id))
}

func TestFieldShowsAfterDirtyAndTouched(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{})
	field := h.bindEmail(t)

	if field.State() != Hidden || h.mounts.Inserted() != 0 {
		t.Fatalf("expected pristine field hidden, state=%s inserted=%d", field.State(), h.mounts.Inserted())
	}

	h.email.Input("")
	if field.State() != Hidden {
		t.Fatalf("expected dirty but untouched field hidden")
	}

	field.Blur()
	if field.State() != Shown {
		t.Fatalf("expected field shown after blur")
	}
	if diff := cmp.Diff([]model.FormattedError{requiredErr}, h.lastErrors(t)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	want := `<div id="row"><input id="email" name="email"/><ul class="messages"><li data-key="required">This field is required.</li></ul></div>`
	if diff := cmp.Diff(want, h.html(t, "row")); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
	if h.unit.Class[0] != "" {
		t.Fatalf("expected no classes for plain strategy, got %q", h.unit.Class[0])
	}
}

func TestFieldDeduplicatesIdenticalSnapshots(t *testing.T) {
	h := newHarness(t, plainForm, always)
	h.bindEmail(t)

	if h.mounts.Inserted() != 1 {
		t.Fatalf("expected initial mount, got %d", h.mounts.Inserted())
	}

	// Each input emits a value and a status event with the same failures.
	h.email.Input("")
	h.email.Input("")

	if h.mounts.Inserted() != 1 || h.unit.Renders() != 1 {
		t.Fatalf("expected exactly one mount, inserted=%d renders=%d", h.mounts.Inserted(), h.unit.Renders())
	}
	if h.mounts.Destroyed() != 0 {
		t.Fatalf("expected mounted view kept, destroyed=%d", h.mounts.Destroyed())
	}
}

func TestFieldReplacesViewWhenErrorsChange(t *testing.T) {
	h := newHarness(t, plainForm, always)
	field := h.bindEmail(t)

	h.email.Input("abc")
	if diff := cmp.Diff([]model.FormattedError{minLenErr}, h.lastErrors(t)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if h.mounts.Inserted() != 2 || h.mounts.Destroyed() != 1 {
		t.Fatalf("expected old view released before new mount, inserted=%d destroyed=%d", h.mounts.Inserted(), h.mounts.Destroyed())
	}
	if got := len(dom.FindAll(h.body, dom.ByTag("ul"))); got != 1 {
		t.Fatalf("expected a single mounted list, got %d", got)
	}

	h.email.Input("abcdef")
	if field.State() != Hidden || dom.Find(h.body, dom.ByTag("ul")) != nil {
		t.Fatalf("expected messages removed once valid")
	}
}

func TestFieldRemountsAfterHideClearsSnapshot(t *testing.T) {
	h := newHarness(t, plainForm, always)
	field := h.bindEmail(t)

	h.email.Input("abcdef")
	if field.State() != Hidden {
		t.Fatalf("expected hidden once valid")
	}

	h.email.Input("")
	if field.State() != Shown || h.mounts.Inserted() != 2 {
		t.Fatalf("expected identical errors remounted, state=%s inserted=%d", field.State(), h.mounts.Inserted())
	}
}

func TestFieldRemountsAfterPolicyHide(t *testing.T) {
	show := true
	h := newHarness(t, plainForm, config.Override{VisibleWhen: func(model.State) bool { return show }})
	field := h.bindEmail(t)

	show = false
	h.email.Input("abc")
	if field.State() != Hidden || h.mounts.Destroyed() != 1 {
		t.Fatalf("expected hidden by policy, state=%s destroyed=%d", field.State(), h.mounts.Destroyed())
	}

	show = true
	h.email.Input("abc")
	if field.State() != Shown || h.mounts.Inserted() != 2 {
		t.Fatalf("expected same errors shown once policy allows, state=%s inserted=%d", field.State(), h.mounts.Inserted())
	}
}

func TestMessagePrecedence(t *testing.T) {
	h := newHarness(t, plainForm, always)
	h.bindEmail(t, WithMessages(map[string]string{"required": "Email please"}))

	if diff := cmp.Diff("Email please", h.lastErrors(t)[0].Message); diff != "" {
		t.Fatalf("local message mismatch (-want +got):\n%s", diff)
	}

	explicit := forms.NewControl("", validators.Required("Explicit"))
	h.form.Add("explicit", explicit)
	body := testsupport.MustParseBody(t, `<input id="explicit"/>`)
	if _, err := BindField(h.root, explicit, testsupport.MustFindID(t, body, "explicit"), WithMessages(map[string]string{"required": "Local"})); err != nil {
		t.Fatalf("bind field: %v", err)
	}
	if diff := cmp.Diff("Explicit", h.lastErrors(t)[0].Message); diff != "" {
		t.Fatalf("explicit message mismatch (-want +got):\n%s", diff)
	}
}

func TestSkipValidatePropagatesFromAncestors(t *testing.T) {
	const markup = `<form id="form"><fieldset id="address"><input id="city"/></fieldset></form>`
	h := newHarness(t, markup, always)

	city := forms.NewControl("", validators.Required())
	address := forms.NewGroup().Add("city", city)
	h.form.Add("address", address)

	nested, err := BindGroup(h.root, address, testsupport.MustFindID(t, h.body, "address"), WithSkipValidate(true))
	if err != nil {
		t.Fatalf("bind nested group: %v", err)
	}
	defer nested.Destroy()

	field, err := BindField(nested, city, testsupport.MustFindID(t, h.body, "city"), WithFieldSkipValidate(false))
	if err != nil {
		t.Fatalf("bind field: %v", err)
	}
	defer field.Destroy()

	city.Input("")
	h.root.Submit(SubmitFunc(func() {}))
	if field.State() != Hidden || h.mounts.Inserted() != 0 {
		t.Fatalf("expected skipped field to stay hidden, state=%s inserted=%d", field.State(), h.mounts.Inserted())
	}

	nested.SetSkipValidate(false)
	city.Input("")
	if field.State() != Shown {
		t.Fatalf("expected field shown once skip is lifted")
	}
}

func TestSkipValidateFromConfig(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{VisibleWhen: visibility.Always, SkipValidate: config.Bool(true)})
	field := h.bindEmail(t)
	h.email.Input("")
	if field.State() != Hidden || h.unit.Renders() != 0 {
		t.Fatalf("expected config skip to suppress rendering")
	}

	h2 := newHarness(t, plainForm, always)
	skipped := h2.bindEmail(t, WithFieldSkipValidate(true))
	if skipped.State() != Hidden {
		t.Fatalf("expected field skip to suppress initial display")
	}
	skipped.SetSkipValidate(false)
	h2.email.Input("")
	if skipped.State() != Shown {
		t.Fatalf("expected skip re-evaluated on the next event")
	}
}

func TestSubmitPreventsInvalidGroupOnce(t *testing.T) {
	const markup = `<form id="form"><input id="email"/><fieldset id="address"><input id="city"/></fieldset></form>`
	h := newHarness(t, markup, config.Override{})
	h.bindEmail(t)

	city := forms.NewControl("", validators.Required())
	address := forms.NewGroup().Add("city", city)
	h.form.Add("address", address)
	nested, err := BindGroup(h.root, address, testsupport.MustFindID(t, h.body, "address"))
	if err != nil {
		t.Fatalf("bind nested group: %v", err)
	}
	defer nested.Destroy()

	cityField, err := BindField(nested, city, testsupport.MustFindID(t, h.body, "city"))
	if err != nil {
		t.Fatalf("bind field: %v", err)
	}
	defer cityField.Destroy()

	var kinds []model.EventKind
	sub := nested.Events().Subscribe(func(ev model.FieldEvent) { kinds = append(kinds, ev.Kind) })
	defer sub.Unsubscribe()

	prevents := 0
	prevented := h.root.Submit(SubmitFunc(func() { prevents++ }))
	if !prevented || prevents != 1 {
		t.Fatalf("expected default prevented once, prevented=%v calls=%d", prevented, prevents)
	}
	if !h.form.Submitted() || !nested.Submitted() {
		t.Fatalf("expected submitted state visible from nested group")
	}
	if cityField.State() != Shown {
		t.Fatalf("expected nested field to show errors after submit")
	}
	if diff := cmp.Diff([]model.EventKind{model.EventInitial, model.EventInitial, model.EventSubmitted}, kinds); diff != "" {
		t.Fatalf("nested events mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitValidGroupEmitsWithoutPreventing(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{})
	h.email.SetValue("ada@example.com")

	var payloads []any
	sub := h.root.Events().Subscribe(func(ev model.FieldEvent) {
		if ev.Kind == model.EventSubmitted {
			payloads = append(payloads, ev.Payload)
		}
	})
	defer sub.Unsubscribe()

	if h.root.Submit(SubmitFunc(func() { t.Fatalf("valid group must not prevent default") })) {
		t.Fatalf("expected submit not prevented")
	}
	if diff := cmp.Diff([]any{map[string]any{"email": "ada@example.com"}}, payloads); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitIgnoredForNonFormHost(t *testing.T) {
	body := testsupport.MustParseBody(t, `<div id="panel"></div>`)
	group := forms.NewGroup().Add("name", forms.NewControl("", validators.Required()))
	binding, err := BindGroup(nil, group, testsupport.MustFindID(t, body, "panel"))
	if err != nil {
		t.Fatalf("bind group: %v", err)
	}
	defer binding.Destroy()

	count := 0
	sub := binding.Events().Subscribe(func(model.FieldEvent) { count++ })
	defer sub.Unsubscribe()

	if binding.Submit(SubmitFunc(func() { t.Fatalf("unexpected prevent") })) {
		t.Fatalf("expected submit ignored")
	}
	if count != 1 || group.Submitted() {
		t.Fatalf("expected only the initial event and no submitted flag, events=%d", count)
	}
}

func TestGroupEventsOrderAndDestroy(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{})

	var kinds []model.EventKind
	sub := h.root.Events().Subscribe(func(ev model.FieldEvent) { kinds = append(kinds, ev.Kind) })
	defer sub.Unsubscribe()

	h.email.Input("x")
	want := []model.EventKind{model.EventInitial, model.EventValueChanged, model.EventStatusChanged}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	h.root.Destroy()
	h.root.Destroy()
	h.email.Input("y")
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("expected no events after destroy (-want +got):\n%s", diff)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	h := newHarness(t, plainForm, always)
	field := h.bindEmail(t)

	field.Destroy()
	field.Destroy()

	if h.mounts.Inserted() != 1 || h.mounts.Destroyed() != 1 {
		t.Fatalf("expected one mount released once, inserted=%d destroyed=%d", h.mounts.Inserted(), h.mounts.Destroyed())
	}
	if field.State() != Hidden || dom.Find(h.body, dom.ByTag("ul")) != nil {
		t.Fatalf("expected messages removed on destroy")
	}

	h.email.Input("abc")
	field.Blur()
	if h.mounts.Inserted() != 1 {
		t.Fatalf("expected destroyed field to ignore events")
	}
}

func TestGridStrategyMarksHostAndRelocates(t *testing.T) {
	const markup = `<form id="form"><div class="input-group" id="group"><input id="email" class="form-control"/><span id="addon">@</span></div></form>`
	h := newHarness(t, markup, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkBootstrap})
	field := h.bindEmail(t)

	host := testsupport.MustFindID(t, h.body, "email")
	if !dom.HasClass(host, "is-invalid") {
		t.Fatalf("expected is-invalid on host")
	}
	want := `<div class="input-group" id="group"><input id="email" class="form-control is-invalid"/><span id="addon">@</span><ul class="messages invalid-feedback"><li data-key="required">This field is required.</li></ul></div>`
	if diff := cmp.Diff(want, h.html(t, "group")); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}

	h.email.Input("abcdef")
	if field.State() != Hidden || dom.HasClass(host, "is-invalid") {
		t.Fatalf("expected marker removed when hidden")
	}
	if dom.Find(h.body, dom.ByTag("ul")) != nil {
		t.Fatalf("expected relocated messages released")
	}
}

func TestGridStrategyKeepsExplicitTarget(t *testing.T) {
	const markup = `<form id="form"><div data-validator-container id="box"><input id="email" class="form-control"/><p id="slot" data-validator-target></p></div><div id="other"></div></form>`
	h := newHarness(t, markup, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkBootstrap})
	h.bindEmail(t)

	slot := testsupport.MustFindID(t, h.body, "slot")
	next := slot.NextSibling
	if next == nil || !dom.IsElement(next, "ul") {
		t.Fatalf("expected messages right after the container target, got %s", h.html(t, "box"))
	}
}

func TestFieldTargetOptions(t *testing.T) {
	const markup = `<form id="form"><input id="email"/><div id="box"><span id="slot" data-validator-target></span></div><em id="alt"></em></form>`

	h := newHarness(t, markup, always)
	h.bindEmail(t, WithContainer(testsupport.MustFindID(t, h.body, "box")))
	if slot := testsupport.MustFindID(t, h.body, "slot"); !dom.IsElement(slot.NextSibling, "ul") {
		t.Fatalf("expected container target used, got %s", dom.Render(h.body))
	}

	h2 := newHarness(t, markup, always)
	h2.bindEmail(t, WithTarget(testsupport.MustFindID(t, h2.body, "alt")))
	if alt := testsupport.MustFindID(t, h2.body, "alt"); !dom.IsElement(alt.NextSibling, "ul") {
		t.Fatalf("expected explicit target used, got %s", dom.Render(h2.body))
	}
}

const materialForm = `<form id="form"><mat-form-field class="mat-mdc-form-field"><div class="mat-mdc-text-field-wrapper"><input id="email" class="mat-mdc-input-element"/></div><div id="subscript" class="mat-mdc-form-field-subscript-wrapper"></div></mat-form-field></form>`

func TestDesignSystemStrategyUsesSubscript(t *testing.T) {
	h := newHarness(t, materialForm, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkMaterial})
	h.bindEmail(t)

	want := `<div id="subscript" class="mat-mdc-form-field-subscript-wrapper"><ul class="messages mat-mdc-form-field-error-wrapper"><li data-key="required">This field is required.</li></ul></div>`
	if diff := cmp.Diff(want, h.html(t, "subscript")); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
	if dom.HasClass(testsupport.MustFindID(t, h.body, "email"), "is-invalid") {
		t.Fatalf("design-system strategy must not mark the host")
	}
}

func TestDesignSystemRequiresFieldWrapper(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{Framework: model.FrameworkMaterial})
	_, err := BindField(h.root, h.email, testsupport.MustFindID(t, h.body, "email"))
	if !errors.Is(err, ErrMissingFieldWrapper) {
		t.Fatalf("expected ErrMissingFieldWrapper, got %v", err)
	}
}

func TestAutoDetection(t *testing.T) {
	const markup = `<form id="form"><div id="row"><input id="email" class="form-select"/></div></form>`
	h := newHarness(t, markup, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkAuto})
	h.bindEmail(t)
	if !dom.HasClass(testsupport.MustFindID(t, h.body, "email"), "is-invalid") {
		t.Fatalf("expected grid strategy detected")
	}

	m := newHarness(t, materialForm, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkAuto})
	m.bindEmail(t)
	if dom.Find(testsupport.MustFindID(t, m.body, "subscript"), dom.ByTag("ul")) == nil {
		t.Fatalf("expected design-system strategy detected")
	}

	calls := 0
	detector := framework.DetectorFunc(func(framework.Markers) framework.Kind {
		calls++
		return framework.Plain
	})
	p := newHarness(t, markup, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkAuto, Detector: detector})
	p.bindEmail(t)
	if calls != 1 || dom.HasClass(testsupport.MustFindID(t, p.body, "email"), "is-invalid") {
		t.Fatalf("expected custom detector to select plain, calls=%d", calls)
	}
}

func TestBindFieldValidation(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{})
	host := testsupport.MustFindID(t, h.body, "email")

	if _, err := BindField(nil, h.email, host); !errors.Is(err, ErrNoParentGroup) {
		t.Fatalf("expected ErrNoParentGroup, got %v", err)
	}
	if _, err := BindField(h.root, nil, host); !errors.Is(err, ErrNilControl) {
		t.Fatalf("expected ErrNilControl, got %v", err)
	}
	if _, err := BindField(h.root, h.email, nil); !errors.Is(err, ErrNilHost) {
		t.Fatalf("expected ErrNilHost, got %v", err)
	}
	if _, err := BindField(h.root, h.email, host, WithMessageTemplate(`{% for e in errors %}`)); !errors.Is(err, render.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
	if _, err := BindGroup(nil, nil, host); !errors.Is(err, ErrNilGroup) {
		t.Fatalf("expected ErrNilGroup, got %v", err)
	}
}

func TestCustomMessageTemplate(t *testing.T) {
	h := newHarness(t, plainForm, always)
	h.bindEmail(t, WithMessageTemplate(`<p role="alert">{% for e in errors %}<span data-key="{{ e.key }}">{{ e.message }}</span>{% endfor %}</p>`))

	want := `<div id="row"><input id="email" name="email"/><p role="alert"><span data-key="required">This field is required.</span></p></div>`
	if diff := cmp.Diff(want, h.html(t, "row")); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
	if h.unit.Renders() != 0 {
		t.Fatalf("expected configured unit bypassed by the field template")
	}
}

func TestRenderFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.NewLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := newHarness(t, plainForm, config.Override{VisibleWhen: visibility.Always, Logger: logger})
	h.unit.Err = errors.New("boom")
	field := h.bindEmail(t)

	if field.State() != Hidden || h.mounts.Inserted() != 0 {
		t.Fatalf("expected failed render to leave field hidden")
	}
	if field.LastError() == nil || !strings.Contains(field.LastError().Error(), "boom") {
		t.Fatalf("expected last error recorded, got %v", field.LastError())
	}
	if !strings.Contains(buf.String(), `"field":"email"`) {
		t.Fatalf("expected log record naming the field, got %s", buf.String())
	}
}

func TestConfigOverridesFlowDownTheTree(t *testing.T) {
	const markup = `<form id="form"><fieldset id="address"><input id="city"/></fieldset></form>`
	h := newHarness(t, markup, always)

	city := forms.NewControl("", validators.Required())
	address := forms.NewGroup().Add("city", city)
	h.form.Add("address", address)

	nested, err := BindGroup(h.root, address, testsupport.MustFindID(t, h.body, "address"),
		WithGroupConfig(config.Override{Messages: map[string]string{"required": "Group says required"}}))
	if err != nil {
		t.Fatalf("bind nested group: %v", err)
	}
	defer nested.Destroy()

	if _, ok := h.root.Config().Messages["email"]; !ok {
		t.Fatalf("expected root catalog untouched")
	}

	field, err := BindField(nested, city, testsupport.MustFindID(t, h.body, "city"))
	if err != nil {
		t.Fatalf("bind field: %v", err)
	}
	defer field.Destroy()

	if diff := cmp.Diff("Group says required", h.lastErrors(t)[0].Message); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}

	hidden, err := BindField(nested, city, testsupport.MustFindID(t, h.body, "city"),
		WithFieldConfig(config.Override{VisibleWhen: visibility.Never}))
	if err != nil {
		t.Fatalf("bind field: %v", err)
	}
	defer hidden.Destroy()
	if hidden.State() != Hidden {
		t.Fatalf("expected field override to hide messages")
	}
}

func TestNilPolicyShowsImmediately(t *testing.T) {
	h := newHarness(t, plainForm, config.Override{})
	h.root.display.VisibleWhen = nil
	field := h.bindEmail(t)
	if field.State() != Shown {
		t.Fatalf("expected nil policy to show any failures")
	}
}

func TestSkipSwitchedOnHidesShownMessages(t *testing.T) {
	h := newHarness(t, plainForm, always)
	field := h.bindEmail(t)
	if field.State() != Shown || h.mounts.Inserted() != 1 {
		t.Fatalf("expected initial messages shown, state=%s inserted=%d", field.State(), h.mounts.Inserted())
	}

	h.root.SetSkipValidate(true)
	h.email.Input("abc")
	if field.State() != Hidden || h.mounts.Destroyed() != 1 {
		t.Fatalf("expected skip to hide messages, state=%s destroyed=%d", field.State(), h.mounts.Destroyed())
	}
	renders := h.unit.Renders()

	h.email.Input("ab")
	if h.unit.Renders() != renders || h.mounts.Inserted() != 1 {
		t.Fatalf("expected no rendering while skipped, renders=%d inserted=%d", h.unit.Renders(), h.mounts.Inserted())
	}

	h.root.SetSkipValidate(false)
	h.email.Input("abc")
	if field.State() != Shown {
		t.Fatalf("expected messages shown once skip is lifted")
	}
	if diff := cmp.Diff([]model.FormattedError{minLenErr}, h.lastErrors(t)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBindUnderDestroyedGroupFails(t *testing.T) {
	const markup = `<form id="form"><fieldset id="address"><input id="city"/></fieldset><input id="email"/></form>`
	h := newHarness(t, markup, always)

	city := forms.NewControl("", validators.Required())
	address := forms.NewGroup().Add("city", city)
	h.form.Add("address", address)
	nested, err := BindGroup(h.root, address, testsupport.MustFindID(t, h.body, "address"))
	if err != nil {
		t.Fatalf("bind nested group: %v", err)
	}

	h.root.Destroy()
	if !nested.Destroyed() {
		t.Fatalf("expected nested group to report a destroyed ancestor")
	}

	field, err := BindField(h.root, h.email, testsupport.MustFindID(t, h.body, "email"))
	if !errors.Is(err, ErrGroupDestroyed) || field != nil {
		t.Fatalf("expected ErrGroupDestroyed, got field=%v err=%v", field, err)
	}
	if _, err := BindField(nested, city, testsupport.MustFindID(t, h.body, "city")); !errors.Is(err, ErrGroupDestroyed) {
		t.Fatalf("expected ErrGroupDestroyed under destroyed ancestor, got %v", err)
	}
	if _, err := BindGroup(h.root, address, testsupport.MustFindID(t, h.body, "address")); !errors.Is(err, ErrGroupDestroyed) {
		t.Fatalf("expected ErrGroupDestroyed for nested group, got %v", err)
	}
	if h.mounts.Inserted() != 0 {
		t.Fatalf("expected nothing mounted, inserted=%d", h.mounts.Inserted())
	}
}

func TestGridHostMarkedAsTargetStillRelocates(t *testing.T) {
	const markup = `<form id="form"><div class="input-group" id="group"><input id="email" class="form-control" data-validator-target/><span id="addon">@</span></div></form>`
	h := newHarness(t, markup, config.Override{VisibleWhen: visibility.Always, Framework: model.FrameworkBootstrap})
	h.bindEmail(t)

	want := `<div class="input-group" id="group"><input id="email" class="form-control is-invalid" data-validator-target=""/><span id="addon">@</span><ul class="messages invalid-feedback"><li data-key="required">This field is required.</li></ul></div>`
	if diff := cmp.Diff(want, h.html(t, "group")); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}
