package inputs

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

const minimalTemplates = `
<template id="text" data-input data-displayname="Text" data-default="">
  <input class="fb-input" id="{{id}}" name="{{name}}" value="{{value}}">
</template>
<template id="input-row">
  <div class="fb-input-wrapper" data-uniquename="{{label}}" data-type="{{type}}">{{input}}<button class="fb-delete">x</button></div>
</template>
`

type fixture struct {
	doc       *dom.Document
	manager   *Manager
	snapshots []string
	logs      *observer.ObservedLogs
}

func newFixture(t *testing.T, registry Registry, options ...Option) *fixture {
	t.Helper()
	doc := testsupport.HostDocument(t)
	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{doc: doc, logs: logs}
	options = append([]Option{
		WithLogger(zap.New(core)),
		WithOnSerialize(func(text string) { f.snapshots = append(f.snapshots, text) }),
	}, options...)

	manager, err := New(doc, registry, options...)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	f.manager = manager
	return f
}

func strPtr(s string) *string { return &s }

func compact(t *testing.T, text string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		t.Fatalf("compact %q: %v", text, err)
	}
	return buf.String()
}

func TestNew_RequiresContainer(t *testing.T) {
	doc := dom.New()
	if _, err := New(doc, testsupport.DefaultStore(t)); !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
	if _, err := New(doc, testsupport.DefaultStore(t), WithContainer("div[")); err == nil {
		t.Fatalf("expected invalid selector error")
	}
}

func TestManager_CreateThenSerialize(t *testing.T) {
	f := newFixture(t, testsupport.StoreFromMarkup(t, minimalTemplates))

	if _, err := f.manager.Create("text", "Age", nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	text, err := f.manager.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	want := `[{"uniqueName":"Age","type":"text","value":"","optionalFields":{}}]`
	if got := compact(t, text); got != want {
		t.Fatalf("serialize mismatch\nwant %s\ngot  %s", want, got)
	}
	if f.manager.Snapshot() != text {
		t.Fatalf("snapshot should hold the last serialization")
	}
	if len(f.snapshots) != 1 || f.snapshots[0] != text {
		t.Fatalf("callback should receive the serialization, got %v", f.snapshots)
	}
}

func TestManager_CreateRendersRow(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	inst, err := f.manager.Create("text", "First Name", strPtr("Ada"), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wrapper := inst.Wrapper()
	if !wrapper.Connected() || !wrapper.Parent().Is(f.manager.Container()) {
		t.Fatalf("row should be appended to the container")
	}
	if wrapper.ID() != "row-first-name" {
		t.Fatalf("unexpected row id %q", wrapper.ID())
	}
	if f.doc.Query(`[id="input-replacement-first-name"]`) != nil {
		t.Fatalf("replacement slot should be swapped for the control")
	}

	control := inst.Control()
	if control.ID() != "first-name" {
		t.Fatalf("unexpected control id %q", control.ID())
	}
	if name, _ := control.Attr("name"); name != "first-name" {
		t.Fatalf("unexpected control name %q", name)
	}
	if inst.Value() != "Ada" || inst.Name() != "First Name" || inst.Type() != "text" {
		t.Fatalf("unexpected instance %q %q %q", inst.Name(), inst.Type(), inst.Value())
	}
	if label := wrapper.Query(".fb-label"); label == nil || label.Text() != "First Name" {
		t.Fatalf("label should carry the display name")
	}
	if diff := cmp.Diff([]string{"First Name"}, f.manager.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_CreateUsesTypeDefault(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	number, err := f.manager.Create("number", "Count", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if number.Value() != "0" {
		t.Fatalf("expected declared default, got %q", number.Value())
	}

	notes, err := f.manager.Create("textarea", "Notes", strPtr("line"), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notes.Value() != "line" || notes.Control().Tag() != "textarea" {
		t.Fatalf("unexpected textarea instance %q", notes.Value())
	}
}

func TestManager_CreateEscapesUserValues(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	value := `"><b>bold</b>`
	inst, err := f.manager.Create("text", `<i>Name</i>`, &value, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Value() != value {
		t.Fatalf("value should round trip, got %q", inst.Value())
	}
	if f.manager.Container().Query("b") != nil || f.manager.Container().Query("i") != nil {
		t.Fatalf("user values must not inject markup:\n%s", f.manager.Container().InnerHTML())
	}
	if got, _ := inst.Wrapper().Data("uniquename"); got != `<i>Name</i>` {
		t.Fatalf("unexpected stored name %q", got)
	}
}

func TestManager_CreateUnknownType(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	if _, err := f.manager.Create("slider", "Volume", nil, nil); !errors.Is(err, templates.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if f.manager.Len() != 0 || len(f.manager.Names()) != 0 {
		t.Fatalf("failed create must not change state")
	}
	if f.logs.FilterMessage("input not created").Len() != 1 {
		t.Fatalf("failure should be logged, got %v", f.logs.All())
	}
}

func TestManager_CreateMissingRowTemplate(t *testing.T) {
	store := testsupport.StoreFromMarkup(t, `<template id="text" data-input><input class="fb-input"></template>`)
	f := newFixture(t, store)

	if _, err := f.manager.Create("text", "Age", nil, nil); !errors.Is(err, templates.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if f.manager.Len() != 0 || len(f.manager.Names()) != 0 {
		t.Fatalf("failed create must not change state")
	}
}

func TestManager_CreateWithoutControl(t *testing.T) {
	store := testsupport.StoreFromMarkup(t, minimalTemplates+`<template id="plain" data-input><span>{{label}}</span></template>`)
	f := newFixture(t, store)

	if _, err := f.manager.Create("plain", "Age", nil, nil); !errors.Is(err, templates.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestManager_CreateRejectsNameInUse(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	if _, err := f.manager.Create("text", "Age", nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.manager.Create("number", "Age", nil, nil); !errors.Is(err, ErrNameInUse) {
		t.Fatalf("expected ErrNameInUse, got %v", err)
	}
	if _, err := f.manager.Create("text", "age", nil, nil); err != nil {
		t.Fatalf("names are case sensitive: %v", err)
	}
	if f.manager.Len() != 2 {
		t.Fatalf("expected 2 instances, got %d", f.manager.Len())
	}
}

func TestManager_UniqueNames(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	seen := map[string]bool{}
	for _, base := range []string{"Field", "Field", "Field", "Other", ""} {
		name := f.manager.UniqueName(base)
		if seen[name] {
			t.Fatalf("name %q handed out twice", name)
		}
		seen[name] = true
		if _, err := f.manager.Create("text", name, nil, nil); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	want := []string{"Field", "Field 1", "Field 2", "Other", "input"}
	if diff := cmp.Diff(want, f.manager.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_RemoveReleasesName(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	inst, err := f.manager.Create("text", "Age", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.manager.Remove(inst)
	f.manager.Remove(inst)

	if inst.Wrapper().Connected() || !inst.Removed() {
		t.Fatalf("instance should be detached")
	}
	if f.manager.Len() != 0 || len(f.manager.Names()) != 0 {
		t.Fatalf("remove should release the name")
	}
	if _, err := f.manager.Create("text", "Age", nil, nil); err != nil {
		t.Fatalf("name should be reusable right away: %v", err)
	}
}

func TestManager_DeleteButton(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	first, err := f.manager.Create("text", "First", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.manager.Create("text", "Second", nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	button := first.Wrapper().Query(".fb-delete")
	if button == nil {
		t.Fatalf("row has no delete button")
	}
	button.Dispatch(dom.EventClick)
	button.Dispatch(dom.EventClick)

	if f.manager.Len() != 1 {
		t.Fatalf("expected one instance left, got %d", f.manager.Len())
	}
	if diff := cmp.Diff([]string{"Second"}, f.manager.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if len(f.snapshots) == 0 {
		t.Fatalf("delete should serialize")
	}
	want := `[{"uniqueName":"Second","type":"text","value":"","optionalFields":{}}]`
	if got := compact(t, f.snapshots[len(f.snapshots)-1]); got != want {
		t.Fatalf("unexpected snapshot %s", got)
	}
}

func TestManager_ChangePropagation(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	inst, err := f.manager.Create("number", "Rating", nil, map[string]string{"min": "1", "max": "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inst.SetValue("42")

	if inst.Value() != "10" {
		t.Fatalf("clamp should run on change, got %q", inst.Value())
	}
	echo := inst.Wrapper().Query("[data-sync]")
	if echo == nil || echo.Text() != "10" {
		t.Fatalf("synced element should mirror the value")
	}
	if len(f.snapshots) != 1 {
		t.Fatalf("change should serialize once, got %d", len(f.snapshots))
	}
	var records []Record
	if err := json.Unmarshal([]byte(f.snapshots[0]), &records); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(records) != 1 || records[0].Value != "10" {
		t.Fatalf("unexpected records %+v", records)
	}

	inst.SetValue("abc")
	if got, _ := inst.Control().Attr("aria-invalid"); got != "true" {
		t.Fatalf("invalid number should flag the control")
	}
}

func TestManager_SyncTargets(t *testing.T) {
	store := testsupport.StoreFromMarkup(t, minimalTemplates+`
<template id="mirror" data-input>
  <input class="fb-input" value="{{value}}">
  <span data-sync="textContent"></span>
  <input class="copy" data-sync="value">
  <a data-sync="title"></a>
</template>`)
	f := newFixture(t, store)

	inst, err := f.manager.Create("mirror", "M", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inst.SetValue("hello")

	w := inst.Wrapper()
	if w.Query("span").Text() != "hello" {
		t.Fatalf("text target not updated")
	}
	if w.Query(".copy").Value() != "hello" {
		t.Fatalf("value target not updated")
	}
	if title, _ := w.Query("a").Attr("title"); title != "hello" {
		t.Fatalf("attribute target not updated")
	}
}

func TestManager_OptionalFields(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	inst, err := f.manager.Create("number", "Qty", strPtr("3"), map[string]string{
		"step":  "2",
		"min":   "",
		"bogus": "x",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	want := map[string]string{"step": "2", "min": ""}
	if diff := cmp.Diff(want, inst.OptionalFields()); diff != "" {
		t.Fatalf("optional fields mismatch (-want +got):\n%s", diff)
	}
	control := inst.Control()
	if step, _ := control.Attr("step"); step != "2" {
		t.Fatalf("step should be applied to the control")
	}
	if control.HasAttr("min") || control.HasAttr("bogus") {
		t.Fatalf("empty and undeclared fields must not be applied: %v", control.Attrs())
	}
}

func TestManager_SerializeIsIdempotent(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	for _, name := range []string{"a", "b", "c"} {
		if _, err := f.manager.Create("email", name, strPtr(name+"@example.com"), map[string]string{"placeholder": "you@"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	first, err := f.manager.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	second, err := f.manager.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if first != second {
		t.Fatalf("serialize is not idempotent:\n%s\n%s", first, second)
	}
}

func TestManager_SerializeFollowsContainerOrder(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	first, _ := f.manager.Create("text", "one", nil, nil)
	if _, err := f.manager.Create("text", "two", nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Moving a row in the container reorders the output.
	f.manager.Container().AppendChild(first.Wrapper())

	var got []string
	for _, record := range f.manager.Records() {
		got = append(got, record.UniqueName)
	}
	if diff := cmp.Diff([]string{"two", "one"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_SerializeUnregisteredType(t *testing.T) {
	registry := &swappableRegistry{Registry: testsupport.DefaultStore(t)}
	f := newFixture(t, registry)

	if _, err := f.manager.Create("number", "n", nil, map[string]string{"step": "5"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	registry.hide = "number"

	records := f.manager.Records()
	if len(records) != 1 || len(records[0].OptionalFields) != 0 || records[0].OptionalFields == nil {
		t.Fatalf("unexpected records %+v", records)
	}
	if f.logs.FilterMessage("serializing input of unregistered type").Len() != 1 {
		t.Fatalf("unregistered type should be logged")
	}
}

type swappableRegistry struct {
	Registry
	hide string
}

func (r *swappableRegistry) Input(id string) (templates.InputType, error) {
	if id == r.hide {
		return templates.InputType{}, templates.ErrUnknownType
	}
	return r.Registry.Input(id)
}

func TestManager_RoundTrip(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	steps := []struct {
		typ, name string
		value     *string
		optional  map[string]string
	}{
		{"text", "Title", strPtr("Hello"), map[string]string{"placeholder": "Say hi"}},
		{"number", "Count", strPtr("7"), map[string]string{"step": "1", "max": "9"}},
		{"email", "Contact", nil, nil},
		{"textarea", "Body", strPtr("multi\nline"), map[string]string{"rows": "4"}},
	}
	var created []*Instance
	for _, step := range steps {
		inst, err := f.manager.Create(step.typ, step.name, step.value, step.optional)
		if err != nil {
			t.Fatalf("create %s: %v", step.name, err)
		}
		created = append(created, inst)
	}
	f.manager.Remove(created[2])

	before, err := f.manager.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	wantRecords := f.manager.Records()

	if err := f.manager.Deserialize(before); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if diff := cmp.Diff(wantRecords, f.manager.Records()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if f.manager.Snapshot() != before {
		t.Fatalf("snapshot after round trip differs:\n%s\n%s", before, f.manager.Snapshot())
	}
	if created[0].Wrapper().Connected() {
		t.Fatalf("previous rows should be replaced")
	}
	if diff := cmp.Diff([]string{"Body", "Count", "Title"}, f.manager.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_DeserializeInvalidLeavesState(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	if _, err := f.manager.Create("text", "Keep", nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	snapshot, _ := f.manager.Serialize()

	err := f.manager.Deserialize("not json")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if f.manager.Len() != 1 || f.manager.Snapshot() != snapshot {
		t.Fatalf("invalid input must not mutate state")
	}
	if f.logs.FilterMessage("deserialize failed").Len() != 1 {
		t.Fatalf("failure should be logged")
	}
}

func TestManager_DeserializeSkipsBadRecords(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	err := f.manager.Deserialize(`[
  {"uniqueName": "a", "type": "text", "value": "1", "optionalFields": {}},
  {"uniqueName": "b", "type": "slider", "value": "2", "optionalFields": {}},
  {"uniqueName": "a", "type": "number", "value": "3", "optionalFields": {}},
  {"uniqueName": "c", "type": "number", "value": "4"}
]`)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	var names []string
	for _, inst := range f.manager.Instances() {
		names = append(names, inst.Name())
	}
	if diff := cmp.Diff([]string{"a", "c"}, names); diff != "" {
		t.Fatalf("instances mismatch (-want +got):\n%s", diff)
	}
	if f.logs.FilterMessage("record skipped").Len() != 2 {
		t.Fatalf("skipped records should be logged")
	}
}

func TestManager_ClearResetsNames(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	inst, _ := f.manager.Create("text", "x", nil, nil)
	f.manager.Clear()
	if f.manager.Len() != 0 || len(f.manager.Names()) != 0 || !inst.Removed() {
		t.Fatalf("clear should drop every instance and name")
	}
	if _, ok := f.manager.Instance("x"); ok {
		t.Fatalf("cleared instance still reachable")
	}
}

func TestManager_DiscardedRowsDropListeners(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))
	state := `[{"uniqueName":"Age","type":"number","value":"3","optionalFields":{}}]`

	if err := f.manager.Deserialize(state); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	first, ok := f.manager.Instance("Age")
	if !ok {
		t.Fatalf("expected restored instance")
	}
	control := first.Control()
	button := first.Wrapper().Query(".fb-delete")
	if control.Listeners(dom.EventChange) != 1 || button.Listeners(dom.EventClick) != 1 {
		t.Fatalf("expected wired controls")
	}

	for i := 0; i < 50; i++ {
		if err := f.manager.Deserialize(state); err != nil {
			t.Fatalf("deserialize %d: %v", i, err)
		}
	}
	if f.manager.Len() != 1 {
		t.Fatalf("expected one live instance, got %d", f.manager.Len())
	}
	if control.Connected() || control.Listeners(dom.EventChange) != 0 || button.Listeners(dom.EventClick) != 0 {
		t.Fatalf("replaced row should keep no listeners")
	}

	live, _ := f.manager.Instance("Age")
	f.manager.Remove(live)
	if live.Control().Listeners(dom.EventChange) != 0 {
		t.Fatalf("removed row should keep no listeners")
	}

	before := len(f.snapshots)
	live.SetValue("9")
	if len(f.snapshots) != before {
		t.Fatalf("edits on a removed row must not serialize")
	}
}

func TestManager_StateHasNoSideEffects(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))
	if _, err := f.manager.Create("text", "Age", strPtr("7"), nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	state, err := f.manager.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(f.snapshots) != 0 || f.manager.Snapshot() != "" {
		t.Fatalf("state must not serialize, got %d callbacks", len(f.snapshots))
	}
	serialized, err := f.manager.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if state != serialized {
		t.Fatalf("state and serialize differ\nstate %s\nserialize %s", state, serialized)
	}
}

func TestManager_IDsWithDots(t *testing.T) {
	f := newFixture(t, testsupport.DefaultStore(t))

	inst, err := f.manager.Create("text", "v1.2 notes", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Control().ID() != "v1.2-notes" {
		t.Fatalf("unexpected id %q", inst.Control().ID())
	}

	numeric, err := f.manager.Create("text", "2nd", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if numeric.Control().ID() != "id-2nd" {
		t.Fatalf("unexpected id %q", numeric.Control().ID())
	}
}
