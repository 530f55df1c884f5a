package propedit

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propedit/pkg/docgen"
	"github.com/goliatone/go-propedit/pkg/model"
	"github.com/goliatone/go-propedit/pkg/widget"
)

// recordingModel is a ModelStore with fixed values that records dispatches
// instead of applying them.
type recordingModel struct {
	values     map[string]any
	dispatched []model.Action
	reads      []docgen.TypeTag
}

func (m *recordingModel) GetValue(name string, tag docgen.TypeTag) any {
	m.reads = append(m.reads, tag)
	return m.values[name]
}

func (m *recordingModel) Dispatch(action model.Action) {
	m.dispatched = append(m.dispatched, action)
}

var (
	_ ModelStore       = (*recordingModel)(nil)
	_ model.Dispatcher = (*recordingModel)(nil)
)

func docsFor(name string, tag docgen.TypeTag) *docgen.Store {
	return docgen.NewStore(docgen.Document{Props: map[string]docgen.PropDescriptor{
		name: {Type: docgen.PropType{Name: tag}},
	}})
}

func renderBinding(t *testing.T, b *Binding) string {
	t.Helper()
	renderer, err := widget.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var out strings.Builder
	if err := b.Render(&out, renderer); err != nil {
		t.Fatalf("render: %v", err)
	}
	return out.String()
}

func TestResolveEditorKind(t *testing.T) {
	cases := []struct {
		tag  docgen.TypeTag
		want EditorKind
	}{
		{tag: docgen.TypeBool, want: EditorCheckbox},
		{tag: docgen.TypeString, want: EditorText},
		{tag: docgen.TypeArray, want: EditorText},
		{tag: docgen.TypeObject, want: EditorText},
		{tag: docgen.TypeFunc, want: EditorText},
		{tag: docgen.TypeNumber, want: EditorText},
		{tag: docgen.TypeUnion, want: EditorText},
		{tag: "", want: EditorText},
		{tag: "Bool", want: EditorText},
		{tag: "somethingNew", want: EditorText},
	}
	for _, tc := range cases {
		if got := ResolveEditorKind(tc.tag); got != tc.want {
			t.Fatalf("ResolveEditorKind(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestExtractValue_Checkbox(t *testing.T) {
	checked := true
	text := "ignored"

	if got := ExtractValue(EditorCheckbox, ChangeEvent{Checked: &checked, Value: &text}); got != true {
		t.Fatalf("got %#v, want true", got)
	}
	if got := ExtractValue(EditorCheckbox, widget.CheckedEvent(false)); got != false {
		t.Fatalf("got %#v, want false", got)
	}
	if got := ExtractValue(EditorCheckbox, widget.TextEvent("on")); got != nil {
		t.Fatalf("missing checked field should yield nil, got %#v", got)
	}
}

func TestExtractValue_Text(t *testing.T) {
	checked := true
	text := "baz"

	if got := ExtractValue(EditorText, ChangeEvent{Checked: &checked, Value: &text}); got != "baz" {
		t.Fatalf("got %#v, want baz", got)
	}
	if got := ExtractValue(EditorText, widget.TextEvent("")); got != "" {
		t.Fatalf("got %#v, want empty string", got)
	}
	if got := ExtractValue(EditorText, widget.CheckedEvent(true)); got != nil {
		t.Fatalf("missing value field should yield nil, got %#v", got)
	}
	if got := ExtractValue("unknown", widget.TextEvent(`["a"]`)); got != `["a"]` {
		t.Fatalf("unknown kinds read the value field, got %#v", got)
	}
}

func TestBinding_StringWithoutValueRendersEmptyTextField(t *testing.T) {
	models := &recordingModel{values: map[string]any{"foo": nil}}
	html := renderBinding(t, New("foo", docsFor("foo", docgen.TypeString), models))

	if !strings.Contains(html, `<input type="text" name="foo" value="">`) {
		t.Fatalf("expected empty text field: %s", html)
	}
	if diff := cmp.Diff([]docgen.TypeTag{docgen.TypeString}, models.reads); diff != "" {
		t.Fatalf("model read with unexpected tag (-want +got):\n%s", diff)
	}
}

func TestBinding_StringWithValue(t *testing.T) {
	models := &recordingModel{values: map[string]any{"foo": "foo"}}
	html := renderBinding(t, New("foo", docsFor("foo", docgen.TypeString), models))

	if !strings.Contains(html, `value="foo"`) {
		t.Fatalf("expected value foo: %s", html)
	}
}

func TestBinding_TextChangeDispatchesOnce(t *testing.T) {
	models := &recordingModel{values: map[string]any{"foo": "foo"}}
	binding := New("foo", docsFor("foo", docgen.TypeString), models)

	in, view, err := binding.Input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if view.Kind != EditorText {
		t.Fatalf("kind = %q, want text", view.Kind)
	}

	in.Change(widget.TextEvent("baz"))

	want := []model.Action{model.UpdateProp("foo", docgen.TypeString, "baz")}
	if diff := cmp.Diff(want, models.dispatched); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestBinding_BoolRendersCheckbox(t *testing.T) {
	unset := renderBinding(t, New("foo", docsFor("foo", docgen.TypeBool), &recordingModel{}))
	if !strings.Contains(unset, `<input type="checkbox" name="foo">`) {
		t.Fatalf("expected unchecked checkbox: %s", unset)
	}

	set := renderBinding(t, New("foo", docsFor("foo", docgen.TypeBool), &recordingModel{values: map[string]any{"foo": true}}))
	if !strings.Contains(set, `<input type="checkbox" name="foo" checked>`) {
		t.Fatalf("expected checked checkbox: %s", set)
	}
}

func TestBinding_CheckboxChangeDispatchesOnce(t *testing.T) {
	models := &recordingModel{values: map[string]any{"foo": false}}
	binding := New("foo", docsFor("foo", docgen.TypeBool), models)

	in, _, err := binding.Input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	in.Change(widget.CheckedEvent(true))

	want := []model.Action{model.UpdateProp("foo", docgen.TypeBool, true)}
	if diff := cmp.Diff(want, models.dispatched); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestBinding_MalformedCheckboxEventDispatchesNil(t *testing.T) {
	models := &recordingModel{}
	binding := New("foo", docsFor("foo", docgen.TypeBool), models)

	if err := binding.Change(widget.TextEvent("on")); err != nil {
		t.Fatalf("change: %v", err)
	}

	want := []model.Action{model.UpdateProp("foo", docgen.TypeBool, nil)}
	if diff := cmp.Diff(want, models.dispatched); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestBinding_StructuredTypesEditAsRawText(t *testing.T) {
	cases := []struct {
		tag     docgen.TypeTag
		value   any
		display string
	}{
		{tag: docgen.TypeArray, value: []any{"item1", "item2"}, display: "item1,item2"},
		{tag: docgen.TypeObject, value: map[string]any{"item": "value"}, display: "[object Object]"},
		{tag: docgen.TypeFunc, value: "() => {}", display: "() =&gt; {}"},
	}
	for _, tc := range cases {
		t.Run(string(tc.tag), func(t *testing.T) {
			empty := renderBinding(t, New("foo", docsFor("foo", tc.tag), &recordingModel{}))
			if !strings.Contains(empty, `<input type="text" name="foo" value="">`) {
				t.Fatalf("expected empty text field: %s", empty)
			}

			models := &recordingModel{values: map[string]any{"foo": tc.value}}
			binding := New("foo", docsFor("foo", tc.tag), models)
			html := renderBinding(t, binding)
			if !strings.Contains(html, `value="`+tc.display+`"`) {
				t.Fatalf("expected display %q: %s", tc.display, html)
			}

			if err := binding.Change(widget.TextEvent(`["a","b"]`)); err != nil {
				t.Fatalf("change: %v", err)
			}
			want := []model.Action{model.UpdateProp("foo", tc.tag, `["a","b"]`)}
			if diff := cmp.Diff(want, models.dispatched); diff != "" {
				t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBinding_UnknownTagFallsBackToText(t *testing.T) {
	models := &recordingModel{values: map[string]any{"foo": "x"}}
	binding := New("foo", docsFor("foo", "custom"), models)

	view, err := binding.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if view.Kind != EditorText {
		t.Fatalf("kind = %q, want text", view.Kind)
	}
}

func TestBinding_MissingDescriptorFails(t *testing.T) {
	models := &recordingModel{}
	binding := New("missing", docsFor("foo", docgen.TypeString), models)

	if _, err := binding.Resolve(); !errors.Is(err, docgen.ErrPropNotFound) {
		t.Fatalf("resolve: expected ErrPropNotFound, got %v", err)
	}
	if err := binding.Change(widget.TextEvent("x")); !errors.Is(err, docgen.ErrPropNotFound) {
		t.Fatalf("change: expected ErrPropNotFound, got %v", err)
	}
	if len(models.dispatched) != 0 {
		t.Fatalf("unexpected dispatches: %v", models.dispatched)
	}
}

func TestBinding_KindIgnoresValue(t *testing.T) {
	for _, value := range []any{nil, true, "true", []any{true}} {
		binding := New("foo", docsFor("foo", docgen.TypeString), &recordingModel{values: map[string]any{"foo": value}})
		view, err := binding.Resolve()
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if view.Kind != EditorText {
			t.Fatalf("value %#v changed kind to %q", value, view.Kind)
		}
	}
}

func TestBinding_WithRealStoreRoundTrip(t *testing.T) {
	docs := docsFor("foo", docgen.TypeString)
	models := model.NewStore(map[string]any{"foo": "foo"})
	binding := New("foo", docs, models)

	if err := binding.Change(widget.TextEvent("bar")); err != nil {
		t.Fatalf("change: %v", err)
	}
	view, err := binding.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if view.Value != "bar" {
		t.Fatalf("value = %#v, want bar", view.Value)
	}
	if tag, _ := models.TypeOf("foo"); tag != docgen.TypeString {
		t.Fatalf("tag = %q, want string", tag)
	}
}

func TestBinding_NilStores(t *testing.T) {
	if _, err := New("foo", nil, nil).Resolve(); err == nil {
		t.Fatalf("expected error without stores")
	}
}

func TestPanel(t *testing.T) {
	docs := docgen.NewStore(docgen.Document{Props: map[string]docgen.PropDescriptor{
		"label":    {Type: docgen.PropType{Name: docgen.TypeString}},
		"disabled": {Type: docgen.PropType{Name: docgen.TypeBool}},
	}})
	models := model.NewStore(map[string]any{"label": "Go", "disabled": true})
	panel := NewPanel(docs, models)

	views, err := panel.Views()
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	got := make([]string, 0, len(views))
	for _, view := range views {
		got = append(got, view.Descriptor.Name+":"+string(view.Kind))
	}
	if diff := cmp.Diff([]string{"disabled:checkbox", "label:text"}, got); diff != "" {
		t.Fatalf("views mismatch (-want +got):\n%s", diff)
	}

	renderer, err := widget.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var out strings.Builder
	if err := panel.Render(&out, renderer); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := out.String()
	if strings.Index(html, `data-prop="disabled"`) > strings.Index(html, `data-prop="label"`) {
		t.Fatalf("rows out of order: %s", html)
	}

	if _, err := panel.Binding("missing"); !errors.Is(err, docgen.ErrPropNotFound) {
		t.Fatalf("expected ErrPropNotFound, got %v", err)
	}
}
