package lexicon

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringTableSetAndDelete(t *testing.T) {
	table := newTestTable(t)
	key := Line{}.Culture("en").Key("x")

	table.Set(key, "one")
	table.Set(Line{}.Key("x").Culture("en").Hint("Origin", "ui"), "two")
	if table.Len() != 1 {
		t.Fatalf("equal keys should share an entry, got %d", table.Len())
	}
	if value, found, _ := table.GetString(key); !found || value != "two" {
		t.Fatalf("expected replaced value, got %q", value)
	}
	if !table.Delete(key) || table.Delete(key) {
		t.Fatalf("delete should report removal once")
	}
	if table.Len() != 0 || table.Name() != "test" {
		t.Fatalf("unexpected table state")
	}
}

func TestEntriesFromMap(t *testing.T) {
	entries, err := EntriesFromMap("en", map[string]string{
		"Key:b":                "B",
		"Culture:fr:Key:a":     "A",
		"plain key":            "P",
		"Section:Errors:Key:c": "C",
	})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	got := map[string]string{}
	for _, e := range entries {
		got[e.Key.String()] = e.Value
	}
	want := map[string]string{
		"Culture:en:Key:b":                "B",
		"Culture:fr:Key:a":                "A",
		"Culture:en:Key:plain key":        "P",
		"Culture:en:Section:Errors:Key:c": "C",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries (-want +got):\n%s", diff)
	}
}

func TestStringTableEnumerations(t *testing.T) {
	table := mustTable(t, "", map[string]string{
		"Culture:en:Key:a": "A",
		"Culture:fr:Key:a": "A fr",
		"Key:a":            "invariant",
	})

	keys, err := table.Keys(Line{}.Culture("fr"))
	if err != nil || !keys.IsComplete() || len(keys.Items) != 1 {
		t.Fatalf("keys %+v %v", keys, err)
	}
	cultures, err := table.Cultures()
	if err != nil {
		t.Fatalf("cultures: %v", err)
	}
	if diff := cmp.Diff([]string{"en", "fr", ""}, cultures.Items); diff != "" {
		t.Fatalf("cultures (-want +got):\n%s", diff)
	}
}

func TestStringTableReloadFailureKeepsContent(t *testing.T) {
	fail := false
	table, err := NewStringTable(WithTableName("flaky"), WithTableLoader(func() ([]StringEntry, error) {
		if fail {
			return nil, errors.New("disk gone")
		}
		return []StringEntry{{Key: Line{}.Key("x"), Value: "kept"}}, nil
	}))
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	fail = true
	if err := table.Reload(); err == nil || err.Error() != `lexicon: reload table "flaky": disk gone` {
		t.Fatalf("unexpected reload error %v", err)
	}
	if value, found, _ := table.GetString(Line{}.Key("x")); !found || value != "kept" {
		t.Fatalf("failed reload must keep old content")
	}

	if _, err := NewStringTable(WithTableLoader(func() ([]StringEntry, error) {
		return nil, errors.New("boom")
	})); err == nil {
		t.Fatalf("initial load failure should fail construction")
	}
}

func TestCompositionMutation(t *testing.T) {
	a, b := newTestTable(t), newTestTable(t)
	c := NewComposition(a, nil)
	if err := c.Add(b); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(nil); !errors.Is(err, ErrNilAsset) {
		t.Fatalf("expected ErrNilAsset, got %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 children, got %d", c.Len())
	}

	snapshot := c.Children()
	if !c.Remove(a) || c.Remove(a) {
		t.Fatalf("remove should succeed once")
	}
	if len(snapshot) != 2 {
		t.Fatalf("children snapshot must not change")
	}
	fn := ProviderFunc(func(context.Context, Line) ([]Asset, error) { return nil, nil })
	_ = c.Add(fn)
	if c.Remove(fn) {
		t.Fatalf("non comparable children are never matched")
	}

	other := NewComposition()
	other.CopyFrom(c)
	if other.Len() != 2 {
		t.Fatalf("CopyFrom should append every child, got %d", other.Len())
	}
	c.Clear()
	if c.Len() != 0 || other.Len() != 2 {
		t.Fatalf("clear should only affect the receiver")
	}
}

func TestStackOrdersByPriority(t *testing.T) {
	low := mustTable(t, "", map[string]string{"Key:x": "library", "Key:y": "library only"})
	high := mustTable(t, "", map[string]string{"Key:x": "application"})

	stack, err := NewStack(
		NewLayer(NewScope("library", ScopePriorityLibrary), low),
		NewLayer(NewScope("application", ScopePriorityApplication, WithScopeLabel("App")), high),
	)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	var names []string
	for _, layer := range stack.Layers() {
		names = append(names, layer.Scope.Name)
	}
	if diff := cmp.Diff([]string{"application", "library"}, names); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if layer, ok := stack.Scope("application"); !ok || layer.Scope.Label != "App" {
		t.Fatalf("scope lookup failed")
	}

	root := stack.Composition()
	ctx := context.Background()
	if value, _, _ := GetString(ctx, root, Line{}.Key("x")); value != "application" {
		t.Fatalf("higher priority should win, got %q", value)
	}
	if value, _, _ := GetString(ctx, root, Line{}.Key("y")); value != "library only" {
		t.Fatalf("lower layers fill gaps, got %q", value)
	}
}

func TestStackValidation(t *testing.T) {
	table := newTestTable(t)
	cases := []struct {
		name   string
		layers []Layer
		want   error
	}{
		{"missing name", []Layer{NewLayer(NewScope("", 1), table)}, ErrScopeNameRequired},
		{"nil asset", []Layer{NewLayer(NewScope("a", 1), nil)}, ErrNilAsset},
		{"duplicate", []Layer{NewLayer(NewScope("a", 1), table), NewLayer(NewScope("a", 2), table)}, ErrDuplicateScopeName},
		{"same priority", []Layer{NewLayer(NewScope("a", 1), table), NewLayer(NewScope("b", 1), table)}, ErrPriorityOrder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStack(tc.layers...); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestScopeMetadataIsCopied(t *testing.T) {
	meta := map[string]any{"tenant_id": "acme"}
	scope := NewScope("tenant", 10, WithScopeMetadata(meta))
	meta["tenant_id"] = "changed"

	stack, err := NewStack(NewLayer(scope, newTestTable(t)))
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	layers := stack.Layers()
	layers[0].Scope.Metadata["tenant_id"] = "mutated"
	if got := stack.Layers()[0].Scope.Metadata["tenant_id"]; got != "acme" {
		t.Fatalf("metadata must be copied, got %v", got)
	}
}

func TestOverrideApplicationLibraryFallback(t *testing.T) {
	override := mustTable(t, "", map[string]string{"Key:x": "override"})
	fallback := mustTable(t, "", map[string]string{"Key:x": "fallback", "Key:y": "fallback"})

	root, err := OverrideApplicationLibraryFallback(override, nil, nil, fallback)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	if root.Len() != 2 {
		t.Fatalf("nil layers should be skipped, got %d", root.Len())
	}
	ctx := context.Background()
	if value, _, _ := GetString(ctx, root, Line{}.Key("x")); value != "override" {
		t.Fatalf("override should win, got %q", value)
	}
	if value, _, _ := GetString(ctx, root, Line{}.Key("y")); value != "fallback" {
		t.Fatalf("fallback should fill gaps, got %q", value)
	}
}

func TestDescribe(t *testing.T) {
	provider := ProviderFunc(func(context.Context, Line) ([]Asset, error) {
		t.Fatalf("Describe must not materialize providers")
		return nil, nil
	})
	root := NewComposition(newTestTable(t), NewComposition(NewResourceTable()), provider)

	got := Describe(root)
	want := []AssetDescriptor{
		{Path: "root", Type: "*lexicon.Composition", Capabilities: []string{"composite"}},
		{Path: "0", Type: "*lexicon.StringTable", Capabilities: []string{"string", "keys", "cultures", "reload"}},
		{Path: "1", Type: "*lexicon.Composition", Capabilities: []string{"composite"}},
		{Path: "1/0", Type: "*lexicon.ResourceTable", Capabilities: []string{"resource", "stream", "names", "cultures"}},
		{Path: "2", Type: "lexicon.ProviderFunc", Capabilities: []string{"provider"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("describe (-want +got):\n%s", diff)
	}
}
