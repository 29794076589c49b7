package lexicon

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPruneKeepsQualifyingPrefix(t *testing.T) {
	line := Line{}.Culture("en").Section("Errors").Hint("Origin", "ui").Key("NotFound")

	pruned, err := Prune(line, ExcludeHints{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if got, want := pruned.String(), "Culture:en:Section:Errors:Key:NotFound"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	// The Culture/Section prefix is reused, not rebuilt.
	if pruned.Tail().Previous() != line.Tail().Previous().Previous() {
		t.Fatalf("qualifying prefix should be shared with the input")
	}
	if !Equal(pruned, line) {
		t.Fatalf("removing hints must not change identity")
	}
}

func TestPruneReturnsSameLineWhenEverythingQualifies(t *testing.T) {
	line := Line{}.Section("Errors").Key("NotFound")

	pruned, err := Prune(line, ExcludeHints{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned.Tail() != line.Tail() {
		t.Fatalf("nothing to prune should return the input")
	}

	empty, err := Prune(Line{}, ExcludeHints{})
	if err != nil || !empty.IsEmpty() {
		t.Fatalf("empty line should stay empty, got %q %v", empty, err)
	}
}

func TestPruneIdempotent(t *testing.T) {
	table := newTestTable(t)
	line, err := Line{}.Culture("en").Hint("Origin", "ui").Section("Errors").Asset(table)
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	line, err = line.Key("NotFound").Inline("fr", "Introuvable")
	if err != nil {
		t.Fatalf("inline: %v", err)
	}

	q := NewRules(ExcludeHints{}, ExcludeKinds{KindAsset, KindInlines}, NewParameterValues(ParameterCulture, "en", ""))
	once, err := Prune(line, q)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	twice, err := Prune(once, q)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !Equal(once, twice) || once.String() != twice.String() {
		t.Fatalf("prune is not idempotent: %q vs %q", once, twice)
	}
	if twice.Tail() != once.Tail() {
		t.Fatalf("second prune should not rebuild anything")
	}
	if len(once.Assets()) != 0 || len(once.Inlines()) != 0 {
		t.Fatalf("excluded kinds survived")
	}
	if got, want := once.String(), "Culture:en:Section:Errors:Key:NotFound"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPruneEverythingRejectedLeavesPlaceholder(t *testing.T) {
	line := Line{}.Hint("A", "1").Hint("B", "2")

	pruned, err := Prune(line, ExcludeHints{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned.Len() != 1 || !pruned.Tail().IsPlaceholder() {
		t.Fatalf("expected a single placeholder part, got %d parts", pruned.Len())
	}
	if pruned.String() != "" {
		t.Fatalf("placeholder should render empty, got %q", pruned)
	}
}

func TestPruneOccurrenceIndices(t *testing.T) {
	cases := []struct {
		name string
		line Line
		rule Qualifier
		want string
	}{
		{
			name: "canonical counts from the root",
			line: Line{}.Section("A").Section("B").Section("C").Key("x"),
			rule: MaxOccurrence{Name: ParameterSection, Max: 2},
			want: "Section:A:Section:B:Key:x",
		},
		{
			name: "non canonical counts accepted tail-ward occurrences",
			line: Line{}.Culture("en").Culture("fr").Key("k"),
			rule: MaxOccurrence{Name: ParameterCulture, Max: 1},
			want: "Culture:fr:Key:k",
		},
		{
			name: "rejected occurrences are not counted",
			line: Line{}.Culture("en").Culture("de").Culture("fr").Key("k"),
			rule: NewRules(
				ParameterFunc(func(p *Parameter, _ int) bool { return p == nil || p.Value != "fr" }),
				MaxOccurrence{Name: ParameterCulture, Max: 1},
			),
			want: "Culture:de:Key:k",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pruned, err := Prune(tc.line, tc.rule)
			if err != nil {
				t.Fatalf("prune: %v", err)
			}
			if got := pruned.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPruneThroughFactoryErrors(t *testing.T) {
	table := newTestTable(t)
	line, err := Line{}.Hint("Origin", "ui").Asset(table)
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	line = line.Key("x")

	// The asset part must be re-appended through a factory that no longer
	// supports assets.
	rebound := line.WithFactory(NewFactory(WithoutConstructor(KindAsset)))
	_, err = Prune(rebound, ExcludeHints{})
	if !errors.Is(err, ErrUnsupportedArgument) {
		t.Fatalf("expected construction failure, got %v", err)
	}
}

func TestFilterConjunction(t *testing.T) {
	keys := []Line{
		Line{}.Culture("en").Section("Errors").Key("NotFound"),
		Line{}.Culture("fr").Section("Errors").Key("NotFound"),
		Line{}.Culture("en").Section("Dialogs").Key("Ok"),
		Line{}.Section("Errors").Key("Invariant"),
	}

	cases := []struct {
		name     string
		criteria Line
		want     []string
	}{
		{
			name:     "empty criteria keep everything",
			criteria: Line{},
			want: []string{
				"Culture:en:Section:Errors:Key:NotFound",
				"Culture:fr:Section:Errors:Key:NotFound",
				"Culture:en:Section:Dialogs:Key:Ok",
				"Section:Errors:Key:Invariant",
			},
		},
		{
			name:     "all parameters must match",
			criteria: Line{}.Culture("en").Section("Errors"),
			want:     []string{"Culture:en:Section:Errors:Key:NotFound"},
		},
		{
			name:     "empty value matches missing parameter",
			criteria: Line{}.Culture("").Section("Errors"),
			want:     []string{"Section:Errors:Key:Invariant"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, key := range FilterKeys(keys, tc.criteria) {
				got = append(got, key.String())
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRulesLock(t *testing.T) {
	rules := NewRules(ExcludeHints{})
	if err := rules.Add(MaxOccurrence{Max: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !rules.NeedsOccurrenceIndex() {
		t.Fatalf("MaxOccurrence needs occurrence indices")
	}
	locked := rules.Lock()
	if !locked.ReadOnly() {
		t.Fatalf("Lock should make the set read-only")
	}
	if err := locked.Add(ExcludeHints{}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if len(locked.Members()) != 2 {
		t.Fatalf("locked set should keep its members")
	}
}

func TestNilRules(t *testing.T) {
	var rules *Rules
	if err := rules.Add(ExcludeHints{}); !errors.Is(err, ErrNilRules) {
		t.Fatalf("expected ErrNilRules, got %v", err)
	}
	if rules.Lock() != nil || rules.ReadOnly() || rules.Members() != nil {
		t.Fatalf("nil rules should stay nil and unlocked")
	}
	line := Line{}.Culture("en").Hint("Origin", "ui").Key("x")
	if !rules.Qualify(line) || rules.NeedsOccurrenceIndex() {
		t.Fatalf("nil rules accept everything")
	}
	pruned, err := Prune(line, rules)
	if err != nil || pruned.Tail() != line.Tail() {
		t.Fatalf("pruning with nil rules must return the line, got %s %v", pruned, err)
	}
}

func TestQualifiers(t *testing.T) {
	pattern, err := NewParameterPattern(ParameterKey, "^Not")
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}

	cases := []struct {
		name string
		q    Qualifier
		line Line
		want bool
	}{
		{"values accept listed", NewParameterValues(ParameterCulture, "en"), Line{}.Culture("en").Key("x"), true},
		{"values reject other", NewParameterValues(ParameterCulture, "en"), Line{}.Culture("fr").Key("x"), false},
		{"values missing needs empty", NewParameterValues(ParameterCulture, "en"), Line{}.Key("x"), false},
		{"values missing allowed", NewParameterValues(ParameterCulture, "en", ""), Line{}.Key("x"), true},
		{"values ignore shadowed culture", NewParameterValues(ParameterCulture, "en"), Line{}.Culture("en").Culture("fr"), true},
		{"pattern match", pattern, Line{}.Key("NotFound"), true},
		{"pattern miss", pattern, Line{}.Key("Found"), false},
		{"exclude hints", ExcludeHints{}, Line{}.Hint("a", "b"), false},
		{"any of", AnyOf{NewParameterValues(ParameterCulture, "fr"), ExcludeHints{}}, Line{}.Culture("en"), true},
		{"empty any of", AnyOf{}, Line{}, false},
		{"max occurrence", MaxOccurrence{Name: ParameterSection, Max: 1}, Line{}.Section("a").Section("b"), false},
		{"line func", LineFunc(func(l Line) bool { return l.Len() == 1 }), Line{}.Key("x"), true},
		{"parameter func", ParameterFunc(func(p *Parameter, occ int) bool { return p.Name != "Type" }), Line{}.Type("T"), false},
		{"rules conjunction", NewRules(ExcludeHints{}, NewParameterValues(ParameterKey, "x")), Line{}.Key("x"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.Qualify(tc.line); got != tc.want {
				t.Fatalf("Qualify(%q) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}
