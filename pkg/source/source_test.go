package source

import (
	"context"
	"testing"
	"testing/fstest"

	lexicon "github.com/goliatone/go-lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryMap(entries []lexicon.StringEntry) map[string]string {
	out := map[string]string{}
	for _, e := range entries {
		out[e.Key.String()] = e.Value
	}
	return out
}

func TestLoadFormatsProduceSameEntries(t *testing.T) {
	yamlDoc := []byte("Errors:\n  NotFound: Not found\n  Retry: 3\nTitle: Home\n")
	jsonDoc := []byte(`{"Errors":{"NotFound":"Not found","Retry":3},"Title":"Home"}`)
	tomlDoc := []byte("Title = \"Home\"\n[Errors]\nNotFound = \"Not found\"\nRetry = 3\n")

	want := map[string]string{
		"Culture:en:Section:Errors:Key:NotFound": "Not found",
		"Culture:en:Section:Errors:Key:Retry":    "3",
		"Culture:en:Key:Title":                   "Home",
	}

	for name, load := range map[string]func() ([]lexicon.StringEntry, error){
		"yaml": func() ([]lexicon.StringEntry, error) { return LoadYAML("en", yamlDoc) },
		"json": func() ([]lexicon.StringEntry, error) { return LoadJSON("en", jsonDoc) },
		"toml": func() ([]lexicon.StringEntry, error) { return LoadTOML("en", tomlDoc) },
	} {
		t.Run(name, func(t *testing.T) {
			entries, err := load()
			require.NoError(t, err)
			assert.Equal(t, want, entryMap(entries))
		})
	}
}

func TestLoadLeafInLineForm(t *testing.T) {
	entries, err := LoadYAML("", []byte("\"Type:Dialog:Key:Ok\": OK\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Type:Dialog:Key:Ok", entries[0].Key.String())
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadYAML("en", []byte("List:\n  - a\n  - b\n"))
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = Load(Format("xml"), "en", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadJSON("en", []byte("{"))
	assert.Error(t, err)

	_, err = LoadYAML("not a culture!", []byte("A: b\n"))
	assert.Error(t, err)
}

func TestNormalizeCulture(t *testing.T) {
	got, err := NormalizeCulture("en_us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", got)

	got, err = NormalizeCulture(" ")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestFormatOf(t *testing.T) {
	for name, want := range map[string]Format{"a.yml": FormatYAML, "a.YAML": FormatYAML, "a.json": FormatJSON, "a.toml": FormatTOML} {
		got, ok := FormatOf(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := FormatOf("a.txt")
	assert.False(t, ok)
}

func TestLoadMessageFile(t *testing.T) {
	data := []byte("[NotFound]\nother = \"Not found\"\n\n[Items]\none = \"One item\"\n")

	file, err := LoadMessageFile("active.fr.toml", data)
	require.NoError(t, err)
	assert.Equal(t, "fr", file.Culture)
	assert.Equal(t, map[string]string{
		"Culture:fr:Key:NotFound": "Not found",
		"Culture:fr:Key:Items":    "One item",
	}, entryMap(file.Entries))
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"en/Errors.yaml":          {Data: []byte("NotFound: Not found\n")},
		"en/Dialogs.json":         {Data: []byte(`{"Ok":"OK"}`)},
		"en/notes.txt":            {Data: []byte("ignored")},
		"fr/Errors.toml":          {Data: []byte("NotFound = \"Introuvable\"\n")},
		"invariant/Errors.yml":    {Data: []byte("NotFound: '404'\n")},
		"messages/active.de.toml": {Data: []byte("Hello = \"Hallo\"\n")},
	}
}

func TestFSProviderMaterializesSection(t *testing.T) {
	provider := NewFSProvider(testFS())
	ctx := context.Background()

	assets, err := provider.Materialize(ctx, lexicon.Line{}.Culture("en").Section("Errors").Key("NotFound"))
	require.NoError(t, err)
	require.Len(t, assets, 1)

	all, err := provider.Materialize(ctx, lexicon.Line{}.Culture("en"))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := provider.Materialize(ctx, lexicon.Line{}.Culture("es"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFSProviderResolvesThroughEngine(t *testing.T) {
	root := lexicon.NewComposition(NewFSProvider(testFS()))
	ctx := context.Background()

	for culture, want := range map[string]string{"en": "Not found", "fr": "Introuvable", "": "404"} {
		key := lexicon.Line{}
		if culture != "" {
			key = key.Culture(culture)
		}
		value, found, err := lexicon.GetString(ctx, root, key.Section("Errors").Key("NotFound"))
		require.NoError(t, err)
		assert.True(t, found, culture)
		assert.Equal(t, want, value, culture)
	}

	keys, err := lexicon.GetAllKeys(ctx, root, lexicon.Line{}.Culture("en"))
	require.NoError(t, err)
	assert.True(t, keys.IsComplete())
	assert.Len(t, keys.Items, 2)

	cultures, err := lexicon.DefaultResolver().GetCultures(ctx, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "fr", ""}, cultures.Items)
}

func TestFSProviderResolvesNestedSections(t *testing.T) {
	fsys := fstest.MapFS{
		"en/Dialogs.yaml": {Data: []byte("Confirm:\n  Ok: \"Yes\"\n  Cancel: \"No\"\nClose: Close\n")},
		"en/Errors.yaml":  {Data: []byte("Confirm: Wrong file\n")},
	}
	provider := NewFSProvider(fsys)
	ctx := context.Background()
	nested := lexicon.Line{}.Culture("en").Section("Dialogs").Section("Confirm").Key("Ok")

	assets, err := provider.Materialize(ctx, nested)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	root := lexicon.NewComposition(provider)
	value, found, err := lexicon.GetString(ctx, root, nested)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Yes", value)

	value, found, err = lexicon.GetString(ctx, root, lexicon.Line{}.Culture("en").Section("Dialogs").Key("Close"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Close", value)

	keys, err := lexicon.GetAllKeys(ctx, root, lexicon.Line{}.Culture("en"))
	require.NoError(t, err)
	assert.Len(t, keys.Items, 4)
}

func TestMessageFiles(t *testing.T) {
	table, err := MessageFiles(testFS(), "messages/active.de.toml")
	require.NoError(t, err)

	value, found, err := table.GetString(lexicon.Line{}.Culture("de").Key("Hello"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Hallo", value)

	_, err = MessageFiles(testFS(), "messages/missing.en.toml")
	assert.Error(t, err)
}
