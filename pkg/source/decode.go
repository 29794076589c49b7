package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	lexicon "github.com/goliatone/go-lexicon"
	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	// ErrUnknownFormat is returned for unsupported file extensions.
	ErrUnknownFormat = errors.New("source: unknown document format")
	// ErrUnsupportedValue is returned for list or null values in a document.
	ErrUnsupportedValue = errors.New("source: unsupported document value")
)

// FormatOf infers the format from a file extension.
func FormatOf(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Decode parses data into a nested document.
func Decode(format Format, data []byte) (map[string]any, error) {
	doc := map[string]any{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", format, err)
	}
	return doc, nil
}

// Flatten turns a document into entries appended after base.
func Flatten(base lexicon.Line, doc map[string]any) ([]lexicon.StringEntry, error) {
	var entries []lexicon.StringEntry
	if err := flatten(base, doc, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func flatten(base lexicon.Line, doc map[string]any, out *[]lexicon.StringEntry) error {
	for _, name := range slices.Sorted(maps.Keys(doc)) {
		switch value := doc[name].(type) {
		case map[string]any:
			if err := flatten(base.Section(name), value, out); err != nil {
				return err
			}
		case string:
			key, err := leafKey(base, name)
			if err != nil {
				return err
			}
			*out = append(*out, lexicon.StringEntry{Key: key, Value: value})
		case bool, int, int64, uint64, float64:
			key, err := leafKey(base, name)
			if err != nil {
				return err
			}
			*out = append(*out, lexicon.StringEntry{Key: key, Value: fmt.Sprint(value)})
		default:
			return fmt.Errorf("%w: %T at %q", ErrUnsupportedValue, value, base.Section(name).String())
		}
	}
	return nil
}

func leafKey(base lexicon.Line, name string) (lexicon.Line, error) {
	if !strings.Contains(name, ":") {
		return base.Key(name), nil
	}
	parsed, err := base.Factory().Parse(name)
	if err != nil {
		return lexicon.Line{}, err
	}
	key := base
	for _, p := range parsed.Parameters() {
		key = key.With(p)
	}
	return key, nil
}

// Load decodes data and flattens it under culture.
func Load(format Format, culture string, data []byte) ([]lexicon.StringEntry, error) {
	doc, err := Decode(format, data)
	if err != nil {
		return nil, err
	}
	base, err := cultureLine(culture)
	if err != nil {
		return nil, err
	}
	return Flatten(base, doc)
}

// LoadYAML loads a YAML document for culture.
func LoadYAML(culture string, data []byte) ([]lexicon.StringEntry, error) {
	return Load(FormatYAML, culture, data)
}

// LoadJSON loads a JSON document for culture.
func LoadJSON(culture string, data []byte) ([]lexicon.StringEntry, error) {
	return Load(FormatJSON, culture, data)
}

// LoadTOML loads a TOML document for culture.
func LoadTOML(culture string, data []byte) ([]lexicon.StringEntry, error) {
	return Load(FormatTOML, culture, data)
}

func cultureLine(culture string) (lexicon.Line, error) {
	normalized, err := NormalizeCulture(culture)
	if err != nil {
		return lexicon.Line{}, err
	}
	if normalized == "" {
		return lexicon.Line{}, nil
	}
	return lexicon.Line{}.Culture(normalized), nil
}
