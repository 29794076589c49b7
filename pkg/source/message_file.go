package source

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	lexicon "github.com/goliatone/go-lexicon"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// MessageFile is a parsed go-i18n message file.
type MessageFile struct {
	Path    string
	Culture string
	Entries []lexicon.StringEntry
}

func newBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	return bundle
}

// LoadMessageFile parses a go-i18n message file such as active.en.toml. The
// culture comes from the file name. Each message becomes Key:<id> with its
// "other" form, falling back to "one" when "other" is empty. Plural forms
// are not evaluated.
func LoadMessageFile(path string, data []byte) (MessageFile, error) {
	parsed, err := newBundle().ParseMessageFileBytes(data, path)
	if err != nil {
		return MessageFile{}, fmt.Errorf("source: message file %s: %w", path, err)
	}
	culture := ""
	if parsed.Tag != language.Und {
		culture = parsed.Tag.String()
	}
	base, err := cultureLine(culture)
	if err != nil {
		return MessageFile{}, err
	}
	file := MessageFile{Path: path, Culture: culture}
	for _, msg := range parsed.Messages {
		if msg == nil || msg.ID == "" {
			continue
		}
		value := msg.Other
		if value == "" {
			value = msg.One
		}
		key, err := leafKey(base, msg.ID)
		if err != nil {
			return MessageFile{}, err
		}
		file.Entries = append(file.Entries, lexicon.StringEntry{Key: key, Value: value})
	}
	return file, nil
}
