package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	lexicon "github.com/goliatone/go-lexicon"
)

// FSProvider serves documents stored as {culture}/{section}.{ext} in an
// fs.FS. A filter line with a Section loads only the file named by its
// root-most Section, since nested document maps add further Sections;
// otherwise every document of the culture is loaded. Each file becomes a
// reloadable StringTable keyed Culture:<culture>:Section:<section>:...
type FSProvider struct {
	fsys   fs.FS
	logger *slog.Logger
}

// FSOption configures an FSProvider.
type FSOption func(*FSProvider)

// WithLogger reports skipped files.
func WithLogger(logger *slog.Logger) FSOption {
	return func(p *FSProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewFSProvider builds a provider over fsys.
func NewFSProvider(fsys fs.FS, opts ...FSOption) *FSProvider {
	p := &FSProvider{fsys: fsys, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Materialize implements lexicon.Provider.
func (p *FSProvider) Materialize(ctx context.Context, filter lexicon.Line) ([]lexicon.Asset, error) {
	culture, err := NormalizeCulture(filter.EffectiveCulture())
	if err != nil {
		return nil, err
	}
	dir := culture
	if dir == "" {
		dir = InvariantDir
	}

	files, err := p.documents(dir)
	if err != nil {
		return nil, err
	}
	section, hasSection := documentSection(filter)

	var assets []lexicon.Asset
	for _, name := range files {
		stem := strings.TrimSuffix(name, path.Ext(name))
		if hasSection && stem != section {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := p.table(culture, path.Join(dir, name), stem)
		if err != nil {
			return nil, err
		}
		assets = append(assets, table)
	}
	return assets, nil
}

// documentSection returns the root-most Section of filter, which names the
// document file.
func documentSection(filter lexicon.Line) (string, bool) {
	for _, ep := range lexicon.EffectiveParameters(filter) {
		if ep.Name == lexicon.ParameterSection && ep.Occurrence == 0 {
			return ep.Value, true
		}
	}
	return "", false
}

func (p *FSProvider) documents(dir string) ([]string, error) {
	entries, err := fs.ReadDir(p.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatOf(entry.Name()); !ok {
			p.logger.Debug("source: skipping file", slog.String("path", path.Join(dir, entry.Name())))
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (p *FSProvider) table(culture, file, section string) (*lexicon.StringTable, error) {
	format, _ := FormatOf(file)
	loader := func() ([]lexicon.StringEntry, error) {
		data, err := fs.ReadFile(p.fsys, file)
		if err != nil {
			return nil, err
		}
		doc, err := Decode(format, data)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", file, err)
		}
		base, err := cultureLine(culture)
		if err != nil {
			return nil, err
		}
		return Flatten(base.Section(section), doc)
	}
	return lexicon.NewStringTable(
		lexicon.WithTableName("fs:"+file),
		lexicon.WithTableLoader(loader),
	)
}

// Cultures implements lexicon.CultureEnumerator by listing the culture
// directories. The invariant directory reports "".
func (p *FSProvider) Cultures() (lexicon.Result[string], error) {
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return lexicon.Result[string]{}, fmt.Errorf("source: read root: %w", err)
	}
	var cultures []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() == InvariantDir {
			cultures = append(cultures, "")
			continue
		}
		culture, err := NormalizeCulture(entry.Name())
		if err != nil {
			p.logger.Debug("source: skipping directory", slog.String("path", entry.Name()), slog.Any("error", err))
			continue
		}
		cultures = append(cultures, culture)
	}
	return lexicon.Complete(cultures...), nil
}

// MessageFiles loads go-i18n message files from fsys into one table that
// spans their cultures.
func MessageFiles(fsys fs.FS, paths ...string) (*lexicon.StringTable, error) {
	loader := func() ([]lexicon.StringEntry, error) {
		var entries []lexicon.StringEntry
		for _, file := range paths {
			data, err := fs.ReadFile(fsys, file)
			if err != nil {
				return nil, fmt.Errorf("source: read %s: %w", file, err)
			}
			parsed, err := LoadMessageFile(file, data)
			if err != nil {
				return nil, err
			}
			entries = append(entries, parsed.Entries...)
		}
		return entries, nil
	}
	return lexicon.NewStringTable(
		lexicon.WithTableName("i18n:"+strings.Join(paths, ",")),
		lexicon.WithTableLoader(loader),
	)
}
