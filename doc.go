// Package lexicon resolves immutable localization keys against a tree of
// content sources.
//
// A Line is a chain of Parts carrying parameters such as Culture, Section
// and Key. Assets answer lookups for the capabilities they implement,
// Compositions order them, and Providers materialize assets on demand for a
// filter line. A Resolver walks the tree in a fixed order: the asset itself,
// then composite children, then materialized provider output.
//
//	root := lexicon.NewComposition(overrides, defaults)
//	key := lexicon.Line{}.Culture("en").Section("Errors").Key("NotFound")
//	text, found, err := lexicon.GetString(ctx, root, key)
package lexicon
