// Package layering merges string tables ordered from strongest to weakest
// and records which layer supplied each key.
package layering

import (
	"maps"
	"slices"
)

// Layer is one named table in a merge.
type Layer struct {
	Name  string
	Table map[string]string
}

// MergeLayers composes tables ordered strongest first. A key takes the value
// of the strongest table that defines it, including the empty string. The
// result never aliases an input.
func MergeLayers(tables ...map[string]string) map[string]string {
	merged := map[string]string{}
	for i := len(tables) - 1; i >= 0; i-- {
		maps.Copy(merged, tables[i])
	}
	return merged
}

// Merge composes named layers ordered strongest first and returns the
// merged table plus the name of the layer each key came from.
func Merge(layers ...Layer) (table map[string]string, origin map[string]string) {
	table = map[string]string{}
	origin = map[string]string{}
	for i := len(layers) - 1; i >= 0; i-- {
		for key, value := range layers[i].Table {
			table[key] = value
			origin[key] = layers[i].Name
		}
	}
	return table, origin
}

// Shadowed lists, per layer name, the keys a stronger layer overrides.
// Layers without shadowed keys are omitted.
func Shadowed(layers ...Layer) map[string][]string {
	out := map[string][]string{}
	seen := map[string]struct{}{}
	for _, layer := range layers {
		for _, key := range slices.Sorted(maps.Keys(layer.Table)) {
			if _, ok := seen[key]; ok {
				out[layer.Name] = append(out[layer.Name], key)
				continue
			}
			seen[key] = struct{}{}
		}
	}
	return out
}
