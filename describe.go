package lexicon

import "strconv"

// AssetDescriptor describes one asset reachable from a root.
type AssetDescriptor struct {
	Path         string
	Type         string
	Capabilities []string
}

// Describe flattens the asset tree under root into descriptors, in traversal
// order. Providers are listed but not materialized.
func Describe(root Asset) []AssetDescriptor {
	var out []AssetDescriptor
	describeAsset(root, "", 0, &out)
	return out
}

func describeAsset(a Asset, path string, depth int, out *[]AssetDescriptor) {
	if a == nil || depth > DefaultMaxDepth {
		return
	}
	*out = append(*out, AssetDescriptor{
		Path:         displayPath(path),
		Type:         typeName(a),
		Capabilities: capabilities(a),
	})
	if composite, ok := a.(Composite); ok {
		for i, child := range composite.Children() {
			describeAsset(child, joinPath(path, strconv.Itoa(i)), depth+1, out)
		}
	}
}

func capabilities(a Asset) []string {
	var caps []string
	if _, ok := a.(StringAsset); ok {
		caps = append(caps, "string")
	}
	if _, ok := a.(ResourceAsset); ok {
		caps = append(caps, "resource")
	}
	if _, ok := a.(StreamAsset); ok {
		caps = append(caps, "stream")
	}
	if _, ok := a.(KeyEnumerator); ok {
		caps = append(caps, "keys")
	}
	if _, ok := a.(NameEnumerator); ok {
		caps = append(caps, "names")
	}
	if _, ok := a.(CultureEnumerator); ok {
		caps = append(caps, "cultures")
	}
	if _, ok := a.(Reloadable); ok {
		caps = append(caps, "reload")
	}
	if _, ok := a.(Composite); ok {
		caps = append(caps, "composite")
	}
	if _, ok := a.(Provider); ok {
		caps = append(caps, "provider")
	}
	return caps
}
