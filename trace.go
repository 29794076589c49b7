package lexicon

import (
	"context"
	"encoding/json"
	"time"
)

// Trace captures provenance for a string lookup: every asset the traversal
// reached, in order, and which one produced the value.
type Trace struct {
	Key   string       `json:"key"`
	Value string       `json:"value,omitempty"`
	Found bool         `json:"found"`
	Steps []Provenance `json:"steps"`
}

// Provenance details how one asset took part in a traced lookup.
type Provenance struct {
	Path      string `json:"path"`
	Asset     string `json:"asset"`
	Supported bool   `json:"supported"`
	Found     bool   `json:"found"`
	Value     string `json:"value,omitempty"`
}

// Source returns the step that produced the value.
func (t Trace) Source() (Provenance, bool) {
	for _, step := range t.Steps {
		if step.Found {
			return step, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// TraceString resolves key like GetString while recording provenance.
func (r *Resolver) TraceString(ctx context.Context, root Asset, key Line) (Trace, error) {
	ctx, span := r.start(ctx, "TraceString", key)
	started := time.Now()
	trace := Trace{Key: key.String()}
	visited := 0
	_, err := r.walk(ctx, root, key, "", 0, func(path string, a Asset) (bool, error) {
		step := Provenance{Path: displayPath(path), Asset: typeName(a)}
		sa, ok := a.(StringAsset)
		if !ok {
			trace.Steps = append(trace.Steps, step)
			return false, nil
		}
		visited++
		step.Supported = true
		value, found, err := sa.GetString(key)
		if err != nil {
			trace.Steps = append(trace.Steps, step)
			return false, &AssetError{Path: path, Asset: step.Asset, Operation: "TraceString", Err: err}
		}
		if found {
			step.Found, step.Value = true, value
			trace.Found, trace.Value = true, value
		}
		trace.Steps = append(trace.Steps, step)
		return found, nil
	})
	r.finish(span, ResolutionLogEvent{
		Operation: "TraceString",
		Key:       trace.Key,
		Found:     trace.Found,
		Status:    lookupStatus(visited),
		Visited:   visited,
		Duration:  time.Since(started),
		Err:       err,
	})
	return trace, err
}
