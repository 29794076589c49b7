package lexicon

import (
	"fmt"
	"strings"
)

// Mode controls how a parameter takes part in line comparison.
type Mode int

const (
	// ModeHint parameters are excluded from equality and hashing.
	ModeHint Mode = iota
	// ModeCanonical parameters compare positionally: order and occurrence
	// index matter.
	ModeCanonical
	// ModeNonCanonical parameters compare by their effective value only.
	ModeNonCanonical
)

func (m Mode) String() string {
	switch m {
	case ModeCanonical:
		return "canonical"
	case ModeNonCanonical:
		return "non-canonical"
	default:
		return "hint"
	}
}

// ParseMode converts the String form of a Mode back. Unknown values map to
// ModeHint and false.
func ParseMode(value string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "canonical":
		return ModeCanonical, true
	case "non-canonical", "noncanonical":
		return ModeNonCanonical, true
	case "hint":
		return ModeHint, true
	default:
		return ModeHint, false
	}
}

// Parameter is a name/value pair carried by a Part. Absent marks a parameter
// without a value; such parameters never take part in comparison.
type Parameter struct {
	Name   string
	Value  string
	Mode   Mode
	Absent bool
}

// NewCanonical builds a canonical (positional) parameter.
func NewCanonical(name, value string) Parameter {
	return Parameter{Name: name, Value: value, Mode: ModeCanonical}
}

// NewNonCanonical builds a value-only parameter.
func NewNonCanonical(name, value string) Parameter {
	return Parameter{Name: name, Value: value, Mode: ModeNonCanonical}
}

// NewHint builds a parameter that is ignored by comparison.
func NewHint(name, value string) Parameter {
	return Parameter{Name: name, Value: value, Mode: ModeHint}
}

// NewAbsent builds a parameter with no value.
func NewAbsent(name string, mode Mode) Parameter {
	return Parameter{Name: name, Mode: mode, Absent: true}
}

// Comparable reports whether p contributes to equality and hashing.
func (p Parameter) Comparable() bool {
	return !p.Absent && p.Mode != ModeHint
}

func (p Parameter) String() string {
	if p.Absent {
		return fmt.Sprintf("%s(%s)=<none>", p.Name, p.Mode)
	}
	return fmt.Sprintf("%s(%s)=%q", p.Name, p.Mode, p.Value)
}

// Well-known parameter names.
const (
	ParameterCulture        = "Culture"
	ParameterAssembly       = "Assembly"
	ParameterLocation       = "Location"
	ParameterResource       = "Resource"
	ParameterBaseName       = "BaseName"
	ParameterType           = "Type"
	ParameterSection        = "Section"
	ParameterKey            = "Key"
	ParameterN              = "N"
	ParameterPluralRules    = "PluralRules"
	ParameterStringFormat   = "StringFormat"
	ParameterFormatProvider = "FormatProvider"
)

// ParameterInfos maps parameter names to the mode a line assigns them when
// appended through Line.Parameter. Names not present are canonical.
type ParameterInfos map[string]Mode

// DefaultParameterInfos returns a fresh copy of the well-known parameters.
func DefaultParameterInfos() ParameterInfos {
	return ParameterInfos{
		ParameterCulture:        ModeNonCanonical,
		ParameterAssembly:       ModeCanonical,
		ParameterLocation:       ModeCanonical,
		ParameterResource:       ModeCanonical,
		ParameterBaseName:       ModeCanonical,
		ParameterType:           ModeCanonical,
		ParameterSection:        ModeCanonical,
		ParameterKey:            ModeCanonical,
		ParameterN:              ModeCanonical,
		ParameterPluralRules:    ModeHint,
		ParameterStringFormat:   ModeHint,
		ParameterFormatProvider: ModeHint,
	}
}

// ModeOf returns the registered mode for name.
func (infos ParameterInfos) ModeOf(name string) Mode {
	if mode, ok := infos[name]; ok {
		return mode
	}
	return ModeCanonical
}

// Clone returns a detached copy.
func (infos ParameterInfos) Clone() ParameterInfos {
	out := make(ParameterInfos, len(infos))
	for name, mode := range infos {
		out[name] = mode
	}
	return out
}
