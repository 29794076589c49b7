package source

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// InvariantDir is the directory FSProvider reads for the invariant culture.
const InvariantDir = "invariant"

// NormalizeCulture canonicalizes a BCP 47 name ("en_us" becomes "en-US").
// The invariant culture "" is returned unchanged.
func NormalizeCulture(culture string) (string, error) {
	culture = strings.TrimSpace(culture)
	if culture == "" {
		return "", nil
	}
	tag, err := language.Parse(strings.ReplaceAll(culture, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("source: culture %q: %w", culture, err)
	}
	return tag.String(), nil
}
