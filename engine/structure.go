package engine

import (
	"fmt"
	"strings"
)

// RequiredSections are the five labels every finished deconstruction
// must contain. Matching is case-insensitive; reporting uses these
// exact forms.
var RequiredSections = []string{
	"ATOMIC DECONSTRUCTION",
	"WEAK ASSUMPTIONS",
	"THE HIGH-LEVERAGE TWEAK",
	"LOGICAL DERIVATION",
	"THE CONTRARIAN VIEW",
}

// MissingSections returns the required labels absent from text, in
// canonical order. An empty result means the structure is complete.
func MissingSections(text string) []string {
	upper := strings.ToUpper(text)

	var missing []string
	for _, section := range RequiredSections {
		if !strings.Contains(upper, section) {
			missing = append(missing, section)
		}
	}
	return missing
}

// AppendStructureWarning annotates text with a visible warning naming
// any missing required sections. It never blocks or retries; the
// annotated text is what gets persisted and shown.
func AppendStructureWarning(text string) string {
	missing := MissingSections(text)
	if len(missing) == 0 {
		return text
	}
	return text + fmt.Sprintf(
		"\n\n---\n**Structural warning:** missing required section(s): %s",
		strings.Join(missing, ", "),
	)
}
