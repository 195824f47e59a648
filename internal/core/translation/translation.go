// Package translation defines the translation result shape shared by the
// upstream adapter, the cache, and the translate service
package translation

import (
	"fmt"
	"strings"
)

// Generation is one of the six fixed linguistic-era labels
type Generation string

// The six output generations. StandardEnglish appears only as a detected
// input classification, never as a translation target
const (
	GenerationClassic     Generation = "Classic"
	GenerationBabyBoomers Generation = "Baby Boomers"
	GenerationGenX        Generation = "Gen X"
	GenerationMillennials Generation = "Millennials"
	GenerationGenZ        Generation = "Gen Z"
	GenerationGenAlpha    Generation = "Gen Alpha"

	GenerationStandardEnglish Generation = "Standard English"
)

// Generations lists the translation targets in presentation order
var Generations = []Generation{
	GenerationClassic,
	GenerationBabyBoomers,
	GenerationGenX,
	GenerationMillennials,
	GenerationGenZ,
	GenerationGenAlpha,
}

// Valid reports whether g is a translation target generation
func (g Generation) Valid() bool {
	for _, k := range Generations {
		if g == k {
			return true
		}
	}
	return false
}

// SlangDefinition glosses one slang word used in a translation
type SlangDefinition struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// GenerationTranslation is the rendering of the input for one generation
type GenerationTranslation struct {
	Generation Generation        `json:"generation"`
	Text       string            `json:"text"`
	SlangWords []SlangDefinition `json:"slangWords"`
}

// Result is the full translation payload returned to clients
type Result struct {
	DetectedGeneration Generation              `json:"detectedGeneration"`
	OriginalText       string                  `json:"originalText"`
	Translations       []GenerationTranslation `json:"translations"`
}

// CheckSchema verifies the invariants a well-formed result must hold:
// non-empty detectedGeneration and originalText, exactly six translations,
// each labeled with a distinct known generation and non-empty text.
// slangWords may be empty but never nil after this check
func (r *Result) CheckSchema() error {
	if strings.TrimSpace(string(r.DetectedGeneration)) == "" {
		return fmt.Errorf("missing detectedGeneration")
	}
	if strings.TrimSpace(r.OriginalText) == "" {
		return fmt.Errorf("missing originalText")
	}
	if n := len(r.Translations); n != len(Generations) {
		return fmt.Errorf("expected %d translations, got %d", len(Generations), n)
	}

	seen := map[Generation]bool{}
	for i := range r.Translations {
		tr := &r.Translations[i]
		if !tr.Generation.Valid() {
			return fmt.Errorf("translations[%d]: unknown generation %q", i, tr.Generation)
		}
		if seen[tr.Generation] {
			return fmt.Errorf("translations[%d]: duplicate generation %q", i, tr.Generation)
		}
		seen[tr.Generation] = true
		if strings.TrimSpace(tr.Text) == "" {
			return fmt.Errorf("translations[%d]: empty text", i)
		}
		if tr.SlangWords == nil {
			tr.SlangWords = []SlangDefinition{}
		}
		for j, sw := range tr.SlangWords {
			if strings.TrimSpace(sw.Word) == "" || strings.TrimSpace(sw.Definition) == "" {
				return fmt.Errorf("translations[%d].slangWords[%d]: empty word or definition", i, j)
			}
		}
	}
	return nil
}
