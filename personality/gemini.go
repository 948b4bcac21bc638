package personality

// HarmCategory is a content category the Gemini safety filter can be tuned for.
type HarmCategory string

const (
	Harassment HarmCategory = "harassment"
	Hate       HarmCategory = "hate"
	Sexual     HarmCategory = "sexual"
	Dangerous  HarmCategory = "dangerous"
)

// HarmCategories lists the supported categories in request order.
var HarmCategories = []HarmCategory{Harassment, Hate, Sexual, Dangerous}

// SensitivityLevel is an ordinal filter strictness, from none to high.
type SensitivityLevel string

const (
	SensitivityNone   SensitivityLevel = "none"
	SensitivityLow    SensitivityLevel = "low"
	SensitivityMedium SensitivityLevel = "medium"
	SensitivityHigh   SensitivityLevel = "high"
)

// Valid reports whether l is one of the known levels.
func (l SensitivityLevel) Valid() bool {
	switch l {
	case SensitivityNone, SensitivityLow, SensitivityMedium, SensitivityHigh:
		return true
	default:
		return false
	}
}

// GeminiExtras holds the gemini-only part of a personality.
// A category missing from Sensitivity keeps the vendor default.
type GeminiExtras struct {
	Sensitivity map[HarmCategory]SensitivityLevel
}

func parseSensitivity(raw map[string]any) map[HarmCategory]SensitivityLevel {
	result := make(map[HarmCategory]SensitivityLevel, len(raw))
	for _, category := range HarmCategories {
		value, _ := raw[string(category)].(string)
		if level := SensitivityLevel(value); level.Valid() {
			result[category] = level
		}
	}
	return result
}
