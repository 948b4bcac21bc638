package gemini

import "github.com/casualjim/persona/personality"

var thresholds = map[personality.SensitivityLevel]string{
	personality.SensitivityNone:   "BLOCK_NONE",
	personality.SensitivityLow:    "BLOCK_ONLY_HIGH",
	personality.SensitivityMedium: "BLOCK_MEDIUM_AND_ABOVE",
	personality.SensitivityHigh:   "BLOCK_LOW_AND_ABOVE",
}

var categories = map[personality.HarmCategory]string{
	personality.Harassment: "HARM_CATEGORY_HARASSMENT",
	personality.Hate:       "HARM_CATEGORY_HATE_SPEECH",
	personality.Sexual:     "HARM_CATEGORY_SEXUALLY_EXPLICIT",
	personality.Dangerous:  "HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Threshold returns the Gemini block threshold for a sensitivity level.
func Threshold(level personality.SensitivityLevel) (string, bool) {
	t, ok := thresholds[level]
	return t, ok
}

// Category returns the Gemini harm category constant.
func Category(c personality.HarmCategory) (string, bool) {
	v, ok := categories[c]
	return v, ok
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

func safetySettings(sensitivity map[personality.HarmCategory]personality.SensitivityLevel) []safetySetting {
	var result []safetySetting
	for _, c := range personality.HarmCategories {
		level, ok := sensitivity[c]
		if !ok {
			continue
		}
		threshold, ok := Threshold(level)
		if !ok {
			continue
		}
		category, _ := Category(c)
		result = append(result, safetySetting{Category: category, Threshold: threshold})
	}
	return result
}
