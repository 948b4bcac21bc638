package personality

import (
	"errors"
	"fmt"
	"math"
)

// NoteType is the frontmatter value of `note-type` that marks a note as an AI personality.
const NoteType = "ai-personality"

// Values used when a personality leaves the setting out.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
	DefaultStream      = true
)

var (
	ErrInvalidPersonality = errors.New("note must have note-type: ai-personality in frontmatter")
	ErrInvalidProvider    = errors.New(`provider must be either "openai" or "gemini"`)
	ErrInvalidModel       = errors.New("model must be specified as a string")
	ErrMissingCredential  = errors.New("API key is not configured")
)

// Name identifies an LLM vendor.
type Name string

const (
	OpenAI Name = "openai"
	Gemini Name = "gemini"
)

// Valid reports whether n is a supported vendor.
func (n Name) Valid() bool {
	return n == OpenAI || n == Gemini
}

func (n Name) String() string {
	return string(n)
}

// Title is the human readable vendor name used in notices.
func (n Name) Title() string {
	switch n {
	case OpenAI:
		return "OpenAI"
	case Gemini:
		return "Gemini"
	default:
		return string(n)
	}
}

// OutputTarget describes where the model output goes in the document.
type OutputTarget string

const (
	Insert OutputTarget = "insert"
)

// Config is the normalized, fully typed form of a personality's frontmatter.
// A Config is built once per invocation and never modified afterwards.
type Config struct {
	Provider    Name
	Model       string
	Temperature float64
	MaxTokens   int
	Stream      bool
	Output      OutputTarget

	// Gemini carries the gemini-only settings, nil for other providers.
	Gemini *GeminiExtras
}

// Normalize validates raw frontmatter and fills in defaults.
//
// The discriminator, provider and model are required and produce
// ErrInvalidPersonality, ErrInvalidProvider and ErrInvalidModel respectively.
// Optional fields with the wrong type fall back to their defaults without error.
func Normalize(frontmatter map[string]any) (Config, error) {
	if nt, _ := frontmatter["note-type"].(string); nt != NoteType {
		return Config{}, ErrInvalidPersonality
	}

	provider, _ := frontmatter["provider"].(string)
	name := Name(provider)
	if !name.Valid() {
		return Config{}, ErrInvalidProvider
	}

	model, ok := frontmatter["model"].(string)
	if !ok || model == "" {
		return Config{}, ErrInvalidModel
	}

	cfg := Config{
		Provider:    name,
		Model:       model,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Stream:      DefaultStream,
		Output:      Insert,
	}

	if t, ok := asFloat(frontmatter["temperature"]); ok {
		cfg.Temperature = t
	}
	if n, ok := asInt(frontmatter["maxTokens"]); ok {
		cfg.MaxTokens = n
	}
	if s, ok := frontmatter["stream"].(bool); ok {
		cfg.Stream = s
	}
	if output, ok := frontmatter["output"].(map[string]any); ok {
		if target, _ := output["target"].(string); OutputTarget(target) == Insert {
			cfg.Output = Insert
		}
	}

	if name == Gemini {
		if gemini, ok := frontmatter["gemini"].(map[string]any); ok {
			if sensitivity, ok := gemini["sensitivity"].(map[string]any); ok {
				cfg.Gemini = &GeminiExtras{Sensitivity: parseSensitivity(sensitivity)}
			}
		}
	}

	return cfg, nil
}

// ResolveKey picks the API key for the given provider. It never falls back to
// the key of another provider.
func ResolveKey(name Name, openaiKey, geminiKey string) (string, error) {
	var key string
	switch name {
	case OpenAI:
		key = openaiKey
	case Gemini:
		key = geminiKey
	default:
		return "", fmt.Errorf("unknown provider: %s", name)
	}
	if key == "" {
		return "", fmt.Errorf("%s %w, please set it in the settings", name.Title(), ErrMissingCredential)
	}
	return key, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
