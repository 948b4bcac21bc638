package personality

import "github.com/invopop/jsonschema"

// Frontmatter documents the frontmatter keys a personality note understands.
// Normalize works on the raw map, this type only feeds Schema.
type Frontmatter struct {
	NoteType    string   `json:"note-type" jsonschema:"required,enum=ai-personality"`
	Provider    string   `json:"provider" jsonschema:"required,enum=openai,enum=gemini"`
	Model       string   `json:"model" jsonschema:"required,minLength=1"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"default=0.7"`
	MaxTokens   *int     `json:"maxTokens,omitempty" jsonschema:"default=1024"`
	Stream      *bool    `json:"stream,omitempty" jsonschema:"default=true"`
	Output      *struct {
		Target string `json:"target,omitempty" jsonschema:"enum=insert,default=insert"`
	} `json:"output,omitempty"`
	Gemini *struct {
		Sensitivity *struct {
			Harassment string `json:"harassment,omitempty" jsonschema:"enum=none,enum=low,enum=medium,enum=high"`
			Hate       string `json:"hate,omitempty" jsonschema:"enum=none,enum=low,enum=medium,enum=high"`
			Sexual     string `json:"sexual,omitempty" jsonschema:"enum=none,enum=low,enum=medium,enum=high"`
			Dangerous  string `json:"dangerous,omitempty" jsonschema:"enum=none,enum=low,enum=medium,enum=high"`
		} `json:"sensitivity,omitempty"`
	} `json:"gemini,omitempty"`
}

// Schema returns the JSON schema of a personality note's frontmatter.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(&Frontmatter{})
	s.Title = "AI personality"
	s.Description = "Frontmatter of a note that configures an LLM call"
	return s
}
