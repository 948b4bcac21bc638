package gemini

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/casualjim/persona/messages"
	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/provider"
)

// DefaultBaseURL is the public Generative Language API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const textPath = "candidates.0.content.parts.0.text"

var _ provider.Provider = (*Provider)(nil)

// Provider talks to the Gemini generateContent endpoints.
type Provider struct {
	baseURL string
	client  provider.Doer
}

var (
	// BaseURL points the adapter at another server, mostly for tests.
	BaseURL    = opts.ForName[Provider, string]("baseURL")
	// HTTPClient replaces http.DefaultClient for every request.
	HTTPClient = opts.ForName[Provider, provider.Doer]("client")
)

// New creates the adapter. It panics when an option cannot be applied.
func New(options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.baseURL = strings.TrimSuffix(p.baseURL, "/")
	return p
}

// Name returns personality.Gemini.
func (p *Provider) Name() personality.Name {
	return personality.Gemini
}

// MapConfig keeps the common settings and the safety sensitivity.
func (p *Provider) MapConfig(cfg personality.Config) provider.GenerationParams {
	params := provider.BaseParams(cfg)
	if cfg.Gemini != nil {
		params.Sensitivity = cfg.Gemini.Sensitivity
	}
	return params
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

func (p *Provider) buildRequest(msgs []messages.Message, params provider.GenerationParams) ([]byte, error) {
	system, chat := messages.Split(msgs)

	contents := make([]content, 0, len(chat))
	for _, m := range chat {
		role := "user"
		if m.Role == messages.RoleAssistant {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}

	body, err := json.Marshal(generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if len(system) > 0 {
		instruction := content{Parts: []part{{Text: strings.Join(system, "\n\n")}}}
		if body, err = sjson.SetBytes(body, "systemInstruction", instruction); err != nil {
			return nil, fmt.Errorf("set system instruction: %w", err)
		}
	}

	if settings := safetySettings(params.Sensitivity); len(settings) > 0 {
		if body, err = sjson.SetBytes(body, "safetySettings", settings); err != nil {
			return nil, fmt.Errorf("set safety settings: %w", err)
		}
	}
	return body, nil
}

func (p *Provider) endpoint(params provider.GenerationParams, apiKey string) string {
	verb := "generateContent"
	if params.Stream {
		verb = "streamGenerateContent"
	}
	q := url.Values{"key": []string{apiKey}}
	return fmt.Sprintf("%s/v1beta/models/%s:%s?%s", p.baseURL, url.PathEscape(params.Model), verb, q.Encode())
}

// Send posts the conversation to generateContent, or streamGenerateContent
// when params.Stream is set. The key travels as a query parameter.
func (p *Provider) Send(ctx context.Context, msgs []messages.Message, params provider.GenerationParams, apiKey string) iter.Seq2[string, error] {
	body, err := p.buildRequest(msgs, params)
	if err != nil {
		return func(yield func(string, error) bool) {
			yield("", err)
		}
	}

	x := provider.Exchange{
		Provider: personality.Gemini,
		Client:   p.client,
		URL:      p.endpoint(params, apiKey),
		Body:     body,
		Stream:   params.Stream,
		Complete: decodeCompletion,
		Frame:    decodeFrame,
	}
	return x.Fragments(ctx)
}

func decodeCompletion(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("decode response: invalid json")
	}
	return gjson.GetBytes(body, textPath).String(), nil
}

// decodeFrame reads one streamed object. The punctuation of a JSON array
// spread over several lines ("[", "," and "]") is tolerated around it.
func decodeFrame(line []byte) (string, error) {
	line = bytes.TrimSpace(line)
	line = bytes.TrimPrefix(line, []byte("["))
	line = bytes.TrimPrefix(line, []byte(","))
	line = bytes.TrimSuffix(line, []byte("]"))
	line = bytes.TrimSuffix(line, []byte(","))
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return "", nil
	}
	if !gjson.ValidBytes(line) {
		return "", provider.ErrMalformedFragment
	}
	return gjson.GetBytes(line, textPath).String(), nil
}
