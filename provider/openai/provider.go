package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/casualjim/persona/messages"
	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/pkg/slogx"
	"github.com/casualjim/persona/provider"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

const completionsPath = "chat/completions"

var _ provider.Provider = (*Provider)(nil)

var (
	dataPrefix = []byte("data: ")
	doneMarker = []byte("[DONE]")
)

// Provider talks to an OpenAI compatible chat completions endpoint.
type Provider struct {
	baseURL string
	client  provider.Doer
	sdk     *openai.Client
}

var (
	// BaseURL points the adapter at another OpenAI compatible server.
	BaseURL = opts.ForName[Provider, string]("baseURL")
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
	p.sdk = openai.NewClient(
		option.WithBaseURL(p.baseURL+"/"),
		option.WithMiddleware(p.roundTrip),
		option.WithMaxRetries(0),
	)
	return p
}

// roundTrip hands SDK requests to the configured Doer.
func (p *Provider) roundTrip(req *http.Request, _ option.MiddlewareNext) (*http.Response, error) {
	return p.client.Do(req)
}

// Name returns personality.OpenAI.
func (p *Provider) Name() personality.Name {
	return personality.OpenAI
}

// MapConfig keeps the common generation settings. Gemini extras are ignored.
func (p *Provider) MapConfig(cfg personality.Config) provider.GenerationParams {
	return provider.BaseParams(cfg)
}

type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []messages.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
	Stream      bool               `json:"stream"`
}

func (p *Provider) buildRequest(msgs []messages.Message, params provider.GenerationParams) chatRequest {
	if msgs == nil {
		msgs = []messages.Message{}
	}
	return chatRequest{
		Model:       params.Model,
		Messages:    msgs,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		Stream:      params.Stream,
	}
}

// Send posts the conversation. Streaming requests are read line by line as
// server-sent events, a non-streaming request goes through the SDK client and
// yields one fragment. Nothing is sent until the sequence is ranged over.
func (p *Provider) Send(ctx context.Context, msgs []messages.Message, params provider.GenerationParams, apiKey string) iter.Seq2[string, error] {
	body := p.buildRequest(msgs, params)
	if !params.Stream {
		return func(yield func(string, error) bool) {
			yield(p.complete(ctx, body, apiKey))
		}
	}

	x := provider.Exchange{
		Provider: personality.OpenAI,
		Client:   p.client,
		URL:      p.baseURL + "/" + completionsPath,
		Header:   http.Header{"Authorization": []string{"Bearer " + apiKey}},
		Body:     body,
		Stream:   true,
		Frame:    decodeFrame,
	}
	return x.Fragments(ctx)
}

// complete asks the SDK for the raw response so error bodies reach the user
// verbatim and completions decode whatever content type the server reports.
func (p *Provider) complete(ctx context.Context, body chatRequest, apiKey string) (string, error) {
	var resp *http.Response
	err := p.sdk.Post(ctx, completionsPath, body, &resp, option.WithAPIKey(apiKey))
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp != nil && (resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices) {
		var raw []byte
		if resp.Body != nil {
			raw, _ = io.ReadAll(resp.Body)
		}
		slog.ErrorContext(ctx, "provider request failed",
			slogx.Provider(personality.OpenAI),
			slog.Int("status", resp.StatusCode),
			slogx.ByteString("body", raw),
		)
		return "", &provider.HTTPError{Provider: personality.OpenAI, Status: resp.StatusCode, Body: string(raw)}
	}
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	if resp == nil || resp.Body == nil {
		return "", provider.ErrUnreadableResponse
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return decodeCompletion(raw)
}

func decodeCompletion(body []byte) (string, error) {
	var completion openai.ChatCompletion
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return completion.Choices[0].Message.Content, nil
}

func decodeFrame(line []byte) (string, error) {
	data, ok := bytes.CutPrefix(line, dataPrefix)
	if !ok {
		return "", nil
	}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, doneMarker) {
		return "", nil
	}
	if !gjson.ValidBytes(data) {
		return "", provider.ErrMalformedFragment
	}
	return gjson.GetBytes(data, "choices.0.delta.content").String(), nil
}
