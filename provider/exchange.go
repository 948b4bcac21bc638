package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/pkg/slogx"
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Exchange describes one HTTP round trip with a vendor and how to read text
// out of the response.
type Exchange struct {
	Provider personality.Name
	Client   Doer
	URL      string
	Header   http.Header
	Body     any
	Stream   bool

	// Complete extracts the completion text from a non-streaming response body.
	Complete func(body []byte) (string, error)

	// Frame extracts the text increment carried by one line of a streaming
	// response. It returns "" with a nil error for lines that carry no text and
	// ErrMalformedFragment for lines that cannot be decoded.
	Frame func(line []byte) (string, error)
}

// Fragments performs the exchange when the returned sequence is first ranged
// over and yields the decoded text. Non-streaming exchanges yield exactly one
// fragment.
func (x Exchange) Fragments(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := x.do(ctx)
		if err != nil {
			yield("", err)
			return
		}
		if resp.Body != nil {
			defer resp.Body.Close()
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			var body []byte
			if resp.Body != nil {
				body, _ = io.ReadAll(resp.Body)
			}
			slog.ErrorContext(ctx, "provider request failed",
				slogx.Provider(x.Provider),
				slog.Int("status", resp.StatusCode),
				slogx.ByteString("body", body),
			)
			yield("", &HTTPError{Provider: x.Provider, Status: resp.StatusCode, Body: string(body)})
			return
		}
		if resp.Body == nil {
			yield("", ErrUnreadableResponse)
			return
		}

		if !x.Stream {
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				yield("", fmt.Errorf("read response: %w", err))
				return
			}
			text, err := x.Complete(body)
			if err != nil {
				yield("", err)
				return
			}
			yield(text, nil)
			return
		}

		for line, err := range Lines(resp.Body) {
			if err != nil {
				yield("", fmt.Errorf("read stream: %w", err))
				return
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			text, err := x.Frame(line)
			if err != nil {
				slog.DebugContext(ctx, "dropping stream line",
					slogx.Provider(x.Provider),
					slogx.ByteString("line", line),
					slogx.Error(err),
				)
				continue
			}
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

func (x Exchange) do(ctx context.Context) (*http.Response, error) {
	payload, ok := x.Body.([]byte)
	if !ok {
		var err error
		if payload, err = json.Marshal(x.Body); err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range x.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	var client Doer = http.DefaultClient
	if x.Client != nil {
		client = x.Client
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}
