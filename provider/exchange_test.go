package provider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/casualjim/persona/personality"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func textFrame(line []byte) (string, error) {
	if !gjson.ValidBytes(line) {
		return "", ErrMalformedFragment
	}
	return gjson.GetBytes(line, "text").String(), nil
}

func collect(t *testing.T, x Exchange) ([]string, error) {
	t.Helper()
	var got []string
	for fragment, err := range x.Fragments(context.Background()) {
		if err != nil {
			return got, err
		}
		got = append(got, fragment)
	}
	return got, nil
}

func TestExchange_Stream(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, "{\"text\":\"A\"}\n")
		flusher.Flush()
		_, _ = io.WriteString(w, "not json\n{\"te")
		flusher.Flush()
		_, _ = io.WriteString(w, "xt\":\"B\"}\n{\"other\":1}\n")
	}))
	t.Cleanup(srv.Close)

	x := Exchange{
		Provider: personality.Gemini,
		URL:      srv.URL,
		Header:   http.Header{"X-Test": []string{"yes"}},
		Body:     map[string]any{"hello": "world"},
		Stream:   true,
		Frame:    textFrame,
	}

	got, err := collect(t, x)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
	assert.JSONEq(t, `{"hello":"world"}`, string(gotBody))
	assert.Equal(t, "yes", gotHeader.Get("X-Test"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
}

func TestExchange_RawBody(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"text":"done"}`)
	}))
	t.Cleanup(srv.Close)

	x := Exchange{
		Provider: personality.Gemini,
		URL:      srv.URL,
		Body:     []byte(`{"raw":true}`),
		Complete: func(body []byte) (string, error) { return gjson.GetBytes(body, "text").String(), nil },
	}

	got, err := collect(t, x)
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, got)
	assert.JSONEq(t, `{"raw":true}`, string(gotBody))
}

func TestExchange_NonStreamYieldsOnce(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`{"text":""}`)}
	x := Exchange{
		Provider: personality.OpenAI,
		Client: doerFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: body}, nil
		}),
		URL:      "http://example.invalid",
		Complete: func(b []byte) (string, error) { return gjson.GetBytes(b, "text").String(), nil },
	}

	got, err := collect(t, x)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)
	assert.True(t, body.closed)
}

func TestExchange_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"bad key"}`)
	}))
	t.Cleanup(srv.Close)

	x := Exchange{Provider: personality.OpenAI, URL: srv.URL, Stream: true, Frame: textFrame}
	got, err := collect(t, x)
	assert.Empty(t, got)

	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnauthorized, herr.Status)
	assert.Equal(t, `{"error":"bad key"}`, herr.Body)
	assert.Equal(t, `OpenAI API error (401): {"error":"bad key"}`, herr.Error())
}

func TestExchange_UnreadableResponse(t *testing.T) {
	x := Exchange{
		Provider: personality.Gemini,
		Client: doerFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK}, nil
		}),
		URL:    "http://example.invalid",
		Stream: true,
		Frame:  textFrame,
	}

	_, err := collect(t, x)
	assert.ErrorIs(t, err, ErrUnreadableResponse)
}

func TestExchange_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	x := Exchange{
		Provider: personality.Gemini,
		Client: doerFunc(func(*http.Request) (*http.Response, error) {
			return nil, boom
		}),
		URL: "http://example.invalid",
	}

	_, err := collect(t, x)
	assert.ErrorIs(t, err, boom)
}

func TestExchange_LazyUntilRanged(t *testing.T) {
	var calls int
	x := Exchange{
		Provider: personality.OpenAI,
		Client: doerFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil))}, nil
		}),
		URL:    "http://example.invalid",
		Stream: true,
		Frame:  textFrame,
	}

	seq := x.Fragments(context.Background())
	assert.Zero(t, calls)
	for range seq {
	}
	assert.Equal(t, 1, calls)
}

func TestExchange_EarlyStopClosesBody(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("{\"text\":\"A\"}\n{\"text\":\"B\"}\n")}
	x := Exchange{
		Provider: personality.Gemini,
		Client: doerFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: body}, nil
		}),
		URL:    "http://example.invalid",
		Stream: true,
		Frame:  textFrame,
	}

	for fragment, err := range x.Fragments(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, "A", fragment)
		break
	}
	assert.True(t, body.closed)
}
