/*
Package openai implements provider.Provider for the OpenAI chat completions API.

Requests go to {base}/chat/completions with a bearer token:

	{"model": "...", "messages": [...], "temperature": 0.7, "max_tokens": 1024, "stream": true}

# Streaming

With stream enabled the endpoint answers with server-sent events. Every frame
is a line of the form

	data: {"choices":[{"delta":{"content":"Hel"}}]}

and the stream ends with the literal line `data: [DONE]`, which is skipped.
Lines without the data prefix (blank separators, comments) are ignored and a
frame that is not valid JSON is dropped without ending the stream.

# Non-streaming

The request is sent through the openai-go client with retries disabled. The
JSON body is decoded into openai.ChatCompletion and the content of the first
choice is yielded as the only fragment. An error status keeps the raw response
body in provider.HTTPError.

# Configuration

	p := openai.New(
		openai.BaseURL("http://localhost:8080/v1"),
		openai.HTTPClient(&http.Client{Timeout: time.Minute}),
	)

The adapter never retries.
*/
package openai
