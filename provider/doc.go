// Package provider defines the contract every LLM vendor adapter implements and
// the plumbing they share.
//
// An adapter has three operations:
//
//   - Name reports which personality.Name it serves.
//   - MapConfig projects a normalized personality.Config into GenerationParams.
//     It is pure and performs no I/O.
//   - Send returns a lazy sequence of text fragments. No request is made until
//     the sequence is ranged over, and it can only be consumed once.
//
// Errors are delivered in-band: the sequence yields ("", err) once and stops.
// A failing HTTP status surfaces as *HTTPError before any fragment is produced.
//
// Streaming bodies are split into lines by Lines, which keeps an incomplete line
// across reads. Each line is handed to the adapter's frame decoder; a line that
// cannot be decoded is dropped (ErrMalformedFragment is only logged) so one bad
// frame never aborts the stream.
//
// Example usage:
//
//	p := openai.New()
//	params := p.MapConfig(cfg)
//	for fragment, err := range p.Send(ctx, msgs, params, apiKey) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(fragment)
//	}
//
// The response body is closed on every exit path, including when the caller
// breaks out of the loop early.
package provider
