// Package builtin wires the bundled vendor adapters into a registry.
package builtin

import (
	"github.com/casualjim/persona/internal/registry"
	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/provider"
	"github.com/casualjim/persona/provider/gemini"
	"github.com/casualjim/persona/provider/openai"
)

// Registry returns a registry holding the given providers keyed by vendor.
// With no arguments it holds the default OpenAI and Gemini adapters.
func Registry(providers ...provider.Provider) registry.Registry[personality.Name, provider.Provider] {
	if len(providers) == 0 {
		providers = []provider.Provider{openai.New(), gemini.New()}
	}
	r := registry.New[personality.Name, provider.Provider]()
	for _, p := range providers {
		r.Register(p.Name(), p)
	}
	return r
}
