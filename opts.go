package persona

import (
	"github.com/fogfish/opts"

	"github.com/casualjim/persona/internal/registry"
	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/pkg/metrics"
	"github.com/casualjim/persona/provider"
	"github.com/casualjim/persona/provider/builtin"
	"github.com/casualjim/persona/settings"
)

// WithResolver sets how personality references in note frontmatter are
// resolved. It defaults to the Store when the store can resolve links.
var WithResolver = opts.ForName[Runner, Resolver]("resolver")

// WithSettings sets where the network switch and the API keys are read
// from. They are loaded again on every invocation.
var WithSettings = opts.ForName[Runner, settings.Source]("settings")

// WithNotifier sets the receiver of user facing notices.
var WithNotifier = opts.ForName[Runner, Notifier]("notifier")

// WithMetrics sets the collectors invocations are recorded in.
var WithMetrics = opts.ForName[Runner, *metrics.Metrics]("metrics")

// WithProviders replaces the default vendor adapters. A provider is looked up
// by the name it reports.
func WithProviders(providers ...provider.Provider) opts.Option[Runner] {
	return opts.Type[Runner](func(r *Runner) error {
		r.providers = builtin.Registry(providers...)
		return nil
	})
}

// WithRegistry uses an existing provider registry.
var WithRegistry = opts.ForName[Runner, registry.Registry[personality.Name, provider.Provider]]("providers")
