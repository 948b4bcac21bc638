package persona

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fogfish/opts"

	"github.com/casualjim/persona/document"
	"github.com/casualjim/persona/internal/registry"
	"github.com/casualjim/persona/messages"
	"github.com/casualjim/persona/personality"
	"github.com/casualjim/persona/pkg/metrics"
	"github.com/casualjim/persona/pkg/slogx"
	"github.com/casualjim/persona/pkg/uuidx"
	"github.com/casualjim/persona/provider"
	"github.com/casualjim/persona/provider/builtin"
	"github.com/casualjim/persona/settings"
)

// PersonalityField is the frontmatter key a note uses to reference the
// personality that should process it.
const PersonalityField = "personality"

// Store reads notes by id.
type Store interface {
	Read(id string) (string, error)
	Frontmatter(id string) (map[string]any, error)
}

// Resolver finds the note a link points to, relative to the note it appears in.
type Resolver interface {
	ResolveLink(link, source string) (string, bool)
}

// Runner executes personalities against an editor. It remembers the last
// personality it ran so it can be run again.
type Runner struct {
	store     Store
	resolver  Resolver
	settings  settings.Source
	notifier  Notifier
	providers registry.Registry[personality.Name, provider.Provider]
	metrics   *metrics.Metrics

	mu   sync.Mutex
	last string
}

// New creates a runner reading personalities from store. Without options the
// network is disabled, notices go to the default logger and the OpenAI and
// Gemini adapters are available.
func New(store Store, options ...opts.Option[Runner]) *Runner {
	r := &Runner{
		store:     store,
		settings:  settings.Static{},
		notifier:  logNotifier{},
		providers: builtin.Registry(),
		metrics:   metrics.New(),
	}
	if resolver, ok := store.(Resolver); ok {
		r.resolver = resolver
	}
	if err := opts.Apply(r, options); err != nil {
		panic(err)
	}
	return r
}

func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// LastPersonality returns the id of the personality run most recently, or ""
// when none has been run.
func (r *Runner) LastPersonality() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Runner) remember(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = id
}

// RunLast runs the last personality again.
func (r *Runner) RunLast(ctx context.Context, ed document.Editor) (State, error) {
	id := r.LastPersonality()
	if id == "" {
		r.notify(errorNotice(ErrNoLastPersonality))
		return Idle, ErrNoLastPersonality
	}
	return r.Run(ctx, id, ed)
}

// RunReferenced runs the personality named in the frontmatter of the note
// being edited. The reference is resolved relative to that note.
func (r *Runner) RunReferenced(ctx context.Context, noteID string, ed document.Editor) (State, error) {
	id, err := r.referenced(noteID)
	if err != nil {
		slog.DebugContext(ctx, "personality reference", slog.String("note", noteID), slogx.Error(err))
		r.notify(errorNotice(err))
		return Idle, err
	}
	return r.Run(ctx, id, ed)
}

func (r *Runner) referenced(noteID string) (string, error) {
	fm, err := r.store.Frontmatter(noteID)
	if err != nil {
		return "", err
	}
	ref, _ := fm[PersonalityField].(string)
	if strings.TrimSpace(ref) == "" {
		return "", ErrNoPersonalityReference
	}
	if r.resolver == nil {
		return "", fmt.Errorf("%w: %s", ErrPersonalityNotFound, ref)
	}
	id, ok := r.resolver.ResolveLink(ref, noteID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPersonalityNotFound, ref)
	}
	return id, nil
}

// Run executes the personality stored under personalityID on the selection of
// ed and writes the answer below it. The returned state is Done on success and
// Aborted otherwise, in which case the error says why. The failure has also
// been reported through the notifier.
func (r *Runner) Run(ctx context.Context, personalityID string, ed document.Editor) (state State, err error) {
	r.remember(personalityID)

	runID := uuidx.NewRunID()
	logger := slog.Default().With(slogx.RunID(runID), slog.String("personality", personalityID))
	inv := &invocation{runner: r, logger: logger, state: Idle}
	start := runID.Started()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during run: %v", p)
			inv.transition(ctx, Aborted)
			state = Aborted
		}

		outcome := metrics.OutcomeDone
		if err != nil {
			outcome = metrics.OutcomeAborted
			logger.ErrorContext(ctx, "personality run aborted", slog.String("state", state.String()), slogx.Error(err))
			r.notify(errorNotice(err))
		} else {
			logger.InfoContext(ctx, "personality run complete", slog.Duration("elapsed", time.Since(start)))
			r.notify(Notice{Kind: NoticeSuccess, Message: MsgComplete})
		}
		r.metrics.Observe(inv.provider.String(), outcome, time.Since(start))
	}()

	if err := inv.execute(ctx, personalityID, ed); err != nil {
		inv.transition(ctx, Aborted)
		return Aborted, err
	}
	inv.transition(ctx, Done)
	return Done, nil
}

func (r *Runner) notify(n Notice) {
	if r.notifier != nil {
		r.notifier.Notify(n)
	}
}

// invocation carries the state of a single run.
type invocation struct {
	runner   *Runner
	logger   *slog.Logger
	state    State
	provider personality.Name
}

// transition is a no-op once the invocation has finished.
func (inv *invocation) transition(ctx context.Context, next State) {
	if inv.state.Terminal() {
		return
	}
	inv.logger.DebugContext(ctx, "state transition", slog.String("from", inv.state.String()), slog.String("to", next.String()))
	inv.state = next
}

// request is everything validation produces.
type request struct {
	provider provider.Provider
	params   provider.GenerationParams
	messages []messages.Message
	apiKey   string
}

func (inv *invocation) execute(ctx context.Context, personalityID string, ed document.Editor) error {
	r := inv.runner

	s, err := r.settings.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !s.AllowNetwork {
		return ErrNetworkDisabled
	}

	inv.transition(ctx, ValidatingInput)
	req, err := inv.validate(personalityID, ed, s)
	if err != nil {
		return err
	}

	r.notify(Notice{Kind: NoticeInfo, Message: MsgProcessing})

	if ed.Selection() != "" {
		ed.SetCursor(ed.Cursor(document.To))
	}
	cursor := ed.Cursor(document.Head)
	ed.ReplaceRange("\n\n", cursor, cursor)
	insertAt := ed.Cursor(document.Head)

	inv.transition(ctx, AwaitingProviderResponse)
	inv.logger.DebugContext(ctx, "sending request",
		slogx.Provider(inv.provider),
		slog.String("model", req.params.Model),
		slog.Bool("stream", req.params.Stream),
	)

	var acc strings.Builder
	end := insertAt
	for fragment, err := range req.provider.Send(ctx, req.messages, req.params, req.apiKey) {
		if err != nil {
			return err
		}
		if inv.state == AwaitingProviderResponse {
			inv.transition(ctx, ApplyingOutput)
		}
		acc.WriteString(fragment)
		text := acc.String()
		ed.ReplaceRange(text, insertAt, end)
		end = document.Advance(insertAt, text)
		r.metrics.Fragment(inv.provider.String())
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// validate checks everything needed to send the request. It must not touch the
// editor beyond reading the selection.
func (inv *invocation) validate(personalityID string, ed document.Editor, s settings.Settings) (request, error) {
	r := inv.runner
	if ed == nil {
		return request{}, ErrNoActiveDocument
	}

	fm, err := r.store.Frontmatter(personalityID)
	if err != nil {
		return request{}, err
	}
	if len(fm) == 0 {
		return request{}, ErrNoFrontmatter
	}

	cfg, err := personality.Normalize(fm)
	if err != nil {
		return request{}, err
	}
	inv.provider = cfg.Provider

	key, err := personality.ResolveKey(cfg.Provider, s.OpenAIAPIKey, s.GeminiAPIKey)
	if err != nil {
		return request{}, err
	}

	p, ok := r.providers.Lookup(cfg.Provider)
	if !ok {
		inv.logger.Debug("provider not registered", slog.Any("available", r.providers.Keys()))
		return request{}, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	raw, err := r.store.Read(personalityID)
	if err != nil {
		return request{}, err
	}

	selection := ed.Selection()
	if selection == "" {
		return request{}, ErrNoSelection
	}

	return request{
		provider: p,
		params:   p.MapConfig(cfg),
		messages: messages.Build(messages.PromptBody(raw), selection),
		apiKey:   key,
	}, nil
}
