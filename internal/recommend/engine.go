package recommend

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
	"reelchat/internal/namecache"
	"reelchat/internal/services"
	"reelchat/internal/services/llm"
)

// Message is a single conversational turn supplied by the client.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Result carries everything a transport needs to render one assistant turn.
type Result struct {
	Text   string
	Items  []catalog.Item
	Query  StructuredQuery
	Intent Intent
}

// ChatClient is the slice of the LLM client the pipeline consumes.
type ChatClient interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Catalog covers the discovery and entity-search calls the pipeline issues.
type Catalog interface {
	Discover(ctx context.Context, kind catalog.MediaKind, params url.Values) (*catalog.DiscoverResponse, error)
	SearchPerson(ctx context.Context, name, language string) ([]catalog.SearchResult, error)
	SearchKeyword(ctx context.Context, name string) ([]catalog.SearchResult, error)
}

// GenreDirectory exposes the cached genre taxonomy for prompt grounding.
type GenreDirectory interface {
	Lookup(kind catalog.MediaKind, name string) (int64, bool)
	Names(kind catalog.MediaKind) []string
}

// TurnRecorder persists a completed turn for offline inspection.
type TurnRecorder interface {
	Record(ctx context.Context, turn TurnRecord) error
}

// TurnRecord is the audit row written after each completed turn.
type TurnRecord struct {
	RequestID     string
	Intent        string
	Query         StructuredQuery
	ResultCount   int
	ResponseChars int
	Duration      time.Duration
}

// Engine orchestrates the pipeline stages for one conversational turn.
type Engine struct {
	chat     ChatClient
	catalog  Catalog
	genres   GenreDirectory
	resolver *Resolver
	turns    TurnRecorder
	logger   *slog.Logger
}

// EngineOption adjusts optional engine collaborators.
type EngineOption func(*Engine)

// WithLogger attaches a structured logger to the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNameCache routes person and keyword lookups through a persistent cache.
func WithNameCache(cache *namecache.Cache) EngineOption {
	return func(e *Engine) {
		e.resolver.cache = cache
	}
}

// WithTurnRecorder enables audit recording of completed turns.
func WithTurnRecorder(recorder TurnRecorder) EngineOption {
	return func(e *Engine) {
		e.turns = recorder
	}
}

// NewEngine builds an engine over the supplied chat client, catalog client,
// and genre directory.
func NewEngine(chat ChatClient, cat Catalog, genres GenreDirectory, opts ...EngineOption) *Engine {
	engine := &Engine{
		chat:    chat,
		catalog: cat,
		genres:  genres,
		logger:  logging.NewNop(),
	}
	engine.resolver = newResolver(cat, engine.logger)
	for _, opt := range opts {
		opt(engine)
	}
	engine.resolver.logger = engine.logger
	return engine
}

// Respond runs the full pipeline over the conversation and returns the
// assistant turn. The message list must contain at least one entry; every
// downstream failure degrades to a fallback response instead of an error.
func (e *Engine) Respond(ctx context.Context, messages []Message) (*Result, error) {
	if len(messages) == 0 {
		return nil, services.Wrap(services.ErrValidation, "recommend", "respond", "conversation must contain at least one message", nil)
	}
	start := time.Now()
	latest := messages[len(messages)-1]

	intent := e.classify(ctx, latest.Text)
	e.logger.Debug("classified user message",
		logging.String(logging.FieldIntent, string(intent)))

	var result *Result
	switch intent {
	case IntentMovie, IntentTV:
		query := e.synthesize(ctx, latest.Text, intent)
		items := e.execute(ctx, query, intent)
		text := e.summarize(ctx, latest.Text, items, intent)
		result = &Result{Text: text, Items: items, Query: query, Intent: intent}
	default:
		result = &Result{Text: e.generalRespond(ctx, messages), Intent: IntentOther}
	}

	e.recordTurn(ctx, result, time.Since(start))
	return result, nil
}

func (e *Engine) recordTurn(ctx context.Context, result *Result, elapsed time.Duration) {
	if e.turns == nil {
		return
	}
	record := TurnRecord{
		RequestID:     requestIDFromContext(ctx),
		Intent:        string(result.Intent),
		Query:         result.Query,
		ResultCount:   len(result.Items),
		ResponseChars: len(result.Text),
		Duration:      elapsed,
	}
	if err := e.turns.Record(ctx, record); err != nil {
		e.logger.Warn("failed to record turn",
			logging.Error(err),
			logging.String(logging.FieldImpact, "turn served normally, audit row lost"))
	}
}

type contextKey string

const requestIDContextKey contextKey = "reelchat.request_id"

// ContextWithRequestID tags a context with the transport request id so audit
// rows can be correlated with server logs.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
