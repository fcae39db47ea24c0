package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	internalannotate "github.com/goliatone/go-formprompt/internal/annotate"
	internalengine "github.com/goliatone/go-formprompt/internal/engine"
	"github.com/goliatone/go-formprompt/internal/logger"
	"github.com/goliatone/go-formprompt/internal/metrics"
	"github.com/goliatone/go-formprompt/pkg/annotate"
	"github.com/goliatone/go-formprompt/pkg/catalog"
	"github.com/goliatone/go-formprompt/pkg/model"
)

// TracerName identifies spans emitted by the engine.
const TracerName = "formprompt/engine"

// DefaultBatchLimit bounds concurrent resolutions in ResolveBatch.
const DefaultBatchLimit = 4

var (
	// ErrNoCatalog reports an engine constructed without a usable catalog.
	ErrNoCatalog = errors.New("engine: catalog unavailable")
	// ErrInvalidOrdering reports an unknown ordering mode.
	ErrInvalidOrdering = errors.New("engine: invalid ordering")
)

// Ordering selects how output fields are ordered.
type Ordering = internalengine.Ordering

const (
	OrderSynthesis = internalengine.OrderSynthesis
	OrderMention   = internalengine.OrderMention
)

// Cutoffs are the fuzzy score thresholds on a 0-100 scale.
type Cutoffs = internalengine.Cutoffs

// DefaultCutoffs returns the standard thresholds.
func DefaultCutoffs() Cutoffs {
	return internalengine.DefaultCutoffs()
}

// Option customises the engine configuration.
type Option func(*Engine)

// WithCatalog injects the field and template catalog. Without it the
// embedded default catalog is used.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = cat
	}
}

// WithAnnotator replaces the default heuristic annotator.
func WithAnnotator(a annotate.Annotator) Option {
	return func(e *Engine) {
		e.annotator = a
	}
}

// WithLogger injects a zap logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics registers the resolution collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = metrics.New(reg)
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithOrdering selects the output ordering mode.
func WithOrdering(o Ordering) Option {
	return func(e *Engine) {
		e.cfg.Ordering = o
	}
}

// WithCutoffs overrides the fuzzy thresholds. Zero values keep defaults.
func WithCutoffs(c Cutoffs) Option {
	return func(e *Engine) {
		e.cfg.Cutoffs = c
	}
}

// WithNegationWindow sets how many tokens after a negation trigger are
// scanned for targets.
func WithNegationWindow(n int) Option {
	return func(e *Engine) {
		e.cfg.NegationWindow = n
	}
}

// WithLabeler replaces the function that turns free-text subjects into
// labels for dynamic fields.
func WithLabeler(fn func(string) string) Option {
	return func(e *Engine) {
		e.cfg.Labels.Labeler = fn
	}
}

// WithBatchLimit bounds the concurrency of ResolveBatch.
func WithBatchLimit(n int) Option {
	return func(e *Engine) {
		e.batchLimit = n
	}
}

// WithTransformer registers a Transformer that runs on every resolved
// schema before it is returned.
func WithTransformer(t Transformer) Option {
	return func(e *Engine) {
		e.transformer = t
	}
}

// Request is one prompt to resolve. Tokens and Entities are optional
// pre-computed annotations; without Tokens the engine annotator runs.
type Request struct {
	Prompt   string            `json:"prompt"`
	Tokens   []annotate.Token  `json:"tokens,omitempty"`
	Entities []annotate.Entity `json:"entities,omitempty"`
}

// Result is a resolved schema plus a description of how it was reached.
type Result struct {
	RequestID     string               `json:"requestId"`
	Schema        model.ResolvedSchema `json:"schema"`
	TemplateKey   string               `json:"templateKey,omitempty"`
	TemplateScore int                  `json:"templateScore,omitempty"`
	Tokens        []annotate.Token     `json:"tokens"`
	Spans         []SpanInfo           `json:"spans"`
	Excluded      []string             `json:"excluded,omitempty"`
	Dropped       map[string]int       `json:"dropped,omitempty"`
	Duration      time.Duration        `json:"duration"`
}

// SpanInfo describes one resolved span.
type SpanInfo struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
	Text  string `json:"text"`
}

// Engine resolves prompts against a catalog. It is safe for concurrent use.
type Engine struct {
	catalog     *catalog.Catalog
	annotator   annotate.Annotator
	logger      *zap.Logger
	metrics     *metrics.Recorder
	tracer      trace.Tracer
	transformer Transformer
	cfg         internalengine.Config
	batchLimit  int
	resolver    *internalengine.Resolver
	initErr     error
}

// New constructs an Engine. Missing dependencies are filled with the
// built-in implementations; a catalog that cannot be loaded is reported by
// every Resolve call.
func New(options ...Option) *Engine {
	e := &Engine{cfg: internalengine.DefaultConfig()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.applyDefaults()
	return e
}

func (e *Engine) applyDefaults() {
	e.logger = logger.OrNop(e.logger)
	if e.annotator == nil {
		e.annotator = internalannotate.NewHeuristic()
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(TracerName)
	}
	if e.batchLimit <= 0 {
		e.batchLimit = DefaultBatchLimit
	}
	if e.cfg.Ordering != "" && !e.cfg.Ordering.Valid() {
		e.initErr = fmt.Errorf("%w: %q", ErrInvalidOrdering, e.cfg.Ordering)
		return
	}
	if e.catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			e.initErr = fmt.Errorf("%w: %v", ErrNoCatalog, err)
			return
		}
		e.catalog = cat
	}
	e.resolver = internalengine.NewResolver(e.catalog, e.cfg)
	e.cfg = e.resolver.Config()
}

// Catalog returns the catalog in use, or nil when it failed to load.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Ordering returns the configured ordering mode.
func (e *Engine) Ordering() Ordering {
	return e.cfg.Ordering
}

// Resolve turns a prompt into a schema. An empty schema means the prompt was
// not understood; errors are reserved for misconfiguration, cancellation
// and transformer failures.
func (e *Engine) Resolve(ctx context.Context, req Request) (model.ResolvedSchema, error) {
	res, err := e.Explain(ctx, req)
	if err != nil {
		return model.ResolvedSchema{}, err
	}
	return res.Schema, nil
}

// Explain resolves a prompt and reports the tokens, spans and dropped
// signals behind the result.
func (e *Engine) Explain(ctx context.Context, req Request) (Result, error) {
	if e.initErr != nil {
		return Result{}, e.initErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ctx, span := e.tracer.Start(ctx, "engine.Resolve")
	defer span.End()

	started := time.Now()
	id := uuid.NewString()
	log := e.logger.With(zap.String("request_id", id))

	tokens := req.Tokens
	if len(tokens) == 0 {
		tokens = e.annotator.Annotate(req.Prompt)
	}
	span.AddEvent("annotated", trace.WithAttributes(attribute.Int("formprompt.tokens", len(tokens))))

	schema, report := e.resolver.Resolve(internalengine.Input{
		Prompt:   req.Prompt,
		Tokens:   tokens,
		Entities: req.Entities,
	})
	span.AddEvent("resolved")

	if e.transformer != nil {
		if err := e.transformer.Transform(ctx, &schema); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transform failed")
			return Result{}, fmt.Errorf("engine: transform: %w", err)
		}
	}
	if err := model.Check(schema); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid schema")
		return Result{}, fmt.Errorf("engine: %w", err)
	}

	elapsed := time.Since(started)
	e.metrics.Observe(schema.Template, len(schema.Fields), report.Dropped, elapsed)
	span.SetAttributes(
		attribute.String("formprompt.template", schema.Template),
		attribute.Int("formprompt.fields", len(schema.Fields)),
		attribute.Int("formprompt.intents", report.Intents),
	)

	for kind, n := range report.Dropped {
		log.Debug("signals dropped", zap.String("kind", kind), zap.Int("count", n))
	}
	log.Debug("prompt resolved",
		zap.String("template", schema.Template),
		zap.String("template_key", report.TemplateKey),
		zap.Int("fields", len(schema.Fields)),
		zap.Strings("excluded", report.Excluded),
		zap.Duration("elapsed", elapsed),
	)
	if schema.Empty() {
		log.Info("prompt not understood", zap.String("prompt", req.Prompt))
	}

	return Result{
		RequestID:     id,
		Schema:        schema,
		TemplateKey:   report.TemplateKey,
		TemplateScore: report.TemplateScore,
		Tokens:        tokens,
		Spans:         spanInfos(tokens, report),
		Excluded:      report.Excluded,
		Dropped:       report.Dropped,
		Duration:      elapsed,
	}, nil
}

// ResolveBatch resolves requests concurrently, bounded by the batch limit.
// Results keep input order. The first error cancels the remaining work.
func (e *Engine) ResolveBatch(ctx context.Context, reqs []Request) ([]model.ResolvedSchema, error) {
	if e.initErr != nil {
		return nil, e.initErr
	}
	out := make([]model.ResolvedSchema, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchLimit)
	for i := range reqs {
		g.Go(func() error {
			schema, err := e.Resolve(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("engine: request %d: %w", i, err)
			}
			out[i] = schema
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func spanInfos(tokens []annotate.Token, report internalengine.Report) []SpanInfo {
	out := make([]SpanInfo, 0, len(report.Spans))
	for _, sp := range report.Spans {
		info := SpanInfo{Start: sp.Start, End: sp.End, Tag: sp.Tag}
		for i := sp.Start; i < sp.End && i < len(tokens); i++ {
			if i > sp.Start {
				info.Text += " "
			}
			info.Text += tokens[i].Text
		}
		out = append(out, info)
	}
	return out
}
