package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/hongye-zhang/public-texteditor/internal/docedit"
	"github.com/hongye-zhang/public-texteditor/internal/llm"
)

// Generator is the injected text-generation capability. *llm.Client
// satisfies it; tests use stubs.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// EditRequest is one document-edit invocation. Document is the raw
// editor node tree as decoded JSON; it is not mutated.
type EditRequest struct {
	Document    map[string]any
	Message     string
	SelectedIDs []string
	History     []llm.Message
}

// EditResult is what Process always returns: either the edit data or an
// Error describing why the edit could not be produced. PathUpdates is only
// present on success.
type EditResult struct {
	Original    string               `json:"original,omitempty"`
	Edited      string               `json:"edited,omitempty"`
	Message     string               `json:"message"`
	PathUpdates []docedit.PathUpdate `json:"path_updates,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Pipeline drives one edit end to end: identify nodes, flatten, render the
// prompt dump, call the model, reconcile the response into path updates.
type Pipeline struct {
	gen         Generator
	idGen       docedit.IDGenerator
	log         *slog.Logger
	temperature float64

	// sem bounds concurrent generations across requests.
	sem chan struct{}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithIDGenerator overrides the node ID source (deterministic IDs in tests).
func WithIDGenerator(gen docedit.IDGenerator) Option {
	return func(p *Pipeline) { p.idGen = gen }
}

// WithTemperature overrides the generation temperature.
func WithTemperature(t float64) Option {
	return func(p *Pipeline) { p.temperature = t }
}

// WithMaxConcurrent bounds how many generations may be in flight at once.
func WithMaxConcurrent(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.sem = make(chan struct{}, n)
		}
	}
}

func New(gen Generator, log *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:         gen,
		idGen:       docedit.HexID,
		log:         log,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the full edit pipeline for one request. It never returns an
// error: every failure is folded into the result object so the API layer
// can hand the caller a uniform shape and an unmodified document fallback.
func (p *Pipeline) Process(ctx context.Context, req EditRequest) *EditResult {
	log := p.log.With("message_len", len(req.Message), "selected", len(req.SelectedIDs))

	// The tree is owned by the caller; IDs are assigned on a working copy
	// scoped to this request.
	tree := docedit.CloneTree(map[string]any(req.Document))
	docedit.AssignIDs(tree, docedit.NewIDAllocator(p.idGen))

	flat := docedit.Flatten(tree)
	dump := docedit.Render(flat)
	selectedDump := docedit.Render(docedit.FilterByID(flat, req.SelectedIDs))

	prompt := BuildEditPrompt(dump, req.Message, selectedDump)
	log.Info("edit prompt built",
		"paragraphs", len(flat),
		"prompt_tokens_est", llm.EstimateTokens(prompt),
	)

	edited, err := p.generate(ctx, llm.Request{
		System:      EditSystemPrompt,
		Prompt:      prompt,
		Temperature: p.temperature,
		History:     req.History,
	})
	if err != nil {
		log.Error("generation failed", "error", err)
		return &EditResult{
			Original: dump,
			Error:    err.Error(),
			Message:  req.Message,
		}
	}
	if edited == "" {
		log.Error("model returned empty output")
		return &EditResult{
			Error:   "model returned empty output",
			Message: req.Message,
		}
	}

	updates := docedit.Reconcile(edited, flat, p.idGen)
	log.Info("edit reconciled", "updates", len(updates))

	return &EditResult{
		Original:    dump,
		Edited:      edited,
		Message:     req.Message,
		PathUpdates: updates,
	}
}

// generate performs the single suspension point of the pipeline: the model
// call, with bounded concurrency and retry on transient failures.
func (p *Pipeline) generate(ctx context.Context, req llm.Request) (string, error) {
	if p.sem != nil {
		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var out string
	var lastErr error
	for attempt := range MaxRetries {
		out, lastErr = p.gen.Generate(ctx, req)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		p.log.Warn("retryable generation error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return out, lastErr
}
