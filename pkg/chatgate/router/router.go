// Package router resolves a chat request to a concrete model and executes
// the call with linear fallback across the remaining live models.
package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/catalog"
	"github.com/averko/chatgate/pkg/chatgate/provider"
)

// Sentinel model ids returned when no real model produced the response.
const (
	// ModelAuto asks the router to pick a model via the classifier.
	ModelAuto = "auto"
	// ModelNone means no model handle was available at all.
	ModelNone = "none"
	// ModelError means every candidate failed.
	ModelError = "error"
)

const noModelsDiagnostic = "No models available. Check GOOGLE_API_KEY."

// Caller executes a single chat completion against one model.
// *provider.Client satisfies it; tests substitute fakes.
type Caller interface {
	Complete(ctx context.Context, message string) (string, error)
}

// Router holds one live handle per model that initialized successfully.
// It is built once at startup and read-only afterwards, so concurrent
// use needs no locking.
type Router struct {
	handles     map[string]Caller
	order       []string // live model ids in catalog registration order
	callTimeout time.Duration
	logger      *slog.Logger
}

// New builds a router from the catalog. When apiKey is empty no handles are
// created, every Invoke degrades to the no-models diagnostic, and startup
// still succeeds.
func New(apiKey string, callTimeout time.Duration, logger *slog.Logger, opts ...provider.Option) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}

	r := &Router{
		handles:     make(map[string]Caller),
		callTimeout: callTimeout,
		logger:      logger.With("component", "router"),
	}

	if apiKey == "" {
		r.logger.Warn("no API key configured, router starts empty")
		return r
	}

	for _, id := range catalog.IDs() {
		m, _ := catalog.Get(id)
		client, err := provider.NewClient(id, apiKey, m.MaxTokens, logger, opts...)
		if err != nil {
			// The model is simply absent from the handle map, not marked
			// failed; the catalog entry stays visible as unavailable.
			r.logger.Error("failed to init model", "model", id, "error", err)
			continue
		}
		r.handles[id] = client
		r.order = append(r.order, id)
	}

	r.logger.Info("router initialized", "live_models", len(r.order))
	return r
}

// NewWithHandles builds a router from pre-built handles, keeping only ids
// present in the catalog, in catalog registration order. Used by tests and
// by callers that construct handles themselves.
func NewWithHandles(handles map[string]Caller, callTimeout time.Duration, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	r := &Router{
		handles:     make(map[string]Caller),
		callTimeout: callTimeout,
		logger:      logger.With("component", "router"),
	}
	for _, id := range catalog.IDs() {
		if h, ok := handles[id]; ok {
			r.handles[id] = h
			r.order = append(r.order, id)
		}
	}
	return r
}

// Available returns the live model ids in registration order.
func (r *Router) Available() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsLive reports whether the model has a usable handle.
func (r *Router) IsLive(id string) bool {
	_, ok := r.handles[id]
	return ok
}

// resolve picks the target model id for a request. Garbage model names fall
// back to the configured default rather than erroring, matching the
// permissive contract of the chat endpoint.
func (r *Router) resolve(message, requestedModel string) string {
	if requestedModel == ModelAuto || requestedModel == "" {
		category := catalog.Classify(message)
		return catalog.ModelFor(category)
	}
	if _, ok := r.handles[requestedModel]; ok {
		return requestedModel
	}
	return catalog.DefaultModel
}

// candidates returns the ordered attempt list: target first (when live),
// then every other live model in registration order. The target never
// appears twice.
func (r *Router) candidates(target string) []string {
	out := make([]string, 0, len(r.order))
	if _, ok := r.handles[target]; ok {
		out = append(out, target)
	}
	for _, id := range r.order {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Invoke executes one chat request. It never returns an error: failures
// surface as a diagnostic response text paired with a sentinel model id,
// which the HTTP layer passes through as a normal response.
func (r *Router) Invoke(ctx context.Context, message, requestedModel string) (string, string) {
	if len(r.handles) == 0 {
		return noModelsDiagnostic, ModelNone
	}

	target := r.resolve(message, requestedModel)

	var lastErr error
	for _, id := range r.candidates(target) {
		handle := r.handles[id]

		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		text, err := handle.Complete(callCtx, message)
		cancel()

		if err == nil {
			return text, id
		}
		lastErr = err
		r.logger.Warn("model failed, trying next candidate", "model", id, "error", err)
	}

	return "All models failed. Last error: " + lastErr.Error(), ModelError
}
