// Package chat orchestrates a single chat request: route to a model,
// persist the exchange, return the structured reply.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/history"
)

// Invoker resolves and executes a model call. *router.Router satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, message, requestedModel string) (responseText, modelUsed string)
}

// Service wires the router to the history store.
type Service struct {
	router Invoker
	store  history.Store
	logger *slog.Logger
}

// NewService creates the chat service. All dependencies are injected; the
// service owns none of them.
func NewService(router Invoker, store history.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		router: router,
		store:  store,
		logger: logger.With("component", "chat"),
	}
}

// Handle processes one chat request. The message is forwarded as-is — the
// provider's own limits apply. Router failures come back as a normal
// exchange carrying the diagnostic text; only persistence failures return
// an error.
func (s *Service) Handle(ctx context.Context, message, requestedModel, clientKey, sessionID string) (*history.Exchange, error) {
	responseText, modelUsed := s.router.Invoke(ctx, message, requestedModel)

	ex := &history.Exchange{
		UserMessage: message,
		AIResponse:  responseText,
		Timestamp:   time.Now().UTC(),
		ClientKey:   clientKey,
		SessionID:   sessionID,
		ModelUsed:   modelUsed,
	}
	if err := s.store.Append(ctx, ex); err != nil {
		return nil, fmt.Errorf("persist exchange: %w", err)
	}

	s.logger.Info("chat handled",
		"model_used", modelUsed,
		"client", clientKey,
		"message_len", len(message),
		"response_len", len(responseText),
	)
	return ex, nil
}
