package llm

import (
	"context"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

var _ contractx.Completer = (*ChatCompleter)(nil)

// ChatCompleter adapts an eino chat model to contract.Completer and owns
// the retry policy for completion calls.
type ChatCompleter struct {
	model      einomodel.BaseChatModel
	maxRetries int
	backoff    time.Duration
}

type CompleterOption func(*ChatCompleter)

// WithRetry retries failed calls up to maxRetries times, doubling backoff
// after each failure.
func WithRetry(maxRetries int, backoff time.Duration) CompleterOption {
	return func(c *ChatCompleter) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

func NewChatCompleter(chatModel einomodel.BaseChatModel, opts ...CompleterOption) (*ChatCompleter, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	c := &ChatCompleter{model: chatModel}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *ChatCompleter) Complete(ctx context.Context, messages []*schema.Message, deterministic bool) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: completion needs at least one message", contractx.ErrValidation)
	}

	var opts []einomodel.Option
	if deterministic {
		opts = append(opts, einomodel.WithTemperature(0))
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", wait).Msg("retrying completion")
			if err := sleepContext(ctx, wait); err != nil {
				return "", fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
			}
		}

		msg, err := c.model.Generate(ctx, messages, opts...)
		if err == nil {
			if msg == nil {
				return "", fmt.Errorf("%w: empty completion message", contractx.ErrSchemaViolation)
			}
			return msg.Content, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: generate: %w", contractx.ErrModelInvoke, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
