package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// CompletionClient sends a prompt to a text-generation service and returns
// its unstructured reply.
type CompletionClient interface {
	GenerateText(ctx context.Context, prompt Prompt) (string, error)
}

// completionCaller bounds every external call with a timeout and records it.
type completionCaller struct {
	client  CompletionClient
	timeout time.Duration
	metrics *Metrics
}

func newCompletionCaller(client CompletionClient, timeout time.Duration, metrics *Metrics) *completionCaller {
	return &completionCaller{client: client, timeout: timeout, metrics: metrics}
}

// call runs one completion. Errors come back wrapped as ErrUpstreamTimeout,
// ErrUpstreamFormat or ErrUpstreamCall.
func (c *completionCaller) call(ctx context.Context, prompt Prompt) (string, error) {
	var text string
	err := c.do(ctx, prompt.Kind, func(ctx context.Context) error {
		var err error
		text, err = c.client.GenerateText(ctx, prompt)
		return err
	})
	return text, err
}

// do runs any external call under the per-call timeout and records it
// under kind.
func (c *completionCaller) do(ctx context.Context, kind PromptKind, fn func(ctx context.Context) error) error {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(callCtx)
	elapsed := time.Since(start)

	if err != nil {
		err = classifyUpstreamError(callCtx, kind, err)
		c.metrics.ObserveCompletion(kind, outcomeFor(err), elapsed)
		return err
	}

	c.metrics.ObserveCompletion(kind, "ok", elapsed)
	return nil
}

func classifyUpstreamError(ctx context.Context, kind PromptKind, err error) error {
	switch {
	case errors.Is(err, ErrUpstreamTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded), isNetTimeout(err):
		return fmt.Errorf("%w: %s: %v", ErrUpstreamTimeout, kind, err)
	case errors.Is(err, ErrUpstreamFormat), errors.Is(err, ErrUpstreamCall):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", ErrUpstreamCall, kind, err)
	}
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamFormat):
		return "format_error"
	default:
		return "error"
	}
}
