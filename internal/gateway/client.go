package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v5"
)

// ProviderConfig carries the connection settings for one provider.
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

const defaultTimeout = 2 * time.Minute

func (c ProviderConfig) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// httpStatusError is a non-2xx provider response.
type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.status, e.body)
}

// retryable reports whether the status is worth another attempt. Rate
// limits and server-side failures are transient; everything else is a
// request defect.
func (e *httpStatusError) retryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// completeWithRetry runs one provider completion behind the breaker with
// exponential-backoff retries. Request defects are permanent; transport
// errors, rate limits and 5xx responses retry up to three total attempts.
func completeWithRetry(ctx context.Context, name string, br *breaker, op func(context.Context) (string, error)) (string, error) {
	if !br.allow() {
		return "", &Error{Stage: StageLLMProcessing, Provider: name, Err: ErrBreakerOpen}
	}

	text, err := backoff.Retry(ctx, func() (string, error) {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return "", backoff.Permanent(err)
		}
		return "", err
	},
		backoff.WithBackOff(newGatewayBackoff()),
		backoff.WithMaxTries(3),
		backoff.WithMaxElapsedTime(0),
	)

	br.record(err)
	if err != nil {
		return "", &Error{Stage: StageLLMProcessing, Provider: name, Err: err}
	}
	return text, nil
}

func newGatewayBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.Multiplier = 2.0
	return b
}

// callProvider is the shared Call implementation: redact, complete with
// resilience, parse leniently.
func callProvider(ctx context.Context, name string, br *breaker, prompt string, op func(context.Context, string) (string, error)) (*Payload, error) {
	redacted, err := Redact(prompt)
	if err != nil {
		return nil, &Error{Stage: StageLLMProcessing, Provider: name, Err: err}
	}

	text, err := completeWithRetry(ctx, name, br, func(ctx context.Context) (string, error) {
		return op(ctx, redacted)
	})
	if err != nil {
		return nil, err
	}
	return ParsePayload(text), nil
}
