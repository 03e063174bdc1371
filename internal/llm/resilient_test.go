package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	mu        sync.Mutex
	errs      []error
	calls     int
	deadlines []bool
	block     bool
}

func (s *scriptedClient) Name() string { return "scripted" }

func (s *scriptedClient) Complete(ctx context.Context, _ *CompletionRequest) (*CompletionResponse, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	_, hasDeadline := ctx.Deadline()
	s.deadlines = append(s.deadlines, hasDeadline)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return nil, &UpstreamError{Provider: "scripted", Err: ctx.Err()}
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &CompletionResponse{Content: "ok", Model: "m"}, nil
}

func fastOptions() Options {
	return Options{Timeout: time.Second, Retries: 1, RetryWait: time.Millisecond}
}

func TestResilient_RetriesTransientOnce(t *testing.T) {
	next := &scriptedClient{errs: []error{
		&UpstreamError{Provider: "scripted", StatusCode: 503, Err: errors.New("unavailable")},
	}}
	c := WithResilience(next, fastOptions(), nil)

	resp, err := c.Complete(context.Background(), &CompletionRequest{})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Content)
	require.Equal(t, 2, next.calls)
	require.Equal(t, []bool{true, true}, next.deadlines)
}

func TestResilient_GivesUpAfterSingleRetry(t *testing.T) {
	transient := &UpstreamError{Provider: "scripted", StatusCode: 502, Err: errors.New("bad gateway")}
	next := &scriptedClient{errs: []error{transient, transient, transient}}
	c := WithResilience(next, fastOptions(), nil)

	_, err := c.Complete(context.Background(), &CompletionRequest{})
	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	require.Equal(t, 2, next.calls)
}

func TestResilient_DoesNotRetryPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"client error", &UpstreamError{Provider: "scripted", StatusCode: 400, Err: errors.New("bad")}},
		{"malformed", ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &scriptedClient{errs: []error{tt.err}}
			c := WithResilience(next, fastOptions(), nil)

			_, err := c.Complete(context.Background(), &CompletionRequest{})
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, 1, next.calls)
		})
	}
}

func TestResilient_TimeoutPerAttempt(t *testing.T) {
	next := &scriptedClient{block: true}
	c := WithResilience(next, Options{Timeout: 20 * time.Millisecond, Retries: 1, RetryWait: time.Millisecond}, nil)

	start := time.Now()
	_, err := c.Complete(context.Background(), &CompletionRequest{})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 2, next.calls)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestResilient_StopsWhenCallerCancels(t *testing.T) {
	next := &scriptedClient{block: true}
	c := WithResilience(next, Options{Timeout: time.Minute, Retries: 1, RetryWait: time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Complete(ctx, &CompletionRequest{})
	require.Error(t, err)
	require.Equal(t, 1, next.calls)
}
