package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/career-pathway/internal/llm"
	"github.com/jonathan/career-pathway/internal/programs"
	"github.com/stretchr/testify/require"
)

// fakeClient returns canned text and records every request.
type fakeClient struct {
	mu    sync.Mutex
	text  string
	err   error
	block bool
	reqs  []llm.Request
}

func (f *fakeClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", &llm.UpstreamError{Message: "request cancelled or timed out", Cause: ctx.Err()}
	}
	return f.text, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

func (f *fakeClient) Close() error {
	return nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func (f *fakeClient) lastRequest(t *testing.T) llm.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.reqs)
	return f.reqs[len(f.reqs)-1]
}

func newTestAdvisor(t *testing.T, client llm.Client) *Advisor {
	t.Helper()
	catalog, err := programs.DefaultCatalog()
	require.NoError(t, err)
	resolver, err := programs.NewResolver(catalog, "")
	require.NoError(t, err)

	opts := Options{Resolver: resolver, Timeout: time.Second}
	if client != nil {
		opts.Client = client
	}
	return New(opts)
}

var errTransport = errors.New("connection reset")
