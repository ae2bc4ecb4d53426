// Package advisor runs the career flows: it builds prompts, calls the model and
// turns the output into typed results.
//
// Assessment and pathway generation are strict: every failure is returned to the
// caller. Suggestions and exam info are lenient: they always return a usable value
// and report the failure alongside it.
package advisor

import (
	"context"
	"time"

	"github.com/jonathan/career-pathway/internal/llm"
	"github.com/jonathan/career-pathway/internal/logging"
	"github.com/jonathan/career-pathway/internal/programs"
)

// DefaultTimeout bounds a single model call when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options configures an Advisor.
type Options struct {
	// Client may be nil when no credential is configured; flows then fail with
	// llm.ErrMissingAPIKey (strict) or fall back (lenient).
	Client   llm.Client
	Resolver *programs.Resolver
	Timeout  time.Duration
	Logger   *logging.Logger
}

// Advisor holds the immutable collaborators shared by every flow.
type Advisor struct {
	client   llm.Client
	resolver *programs.Resolver
	timeout  time.Duration
	logger   *logging.Logger
}

// New creates an Advisor.
func New(opts Options) *Advisor {
	a := &Advisor{
		client:   opts.Client,
		resolver: opts.Resolver,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
	if a.timeout <= 0 {
		a.timeout = DefaultTimeout
	}
	if a.logger == nil {
		a.logger = logging.Nop()
	}
	return a
}

// Configured reports whether a model client is available.
func (a *Advisor) Configured() bool {
	return a.client != nil
}

// generate performs one bounded model call and logs its outcome.
func (a *Advisor) generate(ctx context.Context, flow string, req llm.Request) (string, error) {
	log := a.log(ctx).With("flow", flow)
	if a.client == nil {
		log.Error("model client not configured")
		return "", llm.ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	text, err := a.client.Generate(ctx, req)
	if err != nil {
		log.Error("model call failed", "model", a.client.GetModel(req.Tier), "duration", time.Since(start), "error", err)
		return "", err
	}

	log.Debug("model call completed", "model", a.client.GetModel(req.Tier), "duration", time.Since(start), "chars", len(text))
	return text, nil
}

func (a *Advisor) catalog() *programs.Catalog {
	if a.resolver == nil {
		return nil
	}
	return a.resolver.Catalog()
}

func (a *Advisor) log(ctx context.Context) *logging.Logger {
	return logging.FromContext(ctx, a.logger)
}
