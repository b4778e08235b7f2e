package optimize

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gatefold/gatefold/internal/circuit"
)

// Pass is one in-place circuit rewrite.
type Pass interface {
	// Name identifies the pass in logs and errors.
	Name() string

	// Run rewrites the circuit in place.
	Run(c *circuit.Circuit) error
}

// Pipeline runs a fixed sequence of passes over a circuit. Each invocation
// is tagged with a generated run token so interleaved runs can be told
// apart in logs.
type Pipeline struct {
	passes []Pass
	tokens TokenGenerator
}

// NewPipeline creates a pipeline over the given passes. A nil generator
// defaults to UUIDv7 tokens.
func NewPipeline(tokens TokenGenerator, passes ...Pass) *Pipeline {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Pipeline{passes: passes, tokens: tokens}
}

// Run applies every pass in order and returns the run token. The first
// failing pass aborts the pipeline; the circuit then holds the output of
// the passes that completed.
func (pl *Pipeline) Run(c *circuit.Circuit) (string, error) {
	token := pl.tokens.Generate()
	slog.Info("pipeline starting",
		"run", token,
		"passes", len(pl.passes),
		"nodes", c.Len())

	for _, pass := range pl.passes {
		start := time.Now()
		if err := pass.Run(c); err != nil {
			slog.Error("pass failed",
				"run", token,
				"pass", pass.Name(),
				"error", err)
			return token, fmt.Errorf("pass %s: %w", pass.Name(), err)
		}
		slog.Debug("pass complete",
			"run", token,
			"pass", pass.Name(),
			"elapsed", time.Since(start),
			"nodes", c.Len())
	}

	slog.Info("pipeline complete",
		"run", token,
		"nodes", c.Len())
	return token, nil
}
