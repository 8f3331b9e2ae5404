package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/eidolon/bridge"
	"github.com/ardnew/eidolon/engine"
	"github.com/ardnew/eidolon/log"
)

// Serve runs the MCP server on standard input and output.
type Serve struct {
	MaxDepth int `default:"${maxDepth}" help:"Default bound on nesting and recursion depth."`
}

// Run executes the serve command. Diagnostics go to the logger, never to
// stdout, which carries the protocol.
func (s *Serve) Run(ctx context.Context) error {
	logger := log.Default().With(slog.String("command", "serve"))

	logger.InfoContext(ctx, "serving MCP on stdio")

	err := bridge.Run(ctx,
		bridge.WithLogger(logger),
		bridge.WithEngineOptions(engine.WithMaxDepth(s.MaxDepth)),
	)
	if err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
