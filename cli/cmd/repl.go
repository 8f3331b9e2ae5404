package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/eidolon/cli/cmd/repl"
	"github.com/ardnew/eidolon/log"
)

// Repl starts an interactive session.
type Repl struct {
	Globals `embed:""`

	MaxDepth  int  `default:"${maxDepth}" help:"Bound on nesting and recursion depth (0 disables)."`
	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	globals, err := r.load(ctx)
	if err != nil {
		return err
	}

	var history string
	if dir := varFrom(ctx, CacheIdentifier); dir != "" && !r.NoHistory {
		history = filepath.Join(dir, repl.BaseHistory)
	}

	return repl.Run(ctx, repl.Config{
		Globals:     globals,
		Logger:      log.Default().With(slog.String("command", "repl")),
		HistoryPath: history,
		MaxDepth:    r.MaxDepth,
	})
}
