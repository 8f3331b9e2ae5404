package cmd

import (
	"context"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/eidolon/lang"
)

// Globals binds the values a program reads through $name references.
type Globals struct {
	Global map[string]string `help:"Bind global name=value. Numeric values bind as numbers." mapsep:"none" placeholder:"NAME=VALUE" short:"g"`
	File   string            `help:"YAML mapping of globals, overridden by --global."         name:"globals"  type:"existingfile"`
}

// load returns the globals from the file, if any, overlaid with the flags.
func (g *Globals) load(ctx context.Context) (lang.Globals, error) {
	globals := make(lang.Globals, len(g.Global))

	if g.File != "" {
		data, err := os.ReadFile(g.File)
		if err != nil {
			return nil, ErrGlobals.Wrap(err).With(slog.String("file", g.File))
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			return nil, ErrGlobals.Wrap(err).With(slog.String("file", g.File))
		}

		for name, v := range doc {
			switch v.(type) {
			case map[string]any, []any:
				return nil, ErrGlobals.With(
					slog.String("file", g.File),
					slog.String("name", name),
					slog.String("reason", "value must be a number or string"),
				)
			}

			globals[name] = v
		}
	}

	for name, text := range g.Global {
		globals[name] = parseGlobal(text)
	}

	return globals, nil
}

// parseGlobal binds text as a number when it parses as a finite one.
func parseGlobal(text string) any {
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}

	return text
}
