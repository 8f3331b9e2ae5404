package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/eidolon/lang"
)

// Builtins lists the builtin registry.
type Builtins struct {
	JSON bool `help:"Print a JSON array instead of a table."`
}

type builtinEntry struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Signature string   `json:"signature"`
	Doc       string   `json:"doc"`
	Params    []string `json:"params,omitempty"`
}

// builtinKinds orders the sections of the table.
var builtinKinds = []string{"constants", "functions", "logging functions"}

func kindOf(b lang.Builtin) string {
	switch {
	case b.IsConst():
		return builtinKinds[0]
	case b.IsLogging():
		return builtinKinds[2]
	default:
		return builtinKinds[1]
	}
}

// Run executes the builtins command.
func (b *Builtins) Run(ctx context.Context) error {
	var entries []builtinEntry

	for bi := range lang.Builtins() {
		entries = append(entries, builtinEntry{
			Name:      bi.Name,
			Kind:      kindOf(bi),
			Signature: bi.Signature(),
			Doc:       bi.Doc,
			Params:    bi.Params,
		})
	}

	out := outputFrom(ctx)

	if b.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(entries)
	}

	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for i, kind := range builtinKinds {
		if i > 0 {
			fmt.Fprintln(tw)
		}

		fmt.Fprintf(tw, "%s:\n", title.String(kind))

		for _, e := range entries {
			if e.Kind == kind {
				fmt.Fprintf(tw, "  %s\t%s\n", e.Signature, e.Doc)
			}
		}
	}

	return tw.Flush()
}
