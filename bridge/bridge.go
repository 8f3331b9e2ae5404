package bridge

import (
	"context"
	"log/slog"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ardnew/eidolon/engine"
	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/pkg"
)

// EvaluateInput is the argument object of the evaluate tool.
type EvaluateInput struct {
	Globals    map[string]any `json:"globals,omitempty"    jsonschema:"values bound to $name references"`
	Source     string         `json:"source"               jsonschema:"program source text"`
	MaxDepth   int            `json:"max_depth,omitempty"  jsonschema:"bound on nesting and recursion depth"`
	Substitute bool           `json:"substitute,omitempty" jsonschema:"replace $name references textually before parsing"`
}

// LogEntry is one log event emitted during evaluation.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Seq     uint64 `json:"seq"`
}

// EvaluateOutput is the structured result of the evaluate tool.
type EvaluateOutput struct {
	Result any        `json:"result"`
	Text   string     `json:"text"`
	Logs   []LogEntry `json:"logs"`
}

// ParseInput is the argument object of the parse tool.
type ParseInput struct {
	Source string `json:"source" jsonschema:"program source text"`
}

// ParseOutput is the structured result of the parse tool.
type ParseOutput struct {
	AST   map[string]any `json:"ast"`
	Canon string         `json:"canonical"`
}

// BuiltinInfo describes one registry entry.
type BuiltinInfo struct {
	Name      string   `json:"name"`
	Signature string   `json:"signature"`
	Doc       string   `json:"doc"`
	Params    []string `json:"params,omitempty"`
	Constant  bool     `json:"constant"`
}

// BuiltinsOutput is the structured result of the builtins tool.
type BuiltinsOutput struct {
	Builtins []BuiltinInfo `json:"builtins"`
}

type handlers struct {
	cfg config
}

// NewServer returns an MCP server with the evaluator tools registered.
func NewServer(opts ...Option) *mcp.Server {
	h := handlers{cfg: makeConfig(opts...)}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    pkg.Name,
		Version: pkg.Version(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate",
		Description: "Evaluate an expression program and return the value of its last statement.",
	}, h.evaluate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse an expression program and return its syntax tree.",
	}, h.parse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "builtins",
		Description: "List the builtin functions and constants.",
	}, h.builtins)

	return server
}

// Run serves the tools over stdin and stdout until ctx is done or the
// client disconnects.
func Run(ctx context.Context, opts ...Option) error {
	return NewServer(opts...).Run(ctx, &mcp.StdioTransport{})
}

func (h handlers) evaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in EvaluateInput,
) (*mcp.CallToolResult, EvaluateOutput, error) {
	opts := slices.Concat(h.cfg.engine, []engine.Option{
		engine.WithLogger(h.cfg.logger),
		engine.WithSubstitution(in.Substitute),
	})

	if in.MaxDepth > 0 {
		opts = append(opts, engine.WithMaxDepth(in.MaxDepth))
	}

	out := EvaluateOutput{Logs: []LogEntry{}}

	e := engine.New(opts...)
	e.SetLogSink(func(ev engine.Event) {
		out.Logs = append(out.Logs, LogEntry{
			Seq:     ev.Seq,
			Level:   ev.Level.String(),
			Message: ev.Message,
		})
	})

	v, err := e.EvaluateValue(ctx, in.Source, in.Globals)

	// Close drains the sink, so out.Logs is complete afterward.
	_ = e.Close()

	h.cfg.logger.DebugContext(ctx, "tool evaluate",
		slog.Int("source_bytes", len(in.Source)),
		slog.Int("logs", len(out.Logs)),
		slog.Any("error", err),
	)

	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	out.Result = v.Native()
	out.Text = v.String()

	return nil, out, nil
}

func (h handlers) parse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	prog, err := lang.ParseString(ctx, in.Source, lang.WithLogger(h.cfg.logger))
	if err != nil {
		return nil, ParseOutput{}, err
	}

	return nil, ParseOutput{AST: lang.ToNative(prog), Canon: prog.String()}, nil
}

func (h handlers) builtins(
	context.Context,
	*mcp.CallToolRequest,
	struct{},
) (*mcp.CallToolResult, BuiltinsOutput, error) {
	var out BuiltinsOutput

	for b := range lang.Builtins() {
		out.Builtins = append(out.Builtins, BuiltinInfo{
			Name:      b.Name,
			Signature: b.Signature(),
			Doc:       b.Doc,
			Params:    b.Params,
			Constant:  b.IsConst(),
		})
	}

	return nil, out, nil
}
