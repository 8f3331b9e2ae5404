package bridge

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/eidolon/engine"
)

func connect(t *testing.T, opts ...Option) *mcp.ClientSession {
	t.Helper()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := NewServer(opts...).Connect(t.Context(), serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0.0.0"}, nil)

	cs, err := client.Connect(t.Context(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func call[T any](t *testing.T, cs *mcp.ClientSession, name string, args any) (T, *mcp.CallToolResult) {
	t.Helper()

	res, err := cs.CallTool(t.Context(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)

	var out T

	if !res.IsError {
		data, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &out))
	}

	return out, res
}

func errorText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])

	return text.Text
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	res, err := connect(t).ListTools(t.Context(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}

	slices.Sort(names)
	assert.Equal(t, []string{"builtins", "evaluate", "parse"}, names)
}

func TestServer_Evaluate(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	out, res := call[EvaluateOutput](t, cs, "evaluate", map[string]any{
		"source":  "let x = $myVar * 2\ninfo[\"bound\"]\nx + 5",
		"globals": map[string]any{"myVar": 10},
	})
	require.False(t, res.IsError)

	assert.Equal(t, "25", out.Text)
	assert.InDelta(t, 25.0, out.Result, 0)
	assert.Equal(t, []LogEntry{{Seq: 1, Level: "info", Message: "bound"}}, out.Logs)

	sub, res := call[EvaluateOutput](t, cs, "evaluate", map[string]any{
		"source":     "let x = $myVar * 2\nx + 5",
		"globals":    map[string]any{"myVar": 10},
		"substitute": true,
	})
	require.False(t, res.IsError)
	assert.Equal(t, out.Text, sub.Text)
}

func TestServer_EvaluateErrors(t *testing.T) {
	t.Parallel()

	cs := connect(t, WithEngineOptions(engine.WithMaxDepth(16)))

	tests := []struct {
		source string
		want   string
	}{
		{"1 / 0", "divide by zero"},
		{"y + 1", "unbound variable"},
		{"2 +", "parse error"},
		{"((((((((((((((((((((1))))))))))))))))))))", "maximum depth exceeded"},
	}

	for _, tt := range tests {
		_, res := call[EvaluateOutput](t, cs, "evaluate", map[string]any{"source": tt.source})
		assert.Contains(t, errorText(t, res), tt.want, tt.source)
	}
}

func TestServer_Parse(t *testing.T) {
	t.Parallel()

	cs := connect(t)

	out, res := call[ParseOutput](t, cs, "parse", map[string]any{"source": "((1 + 2)) * 3"})
	require.False(t, res.IsError)

	assert.Equal(t, "(1 + 2) * 3", out.Canon)
	assert.Equal(t, "program", out.AST["node"])

	_, res = call[ParseOutput](t, cs, "parse", map[string]any{"source": "sqrt[9"})
	assert.Contains(t, errorText(t, res), "parse error")
}

func TestServer_Builtins(t *testing.T) {
	t.Parallel()

	out, res := call[BuiltinsOutput](t, connect(t), "builtins", map[string]any{})
	require.False(t, res.IsError)

	require.NotEmpty(t, out.Builtins)
	assert.True(t, slices.IsSortedFunc(out.Builtins, func(a, b BuiltinInfo) int {
		return strings.Compare(a.Name, b.Name)
	}))

	i := slices.IndexFunc(out.Builtins, func(b BuiltinInfo) bool { return b.Name == "PI" })
	require.GreaterOrEqual(t, i, 0)
	assert.True(t, out.Builtins[i].Constant)

	i = slices.IndexFunc(out.Builtins, func(b BuiltinInfo) bool { return b.Name == "atan2" })
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, []string{"y", "x"}, out.Builtins[i].Params)
}
