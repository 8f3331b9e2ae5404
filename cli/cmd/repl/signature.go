package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/eidolon/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// call describes the builtin call whose argument list contains the cursor.
type call struct {
	name     string
	argIndex int
	inCall   bool
}

// detectCall reports the innermost name[...] argument list that is still
// open at cursor, along with the index of the argument under the cursor.
func detectCall(input string, cursor int) call {
	cursor = min(max(cursor, 0), len(input))

	// Unclosed brackets and parentheses seen so far, innermost last.
	type open struct {
		pos   int
		args  int
		brack bool
	}

	var stack []open

	quoted := false

	for i := 0; i < cursor; i++ {
		ch := input[i]

		if quoted {
			switch ch {
			case '\\':
				i++
			case '"':
				quoted = false
			}

			continue
		}

		switch ch {
		case '"':
			quoted = true
		case '[', '(':
			stack = append(stack, open{pos: i, brack: ch == '['})
		case ']', ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		case '\n':
			stack = stack[:0]
		}
	}

	if quoted || len(stack) == 0 || !stack[len(stack)-1].brack {
		return call{}
	}

	top := stack[len(stack)-1]

	name, start, _ := wordBounds(input, top.pos)
	if name == "" || isGlobalRef(input, start) {
		return call{}
	}

	return call{name: name, argIndex: top.args, inCall: true}
}

// renderSignatureHint renders the signature of the builtin name with the
// parameter at argIndex highlighted. It returns "" if name is not a builtin
// function.
func renderSignatureHint(name string, argIndex int) string {
	b, ok := lang.LookupBuiltin(name)
	if !ok || b.IsConst() {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(signatureNameStyle.Render(b.Name))
	sb.WriteString(signatureStyle.Render("["))

	for i, param := range b.Params {
		if i > 0 {
			sb.WriteString(signatureStyle.Render(", "))
		}

		if i == argIndex {
			sb.WriteString(currentParamStyle.Render(param))
		} else {
			sb.WriteString(signatureStyle.Render(param))
		}
	}

	sb.WriteString(signatureStyle.Render("]"))

	if b.Doc != "" {
		sb.WriteString(signatureStyle.Render("  " + b.Doc))
	}

	return sb.String()
}
