package lang

import (
	"strings"
)

// Substitute replaces each $name reference in source with the literal text
// of the matching global.
//
// It exists for hosts that depend on textual pre-substitution; evaluating
// $name references directly is preferred. The replacement is a single
// left-to-right pass with these properties:
//
//   - A reference is '$' followed by a maximal identifier, and is replaced
//     only if that exact name is a global, so $a never matches inside $ab.
//   - Replacement text is never rescanned, so a value containing '$' is
//     inserted verbatim.
//   - Text inside string literals is copied unchanged.
//   - Numbers are rendered canonically, with negatives parenthesized.
//     Strings are rendered as escaped string literals, so a value cannot
//     inject operators.
//   - References to unknown names, and to non-finite numbers, are left in
//     place to be resolved during evaluation.
func Substitute(source string, globals Globals) string {
	if len(globals) == 0 || !strings.ContainsRune(source, '$') {
		return source
	}

	var sb strings.Builder

	sb.Grow(len(source))

	for i := 0; i < len(source); {
		ch := source[i]

		switch {
		case ch == '"':
			end := skipString(source, i)
			sb.WriteString(source[i:end])
			i = end

		case ch == '#':
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				end = len(source) - i
			}

			sb.WriteString(source[i : i+end])
			i += end

		case ch == '$' && i+1 < len(source) && isIdentStart(source[i+1]):
			end := i + 1
			for end < len(source) && isIdentPart(source[end]) {
				end++
			}

			if v, ok := globals[source[i+1:end]]; ok && ValueOf(v).finite() {
				sb.WriteString(ValueOf(v).literal())
			} else {
				sb.WriteString(source[i:end])
			}

			i = end

		default:
			sb.WriteByte(ch)
			i++
		}
	}

	return sb.String()
}

// skipString returns the offset just past the string literal starting at
// source[start], or the end of the line if it is unterminated.
func skipString(source string, start int) int {
	for i := start + 1; i < len(source); i++ {
		switch source[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		case '\n':
			return i
		}
	}

	return len(source)
}
