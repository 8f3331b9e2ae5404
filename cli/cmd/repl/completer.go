package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/eidolon/lang"
)

// commands are the names accepted after the command prefix.
var commands = []string{"help", "env", "clear", "quit"}

// commandPrefix marks an input line as a REPL command.
const commandPrefix = ":"

// isIdentRune reports whether r can appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. The word is empty when the cursor does not touch
// an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// isGlobalRef reports whether the word starting at start is the name of a
// $name reference.
func isGlobalRef(input string, start int) bool {
	return start > 0 && input[start-1] == '$'
}

// inString reports whether offset lies inside a string literal.
func inString(input string, offset int) bool {
	quoted := false

	for i := 0; i < offset && i < len(input); i++ {
		switch input[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		}
	}

	return quoted
}

// candidates returns the names that can complete the word starting at start.
func candidates(input string, start int, env *lang.Environment) []string {
	if rest, ok := strings.CutPrefix(input, commandPrefix); ok {
		if strings.ContainsFunc(rest[:max(start-len(commandPrefix), 0)], isSpace) {
			return nil
		}

		return commands
	}

	if inString(input, start) {
		return nil
	}

	if isGlobalRef(input, start) {
		var names []string
		for name := range env.Globals() {
			names = append(names, name)
		}

		return names
	}

	names := lang.BuiltinNames()
	for _, name := range env.Names() {
		if _, ok := slices.BinarySearch(names, name); !ok {
			names = append(names, name)
		}
	}

	return names
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// computeMatches ranks the completion candidates for the word under the
// cursor. It returns no matches for an empty word.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" && !isGlobalRef(input, start) {
		return nil, start, end
	}

	names := candidates(input, start, m.env)
	if len(names) == 0 {
		return nil, start, end
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(names))
		for i, name := range names {
			matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return matches, start, end
	}

	return fuzzy.Find(word, names), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate uses the selected style while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Builtin functions are shown with a "[]" suffix that is not
// part of the completion.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("[]"))
	}

	return b.String()
}

// isFunction reports whether name is a callable builtin.
func isFunction(name string) bool {
	b, ok := lang.LookupBuiltin(name)

	return ok && !b.IsConst()
}
