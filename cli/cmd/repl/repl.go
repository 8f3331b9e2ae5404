package repl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/log"
)

const prompt = "» "

const helpMessage = `
Commands:

  :help    Print this message
  :env     List globals and let bindings
  :clear   Forget let bindings and clear the screen
  :quit    Exit the REPL

Usage:
  Type a program to evaluate it; let bindings persist between lines
  Globals are referenced as $name
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Enter accepts the selected candidate while cycling
  Up/Down navigate history
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// Globals seed the $name scope of the session.
	Globals lang.Globals
	Logger  log.Logger
	// HistoryPath is the history file. Empty keeps history in memory.
	HistoryPath string
	// MaxDepth bounds nesting and recursion depth. Zero disables the bound.
	MaxDepth int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	env          *lang.Environment
	globals      lang.Globals
	opts         []lang.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts an interactive session and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Int("globals", len(cfg.Globals)),
	)

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err),
		)
	}

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc: func() context.Context { return ctx },
		input:   ti,
		env:     lang.NewEnvironment(cfg.Globals),
		globals: cfg.Globals,
		opts: []lang.Option{
			lang.WithMaxDepth(cfg.MaxDepth),
			lang.WithLogger(cfg.Logger),
		},
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint renders the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("Type a program, or :help for commands")

	case len(m.matches) > 0:
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
	}

	if c := detectCall(input, m.input.Position()); c.inCall {
		return renderSignatureHint(c.name, c.argIndex)
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next candidate in direction dir, completing the current
// word with it. A sole candidate is completed and confirmed at once.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with replacement
// and moves the cursor to its end.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes matches for the current input. With autoConfirm,
// a word that already equals its sole candidate is accepted and the bar is
// dismissed.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) historyMove(dir int) model {
	n := m.history.Len()
	idx := min(max(m.historyIdx+dir, 0), n)

	if idx == m.historyIdx && idx != n {
		return m
	}

	m.historyIdx = idx
	m.tabActive = false

	line := ""
	if idx < n {
		line, _ = m.history.Entry(idx)
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if err := m.history.Add(input); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		var cmd tea.Cmd

		m, cmd = m.executeCommand(strings.TrimSpace(name))

		return m, tea.Sequence(echo, cmd)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	cmds := []tea.Cmd{echo}

	v, events, err := m.evaluate(input)
	for _, e := range events {
		cmds = append(cmds, tea.Println(formatEvent(e)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	} else {
		cmds = append(cmds, tea.Println(resultStyle.Render(v.String())))
	}

	return m, tea.Sequence(cmds...)
}

// evaluate runs input against the session environment and collects the log
// events it emits.
func (m model) evaluate(input string) (v lang.Value, events []lang.LogEvent, err error) {
	ctx := m.ctxFunc()

	prog, err := lang.ParseString(ctx, input, m.opts...)
	if err != nil {
		return v, nil, err
	}

	opts := append(slices.Clone(m.opts), lang.WithEmitter(func(e lang.LogEvent) {
		events = append(events, e)
	}))

	v, err = lang.Evaluate(ctx, prog, m.env, opts...)

	return v, events, err
}

func (m model) executeCommand(name string) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", name))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "h", "help":
		return m, tea.Println(helpMessage)

	case "e", "env":
		return m, tea.Println(formatEnv(m.env))

	case "c", "clear":
		m.env = lang.NewEnvironment(m.globals)

		return m, tea.ClearScreen

	default:
		return m, tea.Println(errorStyle.Render(
			fmt.Sprintf("%s %q (try :help)", ErrUnknownCommand, name)))
	}
}

// formatEvent renders a log event emitted during evaluation.
func formatEvent(e lang.LogEvent) string {
	style := hintStyle

	switch e.Level {
	case lang.LogWarn:
		style = warnStyle
	case lang.LogError:
		style = errorStyle
	}

	return style.Render("[" + e.Level.String() + "] " + e.Message)
}

// formatEnv lists the globals and let bindings of env.
func formatEnv(env *lang.Environment) string {
	var b strings.Builder

	for name, v := range env.Globals() {
		fmt.Fprintf(&b, "%s %s\n", suggestionStyle.Render("$"+name), v)
	}

	for name, v := range env.Bindings() {
		fmt.Fprintf(&b, "%s %s\n", suggestionStyle.Render(name), v)
	}

	if b.Len() == 0 {
		return hintStyle.Render("no bindings")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
