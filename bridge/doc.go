// Package bridge exposes the evaluator to Model Context Protocol clients.
//
// [NewServer] registers three tools:
//
//   - evaluate: run a program with optional globals and return its result
//     together with every log event it emitted.
//   - parse: return the syntax tree of a program as nested objects.
//   - builtins: list the builtin functions and constants.
//
// Evaluation and syntax errors are reported as tool errors (IsError set on
// the result) rather than protocol errors, so clients see the message.
package bridge
