// Package lang implements the eidolon expression language: a lexer, a
// recursive-descent parser, an immutable AST, and a tree-walking evaluator
// over IEEE-754 doubles.
//
// # Syntax
//
// A program is a sequence of statements separated by newlines. Each
// statement is either a let binding or an expression; the value of the
// program is the value of its last statement.
//
//	# comments run to the end of the line
//	let r = $radius
//	let area = PI * r ^ 2
//	round[area * 100] / 100
//
// Operators, loosest binding first:
//
//	+ -     left-associative
//	* /     left-associative
//	^       right-associative
//	-x      prefix negation, binds tighter than ^
//
// So -2^2 is 4 and 2^3^2 is 512.
//
// Function calls use square brackets: sqrt[9], atan2[y, x]. A builtin named
// without brackets is applied to no arguments, which is how constants such
// as PI are read.
//
// # Names
//
// Identifiers resolve against the builtin registry first and then against
// let bindings, so a let binding that reuses a builtin name is shadowed and
// reported with a warn [LogEvent]. References written $name resolve only
// against the host globals passed to [NewEnvironment].
//
// # Errors
//
// Every failure is one of the typed errors in this package, and each
// matches a sentinel such as [ErrParse] or [ErrDivideByZero] through
// [errors.Is].
//
// # Caching
//
// [ParseString] caches parsed programs by the xxh3 hash of their source, so
// repeated evaluation of the same text parses once. Use [ClearCache] to
// release them.
package lang
