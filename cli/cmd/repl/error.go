package repl

import "github.com/ardnew/eidolon/lang"

// Sentinel errors.
var (
	ErrOutOfBounds    = lang.NewError("history index out of range")
	ErrUnknownCommand = lang.NewError("unknown command")
)
