package cmd

import (
	"github.com/ardnew/eidolon/lang"
)

var (
	ErrReadSource       = lang.NewError("read source")
	ErrResourceNotFound = lang.NewError("resource not found")
	ErrGlobals          = lang.NewError("invalid globals")
	ErrMismatch         = lang.NewError("reference evaluation disagrees")
	ErrWriteConfig      = lang.NewError("write configuration file")
	ErrFileExists       = lang.NewError("file exists (use --force to overwrite)")
	ErrConflictingInput = lang.NewError("conflicting program inputs")
)
