package engine

import (
	"github.com/ardnew/eidolon/lang"
)

var (
	ErrClosed        = lang.NewError("engine closed")
	ErrInvalidHandle = lang.NewError("invalid engine handle")
	ErrOpenSource    = lang.NewError("open source file")
)
