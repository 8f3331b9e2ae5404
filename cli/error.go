package cli

import "github.com/ardnew/eidolon/lang"

// ErrDirectory reports that a runtime directory could not be created.
var ErrDirectory = lang.NewError("create directory")
