// Package pkg holds project metadata shared by the command-line interface,
// the MCP bridge, and generated configuration files.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name and the directory name used for
	// configuration and cache files.
	Name = "eidolon"
	// Description is a one-line summary shown in help output and reported
	// to MCP clients.
	Description = "Embeddable arithmetic expression evaluator"
	// EnvPrefix prefixes environment variables recognized by the CLI.
	EnvPrefix = "EIDOLON"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
