// Command plugin is built with -buildmode=plugin and loaded by golangci-lint
// as a custom linter.
package main

import (
	"golang.org/x/tools/go/analysis"

	"planie.app/api/tools/linters/enumvalidator"
)

// New is the entry point golangci-lint looks up in the plugin.
func New(any) ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{enumvalidator.Analyzer}, nil
}

func main() {}
