//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// They run through `go run` or `go install` and are not tracked in go.mod.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks from the ports
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (matches go.mod)
//   Docs: https://github.com/uber-go/mock
//
// golangci-lint - static checks
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest
