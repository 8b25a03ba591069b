// Package errors provides foundational, type-safe error primitives used across docgen.
//
// This package contains classified error types and helpers for consistent error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, validation, parse, render, filesystem, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the command line
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page failed").
//		WithContext("path", fullPath).
//		Build()
package errors
