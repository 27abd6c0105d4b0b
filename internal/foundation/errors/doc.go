// Package errors provides the classified error primitives used across docwiki.
//
// Every error that crosses a package boundary carries a category (config,
// validation, filesystem, render, internal), a severity and a retry strategy.
// docwiki never retries on its own, so builders default to RetryNever; the
// strategy is kept so the CLI adapter can report it.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryFileSystem, "clean output directory").
//		WithContext("output_root", root).
//		WithCause(originalErr).
//		Fatal().
//		Build()
package errors
