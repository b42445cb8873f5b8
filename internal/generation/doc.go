// Package generation defines the provider contract generation backends
// implement and the error taxonomy the task pipeline maps to failure
// states. Concrete providers live in internal/platform (replicate, gemini)
// and internal/generation/placeholder.
package generation
