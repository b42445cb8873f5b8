package generation

import "errors"

// Error definitions for the generation package.
var (
	// ErrInvalidConfig is returned when a provider is constructed with
	// invalid or incomplete configuration.
	ErrInvalidConfig = errors.New("invalid provider configuration")

	// ErrProviderFailure is returned when the external service reports a
	// failed or otherwise non-success terminal state for an operation.
	ErrProviderFailure = errors.New("provider reported failure")

	// ErrTimeout is returned when the polling ceiling is exhausted before
	// the operation reaches a terminal state.
	ErrTimeout = errors.New("generation timeout")

	// ErrUnsupportedKind is returned when a provider is asked to run a
	// task kind it cannot serve.
	ErrUnsupportedKind = errors.New("unsupported task kind for provider")

	// ErrInvalidResponse is returned when the provider response cannot be
	// interpreted (missing output, malformed payload).
	ErrInvalidResponse = errors.New("invalid provider response")
)
