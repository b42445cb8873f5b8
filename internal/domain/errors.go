// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTaskKind is returned when a generation kind is not one of
	// the supported task kinds.
	ErrInvalidTaskKind = errors.New("invalid task kind")

	// ErrInvalidTaskStatus is returned when a task status is not valid.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrMissingSourceImage is returned when an image-to-video task is
	// created without a source image reference.
	ErrMissingSourceImage = errors.New("source image reference is required for image-to-video")

	// ErrTaskTerminal is returned when a transition is attempted on a task
	// that already reached a terminal state.
	ErrTaskTerminal = errors.New("task is in a terminal state")

	// ErrInvalidMediaType is returned when a version media type is not
	// image or video.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrEmptyShotID is returned when an entity references shot id zero.
	ErrEmptyShotID = errors.New("shot ID cannot be empty")
)
