// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Store-level sentinels (operation rejected, store unchanged).
var (
	// ErrInvalidKey indicates an empty color name after normalization.
	ErrInvalidKey = errors.New("invalid color name")

	// ErrDuplicateKey indicates a color collision with another live variant.
	ErrDuplicateKey = errors.New("duplicate color")

	// ErrVariantLimit indicates the store already holds the maximum number of variants.
	ErrVariantLimit = errors.New("variant limit exceeded")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// Media-level sentinels (attachment rejected, prior attachment unchanged).
var (
	// ErrInvalidMediaType indicates the file's content type is not acceptable.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrMediaTooLarge indicates the file exceeds the size cap for its kind.
	ErrMediaTooLarge = errors.New("media too large")
)

// Submission-level sentinels (build refused, no request sent).
var (
	// ErrMissingRequiredField indicates a required scalar field is empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrNoVariants indicates the store holds no live variants.
	ErrNoVariants = errors.New("no variants")

	// ErrNoMediaForVariant indicates a live variant resolves to no media at all.
	ErrNoMediaForVariant = errors.New("variant has no media")

	// ErrCompressionInProgress indicates a video compression is still in flight.
	ErrCompressionInProgress = errors.New("compression in progress")
)

// ErrUnauthorized indicates failed authentication/authorization.
var ErrUnauthorized = errors.New("unauthorized")
