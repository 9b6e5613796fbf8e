package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownSource is returned when an ingestion source is not voice, ocr or manual
	ErrUnknownSource = errors.New("unknown ingestion source")

	// ErrSessionNotFound is returned when a match session is missing or expired
	ErrSessionNotFound = errors.New("match session not found")

	// ErrCatalogUnavailable is returned when the product catalog cannot be read
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidCatalog is returned when catalog data fails validation on load
	ErrInvalidCatalog = errors.New("invalid catalog data")
)
