package domain

import "errors"

var (
	// ErrInvalidInput is returned when a catalog item's name is empty or whitespace-only
	ErrInvalidInput = errors.New("source name is empty")

	// ErrUnparsablePrice is returned when a scraped price text contains no usable numeric value
	ErrUnparsablePrice = errors.New("no parsable price in text")

	// ErrCollaboratorFailure is returned when a marketplace collaborator cannot be reached
	ErrCollaboratorFailure = errors.New("marketplace collaborator failed")

	// ErrNoCatalogItems is returned when the source catalog yields no items for the keyword
	ErrNoCatalogItems = errors.New("no catalog items found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
