package handlers

// HTTP-layer error codes mapped to responses via the fail() helper. Codes
// are lowercase snake_case; generic codes mirror HTTP status semantics,
// domain codes cover business failures that a status alone cannot convey.

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeDialogueFailed = "dialogue_failed"
	ErrCodeCatalogFailed  = "catalog_failed"
)
