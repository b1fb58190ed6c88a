package domain

import "errors"

var (
	// ErrDocumentNotFound signals a missing stored document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrDocumentDecode signals a stored record that fails to parse back
	// into a document. Fatal for the whole search call, never skipped
	// per-document.
	ErrDocumentDecode = errors.New("document decode failed")
)
