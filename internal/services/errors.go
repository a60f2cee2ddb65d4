package services

import "errors"

// Error kinds surfaced to HTTP callers. Wrap them with %w so handlers can
// match with errors.Is.
var (
	ErrMissingInput    = errors.New("missing input")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrExtraction      = errors.New("text extraction failed")
	ErrUpstreamFormat  = errors.New("upstream returned an unexpected format")
	ErrUpstreamCall    = errors.New("upstream call failed")
	ErrUpstreamTimeout = errors.New("upstream call timed out")
)
