package cvpager

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input has neither a profile nor markdown content")
	ErrAmbiguousInput = errors.New("input has both a profile and markdown content")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrMeasure        = errors.New("failed to measure page layout")
	ErrDecoration     = errors.New("header or footer rendering failed")
	ErrRendererClosed = errors.New("renderer is closed")

	// ErrUnresolved is returned with the Result when pagination stops at the
	// redistribution limit and WithStrict is set.
	ErrUnresolved = errors.New("pagination did not stabilize")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterLink = errors.New("invalid footer link")

	// Date format errors.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
