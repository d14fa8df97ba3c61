package main

import (
	"errors"
	"os"

	cvpager "github.com/alnah/go-cvpager"
	"github.com/alnah/go-cvpager/internal/config"
	"github.com/alnah/go-cvpager/internal/profile"
)

// Exit codes for the cvpager CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful render
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitUnresolved = 5 // Pagination did not settle under --strict
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is, so wrapped errors must use %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, cvpager.ErrUnresolved) {
		return ExitUnresolved
	}

	// Browser errors (exit 4)
	if errors.Is(err, cvpager.ErrBrowserConnect) ||
		errors.Is(err, cvpager.ErrPageCreate) ||
		errors.Is(err, cvpager.ErrPageLoad) ||
		errors.Is(err, cvpager.ErrMeasure) ||
		errors.Is(err, cvpager.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, profile.ErrProfileParse) ||
		errors.Is(err, profile.ErrMissingName) ||
		errors.Is(err, profile.ErrMissingField) ||
		errors.Is(err, profile.ErrInvalidDate) ||
		errors.Is(err, profile.ErrDateOrder) ||
		errors.Is(err, cvpager.ErrEmptyInput) ||
		errors.Is(err, cvpager.ErrAmbiguousInput) ||
		errors.Is(err, cvpager.ErrInvalidPageSize) ||
		errors.Is(err, cvpager.ErrInvalidOrientation) ||
		errors.Is(err, cvpager.ErrInvalidMargin) ||
		errors.Is(err, cvpager.ErrInvalidFooterLink) ||
		errors.Is(err, cvpager.ErrInvalidDateFormat) ||
		errors.Is(err, cvpager.ErrStyleNotFound) ||
		errors.Is(err, cvpager.ErrTemplateSetNotFound) ||
		errors.Is(err, cvpager.ErrIncompleteTemplateSet) ||
		errors.Is(err, cvpager.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
