// Package errors contains domain-specific errors for the media domain
package errors

import (
	pkgerrors "github.com/Conte777/tubedrop/pkg/errors"
)

// Domain errors for media operations
var (
	ErrURLNotFound         = pkgerrors.NewNotFoundError("no pending URL for this conversation")
	ErrStaleSelection      = pkgerrors.NewConflictError("selection belongs to a replaced URL")
	ErrUnsupportedURL      = pkgerrors.NewValidationError("text does not contain a supported URL")
	ErrNoQualifyingFormats = pkgerrors.NewNotFoundError("no qualifying formats")
	ErrExtraction          = pkgerrors.NewUnavailableError("extractor failed")
	ErrEmptyResult         = pkgerrors.NewInternalError("extractor returned no file")
	ErrUpload              = pkgerrors.NewUnavailableError("upload failed")
	ErrSenderNotSet        = pkgerrors.NewInternalError("chat sender is not set")
)
