package service

import (
	"errors"

	"github.com/passai/material-service/extractor"
)

// Request-validation errors abort the request with no state mutation.
// Processing-stage errors are captured into the material's failed status
// instead; see Pipeline.
var (
	ErrUnsupportedFileType = extractor.ErrUnsupportedFileType
	ErrFileTooLarge        = errors.New("file size exceeds limit")
	ErrQuotaExceeded       = errors.New("storage quota exceeded")
	ErrStorageWriteFailed  = errors.New("failed to store file")
	ErrStorageReadFailed   = errors.New("failed to download file from storage")
	ErrNotFound            = errors.New("material not found")
	ErrForbidden           = errors.New("material does not belong to user")
	ErrConflict            = errors.New("material is already processed")
)
