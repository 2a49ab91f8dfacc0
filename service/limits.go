package service

const (
	// MaxImageSize caps image uploads (5 MiB).
	MaxImageSize = 5 * 1024 * 1024

	// MaxDocumentSize caps pdf/docx/pptx/text uploads (10 MiB).
	MaxDocumentSize = 10 * 1024 * 1024

	// FreeTierStorageLimit is the per-user cumulative storage ceiling (500 MiB).
	FreeTierStorageLimit = 500 * 1024 * 1024

	// MinTextLength is the minimum extracted character count for a material
	// to be considered readable.
	MinTextLength = 50

	// MaxBatchItems caps items per batch request.
	MaxBatchItems = 10
)
