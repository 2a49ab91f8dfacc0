package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/passai/material-service/events"
	"github.com/passai/material-service/extractor"
	"github.com/passai/material-service/models"
	"github.com/passai/material-service/pkg/metrics"
	"github.com/passai/material-service/repository"
	"github.com/passai/material-service/storage"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Pipeline owns the material lifecycle: validation, quota, blob writes,
// extraction, finalization and the rollback behavior between them. It holds
// no long-lived material reference; every operation re-fetches by id.
type Pipeline struct {
	repo     repository.MaterialRepository
	blobs    storage.BlobStore
	registry *extractor.Registry
	quota    *QuotaTracker
	events   *events.Publisher
}

func NewPipeline(repo repository.MaterialRepository, blobs storage.BlobStore, registry *extractor.Registry, quota *QuotaTracker, publisher *events.Publisher) *Pipeline {
	return &Pipeline{
		repo:     repo,
		blobs:    blobs,
		registry: registry,
		quota:    quota,
		events:   publisher,
	}
}

// UploadRequest carries one new file through the upload variant.
type UploadRequest struct {
	UserID      uuid.UUID
	SubjectID   string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload runs the new-upload variant: the record is inserted once with its
// final status, there is no interim pending row. Extraction failure is a
// processing outcome captured in the record, not a request error.
func (p *Pipeline) Upload(ctx context.Context, req UploadRequest) (*models.Material, error) {
	fileType, ok := models.FileTypeFromMIME(req.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, req.ContentType)
	}

	size := int64(len(req.Data))
	if err := checkSize(fileType, size); err != nil {
		return nil, err
	}

	if err := p.quota.Check(req.UserID, size); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return nil, err
		}
		// Availability over strict enforcement: a broken quota check does
		// not block uploads. True exceedance is still denied above.
		log.Printf("quota check failed, admitting upload for user %s: %v", req.UserID, err)
	}

	id := uuid.New()
	path := fmt.Sprintf("%s/%s/%s_%s", req.UserID, req.SubjectID, id, sanitizeFileName(req.FileName))
	if err := p.blobs.Upload(ctx, path, req.Data, req.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}

	text, failMsg := p.runExtraction(fileType, req.Data)

	material := &models.Material{
		Base:        models.Base{ID: id},
		UserID:      req.UserID,
		SubjectID:   req.SubjectID,
		FileName:    req.FileName,
		FileType:    fileType,
		FileSize:    size,
		StoragePath: path,
	}
	if failMsg != "" {
		material.ProcessingStatus = models.StatusFailed
		material.ErrorMessage = failMsg
	} else {
		material.ProcessingStatus = models.StatusReady
		material.TextContent = text
		material.Metadata = datatypes.JSON(extractionMetadata(text))
	}

	if err := p.repo.Create(material); err != nil {
		// Compensating delete so the bucket does not accumulate objects
		// with no owning record.
		if rmErr := p.blobs.Remove(ctx, path); rmErr != nil {
			log.Printf("compensating blob delete %s: %v", path, rmErr)
		}
		return nil, fmt.Errorf("failed to save material record: %w", err)
	}

	p.publish(ctx, material)
	return material, nil
}

// ProcessExisting runs the deferred variant over a record and blob created
// by an external client. storagePath overrides the record's stored path
// when non-empty.
func (p *Pipeline) ProcessExisting(ctx context.Context, userID, materialID uuid.UUID, storagePath string) (m *models.Material, err error) {
	material, err := p.repo.GetByID(materialID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if material.UserID != userID {
		return nil, ErrForbidden
	}
	if material.ProcessingStatus == models.StatusReady {
		// Re-processing a ready material is a caller error. Failed
		// materials may be retried.
		return nil, ErrConflict
	}

	// Whatever goes wrong below, the row must end in a terminal state
	// rather than stuck in processing.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected processing error: %v", r)
			p.markFailed(ctx, material, err.Error())
		}
	}()

	// Write-through before download so a concurrent duplicate call observes
	// the in-flight state. This is not a compare-and-swap: two concurrent
	// calls can both proceed, and the last finalize wins.
	if err := p.repo.UpdateStatus(material.ID, models.StatusProcessing, ""); err != nil {
		return nil, err
	}
	material.ProcessingStatus = models.StatusProcessing

	path := storagePath
	if path == "" {
		path = material.StoragePath
	}
	data, err := p.blobs.Download(ctx, path)
	if err != nil {
		p.markFailed(ctx, material, fmt.Sprintf("failed to download file from storage: %v", err))
		return material, fmt.Errorf("%w: %v", ErrStorageReadFailed, err)
	}

	text, failMsg := p.runExtraction(material.FileType, data)
	if failMsg != "" {
		p.markFailed(ctx, material, failMsg)
		return material, nil
	}

	if err := p.repo.MarkReady(material.ID, text, extractionMetadata(text)); err != nil {
		p.markFailed(ctx, material, fmt.Sprintf("failed to save extracted text: %v", err))
		return material, err
	}
	material.ProcessingStatus = models.StatusReady
	material.TextContent = text
	material.ErrorMessage = ""
	material.Metadata = datatypes.JSON(extractionMetadata(text))

	p.publish(ctx, material)
	return material, nil
}

// runExtraction extracts and validates text for one material. The returned
// failure message is empty on success and user-facing otherwise.
func (p *Pipeline) runExtraction(fileType models.FileType, data []byte) (text, failMsg string) {
	text, err := p.registry.Extract(fileType, data)
	if err != nil {
		return "", fmt.Sprintf("failed to extract text: %v", err)
	}
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", fmt.Sprintf("extracted text is too short (minimum %d characters), file may be empty or corrupted", MinTextLength)
	}
	return text, ""
}

// markFailed is the best-effort terminal write used on processing failures.
func (p *Pipeline) markFailed(ctx context.Context, material *models.Material, message string) {
	if err := p.repo.UpdateStatus(material.ID, models.StatusFailed, message); err != nil {
		log.Printf("mark material %s failed: %v", material.ID, err)
	}
	material.ProcessingStatus = models.StatusFailed
	material.ErrorMessage = message
	material.TextContent = ""
	p.publish(ctx, material)
}

func (p *Pipeline) publish(ctx context.Context, material *models.Material) {
	metrics.RecordMaterial("material-service", string(material.FileType), string(material.ProcessingStatus))
	p.events.Publish(ctx, events.MaterialProcessed{
		MaterialID:   material.ID.String(),
		UserID:       material.UserID.String(),
		FileType:     material.FileType,
		Status:       material.ProcessingStatus,
		TextLength:   utf8.RuneCountInString(material.TextContent),
		ErrorMessage: material.ErrorMessage,
	})
}

func checkSize(fileType models.FileType, size int64) error {
	limit := int64(MaxDocumentSize)
	if fileType == models.FileTypeImage {
		limit = MaxImageSize
	}
	if size > limit {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, limit)
	}
	return nil
}

func sanitizeFileName(name string) string {
	return strings.ReplaceAll(filepath.Base(name), " ", "_")
}

func extractionMetadata(text string) []byte {
	payload, err := json.Marshal(map[string]any{
		"text_length": utf8.RuneCountInString(text),
	})
	if err != nil {
		return nil
	}
	return payload
}
