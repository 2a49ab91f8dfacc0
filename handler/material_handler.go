package handler

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/passai/material-service/middleware"
	"github.com/passai/material-service/models"
	"github.com/passai/material-service/repository"
	"github.com/passai/material-service/service"
	"github.com/passai/material-service/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const textPreviewLength = 200

type MaterialHandler struct {
	pipeline *service.Pipeline
	batch    *service.BatchCoordinator
	quota    *service.QuotaTracker
	repo     repository.MaterialRepository
	blobs    storage.BlobStore
}

func NewMaterialHandler(pipeline *service.Pipeline, batch *service.BatchCoordinator, quota *service.QuotaTracker, repo repository.MaterialRepository, blobs storage.BlobStore) *MaterialHandler {
	return &MaterialHandler{
		pipeline: pipeline,
		batch:    batch,
		quota:    quota,
		repo:     repo,
		blobs:    blobs,
	}
}

// Upload handles a single new file.
// POST /api/v1/upload (multipart: file, subject_id)
func (h *MaterialHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	subjectID := c.PostForm("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required", "detail": err.Error()})
		return
	}
	defer file.Close()

	data, err := readFileData(file)
	if err != nil {
		log.Printf("Upload read file error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file", "detail": err.Error()})
		return
	}

	log.Printf("Upload request: userID=%s, subjectID=%s, filename=%s, size=%d",
		userID, subjectID, header.Filename, len(data))

	material, err := h.pipeline.Upload(c.Request.Context(), service.UploadRequest{
		UserID:      userID,
		SubjectID:   subjectID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		log.Printf("Upload failed: userID=%s, filename=%s: %v", userID, header.Filename, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Success:  material.ProcessingStatus == models.StatusReady,
		Material: material,
		Message:  uploadMessage(material),
	})
}

// BatchUpload handles up to MaxBatchItems files in one request.
// POST /api/v1/batch-upload (multipart: files[], subject_id)
func (h *MaterialHandler) BatchUpload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	subjectID := c.PostForm("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "detail": err.Error()})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files are required"})
		return
	}
	if len(headers) > service.MaxBatchItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many files", "max": service.MaxBatchItems})
		return
	}

	files := make([]service.BatchFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file", "detail": err.Error()})
			return
		}
		data, err := readFileData(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file", "detail": err.Error()})
			return
		}
		files = append(files, service.BatchFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	log.Printf("BatchUpload request: userID=%s, files=%d", userID, len(files))
	c.JSON(http.StatusOK, h.batch.UploadAll(c.Request.Context(), userID, subjectID, files))
}

// ProcessMaterial runs extraction for a record whose bytes were uploaded
// directly to blob storage by the client.
// POST /api/v1/process-material (form: material_id, storage_path, file_type)
func (h *MaterialHandler) ProcessMaterial(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	materialID, err := uuid.Parse(c.PostForm("material_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material_id"})
		return
	}
	if ft := c.PostForm("file_type"); ft != "" {
		if _, ok := models.ParseFileType(ft); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file_type"})
			return
		}
	}

	log.Printf("ProcessMaterial request: materialID=%s, userID=%s", materialID, userID)

	material, err := h.pipeline.ProcessExisting(c.Request.Context(), userID, materialID, c.PostForm("storage_path"))
	if err != nil && material == nil {
		log.Printf("ProcessMaterial failed: materialID=%s: %v", materialID, err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		// The record reached a terminal failed state; surface the
		// infrastructure error with it.
		log.Printf("ProcessMaterial error: materialID=%s: %v", materialID, err)
		c.JSON(statusForError(err), processResponse(material))
		return
	}

	c.JSON(http.StatusOK, processResponse(material))
}

// BatchProcess fans material ids through the deferred flow.
// POST /api/v1/batch-process (form: material_ids[])
func (h *MaterialHandler) BatchProcess(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	materialIDs := c.PostFormArray("material_ids")
	if len(materialIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "material_ids are required"})
		return
	}
	if len(materialIDs) > service.MaxBatchItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many materials", "max": service.MaxBatchItems})
		return
	}

	log.Printf("BatchProcess request: userID=%s, materials=%d", userID, len(materialIDs))
	c.JSON(http.StatusOK, h.batch.ProcessAll(c.Request.Context(), userID, materialIDs))
}

// StorageUsage reports the user's quota snapshot.
// GET /api/v1/storage-usage
func (h *MaterialHandler) StorageUsage(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	usage, err := h.quota.Usage(userID)
	if err != nil {
		log.Printf("StorageUsage error: userID=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute storage usage"})
		return
	}
	c.JSON(http.StatusOK, usage)
}

// ListMaterials returns the user's materials, optionally scoped to a subject.
// GET /api/v1/materials?subject_id=
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	materials, err := h.repo.GetByUserID(userID, c.Query("subject_id"))
	if err != nil {
		log.Printf("ListMaterials error: userID=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list materials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "materials": materials, "total": len(materials)})
}

// MaterialStatus is the polling endpoint for a material's lifecycle stage.
// GET /api/v1/materials/:id/status
func (h *MaterialHandler) MaterialStatus(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}

	material, err := h.repo.GetByID(materialID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch material"})
		return
	}
	if material.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "material does not belong to user"})
		return
	}

	c.JSON(http.StatusOK, models.MaterialStatus{
		MaterialID:       material.ID.String(),
		FileName:         material.FileName,
		ProcessingStatus: material.ProcessingStatus,
		ErrorMessage:     material.ErrorMessage,
		CreatedAt:        material.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        material.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// DeleteMaterial removes the blob and the record, owner-scoped.
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}

	material, err := h.repo.GetByID(materialID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch material"})
		return
	}
	if material.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "material does not belong to user"})
		return
	}

	if err := h.blobs.Remove(c.Request.Context(), material.StoragePath); err != nil {
		log.Printf("DeleteMaterial blob remove %s: %v", material.StoragePath, err)
	}
	deleted, err := h.repo.DeleteByUser(materialID, userID)
	if err != nil || !deleted {
		log.Printf("DeleteMaterial error: materialID=%s: %v", materialID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete material"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func processResponse(material *models.Material) models.ProcessMaterialResponse {
	return models.ProcessMaterialResponse{
		Success:          material.ProcessingStatus == models.StatusReady,
		MaterialID:       material.ID.String(),
		ProcessingStatus: material.ProcessingStatus,
		ErrorMessage:     material.ErrorMessage,
		TextLength:       utf8.RuneCountInString(material.TextContent),
		TextPreview:      previewText(material.TextContent),
	}
}

func uploadMessage(material *models.Material) string {
	if material.ProcessingStatus == models.StatusReady {
		return "material processed successfully"
	}
	return "material stored but processing failed"
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= textPreviewLength {
		return text
	}
	return string(runes[:textPreviewLength])
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrQuotaExceeded),
		errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func readFileData(file multipart.File) ([]byte, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return data, nil
}
