package service

import (
	"context"

	"github.com/passai/material-service/models"

	"github.com/google/uuid"
)

// BatchCoordinator fans independent items through the single-item flows.
// Items run sequentially; one item's failure never aborts its siblings, and
// results keep input order.
type BatchCoordinator struct {
	pipeline *Pipeline
}

func NewBatchCoordinator(pipeline *Pipeline) *BatchCoordinator {
	return &BatchCoordinator{pipeline: pipeline}
}

// BatchFile is one file in a batch upload.
type BatchFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (b *BatchCoordinator) UploadAll(ctx context.Context, userID uuid.UUID, subjectID string, files []BatchFile) models.BatchResponse {
	response := models.BatchResponse{
		Total:   len(files),
		Results: make([]models.BatchResult, 0, len(files)),
	}
	for _, file := range files {
		material, err := b.pipeline.Upload(ctx, UploadRequest{
			UserID:      userID,
			SubjectID:   subjectID,
			FileName:    file.Name,
			ContentType: file.ContentType,
			Data:        file.Data,
		})
		response.Results = append(response.Results, batchResult(file.Name, material, err))
	}
	return tally(response)
}

func (b *BatchCoordinator) ProcessAll(ctx context.Context, userID uuid.UUID, materialIDs []string) models.BatchResponse {
	response := models.BatchResponse{
		Total:   len(materialIDs),
		Results: make([]models.BatchResult, 0, len(materialIDs)),
	}
	for _, rawID := range materialIDs {
		id, err := uuid.Parse(rawID)
		if err != nil {
			response.Results = append(response.Results, models.BatchResult{
				ItemRef: rawID,
				Error:   "invalid material id",
			})
			continue
		}
		material, err := b.pipeline.ProcessExisting(ctx, userID, id, "")
		response.Results = append(response.Results, batchResult(rawID, material, err))
	}
	return tally(response)
}

// batchResult classifies one outcome: an error or a non-ready terminal
// status both count as failure.
func batchResult(itemRef string, material *models.Material, err error) models.BatchResult {
	result := models.BatchResult{ItemRef: itemRef, Material: material}
	switch {
	case err != nil:
		result.Error = err.Error()
	case material.ProcessingStatus != models.StatusReady:
		result.Error = material.ErrorMessage
	default:
		result.Success = true
	}
	return result
}

func tally(response models.BatchResponse) models.BatchResponse {
	for _, result := range response.Results {
		if result.Success {
			response.Successful++
		} else {
			response.Failed++
		}
	}
	return response
}
