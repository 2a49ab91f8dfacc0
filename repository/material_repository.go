package repository

import (
	"errors"
	"time"

	"github.com/passai/material-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a material row does not exist.
var ErrNotFound = errors.New("material not found")

type MaterialRepository interface {
	BaseRepository[models.Material]
	GetByUserID(userID uuid.UUID, subjectID string) ([]*models.Material, error)
	UpdateStatus(id uuid.UUID, status models.ProcessingStatus, errorMessage string) error
	MarkReady(id uuid.UUID, text string, metadata []byte) error
	TotalSizeByUser(userID uuid.UUID) (int64, error)
	DeleteByUser(id, userID uuid.UUID) (bool, error)
}

type MaterialRepositoryImpl struct {
	*BaseRepositoryImpl[models.Material]
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &MaterialRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.Material](db),
	}
}

func (r *MaterialRepositoryImpl) GetByID(id uuid.UUID) (*models.Material, error) {
	var material models.Material
	err := r.db.First(&material, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepositoryImpl) GetByUserID(userID uuid.UUID, subjectID string) ([]*models.Material, error) {
	var materials []*models.Material
	query := r.db.Where("user_id = ?", userID)
	if subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	err := query.Order("created_at DESC").Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

// UpdateStatus performs the single-row status transition. An empty
// errorMessage clears the column so ready rows never carry a stale error.
func (r *MaterialRepositoryImpl) UpdateStatus(id uuid.UUID, status models.ProcessingStatus, errorMessage string) error {
	updates := map[string]any{
		"processing_status": status,
		"error_message":     errorMessage,
		"updated_at":        time.Now().UTC(),
	}
	return r.db.Model(&models.Material{}).Where("id = ?", id).Updates(updates).Error
}

// MarkReady stores the extracted text and flips the row to ready in one write.
func (r *MaterialRepositoryImpl) MarkReady(id uuid.UUID, text string, metadata []byte) error {
	updates := map[string]any{
		"text_content":      text,
		"processing_status": models.StatusReady,
		"error_message":     "",
		"updated_at":        time.Now().UTC(),
	}
	if metadata != nil {
		updates["metadata"] = metadata
	}
	return r.db.Model(&models.Material{}).Where("id = ?", id).Updates(updates).Error
}

// TotalSizeByUser sums stored bytes across all of the user's materials.
// Recomputed from rows on every call, no persisted counter.
func (r *MaterialRepositoryImpl) TotalSizeByUser(userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.Model(&models.Material{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	return total, err
}

func (r *MaterialRepositoryImpl) DeleteByUser(id, userID uuid.UUID) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Material{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
