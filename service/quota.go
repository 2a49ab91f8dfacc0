package service

import (
	"fmt"

	"github.com/passai/material-service/models"
	"github.com/passai/material-service/repository"

	"github.com/google/uuid"
)

// QuotaTracker checks a user's cumulative stored bytes against a fixed
// per-tier limit. Usage is recomputed from material rows on every call;
// there is no persisted counter to drift after partial failures. Two
// concurrent uploads can both pass against a stale sum, which keeps this a
// soft quota.
type QuotaTracker struct {
	repo  repository.MaterialRepository
	limit int64
}

func NewQuotaTracker(repo repository.MaterialRepository) *QuotaTracker {
	return &QuotaTracker{repo: repo, limit: FreeTierStorageLimit}
}

// Check admits an upload of incomingBytes. A true exceedance returns
// ErrQuotaExceeded; an exact landing on the limit is allowed. Repository
// errors are returned as-is so the caller can choose its failure policy.
func (q *QuotaTracker) Check(userID uuid.UUID, incomingBytes int64) error {
	used, err := q.repo.TotalSizeByUser(userID)
	if err != nil {
		return fmt.Errorf("quota check: %w", err)
	}
	if used+incomingBytes > q.limit {
		return fmt.Errorf("%w: %d of %d bytes used", ErrQuotaExceeded, used, q.limit)
	}
	return nil
}

// Usage reports the current storage snapshot for a user.
func (q *QuotaTracker) Usage(userID uuid.UUID) (*models.StorageUsage, error) {
	used, err := q.repo.TotalSizeByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("storage usage: %w", err)
	}
	available := q.limit - used
	if available < 0 {
		available = 0
	}
	return &models.StorageUsage{
		Used:       used,
		Limit:      q.limit,
		UsedMB:     float64(used) / (1024 * 1024),
		LimitMB:    float64(q.limit) / (1024 * 1024),
		Percentage: float64(used) / float64(q.limit) * 100,
		Available:  available,
	}, nil
}
