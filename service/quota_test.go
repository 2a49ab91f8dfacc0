package service

import (
	"errors"
	"testing"

	"github.com/passai/material-service/models"

	"github.com/google/uuid"
)

func TestQuotaCheck(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		used     int64
		incoming int64
		wantErr  bool
	}{
		{name: "empty account", used: 0, incoming: 1024, wantErr: false},
		{name: "exactly at limit", used: FreeTierStorageLimit - 100, incoming: 100, wantErr: false},
		{name: "one byte over", used: FreeTierStorageLimit - 100, incoming: 101, wantErr: true},
		{name: "already full", used: FreeTierStorageLimit, incoming: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			if tt.used > 0 {
				repo.materials[uuid.New()] = &models.Material{
					Base:     models.Base{ID: uuid.New()},
					UserID:   userID,
					FileSize: tt.used,
				}
			}
			q := NewQuotaTracker(repo)

			err := q.Check(userID, tt.incoming)
			if tt.wantErr && !errors.Is(err, ErrQuotaExceeded) {
				t.Errorf("Check() error = %v, want ErrQuotaExceeded", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Check() error = %v, want nil", err)
			}
		})
	}
}

func TestQuotaCheckIgnoresOtherUsers(t *testing.T) {
	repo := newFakeRepo()
	repo.materials[uuid.New()] = &models.Material{
		Base:     models.Base{ID: uuid.New()},
		UserID:   uuid.New(),
		FileSize: FreeTierStorageLimit,
	}
	q := NewQuotaTracker(repo)

	if err := q.Check(uuid.New(), 1024); err != nil {
		t.Errorf("another user's storage must not count: %v", err)
	}
}

func TestQuotaUsage(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	for _, size := range []int64{1000, 2000} {
		id := uuid.New()
		repo.materials[id] = &models.Material{
			Base:     models.Base{ID: id},
			UserID:   userID,
			FileSize: size,
		}
	}
	q := NewQuotaTracker(repo)

	usage, err := q.Usage(userID)
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	if usage.Used != 3000 {
		t.Errorf("Used = %d, want 3000", usage.Used)
	}
	if usage.Limit != FreeTierStorageLimit {
		t.Errorf("Limit = %d, want %d", usage.Limit, FreeTierStorageLimit)
	}
	if usage.Available != FreeTierStorageLimit-3000 {
		t.Errorf("Available = %d", usage.Available)
	}
	if usage.UsedMB == 0 || usage.Percentage == 0 {
		t.Error("derived MB and percentage fields must be populated")
	}
}

func TestQuotaUsageOverLimitClampsAvailable(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	id := uuid.New()
	repo.materials[id] = &models.Material{
		Base:     models.Base{ID: id},
		UserID:   userID,
		FileSize: FreeTierStorageLimit + 4096,
	}
	q := NewQuotaTracker(repo)

	usage, err := q.Usage(userID)
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	if usage.Available != 0 {
		t.Errorf("Available = %d, want 0", usage.Available)
	}
}
