package runlog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hullsync/chargebee-connector/app/models"
)

// Repository journals sync runs in the database.
type Repository interface {
	Start(ctx context.Context, correlationKey, objectType, readMode string) (uint, error)
	Finish(ctx context.Context, id uint, status string, items, pages int, runErr error) error
	Recent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a run journal backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Start(ctx context.Context, correlationKey, objectType, readMode string) (uint, error) {
	run := &models.SyncRun{
		CorrelationKey: correlationKey,
		ObjectType:     objectType,
		ReadMode:       readMode,
		Status:         models.SyncRunStatusRunning,
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return 0, err
	}
	return run.ID, nil
}

func (r *gormRepository) Finish(ctx context.Context, id uint, status string, items, pages int, runErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":          status,
		"items_processed": items,
		"pages_fetched":   pages,
		"finished_at":     &now,
	}
	if runErr != nil {
		updates["error"] = runErr.Error()
	}
	return r.db.WithContext(ctx).Model(&models.SyncRun{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
