package models

import "time"

// Sync run outcomes.
const (
	SyncRunStatusRunning   = "running"
	SyncRunStatusSucceeded = "succeeded"
	SyncRunStatusFailed    = "failed"
	SyncRunStatusSkipped   = "skipped"
)

// SyncRun journals one fetch run of the sync agent.
type SyncRun struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CorrelationKey string     `gorm:"type:varchar(36);not null;index" json:"correlation_key"`
	ObjectType     string     `gorm:"type:varchar(20);not null;index" json:"object_type"`
	ReadMode       string     `gorm:"type:varchar(20);not null" json:"read_mode"`
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"`
	ItemsProcessed int        `gorm:"not null;default:0" json:"items_processed"`
	PagesFetched   int        `gorm:"not null;default:0" json:"pages_fetched"`
	Error          string     `gorm:"type:text" json:"error"`
	StartedAt      time.Time  `gorm:"autoCreateTime;index" json:"started_at"`
	FinishedAt     *time.Time `gorm:"type:timestamp;default:null" json:"finished_at,omitempty"`
}
