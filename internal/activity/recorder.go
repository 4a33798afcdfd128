package activity

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const defaultRecentLimit = 50

// RecorderConfig describes the dependencies required by the activity recorder.
type RecorderConfig struct {
	Database *gorm.DB
}

// Recorder appends and reads audit rows. Rows are write-once.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs the activity recorder.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("activity: database connection required")
	}
	return &Recorder{db: cfg.Database}, nil
}

// Entry describes a client-reported or system-reported activity.
type Entry struct {
	UserID       string
	ActivityType string
	Details      map[string]interface{}
	IPAddress    string
	UserAgent    string
}

// Record appends one audit row and returns it.
func (r *Recorder) Record(ctx context.Context, entry Entry) (Record, error) {
	record, err := NewRecord(entry.UserID, entry.ActivityType, entry.Details)
	if err != nil {
		return Record{}, err
	}
	record.IPAddress = entry.IPAddress
	record.UserAgent = entry.UserAgent

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return Record{}, fmt.Errorf("activity: insert failed: %w", err)
	}
	return record, nil
}

// Recent returns the newest audit rows, capped at limit (default 50).
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}

	result := make([]Record, 0)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, fmt.Errorf("activity: query failed: %w", err)
	}
	return result, nil
}
