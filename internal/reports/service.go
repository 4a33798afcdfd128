package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uapconnect/backend/internal/activity"
	"gorm.io/gorm"
)

var (
	// ErrReportNotFound indicates the requested report row is absent.
	ErrReportNotFound = errors.New("reports: report not found")
	// ErrMissingTarget indicates a report without a target reference.
	ErrMissingTarget = errors.New("reports: target type and id required")
	// ErrMissingReason indicates a report without a reason.
	ErrMissingReason = errors.New("reports: reason required")
	// ErrMissingStatus indicates a status update without a status value.
	ErrMissingStatus = errors.New("reports: status required")
)

// ServiceConfig describes the dependencies required by the report service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service owns the moderation queue.
type Service struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewService constructs the report service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("reports: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, clock: clock}, nil
}

// List returns reports, newest first, narrowed by the provided filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Report, error) {
	query := s.db.WithContext(ctx).Preload("Reporter").Preload("Resolver")
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ReportType != "" {
		query = query.Where("report_type = ?", filters.ReportType)
	}

	result := make([]Report, 0)
	if err := query.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("reports: list failed: %w", err)
	}
	return result, nil
}

// Create files a report with the reporter forced to the acting identity.
// New reports always start in the open status.
func (s *Service) Create(ctx context.Context, actorID string, input ReportInput) (Report, error) {
	if strings.TrimSpace(input.TargetType) == "" || strings.TrimSpace(input.TargetID) == "" {
		return Report{}, ErrMissingTarget
	}
	if strings.TrimSpace(input.Reason) == "" {
		return Report{}, ErrMissingReason
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Report{}, fmt.Errorf("reports: id generation failed: %w", err)
	}

	report := Report{
		ID:          id.String(),
		ReportedBy:  actorID,
		ReportType:  strings.TrimSpace(input.ReportType),
		TargetType:  strings.TrimSpace(input.TargetType),
		TargetID:    strings.TrimSpace(input.TargetID),
		Reason:      strings.TrimSpace(input.Reason),
		Description: input.Description,
		Status:      StatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return Report{}, fmt.Errorf("reports: insert failed: %w", err)
	}
	return report, nil
}

// SetStatus transitions a report. ResolvedBy and ResolvedAt are stamped if
// and only if the target status is resolved; other transitions leave them
// untouched. The status change and its audit row commit atomically.
func (s *Service) SetStatus(ctx context.Context, id, status, actorID string) (Report, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return Report{}, ErrMissingStatus
	}

	updates := map[string]interface{}{"status": status}
	if status == StatusResolved {
		updates["resolved_by"] = actorID
		updates["resolved_at"] = s.clock().UTC()
	}

	var updated Report
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Report{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("reports: status update failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrReportNotFound
		}
		if err := tx.Where("id = ?", id).Take(&updated).Error; err != nil {
			return fmt.Errorf("reports: reload failed: %w", err)
		}

		entry, err := activity.NewRecord(actorID, activity.TypeReportResolved, map[string]interface{}{
			"report_id": id,
			"status":    status,
		})
		if err != nil {
			return err
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("reports: activity insert failed: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return Report{}, txErr
	}
	return updated, nil
}
