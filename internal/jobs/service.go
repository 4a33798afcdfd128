package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrJobNotFound indicates the requested job row is absent.
	ErrJobNotFound = errors.New("jobs: job not found")
	// ErrNotJobPoster indicates the caller does not own the job posting.
	ErrNotJobPoster = errors.New("jobs: caller is not the job poster")
	// ErrMissingTitle indicates a job without a title.
	ErrMissingTitle = errors.New("jobs: title required")
	// ErrMissingCompany indicates a job without a company.
	ErrMissingCompany = errors.New("jobs: company required")
)

// ServiceConfig describes the dependencies required by the job service.
type ServiceConfig struct {
	Database *gorm.DB
}

// Service owns job-board postings.
type Service struct {
	db *gorm.DB
}

// NewService constructs the job service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("jobs: database connection required")
	}
	return &Service{db: cfg.Database}, nil
}

// List returns jobs, newest first, narrowed by the provided filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Job, error) {
	query := s.db.WithContext(ctx).Preload("Poster")
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.JobType != "" {
		query = query.Where("job_type = ?", filters.JobType)
	}
	if filters.IsRemote != nil {
		query = query.Where("is_remote = ?", *filters.IsRemote)
	}

	result := make([]Job, 0)
	if err := query.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("jobs: list failed: %w", err)
	}
	return result, nil
}

// Get returns one job with its poster, or ErrJobNotFound.
func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Preload("Poster").Where("id = ?", id).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Job{}, ErrJobNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("jobs: lookup failed: %w", err)
	}
	return job, nil
}

// Create inserts a job with the poster forced to the acting identity.
func (s *Service) Create(ctx context.Context, actorID string, input JobInput) (Job, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Job{}, ErrMissingTitle
	}
	if strings.TrimSpace(input.Company) == "" {
		return Job{}, ErrMissingCompany
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Job{}, fmt.Errorf("jobs: id generation failed: %w", err)
	}

	job := Job{
		ID:             id.String(),
		PostedBy:       actorID,
		Title:          strings.TrimSpace(input.Title),
		Company:        strings.TrimSpace(input.Company),
		Location:       strings.TrimSpace(input.Location),
		JobType:        strings.TrimSpace(input.JobType),
		IsRemote:       input.IsRemote,
		Description:    input.Description,
		Requirements:   input.Requirements,
		SalaryRange:    strings.TrimSpace(input.SalaryRange),
		ApplicationURL: strings.TrimSpace(input.ApplicationURL),
		Status:         strings.TrimSpace(input.Status),
		Deadline:       input.Deadline,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return Job{}, fmt.Errorf("jobs: insert failed: %w", err)
	}
	return job, nil
}

// Update applies the supplied caller-editable fields after the ownership
// check; fields absent from the patch keep their stored values.
func (s *Service) Update(ctx context.Context, id, actorID string, patch JobPatch) (Job, error) {
	if err := s.requirePoster(ctx, id, actorID); err != nil {
		return Job{}, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Job{}, ErrMissingTitle
	}
	if patch.Company != nil && strings.TrimSpace(*patch.Company) == "" {
		return Job{}, ErrMissingCompany
	}

	updates := map[string]interface{}{}
	setTrimmed := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	setTrimmed("title", patch.Title)
	setTrimmed("company", patch.Company)
	setTrimmed("location", patch.Location)
	setTrimmed("job_type", patch.JobType)
	setTrimmed("salary_range", patch.SalaryRange)
	setTrimmed("application_url", patch.ApplicationURL)
	setTrimmed("status", patch.Status)
	if patch.IsRemote != nil {
		updates["is_remote"] = *patch.IsRemote
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Requirements != nil {
		updates["requirements"] = *patch.Requirements
	}
	if patch.Deadline != nil {
		updates["deadline"] = *patch.Deadline
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.db.WithContext(ctx).Model(&Job{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return Job{}, fmt.Errorf("jobs: update failed: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the job after the ownership check.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	if err := s.requirePoster(ctx, id, actorID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Job{}).Error; err != nil {
		return fmt.Errorf("jobs: delete failed: %w", err)
	}
	return nil
}

func (s *Service) requirePoster(ctx context.Context, id, actorID string) error {
	var job Job
	err := s.db.WithContext(ctx).Select("posted_by").Where("id = ?", id).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrJobNotFound
	}
	if err != nil {
		return fmt.Errorf("jobs: poster lookup failed: %w", err)
	}
	if job.PostedBy != actorID {
		return ErrNotJobPoster
	}
	return nil
}
