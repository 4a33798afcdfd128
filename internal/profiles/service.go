package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uapconnect/backend/internal/activity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound indicates the requested profile row is absent.
	ErrProfileNotFound = errors.New("profiles: profile not found")
	// ErrProfileExists indicates a profile already exists for the identity.
	ErrProfileExists = errors.New("profiles: profile already exists")
	// ErrNotProfileOwner indicates the caller does not own the profile.
	ErrNotProfileOwner = errors.New("profiles: caller is not the profile owner")
	// ErrInvalidRole indicates a role outside the recognized enum.
	ErrInvalidRole = errors.New("profiles: invalid role")
	// ErrEmptyStatusPatch indicates a status update without any field set.
	ErrEmptyStatusPatch = errors.New("profiles: status patch requires at least one field")
)

// ServiceConfig describes the dependencies required by the profile service.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service owns profile rows: directory reads, owner updates, role resolution
// and the admin-gated role/status mutations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the profile service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("profiles: database connection required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

// List returns all profiles, newest first.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	result := make([]Profile, 0)
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, fmt.Errorf("profiles: list failed: %w", err)
	}
	return result, nil
}

// Get returns a single profile or ErrProfileNotFound.
func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	var profile Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("profiles: lookup failed: %w", err)
	}
	return profile, nil
}

// Create inserts a profile for the verified identity. The identity fields are
// forced from the caller; payload-supplied id/email/role are never honored.
func (s *Service) Create(ctx context.Context, userID, email string, input ProfileInput) (Profile, error) {
	profile := Profile{
		ID:       strings.TrimSpace(userID),
		Email:    strings.TrimSpace(email),
		Role:     RoleUser,
		IsActive: true,
	}
	if profile.ID == "" {
		return Profile{}, fmt.Errorf("profiles: user identifier required")
	}
	applyInput(&profile, input)

	var existing Profile
	err := s.db.WithContext(ctx).Where("id = ?", profile.ID).Take(&existing).Error
	if err == nil {
		return Profile{}, ErrProfileExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, fmt.Errorf("profiles: lookup failed: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return Profile{}, fmt.Errorf("profiles: insert failed: %w", err)
	}
	return profile, nil
}

// Update applies the supplied owner-editable fields; fields absent from the
// patch keep their stored values. Only the owning identity may update; role
// and status flags are out of reach of this path.
func (s *Service) Update(ctx context.Context, id, actorID string, patch ProfilePatch) (Profile, error) {
	if id != actorID {
		return Profile{}, ErrNotProfileOwner
	}
	if _, err := s.Get(ctx, id); err != nil {
		return Profile{}, err
	}

	updates := map[string]interface{}{}
	setTrimmed := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	setTrimmed("full_name", patch.FullName)
	setTrimmed("department", patch.Department)
	setTrimmed("degree", patch.Degree)
	setTrimmed("current_position", patch.CurrentPosition)
	setTrimmed("current_company", patch.CurrentCompany)
	setTrimmed("location", patch.Location)
	setTrimmed("profile_picture_url", patch.ProfilePictureURL)
	setTrimmed("linkedin_url", patch.LinkedinURL)
	if patch.GraduationYear != nil {
		updates["graduation_year"] = *patch.GraduationYear
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return Profile{}, fmt.Errorf("profiles: update failed: %w", err)
	}
	return s.Get(ctx, id)
}

// Search returns directory matches, newest first. Year and department match
// exactly; company matches as a case-insensitive substring.
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]Profile, error) {
	query := s.db.WithContext(ctx).Model(&Profile{})
	if filters.GraduationYear != 0 {
		query = query.Where("graduation_year = ?", filters.GraduationYear)
	}
	if filters.Department != "" {
		query = query.Where("department = ?", filters.Department)
	}
	if filters.Company != "" {
		query = query.Where("LOWER(current_company) LIKE ?", "%"+strings.ToLower(filters.Company)+"%")
	}

	result := make([]Profile, 0)
	if err := query.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("profiles: search failed: %w", err)
	}
	return result, nil
}

// RoleOf resolves the caller's role. An absent profile yields RoleNone without
// error: "no role" and "could not determine role" are distinct outcomes.
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	var profile Profile
	err := s.db.WithContext(ctx).Select("role").Where("id = ?", userID).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, fmt.Errorf("profiles: role lookup failed: %w", err)
	}
	return profile.Role, nil
}

// ListUsers returns one page of profiles plus the total row count.
func (s *Service) ListUsers(ctx context.Context, page, limit int, filters UserFilters) ([]Profile, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Profile{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.IsVerified != nil {
		query = query.Where("is_verified = ?", *filters.IsVerified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("profiles: count failed: %w", err)
	}

	result := make([]Profile, 0)
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, 0, fmt.Errorf("profiles: page query failed: %w", err)
	}
	return result, total, nil
}

// SetRole reassigns a user's role and records the change in the activity log.
// Both writes commit atomically.
func (s *Service) SetRole(ctx context.Context, targetID string, role Role, actorID string) (Profile, error) {
	if _, ok := ParseRole(string(role)); !ok {
		return Profile{}, ErrInvalidRole
	}

	var updated Profile
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Profile{}).Where("id = ?", targetID).Update("role", role)
		if result.Error != nil {
			return fmt.Errorf("profiles: role update failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrProfileNotFound
		}
		if err := tx.Where("id = ?", targetID).Take(&updated).Error; err != nil {
			return fmt.Errorf("profiles: reload failed: %w", err)
		}
		return recordActivity(tx, actorID, activity.TypeRoleUpdated, map[string]interface{}{
			"target_user_id": targetID,
			"new_role":       role,
		})
	})
	if txErr != nil {
		return Profile{}, txErr
	}

	s.logger.Info("user role updated",
		zap.String("target_user_id", targetID),
		zap.String("new_role", string(role)),
		zap.String("actor_id", actorID))
	return updated, nil
}

// SetStatus updates activation/verification flags and records the change in
// the activity log. Both writes commit atomically.
func (s *Service) SetStatus(ctx context.Context, targetID string, patch StatusPatch, actorID string) (Profile, error) {
	updates := map[string]interface{}{}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.IsVerified != nil {
		updates["is_verified"] = *patch.IsVerified
	}
	if len(updates) == 0 {
		return Profile{}, ErrEmptyStatusPatch
	}

	var updated Profile
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Profile{}).Where("id = ?", targetID).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("profiles: status update failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrProfileNotFound
		}
		if err := tx.Where("id = ?", targetID).Take(&updated).Error; err != nil {
			return fmt.Errorf("profiles: reload failed: %w", err)
		}
		return recordActivity(tx, actorID, activity.TypeUserStatusUpdated, map[string]interface{}{
			"target_user_id": targetID,
			"updates":        updates,
		})
	})
	if txErr != nil {
		return Profile{}, txErr
	}

	s.logger.Info("user status updated",
		zap.String("target_user_id", targetID),
		zap.String("actor_id", actorID))
	return updated, nil
}

func recordActivity(tx *gorm.DB, actorID, activityType string, details map[string]interface{}) error {
	entry, err := activity.NewRecord(actorID, activityType, details)
	if err != nil {
		return err
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("profiles: activity insert failed: %w", err)
	}
	return nil
}

func applyInput(profile *Profile, input ProfileInput) {
	profile.FullName = strings.TrimSpace(input.FullName)
	profile.GraduationYear = input.GraduationYear
	profile.Department = strings.TrimSpace(input.Department)
	profile.Degree = strings.TrimSpace(input.Degree)
	profile.CurrentPosition = strings.TrimSpace(input.CurrentPosition)
	profile.CurrentCompany = strings.TrimSpace(input.CurrentCompany)
	profile.Location = strings.TrimSpace(input.Location)
	profile.Bio = input.Bio
	profile.ProfilePictureURL = strings.TrimSpace(input.ProfilePictureURL)
	profile.LinkedinURL = strings.TrimSpace(input.LinkedinURL)
}
