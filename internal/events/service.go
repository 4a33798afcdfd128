package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrEventNotFound indicates the requested event row is absent.
	ErrEventNotFound = errors.New("events: event not found")
	// ErrNotEventOrganizer indicates the caller does not own the event.
	ErrNotEventOrganizer = errors.New("events: caller is not the event organizer")
	// ErrAlreadyRegistered indicates a duplicate registration by the same identity.
	ErrAlreadyRegistered = errors.New("events: already registered")
	// ErrMissingTitle indicates an event without a title.
	ErrMissingTitle = errors.New("events: title required")
	// ErrMissingEventDate indicates an event without a date.
	ErrMissingEventDate = errors.New("events: event date required")
)

// ServiceConfig describes the dependencies required by the event service.
type ServiceConfig struct {
	Database *gorm.DB
}

// Service owns events and their registration sub-resource.
type Service struct {
	db *gorm.DB
}

// NewService constructs the event service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("events: database connection required")
	}
	return &Service{db: cfg.Database}, nil
}

// List returns events ordered soonest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]Event, error) {
	query := s.db.WithContext(ctx).Preload("Organizer")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	result := make([]Event, 0)
	if err := query.Order("event_date ASC").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("events: list failed: %w", err)
	}
	return result, nil
}

// Get returns one event with its organizer and registrations, or ErrEventNotFound.
func (s *Service) Get(ctx context.Context, id string) (Event, error) {
	var event Event
	err := s.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Registrations").
		Preload("Registrations.Attendee").
		Where("id = ?", id).
		Take(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		return Event{}, fmt.Errorf("events: lookup failed: %w", err)
	}
	return event, nil
}

// Create inserts an event with the organizer forced to the acting identity.
func (s *Service) Create(ctx context.Context, actorID string, input EventInput) (Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Event{}, ErrMissingTitle
	}
	if input.EventDate.IsZero() {
		return Event{}, ErrMissingEventDate
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Event{}, fmt.Errorf("events: id generation failed: %w", err)
	}

	event := Event{
		ID:           id.String(),
		OrganizerID:  actorID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		EventType:    strings.TrimSpace(input.EventType),
		Location:     strings.TrimSpace(input.Location),
		IsVirtual:    input.IsVirtual,
		EventDate:    input.EventDate,
		Status:       strings.TrimSpace(input.Status),
		MaxAttendees: input.MaxAttendees,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, fmt.Errorf("events: insert failed: %w", err)
	}
	return event, nil
}

// Update applies the supplied caller-editable fields after the ownership
// check; fields absent from the patch keep their stored values.
func (s *Service) Update(ctx context.Context, id, actorID string, patch EventPatch) (Event, error) {
	if err := s.requireOrganizer(ctx, id, actorID); err != nil {
		return Event{}, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Event{}, ErrMissingTitle
	}
	if patch.EventDate != nil && patch.EventDate.IsZero() {
		return Event{}, ErrMissingEventDate
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.EventType != nil {
		updates["event_type"] = strings.TrimSpace(*patch.EventType)
	}
	if patch.Location != nil {
		updates["location"] = strings.TrimSpace(*patch.Location)
	}
	if patch.IsVirtual != nil {
		updates["is_virtual"] = *patch.IsVirtual
	}
	if patch.EventDate != nil {
		updates["event_date"] = *patch.EventDate
	}
	if patch.Status != nil {
		updates["status"] = strings.TrimSpace(*patch.Status)
	}
	if patch.MaxAttendees != nil {
		updates["max_attendees"] = *patch.MaxAttendees
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return Event{}, fmt.Errorf("events: update failed: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the event and its registrations after the ownership check.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	if err := s.requireOrganizer(ctx, id, actorID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&EventRegistration{}).Error; err != nil {
			return fmt.Errorf("events: registration cleanup failed: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Event{}).Error; err != nil {
			return fmt.Errorf("events: delete failed: %w", err)
		}
		return nil
	})
}

// Register records one registration per identity. A duplicate registration by
// the same identity fails with ErrAlreadyRegistered and leaves the counter
// untouched.
func (s *Service) Register(ctx context.Context, eventID, actorID string) (EventRegistration, error) {
	if _, err := s.organizerOf(ctx, eventID); err != nil {
		return EventRegistration{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return EventRegistration{}, fmt.Errorf("events: id generation failed: %w", err)
	}

	registration := EventRegistration{
		ID:      id.String(),
		EventID: eventID,
		UserID:  actorID,
		Status:  StatusRegistered,
	}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing EventRegistration
		err := tx.Where("event_id = ? AND user_id = ?", eventID, actorID).Take(&existing).Error
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("events: registration lookup failed: %w", err)
		}
		if err := tx.Create(&registration).Error; err != nil {
			return fmt.Errorf("events: registration insert failed: %w", err)
		}
		if err := tx.Model(&Event{}).Where("id = ?", eventID).
			UpdateColumn("registrations_count", gorm.Expr("registrations_count + 1")).Error; err != nil {
			return fmt.Errorf("events: registration count update failed: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return EventRegistration{}, txErr
	}
	return registration, nil
}

// Unregister removes the caller's registration. When no registration exists it
// is a no-op and the counter stays put.
func (s *Service) Unregister(ctx context.Context, eventID, actorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND user_id = ?", eventID, actorID).Delete(&EventRegistration{})
		if result.Error != nil {
			return fmt.Errorf("events: registration delete failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&Event{}).Where("id = ?", eventID).
			UpdateColumn("registrations_count",
				gorm.Expr("CASE WHEN registrations_count > 0 THEN registrations_count - 1 ELSE 0 END")).Error; err != nil {
			return fmt.Errorf("events: registration count update failed: %w", err)
		}
		return nil
	})
}

func (s *Service) requireOrganizer(ctx context.Context, id, actorID string) error {
	organizerID, err := s.organizerOf(ctx, id)
	if err != nil {
		return err
	}
	if organizerID != actorID {
		return ErrNotEventOrganizer
	}
	return nil
}

func (s *Service) organizerOf(ctx context.Context, id string) (string, error) {
	var event Event
	err := s.db.WithContext(ctx).Select("organizer_id").Where("id = ?", id).Take(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrEventNotFound
	}
	if err != nil {
		return "", fmt.Errorf("events: organizer lookup failed: %w", err)
	}
	return event.OrganizerID, nil
}
