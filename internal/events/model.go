package events

import (
	"time"

	"github.com/uapconnect/backend/internal/profiles"
)

// Registration status recorded for attendees.
const StatusRegistered = "registered"

// Event is an owned resource: OrganizerID is fixed at creation and only the
// owner may mutate or delete the row. The registrations counter moves
// exclusively through the register/unregister sub-operations.
type Event struct {
	ID                 string              `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	OrganizerID        string              `gorm:"column:organizer_id;size:190;not null;index" json:"organizer_id"`
	Title              string              `gorm:"column:title;size:320;not null" json:"title"`
	Description        string              `gorm:"column:description;type:text" json:"description"`
	EventType          string              `gorm:"column:event_type;size:64;index" json:"event_type"`
	Location           string              `gorm:"column:location;size:320" json:"location"`
	IsVirtual          bool                `gorm:"column:is_virtual;not null;default:false" json:"is_virtual"`
	EventDate          time.Time           `gorm:"column:event_date;not null;index" json:"event_date"`
	Status             string              `gorm:"column:status;size:64;index" json:"status"`
	MaxAttendees       int                 `gorm:"column:max_attendees" json:"max_attendees"`
	RegistrationsCount int64               `gorm:"column:registrations_count;not null;default:0" json:"registrations_count"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Organizer          *profiles.Profile   `gorm:"foreignKey:OrganizerID;references:ID" json:"organizer,omitempty"`
	Registrations      []EventRegistration `gorm:"foreignKey:EventID;references:ID" json:"registrations,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (Event) TableName() string {
	return "events"
}

// EventRegistration is the join row backing the registrations counter.
// One row per event+user.
type EventRegistration struct {
	ID        string            `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	EventID   string            `gorm:"column:event_id;size:190;not null;uniqueIndex:idx_event_regs_event_user,priority:1" json:"event_id"`
	UserID    string            `gorm:"column:user_id;size:190;not null;uniqueIndex:idx_event_regs_event_user,priority:2" json:"user_id"`
	Status    string            `gorm:"column:status;size:64;not null" json:"status"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Attendee  *profiles.Profile `gorm:"foreignKey:UserID;references:ID" json:"attendee,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (EventRegistration) TableName() string {
	return "event_registrations"
}

// EventInput carries the caller-editable event fields.
type EventInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EventType    string    `json:"event_type"`
	Location     string    `json:"location"`
	IsVirtual    bool      `json:"is_virtual"`
	EventDate    time.Time `json:"event_date"`
	Status       string    `json:"status"`
	MaxAttendees int       `json:"max_attendees"`
}

// EventPatch carries a partial organizer update. Nil fields were not supplied
// by the client and leave the stored value untouched.
type EventPatch struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	EventType    *string    `json:"event_type"`
	Location     *string    `json:"location"`
	IsVirtual    *bool      `json:"is_virtual"`
	EventDate    *time.Time `json:"event_date"`
	Status       *string    `json:"status"`
	MaxAttendees *int       `json:"max_attendees"`
}
