package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Activity type tags written by privileged mutations.
const (
	TypeRoleUpdated       = "role_updated"
	TypeUserStatusUpdated = "user_status_updated"
	TypeReportResolved    = "report_resolved"
)

var (
	// ErrMissingUserID indicates an activity entry without an acting user.
	ErrMissingUserID = errors.New("activity: user identifier required")
	// ErrMissingActivityType indicates an activity entry without a type tag.
	ErrMissingActivityType = errors.New("activity: activity type required")
)

// Record is one append-only audit row. No update or delete path exists.
type Record struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	UserID       string    `gorm:"column:user_id;size:190;not null;index:idx_activity_user_time,priority:1" json:"user_id"`
	ActivityType string    `gorm:"column:activity_type;size:64;not null" json:"activity_type"`
	DetailsJSON  string    `gorm:"column:activity_details;type:text;not null;default:'{}'" json:"activity_details"`
	IPAddress    string    `gorm:"column:ip_address;size:64" json:"ip_address,omitempty"`
	UserAgent    string    `gorm:"column:user_agent;size:512" json:"user_agent,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:idx_activity_user_time,priority:2" json:"created_at"`
}

// TableName provides the explicit table binding for GORM.
func (Record) TableName() string {
	return "user_activity"
}

// NewRecord builds an audit row with a fresh identifier and marshaled details.
func NewRecord(userID, activityType string, details map[string]interface{}) (Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Record{}, ErrMissingUserID
	}
	activityType = strings.TrimSpace(activityType)
	if activityType == "" {
		return Record{}, ErrMissingActivityType
	}

	detailsJSON := "{}"
	if len(details) > 0 {
		encoded, err := json.Marshal(details)
		if err != nil {
			return Record{}, fmt.Errorf("activity: encode details: %w", err)
		}
		detailsJSON = string(encoded)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("activity: id generation failed: %w", err)
	}

	return Record{
		ID:           id.String(),
		UserID:       userID,
		ActivityType: activityType,
		DetailsJSON:  detailsJSON,
	}, nil
}
