package reports

import (
	"time"

	"github.com/uapconnect/backend/internal/profiles"
)

// Report status values. StatusResolved is the only transition that stamps
// resolver metadata.
const (
	StatusOpen      = "open"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

// Report captures a user complaint against a target resource. ReportedBy is
// fixed at creation; ResolvedBy/ResolvedAt are set only on the transition to
// the resolved status.
type Report struct {
	ID          string            `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	ReportedBy  string            `gorm:"column:reported_by;size:190;not null;index" json:"reported_by"`
	ReportType  string            `gorm:"column:report_type;size:64;index" json:"report_type"`
	TargetType  string            `gorm:"column:target_type;size:64;not null" json:"target_type"`
	TargetID    string            `gorm:"column:target_id;size:190;not null" json:"target_id"`
	Reason      string            `gorm:"column:reason;size:320;not null" json:"reason"`
	Description string            `gorm:"column:description;type:text" json:"description"`
	Status      string            `gorm:"column:status;size:64;not null;default:'open';index" json:"status"`
	ResolvedBy  *string           `gorm:"column:resolved_by;size:190" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time        `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Reporter    *profiles.Profile `gorm:"foreignKey:ReportedBy;references:ID" json:"reporter,omitempty"`
	Resolver    *profiles.Profile `gorm:"foreignKey:ResolvedBy;references:ID" json:"resolver,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (Report) TableName() string {
	return "reports"
}

// ReportInput carries the caller-supplied report fields. The reporter is
// never taken from the payload.
type ReportInput struct {
	ReportType  string `json:"report_type"`
	TargetType  string `json:"target_type"`
	TargetID    string `json:"target_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// ListFilters narrows the moderation queue listing.
type ListFilters struct {
	Status     string
	ReportType string
}
