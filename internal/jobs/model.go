package jobs

import (
	"time"

	"github.com/uapconnect/backend/internal/profiles"
)

// Job is an owned resource: PostedBy is fixed at creation and only the owner
// may mutate or delete the row.
type Job struct {
	ID             string            `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	PostedBy       string            `gorm:"column:posted_by;size:190;not null;index" json:"posted_by"`
	Title          string            `gorm:"column:title;size:320;not null" json:"title"`
	Company        string            `gorm:"column:company;size:190;not null" json:"company"`
	Location       string            `gorm:"column:location;size:320" json:"location"`
	JobType        string            `gorm:"column:job_type;size:64;index" json:"job_type"`
	IsRemote       bool              `gorm:"column:is_remote;not null;default:false" json:"is_remote"`
	Description    string            `gorm:"column:description;type:text" json:"description"`
	Requirements   string            `gorm:"column:requirements;type:text" json:"requirements"`
	SalaryRange    string            `gorm:"column:salary_range;size:190" json:"salary_range"`
	ApplicationURL string            `gorm:"column:application_url;size:512" json:"application_url"`
	Status         string            `gorm:"column:status;size:64;index" json:"status"`
	Deadline       *time.Time        `gorm:"column:deadline" json:"deadline,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Poster         *profiles.Profile `gorm:"foreignKey:PostedBy;references:ID" json:"poster,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (Job) TableName() string {
	return "jobs"
}

// JobInput carries the caller-editable job fields.
type JobInput struct {
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	JobType        string     `json:"job_type"`
	IsRemote       bool       `json:"is_remote"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements"`
	SalaryRange    string     `json:"salary_range"`
	ApplicationURL string     `json:"application_url"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline"`
}

// JobPatch carries a partial poster update. Nil fields were not supplied by
// the client and leave the stored value untouched.
type JobPatch struct {
	Title          *string    `json:"title"`
	Company        *string    `json:"company"`
	Location       *string    `json:"location"`
	JobType        *string    `json:"job_type"`
	IsRemote       *bool      `json:"is_remote"`
	Description    *string    `json:"description"`
	Requirements   *string    `json:"requirements"`
	SalaryRange    *string    `json:"salary_range"`
	ApplicationURL *string    `json:"application_url"`
	Status         *string    `json:"status"`
	Deadline       *time.Time `json:"deadline"`
}

// ListFilters narrows the job board listing.
type ListFilters struct {
	Status   string
	JobType  string
	IsRemote *bool
}
