package profiles

import (
	"strings"
	"time"
)

// Role is the coarse privilege tier attached to a Profile.
type Role string

const (
	// RoleNone marks callers without a profile row.
	RoleNone Role = ""
	// RoleUser is the default tier assigned at profile creation.
	RoleUser Role = "user"
	// RoleAdmin may moderate content and manage user status.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin may additionally reassign roles.
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole validates raw input against the recognized role set.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	default:
		return RoleNone, false
	}
}

// IsAtLeastAdmin reports whether the role clears the moderation threshold.
func (r Role) IsAtLeastAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Profile is the one-to-one extension of an external identity.
type Profile struct {
	ID                string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Email             string    `gorm:"column:email;size:320;not null" json:"email"`
	FullName          string    `gorm:"column:full_name;size:190" json:"full_name"`
	GraduationYear    int       `gorm:"column:graduation_year" json:"graduation_year"`
	Department        string    `gorm:"column:department;size:190" json:"department"`
	Degree            string    `gorm:"column:degree;size:190" json:"degree"`
	CurrentPosition   string    `gorm:"column:current_position;size:190" json:"current_position"`
	CurrentCompany    string    `gorm:"column:current_company;size:190" json:"current_company"`
	Location          string    `gorm:"column:location;size:190" json:"location"`
	Bio               string    `gorm:"column:bio;type:text" json:"bio"`
	ProfilePictureURL string    `gorm:"column:profile_picture_url;size:512" json:"profile_picture_url"`
	LinkedinURL       string    `gorm:"column:linkedin_url;size:512" json:"linkedin_url"`
	Role              Role      `gorm:"column:role;size:32;not null;default:'user'" json:"role"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsVerified        bool      `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// ProfileInput carries the caller-editable profile fields. Identity, role and
// status flags are never taken from client payloads.
type ProfileInput struct {
	FullName          string `json:"full_name"`
	GraduationYear    int    `json:"graduation_year"`
	Department        string `json:"department"`
	Degree            string `json:"degree"`
	CurrentPosition   string `json:"current_position"`
	CurrentCompany    string `json:"current_company"`
	Location          string `json:"location"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
	LinkedinURL       string `json:"linkedin_url"`
}

// ProfilePatch carries a partial owner update. Nil fields were not supplied
// by the client and leave the stored value untouched.
type ProfilePatch struct {
	FullName          *string `json:"full_name"`
	GraduationYear    *int    `json:"graduation_year"`
	Department        *string `json:"department"`
	Degree            *string `json:"degree"`
	CurrentPosition   *string `json:"current_position"`
	CurrentCompany    *string `json:"current_company"`
	Location          *string `json:"location"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	LinkedinURL       *string `json:"linkedin_url"`
}

// SearchFilters narrows directory searches.
type SearchFilters struct {
	GraduationYear int
	Department     string
	Company        string
}

// UserFilters narrows the admin user listing.
type UserFilters struct {
	Role       *Role
	IsActive   *bool
	IsVerified *bool
}

// StatusPatch carries the admin-editable status flags.
type StatusPatch struct {
	IsActive   *bool `json:"is_active"`
	IsVerified *bool `json:"is_verified"`
}
