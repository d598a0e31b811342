package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role names resolved at onboarding and carried on the identity principal.
const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
	RoleOperator   = "operator"
)

// Profile represents the onboarded user record. The role is assigned once at
// signup and never changes afterwards.
type Profile struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role              string         `gorm:"size:32;not null" json:"role"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Phone             string         `gorm:"size:32" json:"phone"`
	AvatarURL         string         `gorm:"size:512" json:"avatar_url"`
	Bio               string         `gorm:"type:text" json:"bio"`
	WebsiteURL        string         `gorm:"size:512" json:"website_url"`
	Expertise         datatypes.JSON `json:"expertise"`
	YearsOfExperience int            `json:"years_of_experience"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// BeforeCreate assigns an id when none was provided.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleLearner, RoleInstructor, RoleOperator:
		return true
	default:
		return false
	}
}
