package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course status values.
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// Course represents a course owned by an instructor. EnrolledCount is a
// denormalized counter maintained by the enrollment repository and must never
// be recomputed by unrelated reads.
type Course struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InstructorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Summary       string     `gorm:"type:text" json:"summary"`
	Description   string     `gorm:"type:text" json:"description"`
	Curriculum    string     `gorm:"type:text" json:"curriculum"`
	ThumbnailURL  string     `gorm:"size:512" json:"thumbnail_url"`
	Status        string     `gorm:"size:32;not null;default:draft;index" json:"status"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	DifficultyID  *uuid.UUID `gorm:"type:uuid;index" json:"difficulty_id"`
	MaxStudents   *int       `json:"max_students"`
	EnrolledCount int        `gorm:"not null;default:0" json:"enrolled_count"`
	PublishedAt   *time.Time `json:"published_at"`
	ArchivedAt    *time.Time `json:"archived_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Category   *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Difficulty *DifficultyLevel `gorm:"foreignKey:DifficultyID" json:"difficulty,omitempty"`
	Instructor *Profile         `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

// BeforeCreate assigns an id when none was provided.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsFull reports whether the course capacity has been reached. Courses with
// no max_students are unlimited.
func (c Course) IsFull() bool {
	if c.MaxStudents == nil || *c.MaxStudents <= 0 {
		return false
	}
	return c.EnrolledCount >= *c.MaxStudents
}

// courseTransitions enumerates the legal status edges.
var courseTransitions = map[string][]string{
	CourseStatusDraft:     {CourseStatusPublished},
	CourseStatusPublished: {CourseStatusArchived},
	CourseStatusArchived:  {CourseStatusPublished},
}

// CanTransitionCourse reports whether a course may move between two statuses.
func CanTransitionCourse(from, to string) bool {
	for _, allowed := range courseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
