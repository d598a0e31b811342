package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a catalog filter taxonomy entry.
type Category struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string    `gorm:"size:128;not null" json:"name"`
	Active bool      `gorm:"not null;default:true" json:"active"`
}

// BeforeCreate assigns an id when none was provided.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DifficultyLevel is a catalog filter taxonomy entry ordered by level.
type DifficultyLevel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string    `gorm:"size:128;not null" json:"name"`
	Level  int       `gorm:"not null" json:"level"`
	Active bool      `gorm:"not null;default:true" json:"active"`
}

// BeforeCreate assigns an id when none was provided.
func (d *DifficultyLevel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
