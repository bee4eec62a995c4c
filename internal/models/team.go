package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is owned by exactly one manager.
type Team struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	ManagerID string    `gorm:"not null" json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		uuidV7, err := uuid.NewV7()
		if err != nil {
			return err
		}
		t.ID = uuidV7.String()
	}
	return
}

func GetTeamByID(db *gorm.DB, id string) (*Team, error) {
	var team Team
	result := db.Where("id = ?", id).First(&team)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &team, nil
}
