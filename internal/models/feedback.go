package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Feedback authored by a manager for one of their direct reports. Content
// fields are only ever written by the authoring manager; the acknowledged
// transition is only ever performed by the subject employee. Records are
// never deleted.
type Feedback struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	ManagerID      string     `gorm:"not null;index" json:"manager_id"`
	EmployeeID     string     `gorm:"not null;index" json:"employee_id"`
	Strengths      string     `gorm:"not null" json:"strengths"`
	AreasToImprove string     `gorm:"not null" json:"areas_to_improve"`
	Sentiment      string     `gorm:"not null" json:"sentiment"`
	Acknowledged   bool       `gorm:"default:false" json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		// uuid v7 is time-ordered, which keeps ids process-unique without
		// any coordination
		uuidV7, err := uuid.NewV7()
		if err != nil {
			return err
		}
		f.ID = "fb" + uuidV7.String()
	}
	return
}

func GetFeedbackByID(db *gorm.DB, id string) (*Feedback, error) {
	var feedback Feedback
	result := db.Where("id = ?", id).First(&feedback)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &feedback, nil
}

// ListFeedbackByManager returns the records a manager authored.
func ListFeedbackByManager(db *gorm.DB, managerID string) ([]Feedback, error) {
	var feedback []Feedback
	if err := db.Where("manager_id = ?", managerID).Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListFeedbackByEmployee returns the records where the employee is the subject.
func ListFeedbackByEmployee(db *gorm.DB, employeeID string) ([]Feedback, error) {
	var feedback []Feedback
	if err := db.Where("employee_id = ?", employeeID).Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// Acknowledge marks the record read by its subject. Re-acknowledging simply
// re-stamps the timestamp; the transition itself is one-way.
func (f *Feedback) Acknowledge(db *gorm.DB) error {
	now := time.Now().UTC()
	f.Acknowledged = true
	f.AcknowledgedAt = &now
	return db.Save(f).Error
}
