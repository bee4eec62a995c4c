package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// callers cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Email          string    `gorm:"not null;unique" json:"email" validate:"required,email"`
	Name           string    `gorm:"not null" json:"name" validate:"required"`
	Role           string    `gorm:"not null" json:"role" validate:"required,oneof=manager employee"`
	TeamID         string    `json:"team_id"`
	ManagerID      *string   `json:"manager_id" gorm:"default:null"` // nil for managers
	Password       string    `gorm:"-" json:"password" validate:"required,min=8"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		// Using uuid v7 to be indexable with B-tree
		uuidV7, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = uuidV7.String()
	}

	// Hash password if it's set
	if u.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.HashedPassword = string(hashedPassword)
		// Clear the plain text password
		u.Password = ""
	}

	return
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	result := db.Where("email = ?", email).First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("User not found")
		}
		return nil, result.Error
	}
	return &user, nil
}

func GetUserByID(db *gorm.DB, id string) (*User, error) {
	var user *User
	result := db.Where("id = ?", id).First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("User not found")
		}
		return nil, result.Error
	}
	return user, nil
}

// GetDirectReports returns the users whose manager_id points at the given
// manager. Visibility is never transitive.
func GetDirectReports(db *gorm.DB, managerID string) ([]User, error) {
	var reports []User
	if err := db.Where("manager_id = ?", managerID).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// VerifyCredentials looks a user up by exact email match and compares the
// password against the stored bcrypt hash. Both failure modes collapse into
// ErrInvalidCredentials.
func VerifyCredentials(db *gorm.DB, email, password string) (*User, error) {
	var user User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, result.Error
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
