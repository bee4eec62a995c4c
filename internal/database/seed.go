// Package database holds development helpers around the persistence layer.
package database

import (
	"gorm.io/gorm"

	"teampulse-backend/internal/models"
)

func strPtr(s string) *string { return &s }

// Seed loads a small sample org for local development. It is a no-op when
// any user already exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	teams := []models.Team{
		{ID: "team1", Name: "Engineering Team", ManagerID: "mgr1"},
		{ID: "team2", Name: "Design Team", ManagerID: "mgr2"},
		{ID: "team3", Name: "Marketing Team", ManagerID: "mgr3"},
	}

	managers := []models.User{
		{ID: "mgr1", Email: "sarah.manager@company.com", Name: "Sarah Johnson", Role: models.RoleManager, TeamID: "team1", Password: "password123"},
		{ID: "mgr2", Email: "alex.manager@company.com", Name: "Alex Wilson", Role: models.RoleManager, TeamID: "team2", Password: "password123"},
		{ID: "mgr3", Email: "maria.manager@company.com", Name: "Maria Rodriguez", Role: models.RoleManager, TeamID: "team3", Password: "password123"},
	}

	employees := []models.User{
		{ID: "emp1", Email: "john.smith@company.com", Name: "John Smith", Role: models.RoleEmployee, TeamID: "team1", ManagerID: strPtr("mgr1"), Password: "password123"},
		{ID: "emp2", Email: "emily.davis@company.com", Name: "Emily Davis", Role: models.RoleEmployee, TeamID: "team1", ManagerID: strPtr("mgr1"), Password: "password123"},
		{ID: "emp3", Email: "michael.brown@company.com", Name: "Michael Brown", Role: models.RoleEmployee, TeamID: "team1", ManagerID: strPtr("mgr1"), Password: "password123"},
		{ID: "emp4", Email: "lisa.jones@company.com", Name: "Lisa Jones", Role: models.RoleEmployee, TeamID: "team2", ManagerID: strPtr("mgr2"), Password: "password123"},
		{ID: "emp5", Email: "tom.wilson@company.com", Name: "Tom Wilson", Role: models.RoleEmployee, TeamID: "team2", ManagerID: strPtr("mgr2"), Password: "password123"},
		{ID: "emp6", Email: "james.miller@company.com", Name: "James Miller", Role: models.RoleEmployee, TeamID: "team3", ManagerID: strPtr("mgr3"), Password: "password123"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range teams {
			if err := tx.Create(&teams[i]).Error; err != nil {
				return err
			}
		}
		for i := range managers {
			if err := tx.Create(&managers[i]).Error; err != nil {
				return err
			}
		}
		for i := range employees {
			if err := tx.Create(&employees[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
