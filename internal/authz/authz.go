// Package authz decides whether an authenticated user may perform an
// operation on a resource. Every function takes the resolved user as a
// parameter; nothing here reads identity from ambient request state.
package authz

import (
	"errors"

	"teampulse-backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrManagerOnly denies feedback creation to non-managers.
	ErrManagerOnly = errors.New("only managers can create feedback")

	// ErrEmployeeNotFound covers both a nonexistent employee id and an
	// employee outside the requesting manager's reports. Collapsing the two
	// hides whether the id exists at all.
	ErrEmployeeNotFound = errors.New("employee not found or not in your team")

	// ErrNotFeedbackAuthor denies content updates to anyone but the
	// authoring manager.
	ErrNotFeedbackAuthor = errors.New("unauthorized")

	// ErrNotFeedbackSubject denies acknowledgement to anyone but the
	// subject employee.
	ErrNotFeedbackSubject = errors.New("unauthorized")
)

// VisibleUsers returns the roster the user may see: a manager sees their
// direct reports, an employee sees themselves plus their own manager.
func VisibleUsers(db *gorm.DB, u *models.User) ([]models.User, error) {
	if u.IsManager() {
		return models.GetDirectReports(db, u.ID)
	}

	users := []models.User{*u}
	if u.ManagerID != nil {
		manager, err := models.GetUserByID(db, *u.ManagerID)
		if err == nil {
			users = append(users, *manager)
		}
	}
	return users, nil
}

// VisibleFeedback returns authored records for managers and received records
// for employees. There is no cross-role visibility.
func VisibleFeedback(db *gorm.DB, u *models.User) ([]models.Feedback, error) {
	if u.IsManager() {
		return models.ListFeedbackByManager(db, u.ID)
	}
	return models.ListFeedbackByEmployee(db, u.ID)
}

// CanCreateFeedback restricts authoring to the manager role. The role check
// runs before any request-body validation so non-managers always see a 403.
func CanCreateFeedback(requester *models.User) error {
	if !requester.IsManager() {
		return ErrManagerOnly
	}
	return nil
}

// EmployeeForNewFeedback resolves the target of a new feedback record and
// enforces that the requester is a manager and the target is one of their
// direct reports.
func EmployeeForNewFeedback(db *gorm.DB, requester *models.User, employeeID string) (*models.User, error) {
	if err := CanCreateFeedback(requester); err != nil {
		return nil, err
	}

	employee, err := models.GetUserByID(db, employeeID)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}
	if employee.ManagerID == nil || *employee.ManagerID != requester.ID {
		return nil, ErrEmployeeNotFound
	}
	return employee, nil
}

// CanUpdateFeedback permits content mutation only to the authoring manager.
func CanUpdateFeedback(f *models.Feedback, u *models.User) error {
	if f.ManagerID != u.ID {
		return ErrNotFeedbackAuthor
	}
	return nil
}

// CanAcknowledgeFeedback permits acknowledgement only to the subject employee.
func CanAcknowledgeFeedback(f *models.Feedback, u *models.User) error {
	if f.EmployeeID != u.ID {
		return ErrNotFeedbackSubject
	}
	return nil
}

// VisibleTeams returns a manager's own team as a singleton list, empty if the
// team row is missing. Employees always get an empty list.
func VisibleTeams(db *gorm.DB, u *models.User) ([]models.Team, error) {
	if !u.IsManager() {
		return []models.Team{}, nil
	}

	team, err := models.GetTeamByID(db, u.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Team{}, nil
		}
		return nil, err
	}
	return []models.Team{*team}, nil
}
