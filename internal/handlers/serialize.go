package handlers

import (
	"time"

	"teampulse-backend/internal/models"
)

// Wire DTOs use camelCase keys for API clients; storage naming stays
// snake_case. The mapping lives here and nowhere else.

type userJSON struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	TeamID    string  `json:"teamId"`
	ManagerID *string `json:"managerId"`
}

type feedbackJSON struct {
	ID             string  `json:"id"`
	ManagerID      string  `json:"managerId"`
	EmployeeID     string  `json:"employeeId"`
	Strengths      string  `json:"strengths"`
	AreasToImprove string  `json:"areasToImprove"`
	Sentiment      string  `json:"sentiment"`
	Acknowledged   bool    `json:"acknowledged"`
	AcknowledgedAt *string `json:"acknowledgedAt"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type teamJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ManagerID string `json:"managerId"`
}

func userToJSON(u *models.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		TeamID:    u.TeamID,
		ManagerID: u.ManagerID,
	}
}

func usersToJSON(users []models.User) []userJSON {
	out := make([]userJSON, len(users))
	for i := range users {
		out[i] = userToJSON(&users[i])
	}
	return out
}

func feedbackToJSON(f *models.Feedback) feedbackJSON {
	var acknowledgedAt *string
	if f.AcknowledgedAt != nil {
		s := f.AcknowledgedAt.UTC().Format(time.RFC3339)
		acknowledgedAt = &s
	}

	return feedbackJSON{
		ID:             f.ID,
		ManagerID:      f.ManagerID,
		EmployeeID:     f.EmployeeID,
		Strengths:      f.Strengths,
		AreasToImprove: f.AreasToImprove,
		Sentiment:      f.Sentiment,
		Acknowledged:   f.Acknowledged,
		AcknowledgedAt: acknowledgedAt,
		CreatedAt:      f.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      f.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func feedbackListToJSON(feedback []models.Feedback) []feedbackJSON {
	out := make([]feedbackJSON, len(feedback))
	for i := range feedback {
		out[i] = feedbackToJSON(&feedback[i])
	}
	return out
}

func teamToJSON(t *models.Team) teamJSON {
	return teamJSON{
		ID:        t.ID,
		Name:      t.Name,
		ManagerID: t.ManagerID,
	}
}

func teamsToJSON(teams []models.Team) []teamJSON {
	out := make([]teamJSON, len(teams))
	for i := range teams {
		out[i] = teamToJSON(&teams[i])
	}
	return out
}
