package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"teampulse-backend/internal/config"
	"teampulse-backend/internal/models"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestServer runs the real Initialize() against an in-memory SQLite
// database, the same wiring production gets minus postgres.
func setupTestServer(t *testing.T) (*Server, func()) {
	cfg := &config.Config{}
	cfg.Server.Port = "5000"
	cfg.Server.Host = "localhost"
	cfg.Database.DSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.Auth.TokenSecret = "test-secret-key-for-testing-only"

	srv := New(cfg)
	srv.Echo.Logger.SetLevel(log.ERROR)

	err := srv.Initialize()
	require.NoError(t, err)

	cleanup := func() {
		if srv.DB != nil {
			sqlDB, _ := srv.DB.DB()
			if sqlDB != nil {
				sqlDB.Close()
			}
		}
	}

	return srv, cleanup
}

func strPtr(s string) *string { return &s }

// seedOrg creates a two-team org: mgr1 with reports emp1/emp2, mgr2 with emp3.
func seedOrg(t *testing.T, db *gorm.DB) {
	rows := []models.User{
		{ID: "mgr1", Email: "mgr1@company.com", Name: "Manager One", Role: models.RoleManager, TeamID: "team1", Password: "password123"},
		{ID: "mgr2", Email: "mgr2@company.com", Name: "Manager Two", Role: models.RoleManager, TeamID: "team2", Password: "password123"},
		{ID: "emp1", Email: "emp1@company.com", Name: "Employee One", Role: models.RoleEmployee, TeamID: "team1", ManagerID: strPtr("mgr1"), Password: "password123"},
		{ID: "emp2", Email: "emp2@company.com", Name: "Employee Two", Role: models.RoleEmployee, TeamID: "team1", ManagerID: strPtr("mgr1"), Password: "password123"},
		{ID: "emp3", Email: "emp3@company.com", Name: "Employee Three", Role: models.RoleEmployee, TeamID: "team2", ManagerID: strPtr("mgr2"), Password: "password123"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	require.NoError(t, db.Create(&models.Team{ID: "team1", Name: "Engineering Team", ManagerID: "mgr1"}).Error)
	require.NoError(t, db.Create(&models.Team{ID: "team2", Name: "Design Team", ManagerID: "mgr2"}).Error)
}

func getJWTToken(t *testing.T, srv *Server, userID string) string {
	token, err := srv.JwtIssuer.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	srv.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, srv, http.MethodGet, "/api/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	t.Run("success returns token and camelCase user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "mgr1@company.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["token"])

		user := body["user"].(map[string]interface{})
		assert.Equal(t, "mgr1", user["id"])
		assert.Equal(t, "manager", user["role"])
		assert.Equal(t, "team1", user["teamId"])
		assert.Nil(t, user["managerId"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "mgr1@company.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "nobody@company.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "mgr1@company.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthMe(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	t.Run("with valid token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", getJWTToken(t, srv, "emp1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		user := decodeBody(t, rec)["user"].(map[string]interface{})
		assert.Equal(t, "emp1", user["id"])
		assert.Equal(t, "mgr1", user["managerId"])
	})

	t.Run("without token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Token is missing", decodeBody(t, rec)["message"])
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		token := getJWTToken(t, srv, "ghost")
		rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", decodeBody(t, rec)["message"])
	})
}

func TestListUsersVisibility(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	t.Run("manager sees direct reports", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/users", getJWTToken(t, srv, "mgr1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		users := decodeBody(t, rec)["users"].([]interface{})
		ids := make([]string, len(users))
		for i, u := range users {
			ids[i] = u.(map[string]interface{})["id"].(string)
		}
		assert.ElementsMatch(t, []string{"emp1", "emp2"}, ids)
	})

	t.Run("employee sees self and manager", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/users", getJWTToken(t, srv, "emp3"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		users := decodeBody(t, rec)["users"].([]interface{})
		ids := make([]string, len(users))
		for i, u := range users {
			ids[i] = u.(map[string]interface{})["id"].(string)
		}
		assert.ElementsMatch(t, []string{"emp3", "mgr2"}, ids)
	})
}

func TestCreateFeedback(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	t.Run("manager creates feedback for their report", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback", getJWTToken(t, srv, "mgr1"), map[string]string{
			"employeeId":     "emp1",
			"strengths":      "Great debugging instincts",
			"areasToImprove": "Code review turnaround",
			"sentiment":      "positive",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		feedback := decodeBody(t, rec)["feedback"].(map[string]interface{})
		assert.Equal(t, "mgr1", feedback["managerId"])
		assert.Equal(t, "emp1", feedback["employeeId"])
		assert.Equal(t, "positive", feedback["sentiment"])
		assert.Equal(t, false, feedback["acknowledged"])
		assert.Nil(t, feedback["acknowledgedAt"])
		assert.NotEmpty(t, feedback["id"])
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback", getJWTToken(t, srv, "emp1"), map[string]string{
			"employeeId":     "emp2",
			"strengths":      "x",
			"areasToImprove": "y",
			"sentiment":      "neutral",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role check wins over body validation", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback", getJWTToken(t, srv, "emp1"), map[string]string{})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("other manager's report and unknown id map to the same 404", func(t *testing.T) {
		token := getJWTToken(t, srv, "mgr1")

		otherTeam := doJSON(t, srv, http.MethodPost, "/api/feedback", token, map[string]string{
			"employeeId":     "emp3",
			"strengths":      "x",
			"areasToImprove": "y",
			"sentiment":      "neutral",
		})
		missing := doJSON(t, srv, http.MethodPost, "/api/feedback", token, map[string]string{
			"employeeId":     "does-not-exist",
			"strengths":      "x",
			"areasToImprove": "y",
			"sentiment":      "neutral",
		})

		assert.Equal(t, http.StatusNotFound, otherTeam.Code)
		assert.Equal(t, http.StatusNotFound, missing.Code)
		assert.Equal(t, decodeBody(t, otherTeam)["message"], decodeBody(t, missing)["message"])
	})

	t.Run("missing field", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback", getJWTToken(t, srv, "mgr1"), map[string]string{
			"employeeId": "emp1",
			"strengths":  "x",
			"sentiment":  "neutral",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid sentiment", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback", getJWTToken(t, srv, "mgr1"), map[string]string{
			"employeeId":     "emp1",
			"strengths":      "x",
			"areasToImprove": "y",
			"sentiment":      "ecstatic",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func createFeedbackRecord(t *testing.T, srv *Server, managerID, employeeID string) *models.Feedback {
	feedback := &models.Feedback{
		ManagerID:      managerID,
		EmployeeID:     employeeID,
		Strengths:      "Clear written communication",
		AreasToImprove: "Estimation",
		Sentiment:      models.SentimentNeutral,
	}
	require.NoError(t, srv.DB.Create(feedback).Error)
	return feedback
}

func TestListFeedbackVisibility(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	createFeedbackRecord(t, srv, "mgr1", "emp1")
	createFeedbackRecord(t, srv, "mgr1", "emp2")
	createFeedbackRecord(t, srv, "mgr2", "emp3")

	t.Run("manager sees authored feedback only", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/feedback", getJWTToken(t, srv, "mgr1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["feedback"].([]interface{}), 2)
	})

	t.Run("employee sees received feedback only", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/feedback", getJWTToken(t, srv, "emp1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		feedback := decodeBody(t, rec)["feedback"].([]interface{})
		require.Len(t, feedback, 1)
		assert.Equal(t, "emp1", feedback[0].(map[string]interface{})["employeeId"])
	})
}

func TestUpdateFeedback(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	record := createFeedbackRecord(t, srv, "mgr1", "emp1")

	t.Run("author applies a partial update", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/feedback/"+record.ID, getJWTToken(t, srv, "mgr1"), map[string]string{
			"strengths": "Strong incident response",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		feedback := decodeBody(t, rec)["feedback"].(map[string]interface{})
		assert.Equal(t, "Strong incident response", feedback["strengths"])
		// Omitted fields stay untouched
		assert.Equal(t, "Estimation", feedback["areasToImprove"])
		assert.Equal(t, "neutral", feedback["sentiment"])
	})

	t.Run("non-author manager is forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/feedback/"+record.ID, getJWTToken(t, srv, "mgr2"), map[string]string{
			"strengths": "hijack",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Unauthorized", decodeBody(t, rec)["message"])
	})

	t.Run("subject employee is forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/feedback/"+record.ID, getJWTToken(t, srv, "emp1"), map[string]string{
			"strengths": "self-praise",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/feedback/does-not-exist", getJWTToken(t, srv, "mgr1"), map[string]string{
			"strengths": "x",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAcknowledgeFeedback(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	record := createFeedbackRecord(t, srv, "mgr1", "emp1")

	t.Run("subject acknowledges", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback/"+record.ID+"/acknowledge", getJWTToken(t, srv, "emp1"), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		feedback := decodeBody(t, rec)["feedback"].(map[string]interface{})
		assert.Equal(t, true, feedback["acknowledged"])
		assert.NotNil(t, feedback["acknowledgedAt"])
	})

	t.Run("another manager cannot acknowledge", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback/"+record.ID+"/acknowledge", getJWTToken(t, srv, "mgr2"), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("authoring manager cannot acknowledge either", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback/"+record.ID+"/acknowledge", getJWTToken(t, srv, "mgr1"), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("re-acknowledging re-stamps", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback/"+record.ID+"/acknowledge", getJWTToken(t, srv, "emp1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		feedback := decodeBody(t, rec)["feedback"].(map[string]interface{})
		assert.Equal(t, true, feedback["acknowledged"])
		assert.NotNil(t, feedback["acknowledgedAt"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/feedback/does-not-exist/acknowledge", getJWTToken(t, srv, "emp1"), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListTeams(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()
	seedOrg(t, srv.DB)

	t.Run("manager gets their own team", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/teams", getJWTToken(t, srv, "mgr1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		teams := decodeBody(t, rec)["teams"].([]interface{})
		require.Len(t, teams, 1)
		team := teams[0].(map[string]interface{})
		assert.Equal(t, "team1", team["id"])
		assert.Equal(t, "mgr1", team["managerId"])
	})

	t.Run("employee gets an empty list", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/teams", getJWTToken(t, srv, "emp1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody(t, rec)["teams"])
	})
}
