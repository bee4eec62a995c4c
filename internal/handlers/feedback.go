package handlers

import (
	"net/http"
	"time"

	"teampulse-backend/internal/authz"
	"teampulse-backend/internal/common"
	"teampulse-backend/internal/config"
	"teampulse-backend/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type FeedbackHandler struct {
	common.ServerState
}

type CreateFeedbackRequest struct {
	EmployeeID     string `json:"employeeId" validate:"required"`
	Strengths      string `json:"strengths" validate:"required"`
	AreasToImprove string `json:"areasToImprove" validate:"required"`
	Sentiment      string `json:"sentiment" validate:"required,oneof=positive neutral negative"`
}

// UpdateFeedbackRequest carries partial updates; nil means the field was not
// supplied and stays untouched.
type UpdateFeedbackRequest struct {
	Strengths      *string `json:"strengths"`
	AreasToImprove *string `json:"areasToImprove"`
	Sentiment      *string `json:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
}

func NewFeedbackHandler(db *gorm.DB, cfg *config.Config, jwt common.JWTIssuer) *FeedbackHandler {
	return &FeedbackHandler{
		ServerState: common.ServerState{
			DB:        db,
			Config:    cfg,
			JwtIssuer: jwt,
		},
	}
}

func (h *FeedbackHandler) ListFeedback(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	feedback, err := authz.VisibleFeedback(h.DB, user)
	if err != nil {
		c.Logger().Errorf("Failed to list feedback: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list feedback")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"feedback": feedbackListToJSON(feedback),
	})
}

func (h *FeedbackHandler) CreateFeedback(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if err := authz.CanCreateFeedback(user); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Only managers can create feedback")
	}

	req := &CreateFeedbackRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	employee, err := authz.EmployeeForNewFeedback(h.DB, user, req.EmployeeID)
	if err != nil {
		// Covers both unknown ids and employees outside the requester's
		// team; the two are indistinguishable on purpose.
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found or not in your team")
	}

	feedback := &models.Feedback{
		ManagerID:      user.ID,
		EmployeeID:     employee.ID,
		Strengths:      req.Strengths,
		AreasToImprove: req.AreasToImprove,
		Sentiment:      req.Sentiment,
	}

	if err := h.DB.Create(feedback).Error; err != nil {
		c.Logger().Errorf("Failed to create feedback: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create feedback")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"feedback": feedbackToJSON(feedback),
	})
}

func (h *FeedbackHandler) UpdateFeedback(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	feedback, err := models.GetFeedbackByID(h.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
	}

	if err := authz.CanUpdateFeedback(feedback, user); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}

	req := &UpdateFeedbackRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Strengths != nil {
		feedback.Strengths = *req.Strengths
	}
	if req.AreasToImprove != nil {
		feedback.AreasToImprove = *req.AreasToImprove
	}
	if req.Sentiment != nil {
		feedback.Sentiment = *req.Sentiment
	}
	feedback.UpdatedAt = time.Now().UTC()

	if err := h.DB.Save(feedback).Error; err != nil {
		c.Logger().Errorf("Failed to update feedback: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update feedback")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"feedback": feedbackToJSON(feedback),
	})
}

func (h *FeedbackHandler) AcknowledgeFeedback(c echo.Context) error {
	user, ok := getAuthenticatedUserFromJWT(c, h.JwtIssuer, h.DB)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	feedback, err := models.GetFeedbackByID(h.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
	}

	if err := authz.CanAcknowledgeFeedback(feedback, user); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}

	// Re-acknowledging re-stamps the timestamp rather than erroring; the
	// transition stays one-way either way.
	if err := feedback.Acknowledge(h.DB); err != nil {
		c.Logger().Errorf("Failed to acknowledge feedback: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to acknowledge feedback")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"feedback": feedbackToJSON(feedback),
	})
}
