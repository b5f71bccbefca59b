package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/money"
	"pocketbook/internal/services"
	"pocketbook/internal/store"
)

// GoalHandler handles goal-related requests.
type GoalHandler struct {
	stores       *store.Registry
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(stores *store.Registry, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{stores: stores, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	CategoryID   *string `json:"category_id" binding:"omitempty,uuid"`
	TargetAmount string  `json:"target_amount" binding:"required"`
	TargetDate   string  `json:"target_date" binding:"required"`
	Description  string  `json:"description" binding:"max=500"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
type UpdateGoalRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	CategoryID   *string `json:"category_id" binding:"omitempty,uuid"`
	TargetAmount *string `json:"target_amount"`
	TargetDate   *string `json:"target_date"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	Status       *string `json:"status" binding:"omitempty,goal_status"`
}

// GoalAmountRequest carries the amount for funding or withdrawing.
type GoalAmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// GoalResponse represents a goal in the response.
type GoalResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	CategoryID    *string           `json:"category_id"`
	Name          string            `json:"name"`
	TargetAmount  int64             `json:"target_amount"`
	CurrentAmount int64             `json:"current_amount"`
	TargetDate    time.Time         `json:"target_date"`
	Description   string            `json:"description"`
	Status        models.GoalStatus `json:"status"`
}

// CreateGoal handles the creation of a new goal
// @Summary     Create a goal
// @Description Create a savings goal with a target amount and date
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	target, err := money.ParsePositiveCents(req.TargetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.stores.Get(userID).AddGoal(
		c.Request.Context(),
		req.Name,
		req.CategoryID,
		target,
		targetDate,
		req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "target_amount": target})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetUserGoals handles the retrieval of goals
// @Summary     Get goals
// @Description Get all goals for the authenticated user, nearest deadline first
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []GoalResponse "Goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.stores.Get(userID).Goals(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// UpdateGoal handles goal updates
// @Summary     Update a goal
// @Description Update goal fields, including explicit status changes
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to update"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.GoalPatch{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.TargetAmount != nil {
		target, err := money.ParsePositiveCents(*req.TargetAmount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		patch.TargetAmount = &target
	}
	if req.TargetDate != nil {
		targetDate, err := parseDate(*req.TargetDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		patch.TargetDate = &targetDate
	}
	if req.Status != nil {
		status := models.GoalStatus(*req.Status)
		patch.Status = &status
	}

	goal, err := h.stores.Get(userID).UpdateGoal(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GOAL", "goal", goal.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles goal deletion
// @Summary     Delete a goal
// @Description Delete a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.stores.Get(userID).DeleteGoal(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL", "goal", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// FundGoal adds money to a goal
// @Summary     Fund a goal
// @Description Add to a goal's saved amount; no transaction is recorded and no account balance moves
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body GoalAmountRequest true "Amount to add"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/fund [post]
func (h *GoalHandler) FundGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GoalAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.ParsePositiveCents(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.stores.Get(userID).FundGoal(c.Request.Context(), c.Param("id"), amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "FUND_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"amount": amount})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// WithdrawGoal removes money from a goal
// @Summary     Withdraw from a goal
// @Description Remove from a goal's saved amount
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body GoalAmountRequest true "Amount to remove"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/withdraw [post]
func (h *GoalHandler) WithdrawGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GoalAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.ParsePositiveCents(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.stores.Get(userID).WithdrawGoal(c.Request.Context(), c.Param("id"), amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "WITHDRAW_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"amount": amount})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}
