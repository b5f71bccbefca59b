package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/money"
	"pocketbook/internal/services"
	"pocketbook/internal/store"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	stores       *store.Registry
	auditService services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(stores *store.Registry, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{stores: stores, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// Month accepts any date inside the target month.
type CreateBudgetRequest struct {
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	LimitAmount string `json:"limit_amount" binding:"required"`
	Month       string `json:"month" binding:"required"`
	Period      string `json:"period" binding:"omitempty,budget_period"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	LimitAmount *string `json:"limit_amount"`
	Period      *string `json:"period" binding:"omitempty,budget_period"`
}

// BudgetResponse represents a budget in the response.
type BudgetResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	CategoryID  string              `json:"category_id"`
	LimitAmount int64               `json:"limit_amount"`
	Month       string              `json:"month"`
	Period      models.BudgetPeriod `json:"period"`
}

// CreateBudget handles the creation of a new budget
// @Summary     Create a budget
// @Description Create a monthly spending limit for an expense category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} BudgetResponse "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := money.ParsePositiveCents(req.LimitAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parseDate(req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.stores.Get(userID).AddBudget(
		c.Request.Context(),
		req.CategoryID,
		limit,
		month,
		models.BudgetPeriod(req.Period),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "limit_amount": limit})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetUserBudgets handles the retrieval of budgets
// @Summary     Get budgets
// @Description Get all budgets for the authenticated user, most recent month first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []BudgetResponse "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetUserBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.stores.Get(userID).Budgets(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// UpdateBudget handles budget updates
// @Summary     Update a budget
// @Description Update the limit or period of a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to update"
// @Success     200 {object} BudgetResponse "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var patch services.BudgetPatch
	if req.LimitAmount != nil {
		limit, err := money.ParsePositiveCents(*req.LimitAmount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		patch.LimitAmount = &limit
	}
	if req.Period != nil {
		period := models.BudgetPeriod(*req.Period)
		patch.Period = &period
	}

	budget, err := h.stores.Get(userID).UpdateBudget(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budget.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles budget deletion
// @Summary     Delete a budget
// @Description Delete a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.stores.Get(userID).DeleteBudget(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
