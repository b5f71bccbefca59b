package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pocketbook/internal/models"
	"pocketbook/internal/money"
	"pocketbook/internal/reports"
	"pocketbook/internal/services"
	"pocketbook/internal/store"
)

// DashboardHandler serves derived figures computed from the user's cached
// snapshot.
type DashboardHandler struct {
	stores       *store.Registry
	auditService services.AuditServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(stores *store.Registry, auditService services.AuditServicer) *DashboardHandler {
	return &DashboardHandler{stores: stores, auditService: auditService}
}

// GetSummary returns the headline figures for the current month
// @Summary     Get dashboard summary
// @Description Total balance across accounts plus income, expenses, and net for the current month
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} reports.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.stores.Get(userID).Snapshot(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	window := reports.MonthWindow(time.Now())
	summary := reports.Summarize(snapshot.Accounts, snapshot.Transactions, window)

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"display": gin.H{
			"total_balance": money.FormatCents(summary.TotalBalance),
			"income":        money.FormatCents(summary.Income),
			"expenses":      money.FormatCents(summary.Expenses),
			"net":           money.FormatCents(summary.Net),
		},
	})
}

// GetBudgetProgress returns spending progress for the current month's budgets
// @Summary     Get budget progress
// @Description Spending progress for each budget in the current month
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []reports.BudgetStatus "Budget progress"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/budgets [get]
func (h *DashboardHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.stores.Get(userID).Snapshot(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	window := reports.MonthWindow(time.Now())
	statuses := reports.BudgetProgress(snapshot.Budgets, snapshot.Transactions, snapshot.Categories, window)

	c.JSON(http.StatusOK, gin.H{"budgets": statuses})
}

// GetGoalProgress returns funding progress for all goals
// @Summary     Get goal progress
// @Description Funding progress, days left, and overdue state for each goal
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []reports.GoalStatus "Goal progress"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/goals [get]
func (h *DashboardHandler) GetGoalProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.stores.Get(userID).Snapshot(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	statuses := reports.GoalProgress(snapshot.Goals, time.Now())

	c.JSON(http.StatusOK, gin.H{"goals": statuses})
}

// GetExpenseSeries returns the current month's expenses grouped by category
// @Summary     Get expense breakdown
// @Description Current month's expenses grouped by category with chart colors
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []reports.SeriesEntry "Expense series"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/expenses [get]
func (h *DashboardHandler) GetExpenseSeries(c *gin.Context) {
	h.series(c, models.TransactionKindExpense)
}

// GetIncomeSeries returns the current month's income grouped by category
// @Summary     Get income breakdown
// @Description Current month's income grouped by category with chart colors
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []reports.SeriesEntry "Income series"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/income [get]
func (h *DashboardHandler) GetIncomeSeries(c *gin.Context) {
	h.series(c, models.TransactionKindIncome)
}

func (h *DashboardHandler) series(c *gin.Context, kind models.TransactionKind) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.stores.Get(userID).Snapshot(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	window := reports.MonthWindow(time.Now())
	entries := reports.CategorySeries(snapshot.Transactions, snapshot.Categories, kind, window)

	c.JSON(http.StatusOK, gin.H{"series": entries})
}

// Refresh reloads every cached collection from the database
// @Summary     Refresh cached data
// @Description Reload all collections; on any failure the cache keeps its previous contents
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Refreshed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /refresh [post]
func (h *DashboardHandler) Refresh(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.stores.Get(userID).RefreshAll(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}
