package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/money"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
	"pocketbook/internal/store"
)

// AccountHandler handles account-related requests. Reads come from the
// user's cached store; writes go through it so the cache stays coherent.
type AccountHandler struct {
	stores       *store.Registry
	auditService services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(stores *store.Registry, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{stores: stores, auditService: auditService}
}

// CreateAccountRequest represents the request payload for creating an account.
// Amounts are decimal strings such as "125.50".
type CreateAccountRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	Kind           string `json:"kind" binding:"required,account_kind"`
	InitialBalance string `json:"initial_balance" binding:"omitempty"`
	Icon           string `json:"icon" binding:"max=50"`
	Color          string `json:"color" binding:"omitempty,hex_color"`
}

// UpdateAccountRequest represents the request payload for updating an account.
// Balance is absent on purpose: it only moves through transactions.
type UpdateAccountRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Kind  *string `json:"kind" binding:"omitempty,account_kind"`
	Icon  *string `json:"icon" binding:"omitempty,max=50"`
	Color *string `json:"color" binding:"omitempty,hex_color"`
}

// AccountResponse represents an account in the response.
type AccountResponse struct {
	ID      string             `json:"id"`
	UserID  string             `json:"user_id"`
	Name    string             `json:"name"`
	Kind    models.AccountKind `json:"kind"`
	Balance int64              `json:"balance"`
	Icon    string             `json:"icon"`
	Color   string             `json:"color"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new account for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} AccountResponse "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var initialBalance int64
	if req.InitialBalance != "" {
		initialBalance, err = money.ParseCents(req.InitialBalance)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	account, err := h.stores.Get(userID).AddAccount(
		c.Request.Context(),
		req.Name,
		models.AccountKind(req.Kind),
		initialBalance,
		req.Icon,
		req.Color,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "kind": req.Kind})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetUserAccounts handles the retrieval of accounts for a user
// @Summary     Get user accounts
// @Description Get a paginated list of accounts for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetUserAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	accounts, err := h.stores.Get(userID).Accounts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Slice(accounts, page))
}

// GetAccountByID handles the retrieval of one account
// @Summary     Get an account
// @Description Get a single account owned by the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} AccountResponse "Account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.stores.Get(userID).Accounts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	for i := range accounts {
		if accounts[i].ID == id {
			c.JSON(http.StatusOK, gin.H{"account": accounts[i]})
			return
		}
	}
	respondWithError(c, apperrors.ErrAccountNotFound)
}

// UpdateAccount handles account updates
// @Summary     Update an account
// @Description Update name, kind, icon, or color of an account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.AccountPatch{Name: req.Name, Icon: req.Icon, Color: req.Color}
	if req.Kind != nil {
		kind := models.AccountKind(*req.Kind)
		patch.Kind = &kind
	}

	account, err := h.stores.Get(userID).UpdateAccount(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ACCOUNT", "account", account.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles account deletion
// @Summary     Delete an account
// @Description Delete an account and all of its transactions
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.stores.Get(userID).DeleteAccount(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ACCOUNT", "account", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
