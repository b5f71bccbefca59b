package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
)

// transactionService handles transaction-related business logic. Account
// balances are adjusted here, inside the same database transaction that
// writes the row; they are never computed anywhere else.
type transactionService struct {
	gw              *gateway.Gateway
	accountService  AccountServicer
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(gw *gateway.Gateway, accountService AccountServicer, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		gw:              gw,
		accountService:  accountService,
		categoryService: categoryService,
	}
}

// balanceDeltas returns the per-account balance effect of a transaction.
func balanceDeltas(t *models.Transaction) map[string]int64 {
	deltas := make(map[string]int64, 2)
	switch t.Kind {
	case models.TransactionKindIncome:
		deltas[t.AccountID] += t.Amount
	case models.TransactionKindExpense:
		deltas[t.AccountID] -= t.Amount
	case models.TransactionKindTransfer:
		deltas[t.AccountID] -= t.Amount
		if t.ToAccountID != nil {
			deltas[*t.ToAccountID] += t.Amount
		}
	}
	return deltas
}

// applyDeltas applies per-account balance shifts within tx.
func (s *transactionService) applyDeltas(tx *gorm.DB, deltas map[string]int64) error {
	for accountID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if err := s.accountService.ApplyDelta(tx, accountID, delta); err != nil {
			return err
		}
	}
	return nil
}

// validateCategory checks visibility and kind consistency: an income or
// expense transaction must use a category of the same kind.
func (s *transactionService) validateCategory(userID, categoryID string, kind models.TransactionKind) (*models.Category, error) {
	category, err := s.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	switch kind {
	case models.TransactionKindIncome:
		if category.Kind != models.CategoryKindIncome {
			return nil, apperrors.ErrCategoryKindClash
		}
	case models.TransactionKindExpense:
		if category.Kind != models.CategoryKindExpense {
			return nil, apperrors.ErrCategoryKindClash
		}
	}
	return category, nil
}

// CreateTransaction creates an income or expense transaction for a user's account
func (s *transactionService) CreateTransaction(userID, accountID, categoryID string, kind models.TransactionKind, amount int64, description string, date time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if kind != models.TransactionKindIncome && kind != models.TransactionKindExpense {
		return nil, apperrors.ErrInvalidTransactionKind
	}
	if date.IsZero() {
		date = time.Now()
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.validateCategory(userID, categoryID, kind); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          userID,
		AccountID:       account.ID,
		CategoryID:      categoryID,
		Kind:            kind,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
	}

	err = s.gw.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.gw.WithTx(tx).Transactions.Insert(transaction); err != nil {
			return err
		}
		return s.applyDeltas(tx, balanceDeltas(transaction))
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// CreateTransfer moves funds between two of the user's accounts.
func (s *transactionService) CreateTransfer(userID, fromAccountID, toAccountID, categoryID string, amount int64, description string, date time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}
	if date.IsZero() {
		date = time.Now()
	}

	from, err := s.accountService.GetAccountByID(userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountService.GetAccountByID(userID, toAccountID)
	if err != nil {
		return nil, err
	}
	// Transfers carry a category for display grouping; no kind check applies.
	if _, err := s.categoryService.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          userID,
		AccountID:       from.ID,
		ToAccountID:     &to.ID,
		CategoryID:      categoryID,
		Kind:            models.TransactionKindTransfer,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
	}

	err = s.gw.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.gw.WithTx(tx).Transactions.Insert(transaction); err != nil {
			return err
		}
		return s.applyDeltas(tx, balanceDeltas(transaction))
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetUserTransactions retrieves all of a user's transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string) ([]models.Transaction, error) {
	return s.gw.Transactions.List(gateway.Query{
		Eq:      map[string]any{"user_id": userID},
		OrderBy: "transaction_date",
		Desc:    true,
	})
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	transaction, err := s.gw.Transactions.FirstWhere(map[string]any{"id": transactionID, "user_id": userID})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound.Code {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction applies a partial update. The old balance effect is
// reversed and the new one applied atomically with the row update.
func (s *transactionService) UpdateTransaction(userID, transactionID string, patch TransactionPatch) (*models.Transaction, error) {
	old, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if old.Kind == models.TransactionKindTransfer && (patch.Kind != nil || patch.AccountID != nil) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTransactionKind, "transfers cannot change kind or account")
	}

	updated := *old
	updates := make(map[string]any)
	if patch.AccountID != nil {
		if _, err := s.accountService.GetAccountByID(userID, *patch.AccountID); err != nil {
			return nil, err
		}
		updated.AccountID = *patch.AccountID
		updates["account_id"] = *patch.AccountID
	}
	if patch.Kind != nil {
		if *patch.Kind != models.TransactionKindIncome && *patch.Kind != models.TransactionKindExpense {
			return nil, apperrors.ErrInvalidTransactionKind
		}
		updated.Kind = *patch.Kind
		updates["kind"] = *patch.Kind
	}
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updated.Amount = *patch.Amount
		updates["amount"] = *patch.Amount
	}
	if patch.CategoryID != nil {
		updated.CategoryID = *patch.CategoryID
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.TransactionDate != nil {
		updates["transaction_date"] = *patch.TransactionDate
	}

	// Re-validate kind consistency against the effective category
	if updated.Kind != models.TransactionKindTransfer {
		if _, err := s.validateCategory(userID, updated.CategoryID, updated.Kind); err != nil {
			return nil, err
		}
	}

	if len(updates) == 0 {
		return old, nil
	}

	var result *models.Transaction
	err = s.gw.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.applyDeltas(tx, negate(balanceDeltas(old))); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.gw.WithTx(tx).Transactions.Update(old.ID, updates)
		if txErr != nil {
			return txErr
		}
		return s.applyDeltas(tx, balanceDeltas(result))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.gw.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.gw.WithTx(tx).Transactions.Delete(transaction.ID); err != nil {
			return err
		}
		return s.applyDeltas(tx, negate(balanceDeltas(transaction)))
	})
}

func negate(deltas map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(deltas))
	for id, d := range deltas {
		out[id] = -d
	}
	return out
}
