package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	gw *gateway.Gateway
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(gw *gateway.Gateway) AccountServicer {
	return &accountService{gw: gw}
}

// CreateAccount creates a new account for a user. The initial balance is the
// only balance write that does not flow through the transaction service.
func (s *accountService) CreateAccount(userID, name string, kind models.AccountKind, initialBalance int64, icon, color string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.Account{
		UserID:  userID,
		Name:    name,
		Kind:    kind,
		Balance: initialBalance,
		Icon:    icon,
		Color:   color,
	}
	if err := s.gw.Accounts.Insert(account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetUserAccounts retrieves all accounts for a user, newest first.
func (s *accountService) GetUserAccounts(userID string) ([]models.Account, error) {
	return s.gw.Accounts.List(gateway.Query{
		Eq:      map[string]any{"user_id": userID},
		OrderBy: "created_at",
		Desc:    true,
	})
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	account, err := s.gw.Accounts.FirstWhere(map[string]any{"id": accountID, "user_id": userID})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound.Code {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// UpdateAccount applies a partial update to an account. Balance is not
// patchable here.
func (s *accountService) UpdateAccount(userID, accountID string, patch AccountPatch) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Kind != nil {
		updates["kind"] = *patch.Kind
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if len(updates) == 0 {
		return account, nil
	}

	return s.gw.Accounts.Update(account.ID, updates)
}

// DeleteAccount removes an account. Its transactions go with it.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}
	return s.gw.Accounts.Delete(account.ID)
}

// ApplyDelta shifts an account balance by delta cents inside an enclosing
// database transaction. The balance expression runs in SQL so concurrent
// mutations cannot lose updates.
func (s *accountService) ApplyDelta(tx *gorm.DB, accountID string, delta int64) error {
	res := tx.Model(&models.Account{}).Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return gateway.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
