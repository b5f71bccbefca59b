package services

import (
	"errors"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
)

// goalService handles goal-related business logic.
type goalService struct {
	gw              *gateway.Gateway
	categoryService CategoryServicer
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(gw *gateway.Gateway, categoryService CategoryServicer) GoalServicer {
	return &goalService{gw: gw, categoryService: categoryService}
}

// CreateGoal creates a new savings goal.
func (s *goalService) CreateGoal(userID, name string, categoryID *string, targetAmount int64, targetDate time.Time, description string) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if targetDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target date is required")
	}
	if categoryID != nil {
		if _, err := s.categoryService.GetCategoryByID(userID, *categoryID); err != nil {
			return nil, err
		}
	}

	goal := &models.Goal{
		UserID:       userID,
		CategoryID:   categoryID,
		Name:         name,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
		Description:  description,
		Status:       models.GoalStatusActive,
	}
	if err := s.gw.Goals.Insert(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetUserGoals returns all goals for a user, nearest deadline first.
func (s *goalService) GetUserGoals(userID string) ([]models.Goal, error) {
	return s.gw.Goals.List(gateway.Query{
		Eq:      map[string]any{"user_id": userID},
		OrderBy: "target_date",
	})
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	goal, err := s.gw.Goals.FirstWhere(map[string]any{"id": goalID, "user_id": userID})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound.Code {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// UpdateGoal applies a partial update. Status changes arrive only through
// this explicit edit path; reaching the target never flips a goal to
// completed by itself.
func (s *goalService) UpdateGoal(userID, goalID string, patch GoalPatch) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.CategoryID != nil {
		if _, err := s.categoryService.GetCategoryByID(userID, *patch.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *patch.CategoryID
	}
	if patch.TargetAmount != nil {
		if *patch.TargetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *patch.TargetAmount
	}
	if patch.TargetDate != nil {
		updates["target_date"] = *patch.TargetDate
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if len(updates) == 0 {
		return goal, nil
	}

	return s.gw.Goals.Update(goal.ID, updates)
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	return s.gw.Goals.Delete(goal.ID)
}

// FundGoal adds amount to the goal's current total. The movement is a plain
// field patch: no transaction row is written and no account balance changes.
func (s *goalService) FundGoal(userID, goalID string, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.gw.Goals.Update(goal.ID, map[string]any{"current_amount": goal.CurrentAmount + amount})
}

// WithdrawGoal removes amount from the goal's current total.
func (s *goalService) WithdrawGoal(userID, goalID string, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if amount > goal.CurrentAmount {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cannot withdraw more than the current amount")
	}
	return s.gw.Goals.Update(goal.ID, map[string]any{"current_amount": goal.CurrentAmount - amount})
}
