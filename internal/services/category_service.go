package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/gateway"
	"pocketbook/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	gw *gateway.Gateway
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(gw *gateway.Gateway) CategoryServicer {
	return &categoryService{gw: gw}
}

// CreateCategory creates a new user-owned category.
func (s *categoryService) CreateCategory(userID, name string, kind models.CategoryKind, icon, color string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	// Check if a category with the same name already exists for this user
	count, err := s.gw.Categories.Count(map[string]any{"user_id": userID, "name": name})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		UserID: &userID,
		Name:   name,
		Kind:   kind,
		Icon:   icon,
		Color:  color,
	}
	if err := s.gw.Categories.Insert(category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetUserCategories retrieves the user's own categories plus the system
// defaults, defaults first, then by kind.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	err := s.gw.DB().Model(&models.Category{}).
		Where("user_id = ? OR is_default = ?", userID, true).
		Order("is_default DESC").Order("kind").Order("name").Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, gateway.Classify(err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category visible to the user: their own or a
// system default.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.gw.DB().
		Where("id = ? AND (user_id = ? OR is_default = ?)", categoryID, userID, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, gateway.Classify(err)
	}
	return &category, nil
}

// UpdateCategory updates a user-owned category. System defaults are immutable.
func (s *categoryService) UpdateCategory(userID, categoryID string, patch CategoryPatch) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategory
	}

	updates := make(map[string]any)
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if len(updates) == 0 {
		return category, nil
	}

	return s.gw.Categories.Update(category.ID, updates)
}

// DeleteCategory removes a user-owned category. System defaults cannot be
// deleted. A category still referenced by transactions is reported as in
// use, classified from the foreign-key violation rather than message text.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	if err := s.gw.Categories.Delete(category.ID); err != nil {
		if gateway.IsForeignKeyViolation(err) {
			return apperrors.Wrap(apperrors.ErrCategoryInUse, err)
		}
		return err
	}
	return nil
}
