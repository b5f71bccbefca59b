// Package gateway is the typed data-access layer for the five record
// collections. It exposes plain filtered CRUD and owns no state; every call
// is a single attempt with no retry. Failures come back as *AppError, with
// constraint violations classified structurally in classify.go.
package gateway

import (
	"gorm.io/gorm"

	"pocketbook/internal/models"
)

// Query holds the filter and ordering parameters for a List call.
type Query struct {
	Eq      map[string]any
	OrderBy string
	Desc    bool
}

// Collection provides CRUD operations for a single record type.
type Collection[T any] struct {
	db *gorm.DB
}

// NewCollection creates a Collection backed by the given database handle.
func NewCollection[T any](db *gorm.DB) *Collection[T] {
	return &Collection[T]{db: db}
}

// List returns all records matching the query's equality filters, ordered as
// requested with id as the final tiebreaker, so rows with equal sort keys
// come back in the same order on every fetch. An empty query returns the
// whole collection.
func (c *Collection[T]) List(q Query) ([]T, error) {
	tx := c.db.Model(new(T))
	if len(q.Eq) > 0 {
		tx = tx.Where(q.Eq)
	}
	if q.OrderBy != "" {
		order := q.OrderBy
		if q.Desc {
			order += " DESC"
		}
		tx = tx.Order(order).Order("id")
	}

	var records []T
	if err := tx.Find(&records).Error; err != nil {
		return nil, Classify(err)
	}
	return records, nil
}

// First returns the record with the given id.
func (c *Collection[T]) First(id string) (*T, error) {
	var record T
	if err := c.db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, Classify(err)
	}
	return &record, nil
}

// FirstWhere returns the first record matching the equality filters.
func (c *Collection[T]) FirstWhere(eq map[string]any) (*T, error) {
	var record T
	if err := c.db.Where(eq).First(&record).Error; err != nil {
		return nil, Classify(err)
	}
	return &record, nil
}

// Insert persists a new record. The database assigns id and timestamps via
// the model hooks; the record is updated in place.
func (c *Collection[T]) Insert(record *T) error {
	if err := c.db.Create(record).Error; err != nil {
		return Classify(err)
	}
	return nil
}

// Update applies a partial-field patch to the record with the given id and
// returns the resulting server-side state.
func (c *Collection[T]) Update(id string, patch map[string]any) (*T, error) {
	if err := c.db.Model(new(T)).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, Classify(err)
	}
	return c.First(id)
}

// Delete removes the record with the given id. Constraint violations (a
// referencing row elsewhere) surface as ErrForeignKeyViolation.
func (c *Collection[T]) Delete(id string) error {
	if err := c.db.Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return Classify(err)
	}
	return nil
}

// Count returns the number of records matching the equality filters.
func (c *Collection[T]) Count(eq map[string]any) (int64, error) {
	var n int64
	tx := c.db.Model(new(T))
	if len(eq) > 0 {
		tx = tx.Where(eq)
	}
	if err := tx.Count(&n).Error; err != nil {
		return 0, Classify(err)
	}
	return n, nil
}

// Gateway bundles the typed collections for the five record sets.
type Gateway struct {
	Accounts     *Collection[models.Account]
	Categories   *Collection[models.Category]
	Transactions *Collection[models.Transaction]
	Budgets      *Collection[models.Budget]
	Goals        *Collection[models.Goal]

	db *gorm.DB
}

// New creates a Gateway over the given database handle.
func New(db *gorm.DB) *Gateway {
	return &Gateway{
		Accounts:     NewCollection[models.Account](db),
		Categories:   NewCollection[models.Category](db),
		Transactions: NewCollection[models.Transaction](db),
		Budgets:      NewCollection[models.Budget](db),
		Goals:        NewCollection[models.Goal](db),
		db:           db,
	}
}

// WithTx returns a Gateway whose collections run inside the given transaction
// handle. Used by services that need multi-step atomicity.
func (g *Gateway) WithTx(tx *gorm.DB) *Gateway {
	return New(tx)
}

// DB exposes the underlying handle for db.Transaction blocks.
func (g *Gateway) DB() *gorm.DB {
	return g.db
}
