package repositories

import (
	"context"
	"errors"

	"news-portal/models"

	"gorm.io/gorm"
)

// TxRunner runs fn inside a database transaction. Any error returned by fn
// rolls the transaction back.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// translate maps driver level errors onto the domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.ErrReferenceNotFound
	}
	return err
}

func paginate(page models.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Skip).Limit(page.Limit)
	}
}
