package store

import (
	"context"

	"gorm.io/gorm"
)

// DoInTx runs fn inside one transaction on db, carrying ctx so statements
// inside the transaction observe the caller's deadline. Any error from fn
// rolls the whole transaction back; so does a panic, which is re-raised
// after the rollback.
func DoInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
