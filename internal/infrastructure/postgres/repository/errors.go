package repository

import (
	"errors"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate is SELECT ... FOR UPDATE.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// storageErr passes domain errors through and wraps everything else as internal.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.Internal(op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
