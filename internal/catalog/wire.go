package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"apotheca/internal/catalog/repository"
)

func NewModule(db *sql.DB, selector BatchSelector, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	uc := NewBarcodeLookupUseCase(repo, selector)
	return NewController(uc, logger)
}
