package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"apotheca/internal/inventory/controller"
	"apotheca/internal/inventory/repository"
	"apotheca/internal/inventory/service"
	"apotheca/internal/inventory/usecase"
	tenantrepo "apotheca/internal/tenant/repository"
)

type Module struct {
	BatchRepo        *repository.MySQLBatchRepository
	StockSvc         *service.StockService
	LevelsController *controller.LevelsController
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	batchRepo := repository.NewMySQLBatchRepository(db)
	stockSvc := service.NewStockService(batchRepo, logger)

	tenantRepo := tenantrepo.NewMySQLTenantRepository(db)
	levelsUC := usecase.NewLevelsUseCase(batchRepo, tenantRepo, logger)

	return &Module{
		BatchRepo:        batchRepo,
		StockSvc:         stockSvc,
		LevelsController: controller.NewLevelsController(levelsUC, logger),
	}
}
