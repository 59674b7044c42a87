package sales

import (
	"database/sql"

	"go.uber.org/zap"

	"apotheca/internal/audit"
	"apotheca/internal/config"
	inventoryrepo "apotheca/internal/inventory/repository"
	"apotheca/internal/sales/controller"
	salesrepo "apotheca/internal/sales/repository"
	"apotheca/internal/sales/service"
	"apotheca/internal/sales/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, auditSink audit.Sink, logger *zap.Logger) *controller.CreateSaleController {
	batchRepo := inventoryrepo.NewMySQLBatchRepository(db)
	saleRepo := salesrepo.NewMySQLSaleRepository(db)

	allocationSvc := service.NewAllocationService(
		db,
		batchRepo,
		saleRepo,
		logger,
		cfg.Sale.TxTimeout,
	)

	uc := usecase.NewCreateSaleUseCase(
		allocationSvc,
		auditSink,
		logger,
		cfg.Sale.MaxRetryAttempts,
	)

	return controller.NewCreateSaleController(uc, logger)
}
