package purchases

import (
	"database/sql"

	"go.uber.org/zap"

	"apotheca/internal/audit"
	"apotheca/internal/config"
	inventoryrepo "apotheca/internal/inventory/repository"
	"apotheca/internal/purchases/controller"
	purchaserepo "apotheca/internal/purchases/repository"
	"apotheca/internal/purchases/service"
	"apotheca/internal/purchases/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, auditSink audit.Sink, logger *zap.Logger) *controller.ReceivePurchaseController {
	batchRepo := inventoryrepo.NewMySQLBatchRepository(db)
	purchaseRepo := purchaserepo.NewMySQLPurchaseRepository(db)

	receivingSvc := service.NewReceivingService(
		db,
		batchRepo,
		purchaseRepo,
		logger,
		cfg.Sale.TxTimeout,
	)

	uc := usecase.NewReceivePurchaseUseCase(
		receivingSvc,
		auditSink,
		logger,
		cfg.Sale.MaxRetryAttempts,
	)

	return controller.NewReceivePurchaseController(uc, logger)
}
