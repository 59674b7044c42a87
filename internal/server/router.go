package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"apotheca/internal/catalog"
	inventorycontroller "apotheca/internal/inventory/controller"
	purchasescontroller "apotheca/internal/purchases/controller"
	salescontroller "apotheca/internal/sales/controller"
	"apotheca/internal/tenant"
)

type Controllers struct {
	Sales     *salescontroller.CreateSaleController
	Purchases *purchasescontroller.ReceivePurchaseController
	Catalog   *catalog.Controller
	Inventory *inventorycontroller.LevelsController
}

// NewRouter assembles the HTTP surface. Everything under /api/v1 runs behind
// the tenant middleware; handlers can assume an Actor is in the context.
func NewRouter(ctrl Controllers, tenantMw *tenant.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(tenantMw.Resolve)

		r.Post("/sales", ctrl.Sales.CreateSale)
		r.Post("/purchases", ctrl.Purchases.ReceivePurchase)
		r.Get("/products/barcode", ctrl.Catalog.HandleBarcodeLookup)
		r.Get("/inventory/levels", ctrl.Inventory.HandleLevels)
	})

	return r
}
