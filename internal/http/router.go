package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mvaldes-dev/stockpile/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware)
		r.Post("/register", handlers.RegisterHandler)
		r.Post("/login", handlers.LoginHandler)
		r.Post("/refresh", handlers.RefreshHandler)
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Catalog reads are public.
	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/search", handlers.FilterProductsHandler)
	r.Get("/products/low-stock", handlers.GetLowStockProductsHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Get("/products/{id}/movements", handlers.GetMovementsHandler)
	r.Get("/products/{id}/movements/export", handlers.ExportMovementsHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Post("/products/{id}/adjust", handlers.AdjustQuantityHandler)

		r.Post("/clients", handlers.CreateClientHandler)
		r.Get("/clients", handlers.GetClientsHandler)
		r.Get("/clients/{id}", handlers.GetClientByIDHandler)
		r.Put("/clients/{id}", handlers.UpdateClientHandler)
		r.Delete("/clients/{id}", handlers.DeleteClientHandler)
		r.Get("/clients/{id}/purchases", handlers.GetClientPurchasesHandler)

		r.Post("/purchases", handlers.CreatePurchaseHandler)
		r.Get("/purchases/reference/{ref}", handlers.GetPurchaseByReferenceHandler)
		r.Get("/purchases/{id}", handlers.GetPurchaseByIDHandler)
		r.Post("/purchases/{id}/payments", handlers.CreatePaymentHandler)
		r.Get("/purchases/{id}/payments", handlers.GetPaymentsHandler)
		r.Get("/purchases/{id}/balance", handlers.GetPurchaseBalanceHandler)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole("admin"))
			r.Post("/products", handlers.CreateProductHandler)
			r.Put("/products/{id}", handlers.UpdateProductHandler)
			r.Delete("/products/{id}", handlers.DeleteProductHandler)
			r.Post("/products/{id}/activate", handlers.ActivateProductHandler)
			r.Post("/products/import", handlers.ImportProductsHandler)
			r.Post("/stock/import", handlers.ImportStockHandler)
			r.Get("/reports/dashboard", handlers.GetDashboardReportHandler)
			r.Post("/admin/users", handlers.RegisterAsAdminHandler)
		})
	})

	return r
}
