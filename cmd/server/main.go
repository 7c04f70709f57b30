package main

import (
	"strings"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/appointments"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/audit"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/cache"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/clients"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/config"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dashboard"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/financial"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/products"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/sales"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/transfers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	database.Init(cfg)
	cache.Init(cfg)

	if cfg.SeedDemo {
		auth.SeedDemo(database.DB)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if handled, herr := dberr.Handle(c, err); handled {
				return herr
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			// Detalhe fica só no log do servidor, nunca na resposta
			log.Errorf("Erro inesperado: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro interno do servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth público
	api.Post("/auth/uuid-login", auth.LoginHandler(cfg))
	api.Post("/auth/register", auth.RegisterHandler(cfg))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/companies", auth.CreateCompanyHandler(cfg))
	protected.Post("/auth/branches", auth.CreateBranchHandler())

	// Produtos
	protected.Get("/products", products.ListProductsHandler())
	protected.Post("/products", products.CreateProductHandler())
	protected.Put("/products/:id", products.UpdateProductHandler())
	protected.Delete("/products/:id", products.DeleteProductHandler())

	// Clientes
	protected.Get("/clients", clients.ListClientsHandler())
	protected.Post("/clients", clients.CreateClientHandler())
	protected.Put("/clients/:id", clients.UpdateClientHandler())
	protected.Delete("/clients/:id", clients.DeleteClientHandler())

	// Vendas
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Delete("/sales/:id", sales.DeleteSaleHandler())

	// Agendamentos
	protected.Get("/appointments", appointments.ListAppointmentsHandler())
	protected.Post("/appointments", appointments.CreateAppointmentHandler())
	protected.Put("/appointments/:id", appointments.UpdateAppointmentHandler())
	protected.Delete("/appointments/:id", appointments.DeleteAppointmentHandler())

	// Financeiro
	protected.Get("/financial", financial.ListEntriesHandler())
	protected.Post("/financial", financial.CreateEntryHandler())
	protected.Put("/financial/:id", financial.UpdateEntryHandler())
	protected.Post("/financial/:id/pay", financial.PayEntryHandler())
	protected.Delete("/financial/:id", financial.DeleteEntryHandler())
	protected.Get("/financial/summary/monthly", financial.MonthlySummaryHandler())

	// Transferências entre filiais
	protected.Get("/transfers", transfers.ListTransfersHandler())
	protected.Post("/transfers", transfers.CreateTransferHandler())
	protected.Post("/transfers/:id/complete", transfers.CompleteTransferHandler())
	protected.Post("/transfers/:id/cancel", transfers.CancelTransferHandler())

	// Dashboard
	protected.Get("/dashboard/sales-chart", dashboard.SalesChartHandler())

	// Auditoria (somente admin)
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Infof("Servidor rodando na porta %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
