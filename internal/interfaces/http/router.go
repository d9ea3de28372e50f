package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/analytics"
	"github.com/unatienda/store-api/internal/application/auth"
	"github.com/unatienda/store-api/internal/application/cart"
	"github.com/unatienda/store-api/internal/application/catalog"
	"github.com/unatienda/store-api/internal/application/crmchat"
	"github.com/unatienda/store-api/internal/application/membership"
	"github.com/unatienda/store-api/internal/application/presale"
	"github.com/unatienda/store-api/internal/application/receipts"
	"github.com/unatienda/store-api/internal/application/stockorders"
	"github.com/unatienda/store-api/internal/application/students"
	"github.com/unatienda/store-api/internal/application/wallet"
	"github.com/unatienda/store-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CatalogUC    *catalog.UseCase
	StockOrderUC *stockorders.UseCase
	CartUC       *cart.UseCase
	StudentUC    *students.UseCase
	PresaleUC    *presale.UseCase
	ReceiptUC    *receipts.UseCase
	WalletUC     *wallet.UseCase
	MembershipUC *membership.UseCase
	CRMUC        *crmchat.UseCase
	AnalyticsUC  *analytics.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	staffOnly := RequireRole(entity.RoleAdmin, entity.RoleStaff)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (registro y login públicos; perfil protegido)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)
	// Alta de cuentas con rol elevado, solo desde el panel admin.
	authGroup.Post("/users", AuthMiddleware(deps.JWTSecret), adminOnly, authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de productos (lectura para todos los autenticados; escritura staff)
	products := protected.Group("/store/products")
	productHandler := NewProductHandler(deps.CatalogUC, deps.StudentUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", staffOnly, productHandler.Create)
	products.Put("/:id", staffOnly, productHandler.Update)
	products.Delete("/:id", staffOnly, productHandler.Delete)
	products.Post("/:id/image", staffOnly, productHandler.UploadImage)

	// Categorías
	categories := protected.Group("/store/categories")
	categoryHandler := NewCategoryHandler(deps.CatalogUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", staffOnly, categoryHandler.Create)
	categories.Delete("/:id", staffOnly, categoryHandler.Delete)

	// Órdenes de stock (solo staff)
	stockOrders := protected.Group("/store/stock-orders", staffOnly)
	stockOrderHandler := NewStockOrderHandler(deps.StockOrderUC, deps.AuthUC)
	stockOrders.Post("/shipments", stockOrderHandler.CreateShipment)
	stockOrders.Post("/returns", stockOrderHandler.CreateReturn)
	stockOrders.Post("/adjustments", stockOrderHandler.CreateAdjustment)
	stockOrders.Get("/", stockOrderHandler.List)
	stockOrders.Get("/status-counts", stockOrderHandler.StatusCounts)
	stockOrders.Get("/:id", stockOrderHandler.GetByID)
	stockOrders.Post("/:id/transition/:target", stockOrderHandler.Transition)

	// Carrito (clientes autenticados)
	cartGroup := protected.Group("/store/cart")
	cartHandler := NewCartHandler(deps.CartUC)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:productId", cartHandler.UpdateQuantity)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)

	// Estudiantes, años escolares y accesos (solo staff)
	studentHandler := NewStudentHandler(deps.StudentUC)
	studentsGroup := protected.Group("/store/students", staffOnly)
	studentsGroup.Post("/", studentHandler.Create)
	studentsGroup.Get("/", studentHandler.List)
	studentsGroup.Get("/export", studentHandler.ExportRoster)
	studentsGroup.Get("/:id", studentHandler.GetByID)

	schoolYears := protected.Group("/store/school-years", staffOnly)
	schoolYears.Post("/", studentHandler.CreateSchoolYear)
	schoolYears.Get("/", studentHandler.ListSchoolYears)
	schoolYears.Post("/:id/activate", studentHandler.ActivateSchoolYear)

	access := protected.Group("/store/textbook-access", staffOnly)
	access.Post("/", studentHandler.GrantAccess)
	access.Get("/", studentHandler.ListAccess)
	access.Delete("/:studentId/:schoolYearId", studentHandler.RevokeAccess)

	// Conexiones cliente-estudiante (emisión admin; verificación cliente)
	conexiones := protected.Group("/conexiones")
	conexionHandler := NewConexionHandler(deps.StudentUC)
	conexiones.Post("/", staffOnly, conexionHandler.Create)
	conexiones.Post("/verify", conexionHandler.Verify)
	conexiones.Get("/", conexionHandler.ListMine)
	conexiones.Get("/user/:userId", staffOnly, conexionHandler.ListByUser)
	conexiones.Delete("/:id", staffOnly, conexionHandler.Revoke)

	// Importación de preventa (solo staff)
	presaleGroup := protected.Group("/store/presale-import", staffOnly)
	presaleHandler := NewPresaleHandler(deps.PresaleUC, deps.ReceiptUC)
	presaleGroup.Post("/", presaleHandler.Import)
	presaleGroup.Get("/batches", presaleHandler.ListBatches)
	presaleGroup.Get("/orders", presaleHandler.ListOrders)
	presaleGroup.Get("/orders/:id", presaleHandler.GetOrder)
	presaleGroup.Get("/orders/:id/suggestions", presaleHandler.Suggestions)
	presaleGroup.Post("/orders/:id/link", presaleHandler.Link)
	presaleGroup.Post("/orders/:id/dismiss", presaleHandler.Dismiss)
	presaleGroup.Get("/orders/:id/receipt", presaleHandler.Receipt)

	// Billetera (clientes autenticados)
	walletGroup := protected.Group("/wallet")
	walletHandler := NewWalletHandler(deps.WalletUC)
	walletGroup.Get("/", walletHandler.Get)
	walletGroup.Get("/transactions", walletHandler.Transactions)
	walletGroup.Post("/top-up", walletHandler.TopUp)
	walletGroup.Post("/top-up/confirm", walletHandler.ConfirmTopUp)

	// Membresías
	memberships := protected.Group("/memberships")
	membershipHandler := NewMembershipHandler(deps.MembershipUC)
	memberships.Get("/plans", membershipHandler.ListPlans)
	memberships.Post("/plans", adminOnly, membershipHandler.CreatePlan)
	memberships.Get("/me", membershipHandler.Get)
	memberships.Post("/subscribe", membershipHandler.Subscribe)

	// Chat CRM
	crm := protected.Group("/store/crm-chat")
	crmHandler := NewCRMHandler(deps.CRMUC)
	crm.Post("/", crmHandler.Start)
	crm.Get("/", crmHandler.ListMine)
	crm.Get("/admin", staffOnly, crmHandler.ListForAdmin)
	crm.Post("/:id/messages", crmHandler.Post)
	crm.Get("/:id/messages", crmHandler.Messages)
	crm.Post("/:id/close", staffOnly, crmHandler.Close)

	// Dashboard (solo staff)
	dashboardHandler := NewDashboardHandler(deps.AnalyticsUC)
	protected.Get("/dashboard", staffOnly, dashboardHandler.Get)
}
