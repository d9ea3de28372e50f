package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/unatienda/store-api/internal/application/analytics"
	"github.com/unatienda/store-api/internal/application/auth"
	appcart "github.com/unatienda/store-api/internal/application/cart"
	"github.com/unatienda/store-api/internal/application/catalog"
	"github.com/unatienda/store-api/internal/application/crmchat"
	"github.com/unatienda/store-api/internal/application/membership"
	apppresale "github.com/unatienda/store-api/internal/application/presale"
	"github.com/unatienda/store-api/internal/application/receipts"
	"github.com/unatienda/store-api/internal/application/stockorders"
	appstudents "github.com/unatienda/store-api/internal/application/students"
	appwallet "github.com/unatienda/store-api/internal/application/wallet"
	"github.com/unatienda/store-api/internal/infrastructure/excel"
	"github.com/unatienda/store-api/internal/infrastructure/mail"
	"github.com/unatienda/store-api/internal/infrastructure/payments"
	infrapdf "github.com/unatienda/store-api/internal/infrastructure/pdf"
	"github.com/unatienda/store-api/internal/infrastructure/postgres"
	"github.com/unatienda/store-api/internal/infrastructure/redisstore"
	"github.com/unatienda/store-api/internal/infrastructure/storage"
	httpRouter "github.com/unatienda/store-api/internal/interfaces/http"
	"github.com/unatienda/store-api/pkg/config"
	"github.com/unatienda/store-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := redisstore.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	imageStore, err := storage.NewMinioStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento de objetos")
	}

	node, err := snowflake.NewNode(cfg.App.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar nodo de numeración")
	}

	// Repositorios
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	stockOrderRepo := postgres.NewStockOrderRepository(pool)
	studentRepo := postgres.NewStudentRepository(pool)
	yearRepo := postgres.NewSchoolYearRepository(pool)
	conexionRepo := postgres.NewConexionRepository(pool)
	presaleRepo := postgres.NewPresaleRepository(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	crmRepo := postgres.NewCRMRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Infraestructura
	gateway := payments.NewRazorpayGateway(cfg.Payments)
	mailer := mail.NewSMTPMailer(cfg.SMTP)
	presaleReader := excel.NewPresaleReader()
	rosterExporter := excel.NewStudentExporter()
	receiptGen := infrapdf.NewReceiptGenerator(cfg.App.Name)
	cartStore := redisstore.NewCartStore(redisClient)
	unreadCounter := redisstore.NewUnreadCounter(redisClient)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewUseCase(productRepo, categoryRepo, imageStore)
	stockOrderUC := stockorders.NewUseCase(txRunner, stockOrderRepo, node)
	cartUC := appcart.NewUseCase(cartStore, productRepo)
	studentUC := appstudents.NewUseCase(studentRepo, yearRepo, conexionRepo, rosterExporter)
	presaleUC := apppresale.NewUseCase(presaleRepo, studentRepo, presaleReader, mailer, node, log.Component("presale"))
	receiptUC := receipts.NewUseCase(presaleRepo, receiptGen)
	walletUC := appwallet.NewUseCase(walletRepo, txRunner, gateway, log.Component("wallet"))
	membershipUC := membership.NewUseCase(membershipRepo, walletRepo, txRunner)
	crmUC := crmchat.NewUseCase(crmRepo, unreadCounter)
	analyticsUC := analytics.NewUseCase(statsRepo, walletRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    20 * 1024 * 1024, // archivos de preventa e imágenes
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Unatienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", httpRouter.MetricsHandler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		StockOrderUC: stockOrderUC,
		CartUC:       cartUC,
		StudentUC:    studentUC,
		PresaleUC:    presaleUC,
		ReceiptUC:    receiptUC,
		WalletUC:     walletUC,
		MembershipUC: membershipUC,
		CRMUC:        crmUC,
		AnalyticsUC:  analyticsUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
