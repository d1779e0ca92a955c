package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Compras-api/internal/application/export"
	"github.com/jhoicas/Compras-api/internal/application/notify"
	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/infrastructure/archive"
	"github.com/jhoicas/Compras-api/internal/infrastructure/mail"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Compras-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Compras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Compras-api/internal/infrastructure/storage"
	infraxlsx "github.com/jhoicas/Compras-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Compras-api/internal/interfaces/http"
	"github.com/jhoicas/Compras-api/pkg/config"
	"github.com/jhoicas/Compras-api/pkg/jwt"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// stores repositorios y runner transaccional del driver elegido.
type stores struct {
	vendors   repository.VendorRepository
	products  repository.ProductRepository
	orders    repository.PurchaseOrderRepository
	downloads repository.DownloadLogRepository
	tx        apppurchasing.TxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer st.close()

	catalog := apppurchasing.NewCatalog(st.orders, st.vendors, st.products)
	lifecycleUC := apppurchasing.NewLifecycleUseCase(st.orders, log.Component("lifecycle"))
	createPOUC := apppurchasing.NewCreatePOUseCase(st.tx, st.vendors, st.products, log.Component("create_po"))
	reorderUC := apppurchasing.NewReorderUseCase(st.products, log.Component("reorder"))

	// Subida opcional del ZIP de exportación masiva
	var archiveStore export.ArchiveStore
	if cfg.MinIO.Enabled() {
		s, err := storage.NewMinioArchiveStore(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			log.Error().Err(err).Str("endpoint", cfg.MinIO.Endpoint).Msg("MinIO no disponible, exportaciones sin subida")
		} else {
			archiveStore = s
		}
	}
	exportUC := export.NewUseCase(
		catalog, st.downloads, archive.NewZipBuilder(), archiveStore, log.Component("export"),
		infrapdf.NewPOGenerator(cfg.Export.PageBudgetMM),
		infraxlsx.NewPOGenerator(),
	)

	var mailer notify.EmailSender = disabledMailer{}
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.Mail.From, cfg.Mail.FromName)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: las notificaciones por correo fallarán con DeliveryFailure")
	}
	notifyUC := notify.NewUseCase(catalog, mailer, notify.Sender{
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
		CC:       cfg.Mail.CC,
	}, cfg.Notify.Stagger(), log.Component("notify"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Compras API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lifecycle: lifecycleUC,
		CreatePO:  createPOUC,
		Reorder:   reorderUC,
		Export:    exportUC,
		Notify:    notifyUC,
		Verifier:  jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer),
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

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.App.StoreDriver == config.StoreMemory {
		m := memory.NewStore()
		return &stores{
			vendors:   m.Vendors(),
			products:  m.Products(),
			orders:    m.PurchaseOrders(),
			downloads: m.DownloadLogs(),
			tx:        m,
			close:     func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		return nil, err
	}
	return &stores{
		vendors:   postgres.NewVendorRepository(pool),
		products:  postgres.NewProductRepository(pool),
		orders:    postgres.NewPurchaseOrderRepository(pool),
		downloads: postgres.NewDownloadLogRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
