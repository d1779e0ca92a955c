package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/export"
	"github.com/jhoicas/Compras-api/internal/application/notify"
	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
	"github.com/jhoicas/Compras-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lifecycle *apppurchasing.LifecycleUseCase
	CreatePO  *apppurchasing.CreatePOUseCase
	Reorder   *apppurchasing.ReorderUseCase
	Export    *export.UseCase
	Notify    *notify.UseCase
	Verifier  *jwt.Verifier
}

// Router registra las rutas de la API. Todas requieren Bearer Token; los casos de uso
// vuelven a verificar permisos, el middleware solo corta antes de leer el cuerpo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Verifier))
	api.Get("/me/capabilities", Capabilities)

	// Purchase orders
	pos := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.Lifecycle, deps.CreatePO)
	exportHandler := NewExportHandler(deps.Export)
	reorderHandler := NewReorderHandler(deps.Reorder)

	pos.Post("/queue", RequirePermission(permission.CreatePO), poHandler.Queue)
	pos.Get("/reorder-suggestions", RequirePermission(permission.CreatePO), reorderHandler.Suggestions)
	pos.Post("/reorder-suggestions/queue", RequirePermission(permission.CreatePO), reorderHandler.Queue)
	pos.Post("/export", RequirePermission(permission.DownloadPO), exportHandler.Export)
	pos.Post("/bulk/approve", RequirePermission(permission.BulkApprovePO), poHandler.BulkApprove)
	pos.Post("/bulk/reject", RequirePermission(permission.RejectPO), poHandler.BulkReject)
	pos.Post("/bulk/delete", RequirePermission(permission.DeletePO), poHandler.BulkDelete)
	pos.Get("/downloads", RequirePermission(permission.ViewPODownload), exportHandler.AllDownloads)

	pos.Post("/", RequirePermission(permission.CreatePO), poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Delete("/:id", RequirePermission(permission.DeletePO), poHandler.Delete)
	pos.Post("/:id/approve", RequirePermission(permission.ApprovePO), poHandler.Approve)
	pos.Post("/:id/reject", RequirePermission(permission.RejectPO), poHandler.Reject)
	pos.Get("/:id/downloads", RequirePermission(permission.ViewPODownload), exportHandler.Downloads)

	// Notifications
	notifications := api.Group("/notifications", RequirePermission(permission.DownloadPO))
	notifyHandler := NewNotifyHandler(deps.Notify)
	notifications.Post("/email", notifyHandler.Email)
	notifications.Post("/whatsapp", notifyHandler.WhatsApp)
}
