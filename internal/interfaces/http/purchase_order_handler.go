package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// PurchaseOrderHandler ciclo de vida de las órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	lifecycle *apppurchasing.LifecycleUseCase
	create    *apppurchasing.CreatePOUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(lifecycle *apppurchasing.LifecycleUseCase, create *apppurchasing.CreatePOUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{lifecycle: lifecycle, create: create}
}

// Queue godoc
// @Summary      Encolar producto para la próxima OC
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QueueProductRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.QueuedProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/queue [post]
func (h *PurchaseOrderHandler) Queue(c *fiber.Ctx) error {
	var in dto.QueueProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.create.QueueProduct(c.UserContext(), GetActor(c), in.ProductID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QueuedProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		VendorID:      p.VendorID,
		OrderQuantity: p.OrderQuantity,
		POStatus:      p.POStatus,
	})
}

// Create godoc
// @Summary      Crear OC desde la cola del proveedor
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "Proveedor"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	po, err := h.create.CreateFromQueue(c.UserContext(), GetActor(c), in.VendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchaseOrder(po))
}

// List godoc
// @Summary      Listar OC
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "created | approved | rejected"
// @Param        vendor_id  query  string  false  "Proveedor"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200        {object}  dto.POListResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	list, err := h.lifecycle.List(c.UserContext(), GetActor(c), repository.PurchaseOrderFilter{
		Status:   c.Query("status"),
		VendorID: c.Query("vendor_id"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.POListResponse{Items: make([]dto.POResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)}}
	for _, po := range list {
		out.Items = append(out.Items, dto.FromPurchaseOrder(po))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener OC por ID
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OC"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.lifecycle.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// Approve godoc
// @Summary      Aprobar OC
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OC"
// @Success      200  {object}  dto.POResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	po, err := h.lifecycle.Approve(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// Reject godoc
// @Summary      Rechazar OC
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la OC"
// @Param        body  body  dto.RejectPORequest  false  "Motivo"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectPORequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	po, err := h.lifecycle.Reject(c.UserContext(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// Delete godoc
// @Summary      Eliminar OC (cualquier estado)
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la OC"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkApprove godoc
// @Summary      Aprobar OC en lote
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkPORequest  true  "IDs"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/purchase-orders/bulk/approve [post]
func (h *PurchaseOrderHandler) BulkApprove(c *fiber.Ctx) error {
	var in dto.BulkPORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.lifecycle.ApproveMany(c.UserContext(), GetActor(c), in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBatch(res))
}

// BulkReject godoc
// @Summary      Rechazar OC en lote
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkPORequest  true  "IDs y motivo común"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/purchase-orders/bulk/reject [post]
func (h *PurchaseOrderHandler) BulkReject(c *fiber.Ctx) error {
	var in dto.BulkPORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.lifecycle.RejectMany(c.UserContext(), GetActor(c), in.IDs, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBatch(res))
}

// BulkDelete godoc
// @Summary      Eliminar OC en lote
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkPORequest  true  "IDs"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/purchase-orders/bulk/delete [post]
func (h *PurchaseOrderHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.BulkPORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.lifecycle.DeleteMany(c.UserContext(), GetActor(c), in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBatch(res))
}
