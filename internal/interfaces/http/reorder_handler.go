package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
)

// ReorderHandler lista de reposición y encolado masivo por proveedor.
type ReorderHandler struct {
	uc *apppurchasing.ReorderUseCase
}

// NewReorderHandler construye el handler.
func NewReorderHandler(uc *apppurchasing.ReorderUseCase) *ReorderHandler {
	return &ReorderHandler{uc: uc}
}

// Suggestions godoc
// @Summary      Productos bajo punto de reorden
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        vendor_id  query  string  false  "Proveedor (vacío = todos)"
// @Success      200        {array}   apppurchasing.ReorderSuggestion
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/reorder-suggestions [get]
func (h *ReorderHandler) Suggestions(c *fiber.Ctx) error {
	out, err := h.uc.Suggestions(c.UserContext(), GetActor(c), c.Query("vendor_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Queue godoc
// @Summary      Encolar las sugerencias de un proveedor
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "Proveedor"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/reorder-suggestions/queue [post]
func (h *ReorderHandler) Queue(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.QueueSuggested(c.UserContext(), GetActor(c), in.VendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBatch(res))
}
