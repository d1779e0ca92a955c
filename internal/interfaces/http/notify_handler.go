package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/notify"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

// NotifyHandler envío de OC aprobadas a los proveedores.
type NotifyHandler struct {
	uc *notify.UseCase
}

// NewNotifyHandler construye el handler.
func NewNotifyHandler(uc *notify.UseCase) *NotifyHandler {
	return &NotifyHandler{uc: uc}
}

// Email godoc
// @Summary      Enviar OC por correo, un mensaje por proveedor
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotifyRequest  true  "OC y destinos opcionales por proveedor"
// @Success      200   {object}  dto.EmailNotifyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/notifications/email [post]
func (h *NotifyHandler) Email(c *fiber.Ctx) error {
	var in dto.NotifyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ctx, actor := c.UserContext(), GetActor(c)
	groups, skipped, err := h.uc.PrepareGroups(ctx, actor, in.POIDs, purchasing.ChannelEmail, in.Contacts)
	if err != nil {
		return writeError(c, err)
	}
	delivered, err := h.uc.SendEmails(ctx, actor, groups)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.EmailNotifyResponse{Skipped: dto.FromBatch(skipped), Delivered: dto.FromBatch(delivered)})
}

// WhatsApp godoc
// @Summary      Plan de enlaces de WhatsApp por proveedor
// @Description  Los enlaces se abren en el cliente, respetando delay_ms entre uno y otro.
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotifyRequest  true  "OC y teléfonos opcionales por proveedor"
// @Success      200   {object}  dto.WhatsAppNotifyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/notifications/whatsapp [post]
func (h *NotifyHandler) WhatsApp(c *fiber.Ctx) error {
	var in dto.NotifyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ctx, actor := c.UserContext(), GetActor(c)
	groups, skipped, err := h.uc.PrepareGroups(ctx, actor, in.POIDs, purchasing.ChannelWhatsApp, in.Contacts)
	if err != nil {
		return writeError(c, err)
	}
	plan, planned, err := h.uc.WhatsAppPlan(ctx, actor, groups)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.WhatsAppNotifyResponse{
		Links:   make([]dto.WhatsAppLinkResponse, 0, len(plan)),
		Skipped: dto.FromBatch(skipped),
		Planned: dto.FromBatch(planned),
	}
	for _, l := range plan {
		out.Links = append(out.Links, dto.WhatsAppLinkResponse{
			VendorID: l.VendorID,
			Phone:    l.Phone,
			DelayMS:  l.At.Milliseconds(),
			URL:      l.URL,
		})
	}
	return c.JSON(out)
}
