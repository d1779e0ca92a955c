package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/export"
)

// Cabeceras extra de la respuesta de exportación.
const (
	HeaderArchiveKey    = "X-Archive-Key"
	HeaderExportedCount = "X-Exported-Count"
	HeaderFailedCount   = "X-Failed-Count"
)

// ExportHandler descarga de OC en PDF/XLSX y su historial.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar OC aprobadas (una → documento, varias → ZIP)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Produce      application/zip
// @Param        body  body  dto.ExportRequest  true  "OC y formato"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/export [post]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Export(c.UserContext(), GetActor(c), export.Request{
		POIDs:    in.POIDs,
		Format:   in.Format,
		Location: in.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Set(HeaderExportedCount, strconv.Itoa(res.Batch.SucceededCount()))
	c.Set(HeaderFailedCount, strconv.Itoa(res.Batch.FailedCount()))
	if res.ArchiveKey != "" {
		c.Set(HeaderArchiveKey, res.ArchiveKey)
	}
	return c.Send(res.Data)
}

// Downloads godoc
// @Summary      Historial de descargas de una OC
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la OC"
// @Success      200  {array}   dto.DownloadLogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/downloads [get]
func (h *ExportHandler) Downloads(c *fiber.Ctx) error {
	logs, err := h.uc.Downloads(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.DownloadLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.FromDownloadLog(l))
	}
	return c.JSON(out)
}

// AllDownloads godoc
// @Summary      Historial global de descargas
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.DownloadLogListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/downloads [get]
func (h *ExportHandler) AllDownloads(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	logs, err := h.uc.AllDownloads(c.UserContext(), GetActor(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.DownloadLogListResponse{
		Items: make([]dto.DownloadLogResponse, 0, len(logs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(logs)},
	}
	for _, l := range logs {
		out.Items = append(out.Items, dto.FromDownloadLog(l))
	}
	return c.JSON(out)
}
