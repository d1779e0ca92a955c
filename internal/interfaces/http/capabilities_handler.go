package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
)

// Capabilities godoc
// @Summary      Capacidades del rol del token
// @Description  Con ?action= indica además si el rol puede ejecutarla.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Param        action  query  string  false  "Acción a consultar (approve_po, delete_po...)"
// @Success      200     {object}  dto.CapabilitiesResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/me/capabilities [get]
func Capabilities(c *fiber.Ctx) error {
	actor := GetActor(c)
	actions := permission.For(actor.Role)
	out := dto.CapabilitiesResponse{
		UserID:  actor.ID,
		Role:    actor.Role,
		Actions: make([]string, 0, len(actions)),
	}
	for _, a := range actions {
		out.Actions = append(out.Actions, string(a))
	}

	if q := c.Query("action"); q != "" {
		action := permission.Action(q)
		if !permission.Valid(action) {
			return writeError(c, fmt.Errorf("%w: acción %q desconocida", domain.ErrInvalidInput, q))
		}
		allowed := permission.Can(actor.Role, action)
		out.Action = q
		out.Allowed = &allowed
	}
	return c.JSON(out)
}
