package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
)

var errorStatus = map[domain.ErrorKind]struct {
	status int
	code   string
}{
	domain.KindNotFound:          {fiber.StatusNotFound, "NOT_FOUND"},
	domain.KindInvalidInput:      {fiber.StatusBadRequest, "INVALID_INPUT"},
	domain.KindInvalidTransition: {fiber.StatusConflict, "INVALID_TRANSITION"},
	domain.KindUnauthorized:      {fiber.StatusForbidden, "UNAUTHORIZED_ACTION"},
	domain.KindValidation:        {fiber.StatusUnprocessableEntity, "VALIDATION_FAILURE"},
	domain.KindDelivery:          {fiber.StatusBadGateway, "DELIVERY_FAILURE"},
	domain.KindRender:            {fiber.StatusInternalServerError, "RENDER_FAILURE"},
}

// writeError traduce un error de dominio (posiblemente envuelto) a status y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	m, ok := errorStatus[domain.KindOf(err)]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
