package main

import (
	"context"
	"errors"

	"github.com/jhoicas/Compras-api/internal/application/notify"
)

// disabledMailer se usa cuando no hay SMTP configurado.
type disabledMailer struct{}

func (disabledMailer) Send(context.Context, notify.EmailMessage) error {
	return errors.New("envío de correo deshabilitado (SMTP_HOST vacío)")
}
