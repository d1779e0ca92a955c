package notify

import "context"

// EmailMessage mensaje listo para el colaborador de correo.
type EmailMessage struct {
	To       string
	ToName   string
	Subject  string
	HTML     string
	Text     string
	From     string // vacío = remitente configurado
	FromName string
	CC       string // opcional
}

// EmailSender entrega un correo. Cualquier error se reporta como fallo de entrega.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// LinkOpener abre un enlace de mensajería (wa.me). No hay respuesta observable.
type LinkOpener interface {
	Open(ctx context.Context, link ScheduledLink) error
}
