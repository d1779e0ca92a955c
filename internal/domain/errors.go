package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrUnauthorized      = errors.New("acción no autorizada para el rol")
	ErrValidation        = errors.New("contacto inválido")
	ErrDelivery          = errors.New("fallo en la entrega del mensaje")
	ErrRender            = errors.New("fallo al generar el documento")
)

// ErrorKind nombre estable del tipo de error, usado en resultados de lote y respuestas HTTP.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NotFound"
	KindInvalidInput      ErrorKind = "InvalidInput"
	KindInvalidTransition ErrorKind = "InvalidTransition"
	KindUnauthorized      ErrorKind = "Unauthorized"
	KindValidation        ErrorKind = "ValidationFailure"
	KindDelivery          ErrorKind = "DeliveryFailure"
	KindRender            ErrorKind = "RenderFailure"
	KindInternal          ErrorKind = "Internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrNotFound, KindNotFound},
	{ErrInvalidInput, KindInvalidInput},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrUnauthorized, KindUnauthorized},
	{ErrValidation, KindValidation},
	{ErrDelivery, KindDelivery},
	{ErrRender, KindRender},
}

// KindOf clasifica un error (posiblemente envuelto con %w). nil → "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
