package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros de listado. Status vacío = todos.
type PurchaseOrderFilter struct {
	Status   string
	VendorID string
	Limit    int
	Offset   int
}

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder e ítems.
type PurchaseOrderRepository interface {
	// Create persiste cabecera e ítems juntos.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID devuelve la OC con sus ítems, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	// Update actualiza estado y campos de auditoría (nunca número ni ítems).
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	// Delete elimina la OC y sus ítems. Devuelve domain.ErrNotFound si no existía.
	Delete(ctx context.Context, id string) error
	// NextSequence siguiente consecutivo del año para PO-<año>-<secuencia>.
	NextSequence(ctx context.Context, year int) (int, error)
}
