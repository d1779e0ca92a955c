package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
)

// Unidades de medida de un producto.
const (
	UnitPiece = "piece"
	UnitBox   = "box"
)

// Estado del producto respecto a la generación de órdenes de compra.
// Solo avanza: available → queued → po_created.
const (
	ProductAvailable = "available"
	ProductQueued    = "queued"
	ProductPOCreated = "po_created"
)

var poStatusRank = map[string]int{
	ProductAvailable: 0,
	ProductQueued:    1,
	ProductPOCreated: 2,
}

// Product representa un producto reabastecido a través de un proveedor.
type Product struct {
	ID            string
	Name          string
	Brand         string
	Category      string
	VendorID      string
	Unit          string // piece | box
	CurrentStock  int
	ReorderLevel  int
	OrderQuantity int  // cantidad por defecto / en cola para la próxima OC
	IncludeInPO   bool // incluir al generar la OC
	InQueue       bool
	POStatus      string // available | queued | po_created
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AdvancePOStatus mueve el estado hacia adelante. Retroceder (o repetir) es ErrInvalidTransition;
// el reinicio administrativo no pasa por aquí.
func (p *Product) AdvancePOStatus(next string) error {
	to, ok := poStatusRank[next]
	if !ok {
		return fmt.Errorf("%w: estado de producto desconocido %q", domain.ErrInvalidInput, next)
	}
	from := poStatusRank[p.POStatus]
	if to <= from {
		return fmt.Errorf("%w: producto %s de %s a %s", domain.ErrInvalidTransition, p.ID, p.POStatus, next)
	}
	p.POStatus = next
	p.InQueue = next == ProductQueued
	return nil
}

// NeedsReorder indica si el stock actual está en o por debajo del punto de reorden.
func (p *Product) NeedsReorder() bool {
	return p.CurrentStock <= p.ReorderLevel
}
