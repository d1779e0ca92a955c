package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
)

// Estados de una orden de compra. approved y rejected son terminales.
const (
	POStatusCreated  = "created"
	POStatusApproved = "approved"
	POStatusRejected = "rejected"
)

// PurchaseOrder cabecera de una orden de compra con sus ítems.
// VendorName es una copia opcional tomada al crear la OC; si está vacía se busca el proveedor.
type PurchaseOrder struct {
	ID              string
	PONumber        string // PO-<año>-<secuencia>, asignado una sola vez
	VendorID        string
	VendorName      string
	Date            time.Time
	TotalItems      int
	Status          string
	Items           []PurchaseOrderItem
	CreatedBy       string
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectedBy      string
	RejectedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PurchaseOrderItem línea de la OC. Los campos de producto son una copia opcional;
// vacíos significa "resolver contra el catálogo".
type PurchaseOrderItem struct {
	ID          string
	POID        string
	ProductID   string
	Quantity    int
	ProductName string
	Brand       string
	Category    string
	Unit        string
}

// FormatPONumber arma el número legible: PO-2024-001.
func FormatPONumber(year, seq int) string {
	return fmt.Sprintf("PO-%d-%03d", year, seq)
}

// Approve aplica la transición created → approved.
func (po *PurchaseOrder) Approve(actorID string, now time.Time) error {
	if po.Status != POStatusCreated {
		return fmt.Errorf("%w: no se puede aprobar la OC %s en estado %s", domain.ErrInvalidTransition, po.PONumber, po.Status)
	}
	po.Status = POStatusApproved
	po.ApprovedBy = actorID
	po.ApprovedAt = &now
	po.UpdatedAt = now
	return nil
}

// Reject aplica la transición created → rejected. reason nil deja el motivo en NULL.
func (po *PurchaseOrder) Reject(actorID string, reason *string, now time.Time) error {
	if po.Status != POStatusCreated {
		return fmt.Errorf("%w: no se puede rechazar la OC %s en estado %s", domain.ErrInvalidTransition, po.PONumber, po.Status)
	}
	po.Status = POStatusRejected
	po.RejectedBy = actorID
	po.RejectedAt = &now
	po.RejectionReason = reason
	po.UpdatedAt = now
	return nil
}

// RecountItems sincroniza TotalItems con len(Items).
func (po *PurchaseOrder) RecountItems() {
	po.TotalItems = len(po.Items)
}

// CheckInvariants verifica total_items == len(items) y la exclusión approved_at/rejected_at.
func (po *PurchaseOrder) CheckInvariants() error {
	if po.TotalItems != len(po.Items) {
		return fmt.Errorf("%w: total_items=%d pero hay %d ítems", domain.ErrInvalidInput, po.TotalItems, len(po.Items))
	}
	switch po.Status {
	case POStatusCreated:
		if po.ApprovedAt != nil || po.RejectedAt != nil {
			return fmt.Errorf("%w: OC en created con fecha de aprobación/rechazo", domain.ErrInvalidInput)
		}
	case POStatusApproved:
		if po.ApprovedAt == nil || po.RejectedAt != nil {
			return fmt.Errorf("%w: OC aprobada sin approved_at exclusivo", domain.ErrInvalidInput)
		}
	case POStatusRejected:
		if po.RejectedAt == nil || po.ApprovedAt != nil {
			return fmt.Errorf("%w: OC rechazada sin rejected_at exclusivo", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: estado de OC desconocido %q", domain.ErrInvalidInput, po.Status)
	}
	for _, it := range po.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: ítem %s con cantidad %d", domain.ErrInvalidInput, it.ProductID, it.Quantity)
		}
	}
	return nil
}
