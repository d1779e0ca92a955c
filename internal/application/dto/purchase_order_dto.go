package dto

import (
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// QueueProductRequest marca un producto para la próxima OC de su proveedor.
type QueueProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// QueuedProductResponse estado del producto después de encolarlo.
type QueuedProductResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	VendorID      string `json:"vendor_id"`
	OrderQuantity int    `json:"order_quantity"`
	POStatus      string `json:"po_status"`
}

// CreatePORequest genera una OC con los productos en cola del proveedor.
type CreatePORequest struct {
	VendorID string `json:"vendor_id" validate:"required"`
}

// RejectPORequest motivo opcional; vacío se guarda como null.
type RejectPORequest struct {
	Reason *string `json:"reason"`
}

// BulkPORequest ids de OC para operaciones en lote.
type BulkPORequest struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Reason *string  `json:"reason,omitempty"` // solo bulk/reject
}

// POItemResponse línea de la OC.
type POItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"product_name,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// POResponse salida de una orden de compra.
type POResponse struct {
	ID              string           `json:"id"`
	PONumber        string           `json:"po_number"`
	VendorID        string           `json:"vendor_id"`
	VendorName      string           `json:"vendor_name,omitempty"`
	Date            time.Time        `json:"date"`
	TotalItems      int              `json:"total_items"`
	Status          string           `json:"status"`
	CreatedBy       string           `json:"created_by,omitempty"`
	ApprovedBy      string           `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at"`
	RejectedBy      string           `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at"`
	RejectionReason *string          `json:"rejection_reason"`
	Items           []POItemResponse `json:"items,omitempty"`
}

// POListResponse lista paginada de OC.
type POListResponse struct {
	Items []POResponse `json:"items"`
	Page  PageResponse `json:"page"`
}

// BatchResponse resultado de una operación en lote; siempre 200.
type BatchResponse struct {
	Succeeded    int                   `json:"succeeded"`
	Failed       int                   `json:"failed"`
	SucceededIDs []string              `json:"succeeded_ids"`
	FailedItems  []domain.BatchFailure `json:"failed_items"`
}

// ExportRequest exportación de una o varias OC.
type ExportRequest struct {
	POIDs    []string `json:"po_ids" validate:"required,min=1"`
	Format   string   `json:"format" validate:"required,oneof=pdf xlsx"`
	Location string   `json:"location"`
}

// DownloadLogResponse registro de descarga.
type DownloadLogResponse struct {
	ID           string    `json:"id"`
	POID         string    `json:"po_id"`
	DownloadedBy string    `json:"downloaded_by"`
	DownloadedAt time.Time `json:"downloaded_at"`
	Location     string    `json:"location"`
}

// DownloadLogListResponse historial global paginado.
type DownloadLogListResponse struct {
	Items []DownloadLogResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CapabilitiesResponse capacidades del rol del token. Action/Allowed solo si se consultó ?action=.
type CapabilitiesResponse struct {
	UserID  string   `json:"user_id"`
	Role    string   `json:"role"`
	Actions []string `json:"actions"`
	Action  string   `json:"action,omitempty"`
	Allowed *bool    `json:"allowed,omitempty"`
}

// NotifyRequest notificación a proveedores. Contacts reemplaza el destino por id de proveedor.
type NotifyRequest struct {
	POIDs    []string          `json:"po_ids" validate:"required,min=1"`
	Contacts map[string]string `json:"contacts,omitempty"`
}

// EmailNotifyResponse OC descartadas al cargar y resultado de entrega por proveedor.
type EmailNotifyResponse struct {
	Skipped   BatchResponse `json:"skipped"`
	Delivered BatchResponse `json:"delivered"`
}

// WhatsAppLinkResponse enlace a abrir DelayMS milisegundos después del primero.
type WhatsAppLinkResponse struct {
	VendorID string `json:"vendor_id"`
	Phone    string `json:"phone"`
	DelayMS  int64  `json:"delay_ms"`
	URL      string `json:"url"`
}

// WhatsAppNotifyResponse plan de enlaces más los grupos y OC descartados.
type WhatsAppNotifyResponse struct {
	Links   []WhatsAppLinkResponse `json:"links"`
	Skipped BatchResponse          `json:"skipped"`
	Planned BatchResponse          `json:"planned"`
}

// FromPurchaseOrder mapea la entidad a su salida HTTP.
func FromPurchaseOrder(po *entity.PurchaseOrder) POResponse {
	out := POResponse{
		ID:              po.ID,
		PONumber:        po.PONumber,
		VendorID:        po.VendorID,
		VendorName:      po.VendorName,
		Date:            po.Date,
		TotalItems:      po.TotalItems,
		Status:          po.Status,
		CreatedBy:       po.CreatedBy,
		ApprovedBy:      po.ApprovedBy,
		ApprovedAt:      po.ApprovedAt,
		RejectedBy:      po.RejectedBy,
		RejectedAt:      po.RejectedAt,
		RejectionReason: po.RejectionReason,
	}
	for _, it := range po.Items {
		out.Items = append(out.Items, POItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			ProductName: it.ProductName,
			Brand:       it.Brand,
			Category:    it.Category,
			Unit:        it.Unit,
		})
	}
	return out
}

// FromBatch mapea un resultado de lote; nil produce listas vacías.
func FromBatch(res *domain.BatchResult) BatchResponse {
	if res == nil {
		res = domain.NewBatchResult()
	}
	return BatchResponse{
		Succeeded:    res.SucceededCount(),
		Failed:       res.FailedCount(),
		SucceededIDs: res.Succeeded,
		FailedItems:  res.Failed,
	}
}

// FromDownloadLog mapea un registro de descarga.
func FromDownloadLog(l *entity.DownloadLog) DownloadLogResponse {
	return DownloadLogResponse{
		ID:           l.ID,
		POID:         l.POID,
		DownloadedBy: l.Actor,
		DownloadedAt: l.DownloadedAt,
		Location:     l.Location,
	}
}
