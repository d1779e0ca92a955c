package purchasing

import (
	"fmt"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// Valores de reemplazo cuando una referencia no se resuelve.
const (
	UnknownProduct = "Unknown Product"
	UnknownVendor  = "Unknown Vendor"
	NoValue        = "-"
	DefaultUnit    = "pcs"
)

// Formatos de exportación.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

const isoDate = "2006-01-02"

// SnapshotRow fila de ítem ya resuelta.
type SnapshotRow struct {
	ProductName string
	Brand       string
	Category    string
	Unit        string
	Quantity    int
}

// Snapshot vista inmutable de una OC. PDF, XLSX y mensajes se generan solo desde aquí
// para que los valores nunca difieran entre formatos.
type Snapshot struct {
	POID       string
	PONumber   string
	Date       time.Time
	VendorName string
	Status     string
	ApprovedAt *time.Time
	Rows       []SnapshotRow
	TotalItems int
}

// ProductLookup resuelve un producto por id; nil si no existe.
type ProductLookup func(productID string) *entity.Product

// BuildSnapshot resuelve proveedor e ítems. Orden de resolución: copia embebida en la OC,
// luego búsqueda en vivo, luego valor de reemplazo. Nunca falla por referencias faltantes.
func BuildSnapshot(po *entity.PurchaseOrder, vendor *entity.Vendor, products ProductLookup) Snapshot {
	s := Snapshot{
		POID:       po.ID,
		PONumber:   po.PONumber,
		Date:       po.Date,
		VendorName: vendorName(po, vendor),
		Status:     po.Status,
		ApprovedAt: po.ApprovedAt,
		Rows:       make([]SnapshotRow, 0, len(po.Items)),
	}
	for _, it := range po.Items {
		var p *entity.Product
		if products != nil {
			p = products(it.ProductID)
		}
		s.Rows = append(s.Rows, resolveRow(it, p))
	}
	s.TotalItems = len(s.Rows)
	return s
}

func vendorName(po *entity.PurchaseOrder, vendor *entity.Vendor) string {
	if po.VendorName != "" {
		return po.VendorName
	}
	if vendor != nil && vendor.Name != "" {
		return vendor.Name
	}
	return UnknownVendor
}

func resolveRow(it entity.PurchaseOrderItem, p *entity.Product) SnapshotRow {
	row := SnapshotRow{Quantity: it.Quantity}
	switch {
	case it.ProductName != "":
		row.ProductName = it.ProductName
		row.Brand = firstNonEmpty(it.Brand, brandOf(p))
		row.Category = firstNonEmpty(it.Category, categoryOf(p))
		unit := it.Unit
		if unit == "" {
			unit = unitOf(p)
		}
		row.Unit = DisplayUnit(unit)
	case p != nil:
		row.ProductName = firstNonEmpty(p.Name, UnknownProduct)
		row.Brand = firstNonEmpty(p.Brand, NoValue)
		row.Category = firstNonEmpty(p.Category, NoValue)
		row.Unit = DisplayUnit(p.Unit)
	default:
		row.ProductName = UnknownProduct
		row.Brand = NoValue
		row.Category = NoValue
		row.Unit = DefaultUnit
	}
	return row
}

// DisplayUnit convierte la unidad del catálogo a su abreviatura impresa.
func DisplayUnit(unit string) string {
	switch unit {
	case entity.UnitBox:
		return "box"
	case entity.UnitPiece, "", DefaultUnit:
		return DefaultUnit
	default:
		return unit
	}
}

// DateLabel fecha de la OC en formato ISO.
func (s Snapshot) DateLabel() string {
	return s.Date.Format(isoDate)
}

// ApprovalLabel fecha de aprobación o "-".
func (s Snapshot) ApprovalLabel() string {
	if s.ApprovedAt == nil {
		return NoValue
	}
	return s.ApprovedAt.Format(isoDate)
}

// DocumentFilename contrato de nombre: PO-<po_number>-<YYYY-MM-DD>.<ext>.
func DocumentFilename(poNumber string, date time.Time, format string) string {
	return fmt.Sprintf("PO-%s-%s.%s", poNumber, date.Format(isoDate), format)
}

// Filename nombre del documento de este snapshot en el formato indicado.
func (s Snapshot) Filename(format string) string {
	return DocumentFilename(s.PONumber, s.Date, format)
}

// BulkArchiveName nombre del ZIP de exportación masiva: PO-Bulk-Download-<hoy>.zip.
func BulkArchiveName(today time.Time) string {
	return fmt.Sprintf("PO-Bulk-Download-%s.zip", today.Format(isoDate))
}

// ValidFormat indica si el formato de exportación es soportado.
func ValidFormat(format string) bool {
	return format == FormatPDF || format == FormatXLSX
}

func brandOf(p *entity.Product) string {
	if p == nil {
		return ""
	}
	return p.Brand
}

func categoryOf(p *entity.Product) string {
	if p == nil {
		return ""
	}
	return p.Category
}

func unitOf(p *entity.Product) string {
	if p == nil {
		return ""
	}
	return p.Unit
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return NoValue
}
