package entity

import "time"

// Vendor representa un proveedor al que se le emiten órdenes de compra.
// ID es el identificador de negocio; StorageID es el id opcional de la capa de
// almacenamiento (registros migrados pueden traer solo uno de los dos).
type Vendor struct {
	ID           string
	StorageID    string
	Name         string
	TaxID        string
	Address      string
	Phone        string
	ContactName  string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Key identificador usado para agrupar y buscar: ID y, si falta, StorageID.
func (v *Vendor) Key() string {
	if v == nil {
		return ""
	}
	if v.ID != "" {
		return v.ID
	}
	return v.StorageID
}
