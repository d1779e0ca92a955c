package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para Vendor.
// GetByID devuelve (nil, nil) si no existe; acepta el ID de negocio o el StorageID.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	Delete(ctx context.Context, id string) error
}
