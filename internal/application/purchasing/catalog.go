package purchasing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	domainpo "github.com/jhoicas/Compras-api/internal/domain/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// Catalog carga OCs y resuelve proveedor y productos para armar snapshots.
// Lo comparten exportación y notificaciones.
type Catalog struct {
	poRepo      repository.PurchaseOrderRepository
	vendorRepo  repository.VendorRepository
	productRepo repository.ProductRepository
}

// NewCatalog construye el catálogo.
func NewCatalog(
	poRepo repository.PurchaseOrderRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
) *Catalog {
	return &Catalog{poRepo: poRepo, vendorRepo: vendorRepo, productRepo: productRepo}
}

// Order obtiene la OC con ítems o ErrNotFound.
func (c *Catalog) Order(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id de OC vacío", domain.ErrInvalidInput)
	}
	po, err := c.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: OC %s", domain.ErrNotFound, id)
	}
	return po, nil
}

// Vendor busca el proveedor; nil si no existe.
func (c *Catalog) Vendor(ctx context.Context, id string) (*entity.Vendor, error) {
	if id == "" {
		return nil, nil
	}
	return c.vendorRepo.GetByID(ctx, id)
}

// Snapshot resuelve proveedor y productos de la OC. Referencias faltantes quedan como
// valores de reemplazo; solo los errores de almacenamiento se propagan.
func (c *Catalog) Snapshot(ctx context.Context, po *entity.PurchaseOrder) (domainpo.Snapshot, error) {
	vendor, err := c.Vendor(ctx, po.VendorID)
	if err != nil {
		return domainpo.Snapshot{}, fmt.Errorf("buscar proveedor: %w", err)
	}
	ids := make([]string, 0, len(po.Items))
	for _, it := range po.Items {
		ids = append(ids, it.ProductID)
	}
	var products []*entity.Product
	if len(ids) > 0 {
		products, err = c.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return domainpo.Snapshot{}, fmt.Errorf("buscar productos: %w", err)
		}
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return domainpo.BuildSnapshot(po, vendor, func(id string) *entity.Product { return byID[id] }), nil
}

// VendorLookup precarga los proveedores de las OCs y devuelve una búsqueda por id o storage id.
// Un proveedor inexistente queda fuera de la búsqueda aunque la OC traiga nombre embebido;
// ese nombre solo se usa al armar el snapshot.
func (c *Catalog) VendorLookup(ctx context.Context, orders []*entity.PurchaseOrder) (domainpo.VendorLookup, error) {
	seen := make(map[string]bool)
	var vendors []*entity.Vendor
	for _, po := range orders {
		if po == nil || seen[po.VendorID] {
			continue
		}
		seen[po.VendorID] = true
		v, err := c.Vendor(ctx, po.VendorID)
		if err != nil {
			return nil, fmt.Errorf("buscar proveedor %s: %w", po.VendorID, err)
		}
		if v != nil {
			vendors = append(vendors, v)
		}
	}
	return domainpo.IndexVendors(vendors), nil
}
