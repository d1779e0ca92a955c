package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// CreatePOUseCase arma órdenes de compra a partir de los productos en cola de un proveedor.
type CreatePOUseCase struct {
	tx         TxRunner
	vendorRepo repository.VendorRepository
	productRep repository.ProductRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewCreatePOUseCase construye el caso de uso.
func NewCreatePOUseCase(
	tx TxRunner,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *CreatePOUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreatePOUseCase{
		tx:         tx,
		vendorRepo: vendorRepo,
		productRep: productRepo,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *CreatePOUseCase) WithClock(now func() time.Time) *CreatePOUseCase {
	uc.now = now
	return uc
}

// QueueProduct pone un producto disponible en la cola de la próxima OC con la cantidad indicada.
func (uc *CreatePOUseCase) QueueProduct(ctx context.Context, actor entity.Actor, productID string, qty int) (*entity.Product, error) {
	if err := permission.Check(actor.Role, permission.CreatePO); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	p, err := uc.productRep.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if err := p.AdvancePOStatus(entity.ProductQueued); err != nil {
		return nil, err
	}
	p.OrderQuantity = qty
	p.IncludeInPO = true
	if err := uc.productRep.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateFromQueue crea una OC en estado created con un ítem por producto en cola del proveedor
// (en cola, incluido y con cantidad positiva). Número, cabecera, ítems y avance de los productos
// a po_created se escriben en una sola transacción.
func (uc *CreatePOUseCase) CreateFromQueue(ctx context.Context, actor entity.Actor, vendorID string) (*entity.PurchaseOrder, error) {
	if err := permission.Check(actor.Role, permission.CreatePO); err != nil {
		return nil, err
	}
	if strings.TrimSpace(vendorID) == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrInvalidInput)
	}
	vendor, err := uc.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, vendorID)
	}

	var po *entity.PurchaseOrder
	err = uc.tx.Run(ctx, func(poRepo repository.PurchaseOrderRepository, productRepo repository.ProductRepository) error {
		products, err := productRepo.ListByVendor(ctx, vendor.Key())
		if err != nil {
			return err
		}
		queued := make([]*entity.Product, 0, len(products))
		for _, p := range products {
			if p.InQueue && p.IncludeInPO && p.POStatus == entity.ProductQueued && p.OrderQuantity > 0 {
				queued = append(queued, p)
			}
		}
		if len(queued) == 0 {
			return fmt.Errorf("%w: el proveedor %s no tiene productos en cola", domain.ErrInvalidInput, vendor.Name)
		}

		now := uc.now()
		seq, err := poRepo.NextSequence(ctx, now.Year())
		if err != nil {
			return err
		}
		po = &entity.PurchaseOrder{
			PONumber:   entity.FormatPONumber(now.Year(), seq),
			VendorID:   vendor.Key(),
			VendorName: vendor.Name,
			Date:       now,
			Status:     entity.POStatusCreated,
			CreatedBy:  actor.ID,
			Items:      make([]entity.PurchaseOrderItem, 0, len(queued)),
		}
		for _, p := range queued {
			po.Items = append(po.Items, entity.PurchaseOrderItem{
				ProductID:   p.ID,
				Quantity:    p.OrderQuantity,
				ProductName: p.Name,
				Brand:       p.Brand,
				Category:    p.Category,
				Unit:        p.Unit,
			})
		}
		po.RecountItems()
		if err := po.CheckInvariants(); err != nil {
			return err
		}
		if err := poRepo.Create(ctx, po); err != nil {
			return err
		}
		for _, p := range queued {
			if err := p.AdvancePOStatus(entity.ProductPOCreated); err != nil {
				return err
			}
			if err := productRepo.Update(ctx, p); err != nil {
				return fmt.Errorf("actualizar producto %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("po_number", po.PONumber).
		Str("vendor_id", po.VendorID).
		Int("total_items", po.TotalItems).
		Str("actor", actor.ID).
		Msg("OC creada desde la cola")
	return po, nil
}
