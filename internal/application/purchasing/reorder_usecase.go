package purchasing

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// idealStockFactor stock objetivo = punto de reorden × 1.5.
var idealStockFactor = decimal.RequireFromString("1.5")

const scanPageSize = 100

// ReorderSuggestion producto bajo su punto de reorden con la cantidad sugerida para la próxima OC.
type ReorderSuggestion struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	VendorID     string `json:"vendor_id"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
	IdealStock   int    `json:"ideal_stock"`
	SuggestedQty int    `json:"suggested_qty"`
	Priority     int    `json:"priority"` // 1 = más urgente
}

// ReorderUseCase lista de reposición: productos disponibles en o bajo su punto de reorden.
type ReorderUseCase struct {
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewReorderUseCase construye el caso de uso de reposición.
func NewReorderUseCase(productRepo repository.ProductRepository, log *logger.Logger) *ReorderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReorderUseCase{productRepo: productRepo, log: log}
}

// Suggestions devuelve las sugerencias ordenadas por déficit (punto de reorden − stock) descendente.
// vendorID vacío considera todos los proveedores. Productos ya en cola o con OC no se sugieren.
func (uc *ReorderUseCase) Suggestions(ctx context.Context, actor entity.Actor, vendorID string) ([]ReorderSuggestion, error) {
	if err := permission.Check(actor.Role, permission.CreatePO); err != nil {
		return nil, err
	}
	products, err := uc.candidates(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	out := make([]ReorderSuggestion, 0)
	for _, p := range products {
		if !p.NeedsReorder() || (p.POStatus != "" && p.POStatus != entity.ProductAvailable) {
			continue
		}
		ideal := int(decimal.NewFromInt(int64(p.ReorderLevel)).Mul(idealStockFactor).Ceil().IntPart())
		qty := ideal - p.CurrentStock
		if qty <= 0 {
			continue
		}
		out = append(out, ReorderSuggestion{
			ProductID:    p.ID,
			ProductName:  p.Name,
			VendorID:     p.VendorID,
			CurrentStock: p.CurrentStock,
			ReorderLevel: p.ReorderLevel,
			IdealStock:   ideal,
			SuggestedQty: qty,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].ReorderLevel - out[i].CurrentStock
		dj := out[j].ReorderLevel - out[j].CurrentStock
		if di != dj {
			return di > dj
		}
		return out[i].ProductName < out[j].ProductName
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// QueueSuggested encola cada sugerencia del proveedor con su cantidad sugerida.
// Un producto que falle no detiene a los demás.
func (uc *ReorderUseCase) QueueSuggested(ctx context.Context, actor entity.Actor, vendorID string) (*domain.BatchResult, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrInvalidInput)
	}
	suggestions, err := uc.Suggestions(ctx, actor, vendorID)
	if err != nil {
		return nil, err
	}
	res := domain.NewBatchResult()
	for _, s := range suggestions {
		err := uc.queue(ctx, s)
		res.Record(s.ProductID, err)
		if err != nil {
			uc.log.Warn().Err(err).Str("product_id", s.ProductID).Msg("producto no encolado")
		}
	}
	uc.log.Info().
		Str("actor", actor.ID).
		Str("vendor_id", vendorID).
		Int("queued", res.SucceededCount()).
		Int("failed", res.FailedCount()).
		Msg("reposición encolada")
	return res, nil
}

func (uc *ReorderUseCase) queue(ctx context.Context, s ReorderSuggestion) error {
	p, err := uc.productRepo.GetByID(ctx, s.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, s.ProductID)
	}
	if err := p.AdvancePOStatus(entity.ProductQueued); err != nil {
		return err
	}
	p.OrderQuantity = s.SuggestedQty
	p.IncludeInPO = true
	return uc.productRepo.Update(ctx, p)
}

func (uc *ReorderUseCase) candidates(ctx context.Context, vendorID string) ([]*entity.Product, error) {
	if vendorID != "" {
		return uc.productRepo.ListByVendor(ctx, vendorID)
	}
	var all []*entity.Product
	for offset := 0; ; offset += scanPageSize {
		page, err := uc.productRepo.List(ctx, scanPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < scanPageSize {
			return all, nil
		}
	}
}
