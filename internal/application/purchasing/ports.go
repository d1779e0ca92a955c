package purchasing

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// La creación de OC lo usa para que número, ítems y avance de productos sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}
