package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository. Cabecera e ítems se escriben
// en una misma transacción; con una tx externa Begin abre un savepoint.
type PurchaseOrderRepo struct {
	db DB
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx.
func NewPurchaseOrderRepository(db DB) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{db: db}
}

const poColumns = `id, po_number, vendor_id, vendor_name, date, total_items, status, created_by,
		       approved_by, approved_at, rejected_by, rejected_at, rejection_reason, created_at, updated_at`

const poItemColumns = `id, po_id, product_id, quantity, product_name, brand, category, unit`

// Create persiste la cabecera y sus ítems. total_items se recalcula antes de escribir.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	if po.Status == "" {
		po.Status = entity.POStatusCreated
	}
	po.RecountItems()
	now := time.Now()
	if po.Date.IsZero() {
		po.Date = now
	}
	po.CreatedAt, po.UpdatedAt = now, now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = tx.Exec(ctx, query,
		po.ID, po.PONumber, po.VendorID, nullIfEmpty(po.VendorName), po.Date, po.TotalItems, po.Status, po.CreatedBy,
		nullIfEmpty(po.ApprovedBy), po.ApprovedAt, nullIfEmpty(po.RejectedBy), po.RejectedAt, po.RejectionReason,
		po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de OC %s duplicado", domain.ErrInvalidInput, po.PONumber)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}

	itemQuery := `INSERT INTO purchase_order_items (` + poItemColumns + `, position) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range po.Items {
		it := &po.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.POID = po.ID
		_, err = tx.Exec(ctx, itemQuery,
			it.ID, it.POID, it.ProductID, it.Quantity,
			nullIfEmpty(it.ProductName), nullIfEmpty(it.Brand), nullIfEmpty(it.Category), nullIfEmpty(it.Unit), i,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene la OC con sus ítems; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPurchaseOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.listItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

// List lista OCs (sin ítems) filtrando por estado y proveedor, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset)
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.VendorID != "" {
		args = append(args, filter.VendorID)
		conds = append(conds, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	query := `SELECT ` + poColumns + ` FROM purchase_orders`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY date DESC, po_number DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

// Update persiste estado y auditoría. Número, proveedor e ítems no se reescriben.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.UpdatedAt.IsZero() {
		po.UpdatedAt = time.Now()
	}
	query := `
		UPDATE purchase_orders
		SET status = $2, approved_by = $3, approved_at = $4, rejected_by = $5, rejected_at = $6,
		    rejection_reason = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		po.ID, po.Status, nullIfEmpty(po.ApprovedBy), po.ApprovedAt, nullIfEmpty(po.RejectedBy), po.RejectedAt,
		po.RejectionReason, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina los ítems y la cabecera en una transacción.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_items WHERE po_id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase order items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: OC %s", domain.ErrNotFound, id)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NextSequence siguiente consecutivo del año a partir del mayor PO-<año>-NNN existente.
func (r *PurchaseOrderRepo) NextSequence(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(split_part(po_number, '-', 3) AS INT)), 0) + 1
		FROM purchase_orders
		WHERE po_number LIKE $1`
	var next int
	if err := r.db.QueryRow(ctx, query, fmt.Sprintf("PO-%d-%%", year)).Scan(&next); err != nil {
		return 0, fmt.Errorf("next po sequence: %w", err)
	}
	return next, nil
}

func (r *PurchaseOrderRepo) listItems(ctx context.Context, poID string) ([]entity.PurchaseOrderItem, error) {
	query := `SELECT ` + poItemColumns + ` FROM purchase_order_items WHERE po_id = $1 ORDER BY position, id`
	rows, err := r.db.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		var name, brand, category, unit *string
		if err := rows.Scan(&it.ID, &it.POID, &it.ProductID, &it.Quantity, &name, &brand, &category, &unit); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		it.ProductName, it.Brand, it.Category, it.Unit = derefStr(name), derefStr(brand), derefStr(category), derefStr(unit)
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		po                                 entity.PurchaseOrder
		vendorName, approvedBy, rejectedBy *string
	)
	err := row.Scan(
		&po.ID, &po.PONumber, &po.VendorID, &vendorName, &po.Date, &po.TotalItems, &po.Status, &po.CreatedBy,
		&approvedBy, &po.ApprovedAt, &rejectedBy, &po.RejectedAt, &po.RejectionReason, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	po.VendorName = derefStr(vendorName)
	po.ApprovedBy = derefStr(approvedBy)
	po.RejectedBy = derefStr(rejectedBy)
	return &po, nil
}
