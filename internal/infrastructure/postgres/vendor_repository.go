package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository (usable con pool o tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, storage_id, name, tax_id, address, phone, contact_name, contact_email, created_at, updated_at`

// Create persiste un nuevo proveedor.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	now := time.Now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		v.ID, nullIfEmpty(v.StorageID), v.Name, v.TaxID, v.Address, v.Phone,
		v.ContactName, v.ContactEmail, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: proveedor %s ya existe", domain.ErrInvalidInput, v.ID)
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID busca por id de negocio o, en su defecto, por storage_id.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors WHERE id = $1 OR storage_id = $1
		ORDER BY (id = $1) DESC LIMIT 1`
	v, err := scanVendor(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// List lista proveedores ordenados por nombre.
func (r *VendorRepo) List(ctx context.Context, limit, offset int) ([]*entity.Vendor, error) {
	limit, offset = normalizePage(limit, offset)
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update actualiza los datos de contacto. La identidad (id, storage_id) no cambia.
func (r *VendorRepo) Update(ctx context.Context, v *entity.Vendor) error {
	v.UpdatedAt = time.Now()
	query := `
		UPDATE vendors
		SET name = $2, tax_id = $3, address = $4, phone = $5,
		    contact_name = $6, contact_email = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.Name, v.TaxID, v.Address, v.Phone, v.ContactName, v.ContactEmail, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un proveedor por ID.
func (r *VendorRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	var storageID *string
	err := row.Scan(
		&v.ID, &storageID, &v.Name, &v.TaxID, &v.Address, &v.Phone,
		&v.ContactName, &v.ContactEmail, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.StorageID = derefStr(storageID)
	return &v, nil
}
