// Package memory implementa los puertos de repositorio en memoria. Se usa en tests y
// con STORE_DRIVER=memory para levantar la API sin PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// Store guarda todas las entidades detrás de un único mutex. Las lecturas devuelven copias.
type Store struct {
	mu       sync.Mutex
	vendors  map[string]*entity.Vendor
	products map[string]*entity.Product
	pos      map[string]*entity.PurchaseOrder
	logs     []*entity.DownloadLog
}

var _ purchasing.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		vendors:  make(map[string]*entity.Vendor),
		products: make(map[string]*entity.Product),
		pos:      make(map[string]*entity.PurchaseOrder),
	}
}

func (s *Store) Vendors() *VendorRepo { return &VendorRepo{s: s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) PurchaseOrders() *PurchaseOrderRepo { return &PurchaseOrderRepo{s: s} }
func (s *Store) DownloadLogs() *DownloadLogRepo { return &DownloadLogRepo{s: s} }

// Run ejecuta fn con los repositorios del almacén. No hay rollback: un error a mitad de fn
// deja aplicados los cambios previos.
func (s *Store) Run(ctx context.Context, fn func(
	poRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(s.PurchaseOrders(), s.Products())
}

// ─── Vendors ───────────────────────────────────────────────────────────────────

type VendorRepo struct{ s *Store }

var _ repository.VendorRepository = (*VendorRepo)(nil)

func (r *VendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if _, ok := r.s.vendors[v.ID]; ok {
		return fmt.Errorf("%w: proveedor %s ya existe", domain.ErrInvalidInput, v.ID)
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	c := *v
	r.s.vendors[v.ID] = &c
	return nil
}

func (r *VendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.vendors[id]; ok {
		c := *v
		return &c, nil
	}
	for _, v := range r.s.vendors {
		if v.StorageID != "" && v.StorageID == id {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (r *VendorRepo) List(_ context.Context, limit, offset int) ([]*entity.Vendor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Vendor, 0, len(r.s.vendors))
	for _, v := range r.s.vendors {
		c := *v
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *VendorRepo) Update(_ context.Context, v *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[v.ID]; !ok {
		return domain.ErrNotFound
	}
	v.UpdatedAt = time.Now()
	c := *v
	r.s.vendors[v.ID] = &c
	return nil
}

func (r *VendorRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vendors[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.vendors, id)
	return nil
}

// ─── Products ──────────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.s.products[p.ID]; ok {
		return fmt.Errorf("%w: producto %s ya existe", domain.ErrInvalidInput, p.ID)
	}
	if p.POStatus == "" {
		p.POStatus = entity.ProductAvailable
	}
	if p.Unit == "" {
		p.Unit = entity.UnitPiece
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			c := *p
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *ProductRepo) ListByVendor(_ context.Context, vendorID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.VendorID == vendorID {
			c := *p
			list = append(list, &c)
		}
	}
	sortProducts(list)
	return list, nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		c := *p
		list = append(list, &c)
	}
	sortProducts(list)
	return page(list, limit, offset), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func sortProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

// ─── Purchase orders ───────────────────────────────────────────────────────────

type PurchaseOrderRepo struct{ s *Store }

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	if po.Status == "" {
		po.Status = entity.POStatusCreated
	}
	for _, existing := range r.s.pos {
		if existing.ID == po.ID || (po.PONumber != "" && existing.PONumber == po.PONumber) {
			return fmt.Errorf("%w: OC %s duplicada", domain.ErrInvalidInput, po.PONumber)
		}
	}
	for i := range po.Items {
		if po.Items[i].ID == "" {
			po.Items[i].ID = uuid.New().String()
		}
		po.Items[i].POID = po.ID
	}
	po.RecountItems()
	now := time.Now()
	if po.Date.IsZero() {
		po.Date = now
	}
	po.CreatedAt, po.UpdatedAt = now, now
	r.s.pos[po.ID] = clonePO(po)
	return nil
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if po, ok := r.s.pos[id]; ok {
		return clonePO(po), nil
	}
	return nil, nil
}

func (r *PurchaseOrderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.PurchaseOrder
	for _, po := range r.s.pos {
		if f.Status != "" && po.Status != f.Status {
			continue
		}
		if f.VendorID != "" && po.VendorID != f.VendorID {
			continue
		}
		list = append(list, clonePO(po))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].PONumber > list[j].PONumber
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pos[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = po.Status
	cur.ApprovedBy, cur.ApprovedAt = po.ApprovedBy, po.ApprovedAt
	cur.RejectedBy, cur.RejectedAt, cur.RejectionReason = po.RejectedBy, po.RejectedAt, po.RejectionReason
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *PurchaseOrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pos[id]; !ok {
		return fmt.Errorf("%w: OC %s", domain.ErrNotFound, id)
	}
	delete(r.s.pos, id)
	return nil
}

func (r *PurchaseOrderRepo) NextSequence(_ context.Context, year int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prefix := fmt.Sprintf("PO-%d-", year)
	last := 0
	for _, po := range r.s.pos {
		if !strings.HasPrefix(po.PONumber, prefix) {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(po.PONumber, prefix), "%d", &n); err == nil && n > last {
			last = n
		}
	}
	return last + 1, nil
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	if po.ApprovedAt != nil {
		t := *po.ApprovedAt
		c.ApprovedAt = &t
	}
	if po.RejectedAt != nil {
		t := *po.RejectedAt
		c.RejectedAt = &t
	}
	if po.RejectionReason != nil {
		s := *po.RejectionReason
		c.RejectionReason = &s
	}
	return &c
}

// ─── Download logs ─────────────────────────────────────────────────────────────

type DownloadLogRepo struct{ s *Store }

var _ repository.DownloadLogRepository = (*DownloadLogRepo)(nil)

func (r *DownloadLogRepo) Create(_ context.Context, l *entity.DownloadLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.DownloadedAt.IsZero() {
		l.DownloadedAt = time.Now()
	}
	if strings.TrimSpace(l.Location) == "" {
		l.Location = entity.LocationNotSpecified
	}
	c := *l
	r.s.logs = append(r.s.logs, &c)
	return nil
}

func (r *DownloadLogRepo) ListByPO(_ context.Context, poID string) ([]*entity.DownloadLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.DownloadLog
	for _, l := range r.s.logs {
		if l.POID == poID {
			c := *l
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r *DownloadLogRepo) List(_ context.Context, limit, offset int) ([]*entity.DownloadLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.DownloadLog, 0, len(r.s.logs))
	for _, l := range r.s.logs {
		c := *l
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
