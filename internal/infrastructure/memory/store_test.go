package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorRepo_LookupByStorageID(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Vendors().Create(ctx, &entity.Vendor{ID: "v-1", StorageID: "rec-1", Name: "Acme"}))

	v, err := s.Vendors().GetByID(ctx, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "v-1", v.ID)

	missing, err := s.Vendors().GetByID(ctx, "nada")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	err = s.Vendors().Create(ctx, &entity.Vendor{ID: "v-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseOrderRepo_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().PurchaseOrders()
	po := &entity.PurchaseOrder{
		PONumber: "PO-2024-001",
		VendorID: "v-1",
		Items:    []entity.PurchaseOrderItem{{ProductID: "p-1", Quantity: 2}},
	}
	require.NoError(t, repo.Create(ctx, po))
	assert.Equal(t, entity.POStatusCreated, po.Status)
	assert.Equal(t, 1, po.TotalItems)

	got, err := repo.GetByID(ctx, po.ID)
	require.NoError(t, err)
	got.Status = entity.POStatusApproved
	got.Items[0].Quantity = 99

	again, err := repo.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCreated, again.Status)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestPurchaseOrderRepo_ListAndSequence(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().PurchaseOrders()
	d1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{PONumber: "PO-2024-001", VendorID: "v-1", Date: d1}))
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{PONumber: "PO-2024-007", VendorID: "v-2", Date: d2}))
	require.NoError(t, repo.Create(ctx, &entity.PurchaseOrder{PONumber: "PO-2023-050", VendorID: "v-1", Date: d1}))

	err := repo.Create(ctx, &entity.PurchaseOrder{PONumber: "PO-2024-001"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := repo.List(ctx, repository.PurchaseOrderFilter{VendorID: "v-1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PO-2024-001", list[0].PONumber)

	list, err = repo.List(ctx, repository.PurchaseOrderFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "PO-2024-007", list[0].PONumber, "más reciente primero")

	next, err := repo.NextSequence(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 8, next)
	next, err = repo.NextSequence(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestPurchaseOrderRepo_UpdateDeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().PurchaseOrders()

	assert.ErrorIs(t, repo.Update(ctx, &entity.PurchaseOrder{ID: "x"}), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "x"), domain.ErrNotFound)
}

func TestDownloadLogRepo_AppendOnly(t *testing.T) {
	ctx := context.Background()
	logs := memory.NewStore().DownloadLogs()
	require.NoError(t, logs.Create(ctx, &entity.DownloadLog{POID: "po-1", Actor: "u-1", Location: "  "}))
	require.NoError(t, logs.Create(ctx, &entity.DownloadLog{POID: "po-2", Actor: "u-1", Location: "Bodega 2"}))
	require.NoError(t, logs.Create(ctx, &entity.DownloadLog{POID: "po-1", Actor: "u-2", Location: "Oficina"}))

	byPO, err := logs.ListByPO(ctx, "po-1")
	require.NoError(t, err)
	require.Len(t, byPO, 2)
	assert.Equal(t, entity.LocationNotSpecified, byPO[0].Location)
	assert.Equal(t, "Oficina", byPO[1].Location)
	assert.False(t, byPO[0].DownloadedAt.IsZero())

	all, err := logs.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "po-2", all[0].POID)

	empty, err := logs.List(ctx, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRun_UsesSameStore(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p-1", VendorID: "v-1"}))

	err := s.Run(ctx, func(poRepo repository.PurchaseOrderRepository, productRepo repository.ProductRepository) error {
		p, err := productRepo.GetByID(ctx, "p-1")
		if err != nil {
			return err
		}
		p.OrderQuantity = 4
		return productRepo.Update(ctx, p)
	})
	require.NoError(t, err)

	p, err := s.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.OrderQuantity)
}
