package purchasing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

func seedStock(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Vendors().Create(ctx, &entity.Vendor{ID: "v-1", Name: "Acme"}))
	require.NoError(t, store.Vendors().Create(ctx, &entity.Vendor{ID: "v-2", Name: "Bosch"}))
	for _, p := range []*entity.Product{
		{ID: "a", Name: "Tornillo", VendorID: "v-1", CurrentStock: 2, ReorderLevel: 10},
		{ID: "b", Name: "Tuerca", VendorID: "v-1", CurrentStock: 9, ReorderLevel: 10},
		{ID: "c", Name: "Taladro", VendorID: "v-1", CurrentStock: 20, ReorderLevel: 10},
		{ID: "d", Name: "Broca", VendorID: "v-1", CurrentStock: 0, ReorderLevel: 5, POStatus: entity.ProductQueued, InQueue: true},
		{ID: "e", Name: "Lija", VendorID: "v-2", CurrentStock: 0, ReorderLevel: 3},
		{ID: "f", Name: "Sin reorden", VendorID: "v-2"},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}
	return store
}

func TestSuggestions_AllVendorsByDeficit(t *testing.T) {
	uc := purchasing.NewReorderUseCase(seedStock(t).Products(), nil)

	out, err := uc.Suggestions(context.Background(), creator, "")
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "a", out[0].ProductID)
	assert.Equal(t, 15, out[0].IdealStock)
	assert.Equal(t, 13, out[0].SuggestedQty)
	assert.Equal(t, 1, out[0].Priority)

	assert.Equal(t, "e", out[1].ProductID)
	assert.Equal(t, 5, out[1].IdealStock, "3 × 1.5 se redondea hacia arriba")
	assert.Equal(t, 5, out[1].SuggestedQty)

	assert.Equal(t, "b", out[2].ProductID)
	assert.Equal(t, 6, out[2].SuggestedQty)
	assert.Equal(t, 3, out[2].Priority)
}

func TestSuggestions_RequiresCreatePermission(t *testing.T) {
	uc := purchasing.NewReorderUseCase(seedStock(t).Products(), nil)
	_, err := uc.Suggestions(context.Background(), approver, "v-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestQueueSuggested_FeedsCreateFromQueue(t *testing.T) {
	store := seedStock(t)
	ctx := context.Background()
	reorder := purchasing.NewReorderUseCase(store.Products(), nil)

	res, err := reorder.QueueSuggested(ctx, creator, "v-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Succeeded)

	again, err := reorder.Suggestions(ctx, creator, "v-1")
	require.NoError(t, err)
	assert.Empty(t, again, "los productos encolados ya no se sugieren")

	po, err := newCreateUC(store).CreateFromQueue(ctx, creator, "v-1")
	require.NoError(t, err)
	qty := map[string]int{}
	for _, it := range po.Items {
		qty[it.ProductID] = it.Quantity
	}
	assert.Equal(t, 13, qty["a"])
	assert.Equal(t, 6, qty["b"])
	assert.NotContains(t, qty, "d", "d está en cola sin cantidad")
}

func TestQueueSuggested_VendorRequired(t *testing.T) {
	uc := purchasing.NewReorderUseCase(seedStock(t).Products(), nil)
	_, err := uc.QueueSuggested(context.Background(), creator, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
