package purchasing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

func po(id, vendorID string) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{ID: id, PONumber: "PO-" + id, VendorID: vendorID}
}

func TestGroupByVendor_OrderAndStorageMerge(t *testing.T) {
	lookup := purchasing.IndexVendors([]*entity.Vendor{
		{ID: "v-1", StorageID: "rec-1", Name: "Acme", ContactEmail: "ventas@acme.co"},
		{ID: "v-2", Name: "Bosch", ContactEmail: "bosch"},
	})
	sel := purchasing.NewSelection(po("1", "v-2"), po("2", "rec-1"), nil, po("3", "ghost"), po("4", "v-2"), po("5", "v-1"))

	groups := purchasing.GroupByVendor(sel, lookup, purchasing.ChannelEmail)
	require.Len(t, groups, 2)

	assert.Equal(t, "v-2", groups[0].Vendor.Key(), "primer proveedor en aparecer va primero")
	assert.Equal(t, []string{"1", "4"}, groups[0].POIDs())
	assert.False(t, groups[0].Valid)
	assert.ErrorIs(t, groups[0].Validate(), domain.ErrValidation)

	assert.Equal(t, "v-1", groups[1].Vendor.Key())
	assert.Equal(t, []string{"2", "5"}, groups[1].POIDs(), "id y storage id del mismo proveedor")
	assert.True(t, groups[1].Valid)
	assert.Equal(t, "ventas@acme.co", groups[1].Contact)
}

func TestGroupByVendor_WhatsAppContactAndOverride(t *testing.T) {
	lookup := purchasing.IndexVendors([]*entity.Vendor{{ID: "v-1", Name: "Acme", Phone: "123"}})
	groups := purchasing.GroupByVendor(purchasing.NewSelection(po("1", "v-1")), lookup, purchasing.ChannelWhatsApp)
	require.Len(t, groups, 1)
	assert.False(t, groups[0].Valid)

	groups[0].SetContact("  +57 300 123 4567 ")
	assert.True(t, groups[0].Valid)
	assert.Equal(t, "+57 300 123 4567", groups[0].Contact)
	assert.NoError(t, groups[0].Validate())
}

func TestGroupByVendor_EmptySelection(t *testing.T) {
	groups := purchasing.GroupByVendor(purchasing.NewSelection(), purchasing.IndexVendors(nil), purchasing.ChannelEmail)
	assert.Empty(t, groups)
}

func TestIndexVendors_IDWinsOverStorageID(t *testing.T) {
	lookup := purchasing.IndexVendors([]*entity.Vendor{
		{ID: "x", Name: "Por id"},
		{ID: "v-2", StorageID: "x", Name: "Por storage"},
	})
	assert.Equal(t, "Por id", lookup("x").Name)
	assert.Equal(t, "Por storage", lookup("v-2").Name)
	assert.Nil(t, lookup("nope"))
}
