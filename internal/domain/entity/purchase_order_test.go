package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

var now = time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)

func newPO() *entity.PurchaseOrder {
	po := &entity.PurchaseOrder{
		PONumber: "PO-2024-001",
		Status:   entity.POStatusCreated,
		Items:    []entity.PurchaseOrderItem{{ProductID: "p-1", Quantity: 2}},
	}
	po.RecountItems()
	return po
}

func TestFormatPONumber(t *testing.T) {
	assert.Equal(t, "PO-2024-001", entity.FormatPONumber(2024, 1))
	assert.Equal(t, "PO-2024-1234", entity.FormatPONumber(2024, 1234))
}

func TestApprove(t *testing.T) {
	po := newPO()
	require.NoError(t, po.Approve("u-1", now))
	assert.Equal(t, entity.POStatusApproved, po.Status)
	assert.Equal(t, "u-1", po.ApprovedBy)
	assert.Equal(t, now, *po.ApprovedAt)
	assert.Nil(t, po.RejectedAt)
	assert.NoError(t, po.CheckInvariants())

	err := po.Approve("u-2", now.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "u-1", po.ApprovedBy, "un fallo no modifica la OC")
}

func TestReject(t *testing.T) {
	po := newPO()
	require.NoError(t, po.Reject("u-1", nil, now))
	assert.Equal(t, entity.POStatusRejected, po.Status)
	assert.Nil(t, po.RejectionReason)
	assert.NoError(t, po.CheckInvariants())

	assert.ErrorIs(t, po.Approve("u-1", now), domain.ErrInvalidTransition, "rechazada es terminal")
	assert.ErrorIs(t, po.Reject("u-1", nil, now), domain.ErrInvalidTransition)
}

func TestCheckInvariants(t *testing.T) {
	po := newPO()
	assert.NoError(t, po.CheckInvariants())

	po.TotalItems = 5
	assert.ErrorIs(t, po.CheckInvariants(), domain.ErrInvalidInput)

	po = newPO()
	po.ApprovedAt = &now
	assert.ErrorIs(t, po.CheckInvariants(), domain.ErrInvalidInput, "created con approved_at")

	po = newPO()
	po.Status = entity.POStatusApproved
	po.ApprovedAt, po.RejectedAt = &now, &now
	assert.ErrorIs(t, po.CheckInvariants(), domain.ErrInvalidInput, "approved_at y rejected_at son excluyentes")

	po = newPO()
	po.Items[0].Quantity = 0
	assert.ErrorIs(t, po.CheckInvariants(), domain.ErrInvalidInput)

	po = newPO()
	po.Status = "archived"
	assert.ErrorIs(t, po.CheckInvariants(), domain.ErrInvalidInput)
}
