package notify_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/notify"
	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var approver = entity.Actor{ID: "approver-1", Role: entity.RoleApprovalAdmin}

type fakeMailer struct {
	sent   []notify.EmailMessage
	failTo string
}

func (m *fakeMailer) Send(_ context.Context, msg notify.EmailMessage) error {
	if msg.To == m.failTo {
		return errors.New("smtp 550")
	}
	m.sent = append(m.sent, msg)
	return nil
}

// seedNotifyStore: dos proveedores; v-1 con dos OC aprobadas, v-2 con una aprobada y una creada.
// E y F apuntan a proveedores inexistentes (F con nombre embebido).
func seedNotifyStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Vendors().Create(ctx, &entity.Vendor{
		ID: "v-1", StorageID: "rec-v1", Name: "Acme", ContactEmail: "ventas@acme.co", Phone: "+57 300 123 4567",
	}))
	require.NoError(t, store.Vendors().Create(ctx, &entity.Vendor{
		ID: "v-2", Name: "Bosch", ContactEmail: "bosch@", Phone: "123",
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", Name: "Tornillo", VendorID: "v-1"}))

	approved := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	orders := []*entity.PurchaseOrder{
		{ID: "A", PONumber: "PO-2024-001", VendorID: "v-1", Status: entity.POStatusApproved, ApprovedAt: &approved,
			Items: []entity.PurchaseOrderItem{{ProductID: "p-1", Quantity: 3}}},
		{ID: "B", PONumber: "PO-2024-002", VendorID: "v-2", Status: entity.POStatusApproved, ApprovedAt: &approved,
			Items: []entity.PurchaseOrderItem{{ProductID: "x", Quantity: 1}}},
		{ID: "C", PONumber: "PO-2024-003", VendorID: "rec-v1", Status: entity.POStatusApproved, ApprovedAt: &approved,
			Items: []entity.PurchaseOrderItem{{ProductID: "p-1", Quantity: 8}}},
		{ID: "D", PONumber: "PO-2024-004", VendorID: "v-2", Status: entity.POStatusCreated},
		{ID: "E", PONumber: "PO-2024-005", VendorID: "ghost", Status: entity.POStatusApproved, ApprovedAt: &approved},
		{ID: "F", PONumber: "PO-2024-006", VendorID: "deleted-vendor", VendorName: "Gone SA",
			Status: entity.POStatusApproved, ApprovedAt: &approved},
	}
	for _, po := range orders {
		require.NoError(t, store.PurchaseOrders().Create(ctx, po))
	}
	return store
}

func newNotifyUC(store *memory.Store, mailer notify.EmailSender) *notify.UseCase {
	catalog := apppurchasing.NewCatalog(store.PurchaseOrders(), store.Vendors(), store.Products())
	return notify.NewUseCase(catalog, mailer, notify.Sender{From: "compras@empresa.co", FromName: "Compras"}, 0, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// PrepareGroups
// ──────────────────────────────────────────────────────────────────────────────

func TestPrepareGroups_GroupsByVendorKey(t *testing.T) {
	store := seedNotifyStore(t)
	uc := newNotifyUC(store, &fakeMailer{})

	groups, loadRes, err := uc.PrepareGroups(context.Background(), approver,
		[]string{"A", "B", "C", "D", "E", "F", "missing"}, purchasing.ChannelEmail, nil)
	require.NoError(t, err)

	require.Len(t, groups, 2, "E y F tienen proveedor inexistente y se descartan")
	assert.Equal(t, "v-1", groups[0].VendorKey())
	assert.Equal(t, []string{"A", "C"}, groups[0].Group.POIDs(), "id y storage id caen en el mismo grupo")
	assert.Equal(t, "v-2", groups[1].VendorKey())
	assert.Equal(t, []string{"B"}, groups[1].Group.POIDs())

	assert.Equal(t, 1, strings.Count(groups[0].Message.Text, notify.Divider))
	assert.Contains(t, groups[0].Message.Text, "Tornillo | - | - | pcs | 8")

	assert.ElementsMatch(t, []string{"D", "missing"}, loadRes.FailedIDs())
}

func TestPrepareGroups_EmbeddedNameDoesNotCreateVendor(t *testing.T) {
	mailer := &fakeMailer{}
	uc := newNotifyUC(seedNotifyStore(t), mailer)
	ctx := context.Background()

	groups, loadRes, err := uc.PrepareGroups(ctx, approver, []string{"F"}, purchasing.ChannelEmail, nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Empty(t, loadRes.FailedIDs(), "la OC se descarta sin reportarse")

	res, err := uc.SendEmails(ctx, approver, groups)
	require.NoError(t, err)
	assert.Empty(t, res.Succeeded)
	assert.Empty(t, res.Failed)
	assert.Empty(t, mailer.sent)
}

func TestPrepareGroups_RequiresPermission(t *testing.T) {
	uc := newNotifyUC(seedNotifyStore(t), &fakeMailer{})
	_, _, err := uc.PrepareGroups(context.Background(), entity.Actor{ID: "x", Role: "guest"}, []string{"A"}, purchasing.ChannelEmail, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// SendEmails
// ──────────────────────────────────────────────────────────────────────────────

func TestSendEmails_ValidationAndDelivery(t *testing.T) {
	store := seedNotifyStore(t)
	mailer := &fakeMailer{}
	uc := newNotifyUC(store, mailer)
	ctx := context.Background()

	groups, _, err := uc.PrepareGroups(ctx, approver, []string{"A", "B"}, purchasing.ChannelEmail, nil)
	require.NoError(t, err)

	res, err := uc.SendEmails(ctx, approver, groups)
	require.NoError(t, err)
	assert.Equal(t, []string{"v-1"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, domain.KindValidation, res.Failed[0].Kind, "bosch@ no es un correo válido")

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "ventas@acme.co", sent.To)
	assert.Equal(t, "compras@empresa.co", sent.From)
	assert.Equal(t, groups[0].Message.HTML, sent.HTML)
	assert.Equal(t, groups[0].Message.Text, sent.Text)
}

func TestSendEmails_OverrideAndDeliveryFailure(t *testing.T) {
	store := seedNotifyStore(t)
	mailer := &fakeMailer{failTo: "rebota@bosch.de"}
	uc := newNotifyUC(store, mailer)
	ctx := context.Background()

	groups, _, err := uc.PrepareGroups(ctx, approver, []string{"B"}, purchasing.ChannelEmail,
		map[string]string{"v-2": "rebota@bosch.de"})
	require.NoError(t, err)
	require.True(t, groups[0].Group.Valid)

	res, err := uc.SendEmails(ctx, approver, groups)
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, domain.KindDelivery, res.Failed[0].Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// WhatsApp
// ──────────────────────────────────────────────────────────────────────────────

func TestWhatsAppPlan_StaggeredLinks(t *testing.T) {
	store := seedNotifyStore(t)
	uc := newNotifyUC(store, &fakeMailer{})
	ctx := context.Background()

	groups, _, err := uc.PrepareGroups(ctx, approver, []string{"A", "B"}, purchasing.ChannelWhatsApp,
		map[string]string{"v-2": "(601) 555-0199 22"})
	require.NoError(t, err)

	plan, res, err := uc.WhatsAppPlan(ctx, approver, groups)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 2, res.SucceededCount())
	assert.Equal(t, time.Duration(0), plan[0].At)
	assert.Equal(t, notify.DefaultStagger, plan[1].At)
	assert.True(t, strings.HasPrefix(plan[0].URL, "https://wa.me/573001234567?text="))
	assert.Equal(t, "601555019922", plan[1].Phone)
}

func TestWhatsAppPlan_InvalidPhoneSkipped(t *testing.T) {
	store := seedNotifyStore(t)
	uc := newNotifyUC(store, &fakeMailer{})
	ctx := context.Background()

	groups, _, err := uc.PrepareGroups(ctx, approver, []string{"B", "A"}, purchasing.ChannelWhatsApp, nil)
	require.NoError(t, err)

	plan, res, err := uc.WhatsAppPlan(ctx, approver, groups)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "v-1", plan[0].VendorID)
	assert.Equal(t, time.Duration(0), plan[0].At)
	assert.Equal(t, []string{"v-2"}, res.FailedIDs())
	assert.Equal(t, domain.KindValidation, res.Failed[0].Kind)
}

func TestWhatsAppPlan_RejectsEmailGroups(t *testing.T) {
	store := seedNotifyStore(t)
	uc := newNotifyUC(store, &fakeMailer{})
	ctx := context.Background()

	groups, _, err := uc.PrepareGroups(ctx, approver, []string{"A"}, purchasing.ChannelEmail, nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	plan, res, err := uc.WhatsAppPlan(ctx, approver, groups)
	require.NoError(t, err)
	assert.Empty(t, plan)
	assert.Equal(t, []string{"v-1"}, res.FailedIDs())
	assert.Equal(t, domain.KindInvalidInput, res.Failed[0].Kind)
}
