package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/export"
	"github.com/jhoicas/Compras-api/internal/application/notify"
	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/infrastructure/archive"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
	"github.com/jhoicas/Compras-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/Compras-api/internal/interfaces/http"
)

type recordingMailer struct{ sent []notify.EmailMessage }

func (m *recordingMailer) Send(_ context.Context, msg notify.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

type apiFixture struct {
	app    *fiber.App
	store  *memory.Store
	mailer *recordingMailer
}

// newAPI arma la API completa sobre el almacén en memoria con tres OC:
// A y B en created, R rechazada, X aprobada.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Vendors().Create(ctx, &entity.Vendor{ID: "v-1", Name: "Acme", ContactEmail: "ventas@acme.co"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", Name: "Tornillo", VendorID: "v-1", CurrentStock: 1, ReorderLevel: 4}))

	approvedAt := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	rejectedAt := approvedAt
	for _, po := range []*entity.PurchaseOrder{
		{ID: "A", PONumber: "PO-2024-001", VendorID: "v-1", Status: entity.POStatusCreated},
		{ID: "B", PONumber: "PO-2024-002", VendorID: "v-1", Status: entity.POStatusCreated},
		{ID: "R", PONumber: "PO-2024-003", VendorID: "v-1", Status: entity.POStatusRejected, RejectedAt: &rejectedAt},
		{ID: "X", PONumber: "PO-2024-004", VendorID: "v-1", Status: entity.POStatusApproved, ApprovedAt: &approvedAt,
			Date:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Items: []entity.PurchaseOrderItem{{ProductID: "p-1", Quantity: 5}}},
	} {
		require.NoError(t, store.PurchaseOrders().Create(ctx, po))
	}

	catalog := apppurchasing.NewCatalog(store.PurchaseOrders(), store.Vendors(), store.Products())
	mailer := &recordingMailer{}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Lifecycle: apppurchasing.NewLifecycleUseCase(store.PurchaseOrders(), nil),
		CreatePO:  apppurchasing.NewCreatePOUseCase(store, store.Vendors(), store.Products(), nil),
		Reorder:   apppurchasing.NewReorderUseCase(store.Products(), nil),
		Export:    export.NewUseCase(catalog, store.DownloadLogs(), archive.NewZipBuilder(), nil, nil, xlsx.NewPOGenerator()),
		Notify:    notify.NewUseCase(catalog, mailer, notify.Sender{From: "compras@empresa.co"}, 0, nil),
		Verifier:  testVerifier,
	})
	return &apiFixture{app: app, store: store, mailer: mailer}
}

func (f *apiFixture) call(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", tokenForRole(t, role))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ApproveThenConflict(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/A/approve", entity.RoleApprovalAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	po := decode[dto.POResponse](t, resp)
	assert.Equal(t, entity.POStatusApproved, po.Status)
	assert.Equal(t, testUserID, po.ApprovedBy)
	assert.NotNil(t, po.ApprovedAt)

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/A/approve", entity.RoleApprovalAdmin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/nope/approve", entity.RoleApprovalAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_RejectWithReason(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/B/reject", entity.RoleMainAdmin, dto.RejectPORequest{Reason: strPtr("precio alto")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	po := decode[dto.POResponse](t, resp)
	assert.Equal(t, entity.POStatusRejected, po.Status)
	require.NotNil(t, po.RejectionReason)
	assert.Equal(t, "precio alto", *po.RejectionReason)
}

func TestAPI_BulkApprovePartial(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/bulk/approve", entity.RoleApprovalAdmin,
		dto.BulkPORequest{IDs: []string{"A", "X", "B"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.BatchResponse](t, resp)
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, []string{"A", "B"}, out.SucceededIDs)
	require.Len(t, out.FailedItems, 1)
	assert.Equal(t, "X", out.FailedItems[0].ID)
	assert.Equal(t, domain.KindInvalidTransition, out.FailedItems[0].Kind)
}

func TestAPI_PermissionGates(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/bulk/approve", entity.RolePOCreator, dto.BulkPORequest{IDs: []string{"A"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, http.MethodDelete, "/api/purchase-orders/A", entity.RoleApprovalAdmin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, http.MethodGet, "/api/purchase-orders/R", entity.RolePOCreator, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, http.MethodDelete, "/api/purchase-orders/R", entity.RoleMainAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ListHidesRejectedFromCreator(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodGet, "/api/purchase-orders", entity.RolePOCreator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.POListResponse](t, resp)
	assert.Len(t, list.Items, 3)
	for _, po := range list.Items {
		assert.NotEqual(t, entity.POStatusRejected, po.Status)
	}

	resp = f.call(t, http.MethodGet, "/api/purchase-orders?status=rejected", entity.RolePOCreator, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.call(t, http.MethodGet, "/api/purchase-orders?status=rejected", entity.RoleApprovalAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.POListResponse](t, resp).Items, 1)
}

func TestAPI_QueueAndCreate(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/queue", entity.RolePOCreator,
		dto.QueueProductRequest{ProductID: "p-1", Quantity: 12})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ProductQueued, decode[dto.QueuedProductResponse](t, resp).POStatus)

	resp = f.call(t, http.MethodPost, "/api/purchase-orders", entity.RolePOCreator, dto.CreatePORequest{VendorID: "v-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	po := decode[dto.POResponse](t, resp)
	assert.True(t, strings.HasPrefix(po.PONumber, "PO-"))
	assert.Equal(t, entity.POStatusCreated, po.Status)
	require.Len(t, po.Items, 1)
	assert.Equal(t, 12, po.Items[0].Quantity)
	assert.Equal(t, "Tornillo", po.Items[0].ProductName)
}

func TestAPI_ReorderSuggestionsThenCreate(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodGet, "/api/purchase-orders/reorder-suggestions?vendor_id=v-1", entity.RolePOCreator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sugg := decode[[]apppurchasing.ReorderSuggestion](t, resp)
	require.Len(t, sugg, 1)
	assert.Equal(t, 5, sugg[0].SuggestedQty)

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/reorder-suggestions/queue", entity.RolePOCreator, dto.CreatePORequest{VendorID: "v-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.BatchResponse](t, resp).Succeeded)

	resp = f.call(t, http.MethodPost, "/api/purchase-orders", entity.RolePOCreator, dto.CreatePORequest{VendorID: "v-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	po := decode[dto.POResponse](t, resp)
	require.Len(t, po.Items, 1)
	assert.Equal(t, 5, po.Items[0].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación y notificaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ExportSingleAndDownloads(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/export", entity.RolePOCreator,
		dto.ExportRequest{POIDs: []string{"X"}, Format: "xlsx", Location: "Oficina"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "PO-PO-2024-004-2024-01-15.xlsx")
	assert.Equal(t, "1", resp.Header.Get(apphttp.HeaderExportedCount))
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx es un zip")

	resp = f.call(t, http.MethodGet, "/api/purchase-orders/X/downloads", entity.RoleMainAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logs := decode[[]dto.DownloadLogResponse](t, resp)
	require.Len(t, logs, 1)
	assert.Equal(t, "Oficina", logs[0].Location)
	assert.Equal(t, testUserID, logs[0].DownloadedBy)
}

func TestAPI_AllDownloadsPaged(t *testing.T) {
	f := newAPI(t)

	for _, loc := range []string{"Oficina", "Bodega 2"} {
		resp := f.call(t, http.MethodPost, "/api/purchase-orders/export", entity.RoleMainAdmin,
			dto.ExportRequest{POIDs: []string{"X"}, Format: "xlsx", Location: loc})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := f.call(t, http.MethodGet, "/api/purchase-orders/downloads?limit=1&offset=1", entity.RoleMainAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.DownloadLogListResponse](t, resp)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Bodega 2", out.Items[0].Location)
	assert.Equal(t, "X", out.Items[0].POID)
	assert.Equal(t, dto.PageResponse{Limit: 1, Offset: 1, Count: 1}, out.Page)

	resp = f.call(t, http.MethodGet, "/api/purchase-orders/downloads", entity.RoleApprovalAdmin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ExportBulkRules(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/purchase-orders/export", entity.RolePOCreator,
		dto.ExportRequest{POIDs: []string{"X", "A"}, Format: "xlsx"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "po_creator no tiene bulk_download_po")
	resp.Body.Close()

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/export", entity.RoleApprovalAdmin,
		dto.ExportRequest{POIDs: []string{"X", "A"}, Format: "xlsx"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentTypeZip, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "PO-Bulk-Download-")
	assert.Equal(t, "1", resp.Header.Get(apphttp.HeaderFailedCount), "A no está aprobada")
	resp.Body.Close()

	resp = f.call(t, http.MethodPost, "/api/purchase-orders/export", entity.RoleApprovalAdmin,
		dto.ExportRequest{POIDs: []string{"A"}, Format: "xlsx"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_NotifyEmail(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/notifications/email", entity.RoleApprovalAdmin,
		dto.NotifyRequest{POIDs: []string{"X", "A"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.EmailNotifyResponse](t, resp)
	assert.Equal(t, 1, out.Delivered.Succeeded)
	require.Len(t, out.Skipped.FailedItems, 1)
	assert.Equal(t, "A", out.Skipped.FailedItems[0].ID)
	assert.Equal(t, domain.KindInvalidTransition, out.Skipped.FailedItems[0].Kind)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ventas@acme.co", f.mailer.sent[0].To)
}

func TestAPI_NotifyWhatsAppInvalidPhone(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/notifications/whatsapp", entity.RoleMainAdmin,
		dto.NotifyRequest{POIDs: []string{"X"}, Contacts: map[string]string{"v-1": "+57 300 123 4567"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.WhatsAppNotifyResponse](t, resp)
	require.Len(t, out.Links, 1)
	assert.Equal(t, int64(0), out.Links[0].DelayMS)
	assert.Equal(t, "573001234567", out.Links[0].Phone)

	resp = f.call(t, http.MethodPost, "/api/notifications/whatsapp", entity.RoleMainAdmin,
		dto.NotifyRequest{POIDs: []string{"X"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decode[dto.WhatsAppNotifyResponse](t, resp)
	assert.Empty(t, out.Links, "el proveedor no tiene teléfono")
	assert.Equal(t, 1, out.Planned.Failed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Capacidades
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CapabilitiesByRole(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodGet, "/api/me/capabilities", entity.RolePOCreator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.CapabilitiesResponse](t, resp)
	assert.Equal(t, testUserID, out.UserID)
	assert.Equal(t, entity.RolePOCreator, out.Role)
	assert.Equal(t, []string{"create_po", "download_po"}, out.Actions)
	assert.Nil(t, out.Allowed)

	resp = f.call(t, http.MethodGet, "/api/me/capabilities?action=delete_po", entity.RoleApprovalAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decode[dto.CapabilitiesResponse](t, resp)
	require.NotNil(t, out.Allowed)
	assert.False(t, *out.Allowed)
	assert.NotContains(t, out.Actions, "view_po_download")

	resp = f.call(t, http.MethodGet, "/api/me/capabilities?action=delete_po", entity.RoleMainAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decode[dto.CapabilitiesResponse](t, resp)
	require.NotNil(t, out.Allowed)
	assert.True(t, *out.Allowed)
	assert.Len(t, out.Actions, 9)

	resp = f.call(t, http.MethodGet, "/api/me/capabilities?action=launch_rocket", entity.RoleMainAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.call(t, http.MethodGet, "/api/me/capabilities", "desconocido", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.CapabilitiesResponse](t, resp).Actions)
}

func strPtr(s string) *string { return &s }
