// Package permission es la tabla estática rol → capacidades que consultan todos
// los casos de uso antes de una acción protegida. No depende de datos de usuario.
package permission

import (
	"fmt"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// Action capacidad nombrada.
type Action string

const (
	CreatePO       Action = "create_po"
	ApprovePO      Action = "approve_po"
	RejectPO       Action = "reject_po"
	BulkApprovePO  Action = "bulk_approve_po"
	DeletePO       Action = "delete_po"
	DownloadPO     Action = "download_po"
	BulkDownloadPO Action = "bulk_download_po"
	ViewRejected   Action = "view_rejected"
	ViewPODownload Action = "view_po_download"
)

// Orden fijo para listados y respuestas.
var allActions = []Action{
	CreatePO, ApprovePO, RejectPO, BulkApprovePO, DeletePO,
	DownloadPO, BulkDownloadPO, ViewRejected, ViewPODownload,
}

var table = map[string]map[Action]bool{
	entity.RoleMainAdmin: {
		CreatePO: true, ApprovePO: true, RejectPO: true, BulkApprovePO: true, DeletePO: true,
		DownloadPO: true, BulkDownloadPO: true, ViewRejected: true, ViewPODownload: true,
	},
	entity.RolePOCreator: {
		CreatePO: true, DownloadPO: true,
	},
	entity.RoleApprovalAdmin: {
		ApprovePO: true, RejectPO: true, BulkApprovePO: true,
		DownloadPO: true, BulkDownloadPO: true, ViewRejected: true,
	},
}

// Can indica si el rol tiene la capacidad. Roles desconocidos no tienen ninguna.
func Can(role string, action Action) bool {
	return table[role][action]
}

// Check devuelve ErrUnauthorized envuelto si el rol no tiene la capacidad.
func Check(role string, action Action) error {
	if Can(role, action) {
		return nil
	}
	return fmt.Errorf("%w: rol %q sin permiso %s", domain.ErrUnauthorized, role, action)
}

// For lista las capacidades del rol en orden estable.
func For(role string) []Action {
	out := make([]Action, 0, len(allActions))
	for _, a := range allActions {
		if Can(role, a) {
			out = append(out, a)
		}
	}
	return out
}

// Valid indica si la acción existe en la tabla.
func Valid(action Action) bool {
	for _, a := range allActions {
		if a == action {
			return true
		}
	}
	return false
}
