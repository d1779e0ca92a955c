package entity

// Roles válidos para un actor autenticado.
const (
	RoleMainAdmin     = "main_admin"
	RolePOCreator     = "po_creator"
	RoleApprovalAdmin = "approval_admin"
)

// Actor usuario que ejecuta una acción (extraído del token; la sesión es externa).
type Actor struct {
	ID   string
	Role string // main_admin, po_creator, approval_admin
}
