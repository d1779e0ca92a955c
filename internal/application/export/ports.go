package export

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

// DocumentRenderer genera la representación de un snapshot en un formato (pdf o xlsx).
// Implementaciones: infrastructure/pdf (maroto) e infrastructure/xlsx (excelize).
type DocumentRenderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, snap purchasing.Snapshot) ([]byte, error)
}

// Entry archivo dentro del paquete de exportación masiva.
type Entry struct {
	Name string
	Data []byte
}

// Packager empaqueta varios documentos en un solo archivo (ZIP).
type Packager interface {
	Pack(entries []Entry) ([]byte, error)
}

// ArchiveStore guarda el paquete generado en almacenamiento de objetos y devuelve su clave.
type ArchiveStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}
