// Package archive empaqueta los documentos de una exportación masiva en un ZIP en memoria.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jhoicas/Compras-api/internal/application/export"
)

var _ export.Packager = (*ZipBuilder)(nil)

// ZipBuilder arma el ZIP con una entrada por documento, en el orden recibido.
type ZipBuilder struct {
	modified func() time.Time
}

// NewZipBuilder construye el empaquetador.
func NewZipBuilder() *ZipBuilder {
	return &ZipBuilder{modified: time.Now}
}

// Pack devuelve los bytes del ZIP. Nombres repetidos reciben un sufijo -2, -3...
// para no pisar entradas.
func (b *ZipBuilder) Pack(entries []export.Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("zip: sin entradas")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]bool, len(entries))
	mod := b.modified()

	for _, e := range entries {
		name := uniqueName(path.Base(e.Name), used)
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: mod})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// uniqueName avanza el sufijo hasta dar con un nombre libre, incluso si un documento
// ya se llamaba x-2.pdf.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	ext := path.Ext(name)
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
	}
	used[candidate] = true
	return candidate
}
