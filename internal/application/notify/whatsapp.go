package notify

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

// DefaultStagger separación mínima entre aperturas de enlaces consecutivos.
const DefaultStagger = 500 * time.Millisecond

// ScheduledLink enlace a abrir con su desfase respecto al inicio del plan.
type ScheduledLink struct {
	VendorID string        `json:"vendor_id"`
	Phone    string        `json:"phone"`
	At       time.Duration `json:"at"`
	URL      string        `json:"url"`
}

// WhatsAppLink arma https://wa.me/<dígitos>?text=<mensaje codificado>.
func WhatsAppLink(phone, text string) string {
	// QueryEscape codifica el espacio como "+"; wa.me lo espera como %20.
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + purchasing.CleanPhone(phone) + "?text=" + encoded
}

// Dispatch ejecuta el plan en orden, esperando el desfase de cada enlace. Un error del opener
// no detiene los siguientes; solo la cancelación del contexto corta el plan.
func Dispatch(ctx context.Context, plan []ScheduledLink, opener LinkOpener) []error {
	errs := make([]error, len(plan))
	start := time.Now()
	for i, link := range plan {
		if wait := link.At - time.Since(start); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				for j := i; j < len(plan); j++ {
					errs[j] = ctx.Err()
				}
				return errs
			case <-timer.C:
			}
		}
		errs[i] = opener.Open(ctx, link)
	}
	return errs
}
