package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

// Divider separa los bloques de OC en un mensaje con varias órdenes.
const Divider = "----------"

// ClosingLine línea de cortesía fija al final de cada mensaje.
const ClosingLine = "Please confirm receipt of this purchase order at your earliest convenience. Thank you for your continued support."

// Message contenido renderizado en dos sabores generados de los mismos datos.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

var upper = cases.Upper(language.Und)

// blockView datos de un bloque de OC, compartidos por texto y HTML.
type blockView struct {
	PONumber   string
	Date       string
	Vendor     string
	Status     string
	ApprovedAt string
	Rows       []purchasing.SnapshotRow
	TotalItems int
}

func newBlockView(s purchasing.Snapshot) blockView {
	return blockView{
		PONumber:   s.PONumber,
		Date:       s.DateLabel(),
		Vendor:     s.VendorName,
		Status:     upper.String(s.Status),
		ApprovedAt: s.ApprovalLabel(),
		Rows:       s.Rows,
		TotalItems: s.TotalItems,
	}
}

// ItemLine línea de ítem en texto plano: producto | marca | categoría | unidad | cantidad.
func ItemLine(r purchasing.SnapshotRow) string {
	return fmt.Sprintf("%s | %s | %s | %s | %d", r.ProductName, r.Brand, r.Category, r.Unit, r.Quantity)
}

func textBlock(b blockView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Purchase Order: %s\n", b.PONumber)
	fmt.Fprintf(&sb, "Date: %s\n", b.Date)
	fmt.Fprintf(&sb, "Vendor: %s\n", b.Vendor)
	fmt.Fprintf(&sb, "Status: %s\n", b.Status)
	fmt.Fprintf(&sb, "Approved At: %s\n", b.ApprovedAt)
	sb.WriteString("\nItems:\n")
	for i, r := range b.Rows {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, ItemLine(r))
	}
	fmt.Fprintf(&sb, "\nTotal Items: %d\n", b.TotalItems)
	return sb.String()
}

var htmlTmpl = template.Must(template.New("po").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<p>Dear {{.Vendor}},</p>
{{if .Intro}}<p>{{.Intro}}</p>{{end}}
{{range $i, $b := .Blocks}}{{if $i}}<hr>{{end}}
<h3 style="color:#00467f">Purchase Order: {{$b.PONumber}}</h3>
<p>Date: {{$b.Date}}<br>Vendor: {{$b.Vendor}}<br>Status: {{$b.Status}}<br>Approved At: {{$b.ApprovedAt}}</p>
<table border="1" cellpadding="4" cellspacing="0" style="border-collapse:collapse">
<tr><th>Product</th><th>Brand</th><th>Category</th><th>Unit</th><th>Quantity</th></tr>
{{range $b.Rows}}<tr><td>{{.ProductName}}</td><td>{{.Brand}}</td><td>{{.Category}}</td><td>{{.Unit}}</td><td>{{.Quantity}}</td></tr>
{{end}}</table>
<p><strong>Total Items: {{$b.TotalItems}}</strong></p>
{{end}}
<p>{{.Closing}}</p>
</body></html>`))

type htmlView struct {
	Vendor  string
	Intro   string
	Blocks  []blockView
	Closing string
}

// ComposeSingle mensaje para una OC.
func ComposeSingle(snap purchasing.Snapshot) (Message, error) {
	return compose(snap.VendorName, "", []purchasing.Snapshot{snap}, "Purchase Order "+snap.PONumber)
}

// ComposeBulk un mensaje para varias OC del mismo proveedor: un saludo, los bloques separados
// por Divider y un cierre compartido. Con una sola OC equivale a ComposeSingle.
func ComposeBulk(vendorName string, snaps []purchasing.Snapshot) (Message, error) {
	if len(snaps) == 1 {
		return ComposeSingle(snaps[0])
	}
	numbers := make([]string, 0, len(snaps))
	for _, s := range snaps {
		numbers = append(numbers, s.PONumber)
	}
	intro := fmt.Sprintf("Please find below %d purchase orders.", len(snaps))
	return compose(vendorName, intro, snaps, "Purchase Orders "+strings.Join(numbers, ", "))
}

func compose(vendorName, intro string, snaps []purchasing.Snapshot, subject string) (Message, error) {
	blocks := make([]blockView, 0, len(snaps))
	texts := make([]string, 0, len(snaps))
	for _, s := range snaps {
		b := newBlockView(s)
		blocks = append(blocks, b)
		texts = append(texts, textBlock(b))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", vendorName)
	if intro != "" {
		sb.WriteString(intro + "\n\n")
	}
	sb.WriteString(strings.Join(texts, "\n"+Divider+"\n\n"))
	sb.WriteString("\n" + ClosingLine + "\n")

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, htmlView{Vendor: vendorName, Intro: intro, Blocks: blocks, Closing: ClosingLine}); err != nil {
		return Message{}, fmt.Errorf("componer html: %w", err)
	}
	return Message{Subject: subject, Text: sb.String(), HTML: buf.String()}, nil
}
