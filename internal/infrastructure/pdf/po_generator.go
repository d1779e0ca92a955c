// Package pdf genera el documento PDF de una orden de compra con Maroto v2.
//
// Layout de cada página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  ORDEN DE COMPRA  │  N° OC + Fecha                           │
//	│  Proveedor / Estado / Aprobación                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Marca | Categoría | Unidad | Cantidad     │
//	│  ...                                                         │
//	│  Total Items                                                 │
//	└─────────────────────────────────────────────────────────────┘
//
// Las páginas siguientes repiten la cabecera de la tabla.
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Compras-api/internal/application/export"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

// DefaultPageBudgetMM alto útil por página antes de forzar un salto.
const DefaultPageBudgetMM = 250.0

const (
	pageMarginMM = 10.0
	// MaxPageBudgetMM alto A4 menos márgenes superior e inferior.
	MaxPageBudgetMM = 297.0 - 2*pageMarginMM
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Layout ────────────────────────────────────────────────────────────────────

type lineKind int

const (
	kindTitle lineKind = iota
	kindMeta
	kindRule
	kindTableHeader
	kindItem
	kindContinued
	kindTotal
)

// Alto en mm de cada tipo de fila.
var heights = map[lineKind]float64{
	kindTitle:       18,
	kindMeta:        22,
	kindRule:        1,
	kindTableHeader: 8,
	kindItem:        7,
	kindContinued:   8,
	kindTotal:       10,
}

type layoutLine struct {
	kind lineKind
	item int // índice de fila para kindItem
}

// layout reparte el contenido en páginas. Cuando la siguiente fila no cabe en el presupuesto
// se abre una página nueva con aviso de continuación y la cabecera de la tabla repetida.
func layout(snap purchasing.Snapshot, budget float64) [][]layoutLine {
	first := []layoutLine{{kind: kindTitle}, {kind: kindMeta}, {kind: kindRule}, {kind: kindTableHeader}}
	pages := [][]layoutLine{first}
	used := sumHeights(first)

	push := func(l layoutLine) {
		h := heights[l.kind]
		if used+h > budget {
			next := []layoutLine{{kind: kindContinued}, {kind: kindTableHeader}}
			pages = append(pages, next)
			used = sumHeights(next)
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], l)
		used += h
	}
	for i := range snap.Rows {
		push(layoutLine{kind: kindItem, item: i})
	}
	push(layoutLine{kind: kindTotal})
	return pages
}

func sumHeights(lines []layoutLine) float64 {
	var h float64
	for _, l := range lines {
		h += heights[l.kind]
	}
	return h
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ export.DocumentRenderer = (*POGenerator)(nil)

// POGenerator implementa export.DocumentRenderer para PDF.
type POGenerator struct {
	budget float64
}

// NewPOGenerator construye el generador. budgetMM <= 0 usa DefaultPageBudgetMM; por encima
// del alto útil de A4 se recorta a MaxPageBudgetMM.
func NewPOGenerator(budgetMM float64) *POGenerator {
	if budgetMM <= 0 || budgetMM < minBudget() {
		budgetMM = DefaultPageBudgetMM
	}
	budgetMM = min(budgetMM, MaxPageBudgetMM)
	return &POGenerator{budget: budgetMM}
}

// minBudget alto mínimo para que una página de continuación admita al menos una fila.
func minBudget() float64 {
	return heights[kindTitle] + heights[kindMeta] + heights[kindRule] + heights[kindTableHeader] + heights[kindTotal]
}

func (g *POGenerator) Format() string      { return purchasing.FormatPDF }
func (g *POGenerator) ContentType() string { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes. Errores y panics del motor se reportan como ErrRender.
func (g *POGenerator) Render(_ context.Context, snap purchasing.Snapshot) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("%w: pdf %s: %v", domain.ErrRender, snap.PONumber, rec)
		}
	}()

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(pageMarginMM).WithRightMargin(pageMarginMM).
		WithTopMargin(pageMarginMM).WithBottomMargin(pageMarginMM).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Purchase Order "+snap.PONumber, true).
		Build()

	m := maroto.New(cfg)
	for _, lines := range layout(snap, g.budget) {
		rows := make([]core.Row, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, g.row(snap, l))
		}
		m.AddPages(page.New().Add(rows...))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: pdf %s: %v", domain.ErrRender, snap.PONumber, err)
	}
	return doc.GetBytes(), nil
}

func (g *POGenerator) row(snap purchasing.Snapshot, l layoutLine) core.Row {
	switch l.kind {
	case kindTitle:
		return titleRow(snap)
	case kindMeta:
		return metaRow(snap)
	case kindRule:
		return line.NewRow(heights[kindRule], props.Line{Color: colorPrimary, Thickness: 0.5})
	case kindTableHeader:
		return tableHeaderRow()
	case kindItem:
		return itemRow(snap.Rows[l.item])
	case kindContinued:
		return continuedRow(snap)
	default:
		return totalRow(snap)
	}
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(snap purchasing.Snapshot) core.Row {
	return row.New(heights[kindTitle]).Add(
		col.New(7).Add(
			text.New("PURCHASE ORDER", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New(snap.PONumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Date: "+snap.DateLabel(), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func metaRow(snap purchasing.Snapshot) core.Row {
	return row.New(heights[kindMeta]).Add(
		col.New(12).Add(
			text.New("Vendor: "+snap.VendorName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 2,
			}),
			text.New("Status: "+snap.Status, props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New("Approved: "+snap.ApprovalLabel(), props.Text{Size: 9, Top: 15, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(heights[kindTableHeader]).Add(
		h("Product", 4, align.Left),
		h("Brand", 2, align.Left),
		h("Category", 3, align.Left),
		h("Unit", 1, align.Center),
		h("Quantity", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRow(r purchasing.SnapshotRow) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(heights[kindItem]).Add(
		cell(r.ProductName, 4, align.Left),
		cell(r.Brand, 2, align.Left),
		cell(r.Category, 3, align.Left),
		cell(r.Unit, 1, align.Center),
		cell(strconv.Itoa(r.Quantity), 2, align.Right),
	)
}

func continuedRow(snap purchasing.Snapshot) core.Row {
	return row.New(heights[kindContinued]).Add(col.New(12).Add(
		text.New(snap.PONumber+" (continued)", props.Text{
			Style: fontstyle.Italic, Size: 8, Color: colorGray, Top: 2,
		}),
	))
}

func totalRow(snap purchasing.Snapshot) core.Row {
	return row.New(heights[kindTotal]).Add(
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Total Items: %d", snap.TotalItems), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}
