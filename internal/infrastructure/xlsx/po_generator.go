// Package xlsx genera la hoja de cálculo de una orden de compra con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Compras-api/internal/application/export"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
)

// SheetName nombre de la única hoja del libro.
const SheetName = "Purchase Order"

// TotalLabel etiqueta de la fila final con el conteo de ítems.
const TotalLabel = "Total Items"

// Headers columnas de la tabla de ítems.
var Headers = []string{"Product Name", "Brand", "Category", "Unit", "Quantity"}

var _ export.DocumentRenderer = (*POGenerator)(nil)

// POGenerator implementa export.DocumentRenderer para XLSX.
type POGenerator struct{}

func NewPOGenerator() *POGenerator { return &POGenerator{} }

func (g *POGenerator) Format() string { return purchasing.FormatXLSX }
func (g *POGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render escribe metadatos, cabecera, una fila por ítem y la fila de total.
func (g *POGenerator) Render(_ context.Context, snap purchasing.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, renderErr(snap, err)
	}
	sheet := SheetName

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, renderErr(snap, err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, renderErr(snap, err)
	}

	// Metadatos
	meta := [][2]string{
		{"PO Number", snap.PONumber},
		{"Date", snap.DateLabel()},
		{"Vendor", snap.VendorName},
		{"Status", snap.Status},
		{"Approved At", snap.ApprovalLabel()},
	}
	for i, kv := range meta {
		r := i + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", r), kv[0]); err != nil {
			return nil, renderErr(snap, err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", r), kv[1]); err != nil {
			return nil, renderErr(snap, err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("A%d", len(meta)), boldStyle); err != nil {
		return nil, renderErr(snap, err)
	}

	// Cabecera de la tabla, dejando una fila en blanco
	headerRow := len(meta) + 2
	for i, h := range Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, renderErr(snap, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, renderErr(snap, err)
		}
	}

	for i, item := range snap.Rows {
		values := []any{item.ProductName, item.Brand, item.Category, item.Unit, item.Quantity}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow+1+i), &values); err != nil {
			return nil, renderErr(snap, err)
		}
	}

	totalRow := headerRow + 1 + len(snap.Rows)
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), TotalLabel); err != nil {
		return nil, renderErr(snap, err)
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), snap.TotalItems); err != nil {
		return nil, renderErr(snap, err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), boldStyle); err != nil {
		return nil, renderErr(snap, err)
	}

	for i, w := range []float64{28, 16, 18, 8, 10} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderErr(snap, err)
	}
	return buf.Bytes(), nil
}

func renderErr(snap purchasing.Snapshot, err error) error {
	return fmt.Errorf("%w: xlsx %s: %v", domain.ErrRender, snap.PONumber, err)
}
