package infra

// pdf.go — receipt rendering using go-pdf/fpdf.
// Generates A7-size thermal receipt-style documents with:
//   - Store identity header
//   - Transaction code and timestamp
//   - Item table (name, quantity, unit price, line total)
//   - Payment summary (subtotal, total, paid, change)
//   - Thank-you footer, optional policy text, optional QR placeholder
//   - Tear line
//
// Rendering is deterministic: the same transaction and layout always yield
// byte-identical output. The PDF creation/modification dates are pinned to
// the transaction timestamp so no wall-clock value leaks into the document.

import (
	"bytes"
	"fmt"

	"tokopos/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptLayout holds the fixed layout configuration for rendered receipts.
type ReceiptLayout struct {
	StoreName      string
	StoreAddress   string
	Footer         string
	Policy         string // optional second footer line
	MaxItemNameLen int    // item names longer than this are truncated
	QRPlaceholder  bool   // reserve a box for a future QR code
}

// GenerateReceiptPDF renders tx into a PDF document and returns the
// suggested filename plus the raw bytes. It never touches the filesystem;
// storing and printing are follow-on actions owned by the caller.
func GenerateReceiptPDF(tx *model.Transaction, layout ReceiptLayout) (string, []byte, error) {
	if layout.MaxItemNameLen <= 0 {
		layout.MaxItemNameLen = 22
	}

	filename := fmt.Sprintf("receipt_%s.pdf", tx.ID)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	// Emit catalog entries (fonts, pages) in sorted order so the same input
	// always yields byte-identical output; without this fpdf iterates maps.
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(tx.CreatedAt)
	pdf.SetModificationDate(tx.CreatedAt)
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, layout.StoreName, "", 1, "C", false, 0, "")

	if layout.StoreAddress != "" {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, layout.StoreAddress, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	// ── Transaction info ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tx.ID, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tx.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // product name
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.22 // unit price
	col4 := contentW * 0.26 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range tx.Items {
		name := truncateName(item.Name, layout.MaxItemNameLen)
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, item.LineTotal().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Payment summary ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 4, tx.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 6, tx.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 4, tx.Paid.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 4, "Change:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 4, tx.Change.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, layout.Footer, "", 1, "C", false, 0, "")
	if layout.Policy != "" {
		pdf.SetFont("Helvetica", "", 6)
		pdf.CellFormat(contentW, 3, layout.Policy, "", 1, "C", false, 0, "")
	}

	if layout.QRPlaceholder {
		pdf.Ln(2)
		boxSize := 14.0
		x := (pageW - boxSize) / 2
		pdf.Rect(x, pdf.GetY(), boxSize, boxSize, "D")
		pdf.SetY(pdf.GetY() + boxSize + 1)
	}

	// Tear line
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(contentW, 3, "- - - - - - - - - - - - - - - - - - - - - -", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", nil, fmt.Errorf("pdf: render receipt: %w", err)
	}
	return filename, buf.Bytes(), nil
}

// truncateName shortens long product names so rows never overflow the
// name column. Rune-safe.
func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-1]) + "…"
}
