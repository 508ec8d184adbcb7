// Package report lays out loan documents as PDF: a paginated amortization
// table, a headline summary and a page-scaled image.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for image.DecodeConfig
	_ "image/png"  // register PNG for image.DecodeConfig
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/emi-calculator/pkg/constants"
)

// Table is a titled grid of pre-formatted cells.
type Table struct {
	Title string
	Head  []string
	Rows  [][]string
}

// Field is one labelled value of a summary document.
type Field struct {
	Key   string
	Value string
}

// Summary is a title, an ordered list of labelled values and free text lines.
type Summary struct {
	Title string
	Meta  []Field
	Lines []string
}

// Image is an encoded raster (PNG or JPEG) to place on a page.
type Image struct {
	Title string
	Data  []byte
}

// ErrEmptyTable is returned when a table has no columns.
var ErrEmptyTable = errors.New("table has no columns")

// PDF renders documents with fpdf on A4 portrait pages.
type PDF struct {
	now func() time.Time
}

// NewPDF creates a PDF renderer.
func NewPDF() *PDF {
	return &PDF{now: time.Now}
}

func (p *PDF) newDocument(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("emi-calculator", true)
	pdf.SetCreationDate(p.now())
	return pdf
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTable lays out the table with one row per entry. The header row is
// repeated whenever the rows run onto a new page.
func (p *PDF) RenderTable(t Table) ([]byte, error) {
	if len(t.Head) == 0 {
		return nil, ErrEmptyTable
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Head) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(t.Head))
		}
	}

	const (
		margin     = 14.0
		startY     = 22.0
		rowHeight  = 6.0
		fontSize   = 9.0
		titleSize  = 14.0
		pageBottom = 15.0
	)

	pdf := p.newDocument(t.Title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, pageBottom)

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*margin) / float64(len(t.Head))

	header := func() {
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.SetFillColor(60, 60, 60)
		pdf.SetTextColor(255, 255, 255)
		for i, cell := range t.Head {
			ln := 0
			if i == len(t.Head)-1 {
				ln = 1
			}
			pdf.CellFormat(colWidth, rowHeight+1, tr(cell), "", ln, "C", true, 0, "")
		}
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetTextColor(0, 0, 0)
	}

	firstPage := true
	pdf.SetHeaderFunc(func() {
		if firstPage {
			return
		}
		pdf.SetY(margin)
		header()
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.Text(margin, 16, tr(t.Title))
	pdf.SetY(startY)
	header()
	firstPage = false

	pdf.SetFillColor(245, 245, 245)
	for r, row := range t.Rows {
		fill := r%2 == 1
		for i, cell := range row {
			ln, align := 0, "R"
			if i == 0 {
				align = "C"
			}
			if i == len(row)-1 {
				ln = 1
			}
			pdf.CellFormat(colWidth, rowHeight, tr(cell), "", ln, align, fill, 0, "")
		}
		// The header callback resets the fill color on page breaks.
		pdf.SetFillColor(245, 245, 245)
	}

	return output(pdf)
}

// RenderSummary writes the title, each field as "key: value" and the text
// lines wrapped to the page width.
func (p *PDF) RenderSummary(s Summary) ([]byte, error) {
	const (
		left     = 15.0
		top      = 20.0
		wrap     = 180.0
		lineStep = 6.0
		maxY     = 270.0
	)

	pdf := p.newDocument(s.Title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	y := top
	pdf.SetFont("Helvetica", "B", 14)
	title := s.Title
	if title == "" {
		title = constants.SummaryTitle
	}
	pdf.Text(left, y, tr(title))

	pdf.SetFont("Helvetica", "", 10)
	y += 10
	if len(s.Meta) > 0 {
		for _, field := range s.Meta {
			pdf.Text(left, y, tr(fmt.Sprintf("%s: %s", field.Key, field.Value)))
			y += 7
		}
		y += 4
	}

	if len(s.Lines) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(left, y, "Details:")
		y += 8
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range s.Lines {
			wrapped := pdf.SplitText(tr(line), wrap)
			for _, part := range wrapped {
				pdf.Text(left, y, part)
				y += lineStep
			}
			if y > maxY {
				pdf.AddPage()
				y = top
			}
		}
	}

	return output(pdf)
}

// RenderImage places the image at the top-left of the page, scaled to the
// page width with its aspect ratio preserved. The page is lengthened when the
// scaled image is taller than A4.
func (p *PDF) RenderImage(img Image) ([]byte, error) {
	cfg, kind, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}

	width, height := ScaleToWidth(cfg.Width, cfg.Height, constants.PageWidthMM)
	pageHeight := constants.PageHeightMM
	if height > pageHeight {
		pageHeight = height
	}

	pdf := p.newDocument(img.Title)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: constants.PageWidthMM, Ht: pageHeight})

	options := fpdf.ImageOptions{ImageType: kind}
	pdf.RegisterImageOptionsReader("capture", options, bytes.NewReader(img.Data))
	pdf.ImageOptions("capture", 0, 0, width, height, false, options, 0, "")

	return output(pdf)
}

// ScaleToWidth returns the size of a pixelWidth x pixelHeight image scaled to
// targetWidth with the same aspect ratio.
func ScaleToWidth(pixelWidth, pixelHeight int, targetWidth float64) (float64, float64) {
	if pixelWidth <= 0 {
		return 0, 0
	}
	return targetWidth, float64(pixelHeight) * targetWidth / float64(pixelWidth)
}
