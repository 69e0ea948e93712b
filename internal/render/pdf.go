package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pdfCanvas adapts fpdf to Canvas. fpdf already measures from the top-left
// corner, so coordinates pass straight through.
type pdfCanvas struct {
	pdf       *fpdf.Fpdf
	family    string
	translate func(string) string
}

func newPDFCanvas() *pdfCanvas {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(0.8)

	c := &pdfCanvas{pdf: pdf}
	if face := currentFont(); face != nil {
		pdf.AddUTF8FontFromBytes(face.name, "", face.data)
		c.family = face.name
		c.translate = func(s string) string { return s }
	} else {
		c.family = "Helvetica"
		c.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetFont(c.family, "", bodySize)
	return c
}

func (c *pdfCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *pdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) SetFontSize(size float64) {
	c.pdf.SetFontSize(size)
}

func (c *pdfCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.translate(s))
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	if s == "" {
		return
	}
	c.pdf.Text(x, y, c.translate(s))
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func renderPDF(v MeetingView) ([]byte, error) {
	c := newPDFCanvas()
	layoutFixedPage(c, v)

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
