package render

// Canvas is a page-oriented drawing surface measured in points, with y
// growing down the page from the top edge. Text is placed by its baseline.
type Canvas interface {
	PageSize() (width, height float64)
	AddPage()
	SetFontSize(size float64)
	TextWidth(s string) float64
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
}

func centeredText(c Canvas, cx, y float64, s string) {
	c.Text(cx-c.TextWidth(s)/2, y, s)
}
