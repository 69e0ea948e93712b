package render

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// Fixed-page geometry in points.
const (
	marginX      = 50.0
	marginTop    = 50.0
	marginBottom = 40.0
	lineHeight   = 14.0

	titleSize = 18.0
	titleGap  = 40.0
	bodySize  = 11.0
	boxSize   = 10.0

	headerRowH   = 24.0
	labelRowH    = 24.0
	headerLabelW = 80.0
	headerRightW = 120.0

	attendHeaderH = 24.0
	attendRowH    = 24.0
	attendCols    = 6
)

var attendHeaders = [attendCols]string{"소 속", "성 명", "서 명", "소 속", "성 명", "서 명"}

const signMark = "(인)"

// pageLayout draws one view onto a canvas, tracking the running vertical
// position and the top of the bordered table on the current page.
type pageLayout struct {
	c          Canvas
	v          MeetingView
	pageHeight float64
	left       float64
	right      float64
	top        float64
	tableTop   float64
}

// layoutFixedPage draws the print form of v. Content blocks are placed in
// order and never split; only the attendee block may move to a new page.
func layoutFixedPage(c Canvas, v MeetingView) {
	width, height := c.PageSize()
	l := &pageLayout{
		c:          c,
		v:          v,
		pageHeight: height,
		left:       marginX,
		right:      width - marginX,
	}

	c.AddPage()
	title := v.Title
	if title == "" {
		title = "회의록"
	}
	c.SetFontSize(titleSize)
	c.Text(marginX, marginTop, title)

	c.SetFontSize(bodySize)
	l.top = marginTop + titleGap
	l.tableTop = l.top

	if v.Sections.Has(minutes.SectionBase) {
		l.header()
	}

	type placedBox struct {
		text        string
		top, bottom float64
	}
	var boxes []placedBox
	for _, b := range contentBlocks {
		if !v.Sections.Has(b.section) {
			continue
		}
		labelBottom := l.top + labelRowH
		c.Line(l.left, labelBottom, l.right, labelBottom)
		centeredText(c, l.center(), labelBottom-8, b.title)

		boxBottom := labelBottom + b.height
		c.Line(l.left, boxBottom, l.right, boxBottom)
		boxes = append(boxes, placedBox{text: v.Sections.Text(b.section), top: labelBottom, bottom: boxBottom})
		l.top = boxBottom
	}

	c.SetFontSize(boxSize)
	for _, b := range boxes {
		l.textBox(b.text, b.top, b.bottom)
	}
	c.SetFontSize(bodySize)

	outerBottom := l.top
	if v.ShowAttendees() {
		outerBottom = l.attendees()
	}
	l.border(outerBottom)
}

func (l *pageLayout) center() float64 {
	return (l.left + l.right) / 2
}

// border closes the current page's table with its side rules.
func (l *pageLayout) border(bottom float64) {
	l.c.Line(l.left, l.tableTop, l.left, bottom)
	l.c.Line(l.right, l.tableTop, l.right, bottom)
}

// header draws the four-row info block: title, date and host, place and
// head count, then the major agenda wrapped to the value column.
func (l *pageLayout) header() {
	c, v := l.c, l.v
	top := l.top
	labelX := l.left + headerLabelW
	rightX := l.right - headerRightW

	for i := 0; i <= 4; i++ {
		y := top + headerRowH*float64(i)
		c.Line(l.left, y, l.right, y)
	}
	bottom := top + 4*headerRowH
	c.Line(l.left, top, l.left, bottom)
	c.Line(l.right, top, l.right, bottom)
	c.Line(labelX, top, labelX, bottom)
	c.Line(rightX, top+headerRowH, rightX, top+3*headerRowH)

	rowY := func(i int) float64 { return top + headerRowH*float64(i+1) - 8 }

	c.Text(l.left+5, rowY(0), "제 목")
	c.Text(labelX+5, rowY(0), v.Title)

	c.Text(l.left+5, rowY(1), "일 시")
	c.Text(labelX+5, rowY(1), v.When)
	hostLabel := "주최자명"
	if v.Host != "" {
		hostLabel += " " + v.Host
	}
	c.Text(rightX+5, rowY(1), hostLabel)

	c.Text(l.left+5, rowY(2), "장 소")
	c.Text(labelX+5, rowY(2), v.Place)
	c.Text(rightX+5, rowY(2), fmt.Sprintf("참석인원  %d", len(v.Attendees)))

	c.Text(l.left+5, rowY(3), "주요안건")
	if v.MajorAgenda != "" {
		y := rowY(3)
		for _, line := range wrapLine(c.TextWidth, v.MajorAgenda, l.right-labelX-10) {
			c.Text(labelX+5, y, line)
			y += lineHeight
		}
	}

	l.top = bottom
}

// textBox flows text top-down inside a box, dropping whatever does not fit.
func (l *pageLayout) textBox(text string, top, bottom float64) {
	usable := (l.right - l.left) - 10
	y := top + lineHeight
	for _, raw := range strings.Split(text, "\n") {
		wrapped := wrapLine(l.c.TextWidth, raw, usable)
		for _, line := range wrapped {
			if line == "" && len(wrapped) == 1 {
				continue
			}
			if y > bottom-lineHeight {
				return
			}
			l.c.Text(l.left+5, y, line)
			y += lineHeight
		}
	}
}

// attendees draws the signature grid, moving it to a fresh page when it
// would run past the bottom margin. It returns the grid's bottom edge.
func (l *pageLayout) attendees() float64 {
	c := l.c
	rows := AttendeeRows(len(l.v.Attendees))
	blockH := labelRowH + attendHeaderH + float64(rows)*attendRowH

	if l.top+blockH > l.pageHeight-marginBottom {
		l.border(l.top)
		c.AddPage()
		c.SetFontSize(bodySize)
		l.top = marginTop
		l.tableTop = l.top
	}

	labelBottom := l.top + labelRowH
	c.Line(l.left, labelBottom, l.right, labelBottom)
	centeredText(c, l.center(), labelBottom-8, "참석자")

	headerBottom := labelBottom + attendHeaderH
	c.Line(l.left, headerBottom, l.right, headerBottom)

	tableBottom := headerBottom + float64(rows)*attendRowH
	colW := (l.right - l.left) / attendCols
	var xs [attendCols + 1]float64
	for i := range xs {
		xs[i] = l.left + colW*float64(i)
		c.Line(xs[i], labelBottom, xs[i], tableBottom)
	}
	for i, h := range attendHeaders {
		c.Text(xs[i]+5, headerBottom-5, h)
	}

	for row := 0; row < rows; row++ {
		rowBottom := headerBottom + attendRowH*float64(row+1)
		c.Line(l.left, rowBottom, l.right, rowBottom)

		textY := rowBottom - 5
		left, right := l.v.AttendeeRow(row, rows)
		if left != nil {
			c.Text(xs[0]+5, textY, left.Dept)
			c.Text(xs[1]+5, textY, left.Name)
		}
		c.Text(xs[2]+5, textY, signMark)
		if right != nil {
			c.Text(xs[3]+5, textY, right.Dept)
			c.Text(xs[4]+5, textY, right.Name)
		}
		c.Text(xs[5]+5, textY, signMark)
	}

	l.top = tableBottom
	return tableBottom
}
