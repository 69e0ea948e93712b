package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// Format is a document output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts "pdf" or "docx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOCX:
		return f, nil
	}
	return "", domain.ValidationError{Code: "invalid_format", Message: fmt.Sprintf("unsupported document format %q", s)}
}

func (f Format) ContentType() string {
	if f == FormatDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// Filename is the download name of a meeting's minutes document.
func Filename(meetingID int64, f Format) string {
	return fmt.Sprintf("meeting_%d_minutes.%s", meetingID, f)
}

// Renderer turns a meeting view into document bytes.
type Renderer interface {
	Render(ctx context.Context, view MeetingView, format Format) ([]byte, error)
}
