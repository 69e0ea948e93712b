package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// contentTypes is the upload allow-list.
var contentTypes = map[string]string{
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"webm": "audio/webm",
	"flac": "audio/flac",
}

// ContentType maps an allowed file extension to its media type.
func ContentType(filename string) (string, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	ct, ok := contentTypes[ext]
	if !ok {
		return "", "", domain.ValidationError{
			Code:    domain.ErrUnsupportedMediaType.Code,
			Message: fmt.Sprintf("unsupported file type %q", filepath.Ext(filename)),
		}
	}
	return ext, ct, nil
}

// IsAllowed reports whether filename has an allow-listed extension.
func IsAllowed(filename string) bool {
	_, _, err := ContentType(filename)
	return err == nil
}
