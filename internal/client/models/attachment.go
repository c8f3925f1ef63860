package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Attachment is a file picked for upload, held in memory until the form is
// submitted or closed.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewAttachment sniffs the content type of data.
func NewAttachment(filename string, data []byte) Attachment {
	return Attachment{
		Filename:    filename,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}
}

// LoadAttachment reads the file at path.
func LoadAttachment(path string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	return NewAttachment(filepath.Base(path), data), nil
}

func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}
