// Package media classifies uploaded files as Image, Video or Unknown.
//
// The declared upload MIME is trusted only for the coarse write-time
// label; whenever attachments are listed, the label is re-derived from
// the stored bytes so a spoofed Content-Type header never survives a
// read.
package media

import (
	"io"
	"strings"

	"github.com/cama-app/apiserver/types"
	"github.com/gabriel-vasile/mimetype"
)

// Classify sniffs content bytes and returns Image, Video or Unknown.
func Classify(data []byte) string {
	return label(mimetype.Detect(data).String())
}

// ClassifyReader sniffs from a reader. It reads only the detection
// window, not the whole file. Read failures degrade to Unknown.
func ClassifyReader(r io.Reader) string {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return types.MediaTypeUnknown
	}
	return label(mt.String())
}

// ClassifyDeclared maps the client-declared upload MIME to the coarse
// write-time label: anything that does not declare itself an image is
// recorded as video until the first read re-sniffs it.
func ClassifyDeclared(contentType string) string {
	if strings.HasPrefix(contentType, "image") {
		return types.MediaTypeImage
	}
	return types.MediaTypeVideo
}

func label(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return types.MediaTypeImage
	case strings.HasPrefix(mime, "video/"):
		return types.MediaTypeVideo
	default:
		return types.MediaTypeUnknown
	}
}
