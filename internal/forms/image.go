package forms

import (
	"bytes"
	"errors"
	"image"
	// Decoders for the accepted upload formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrEmptyFile is returned for a zero-length upload
	ErrEmptyFile = errors.New("file is empty")
	// ErrNotImage is returned when an upload is not a well-formed gif, png or jpeg
	ErrNotImage = errors.New("file must be an image")
)

var allowedImageTypes = []string{"image/gif", "image/png", "image/jpeg"}

// Upload is a file received with a form
type Upload struct {
	Filename string
	Data     []byte
}

// checkImage verifies that data sniffs as an accepted image type and that
// its header decodes. It returns the sniffed type.
func checkImage(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	mt := mimetype.Detect(data)
	allowed := false
	for _, t := range allowedImageTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrNotImage
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, ErrNotImage
	}
	return mt, nil
}
