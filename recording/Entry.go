package recording

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// Entry is a loggable payload. Entries fill in the kind-specific
// fields of a wire record when logged through Stream.Log.
type Entry interface {
	fill(rec *Record) error
}

// TextLog is a plain text entry.
type TextLog string

func (t TextLog) fill(rec *Record) error {
	rec.Kind = KindText
	rec.Text = string(t)
	return nil
}

// Image is an image entry. Call Compress to encode the frame as JPEG
// before logging; uncompressed images are stored losslessly as PNG.
type Image struct {
	frame   image.Image
	encoded *ImageData
	err     error
}

func NewImage(frame image.Image) *Image {
	return &Image{frame: frame}
}

// Compress encodes the frame as JPEG with the given quality in
// [1, 100]. Encoding errors surface when the entry is logged.
func (i *Image) Compress(quality int) *Image {
	if i.frame == nil {
		i.err = fmt.Errorf("compress: no frame to compress")
		return i
	}

	var buf bytes.Buffer
	err := jpeg.Encode(&buf, i.frame, &jpeg.Options{Quality: quality})
	if err != nil {
		i.err = fmt.Errorf("compress: could not encode JPEG: %v", err)
		return i
	}

	bounds := i.frame.Bounds()
	i.encoded = &ImageData{
		MediaType: "image/jpeg",
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Data:      buf.Bytes(),
	}
	return i
}

func (i *Image) fill(rec *Record) error {
	if i.err != nil {
		return i.err
	}
	if i.frame == nil {
		return fmt.Errorf("image: no frame to log")
	}

	if i.encoded == nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, i.frame); err != nil {
			return fmt.Errorf("image: could not encode PNG: %v", err)
		}

		bounds := i.frame.Bounds()
		i.encoded = &ImageData{
			MediaType: "image/png",
			Width:     bounds.Dx(),
			Height:    bounds.Dy(),
			Data:      buf.Bytes(),
		}
	}

	rec.Kind = KindImage
	rec.Image = i.encoded
	return nil
}
