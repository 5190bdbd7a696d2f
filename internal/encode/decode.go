package encode

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gen2brain/webp"
)

// DecodeImage decodes image bytes in the specified format back to an image.Image.
// Supported formats: "png", "jpeg"/"jpg", "webp".
func DecodeImage(data []byte, format string) (image.Image, error) {
	r := bytes.NewReader(data)
	var (
		img image.Image
		err error
	)
	switch format {
	case "png":
		img, err = png.Decode(r)
	case "jpeg", "jpg":
		img, err = jpeg.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, errors.Newf("unsupported decode format: %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", format)
	}
	return img, nil
}

// ReadFile decodes the image at path, picking the format from its extension.
func ReadFile(path string) (image.Image, string, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading %s", path)
	}
	img, err := DecodeImage(data, format)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s", path)
	}
	return img, format, nil
}
