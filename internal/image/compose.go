package imagepkg

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// ImageSize decodes the image at path and returns its pixel size.
func ImageSize(path string) (width, height int, err error) {
	img, err := imaging.Open(path)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// ThumbnailPNG resizes the image at path to the given width, keeping its
// aspect ratio, and returns it PNG encoded.
func ThumbnailPNG(path string, width int) ([]byte, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
