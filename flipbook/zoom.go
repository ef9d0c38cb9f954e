package flipbook

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// ResampleForZoom rescales a real page image to the given zoom factor and
// re-encodes it as PNG. Sentinel pages pass through unchanged, as does a
// zoom of 1.0.
func ResampleForZoom(page PageImage, zoom float64) (PageImage, error) {
	if page.Kind != PageReal || zoom == 1.0 {
		return page, nil
	}
	if zoom < minZoom || zoom > maxZoom {
		return page, fmt.Errorf("zoom %.1f outside [%.1f, %.1f]", zoom, minZoom, maxZoom)
	}

	src, err := png.Decode(bytes.NewReader(page.Data))
	if err != nil {
		return page, fmt.Errorf("failed to decode page %d: %w", page.Index, err)
	}

	bounds := src.Bounds()
	w := int(float64(bounds.Dx()) * zoom)
	h := int(float64(bounds.Dy()) * zoom)
	if w < 1 || h < 1 {
		return page, fmt.Errorf("zoom %.1f collapses page %d to zero size", zoom, page.Index)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return page, fmt.Errorf("failed to encode scaled page %d: %w", page.Index, err)
	}

	scaled := page
	scaled.Data = buf.Bytes()
	return scaled, nil
}
