package classify

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder

	"golang.org/x/image/draw"
)

// thumbnail decodes the image and re-encodes it as a PNG downsized so that
// neither dimension exceeds the classifier's edge cap, preserving aspect
// ratio.
func (c *Classifier) thumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return encodePNG(scaleDown(src, c.maxEdge))
}

// scaleDown returns img downsized so its longest edge is at most maxEdge.
// Images already within the cap are returned unchanged.
func scaleDown(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxEdge
		nh = h * maxEdge / w
	} else {
		nh = maxEdge
		nw = w * maxEdge / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// genericIcon returns the fallback file-type icon rendered at construction.
func (c *Classifier) genericIcon() []byte {
	return c.placeholder
}

// renderGenericIcon draws the generic document icon: a plain bordered page.
func renderGenericIcon(maxEdge int) []byte {
	edge := maxEdge
	if edge < 16 {
		edge = 16
	}
	img := image.NewRGBA(image.Rect(0, 0, edge, edge))

	page := color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	border := color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}

	// Page body with a one-pixel border, inset from the icon bounds.
	inset := edge / 8
	for y := inset; y < edge-inset; y++ {
		for x := inset; x < edge-inset; x++ {
			onEdge := x == inset || x == edge-inset-1 || y == inset || y == edge-inset-1
			if onEdge {
				img.Set(x, y, border)
			} else {
				img.Set(x, y, page)
			}
		}
	}

	data, err := encodePNG(img)
	if err != nil {
		// Encoding a freshly built RGBA cannot fail at runtime; keep the
		// nil preview rather than panic if it somehow does.
		return nil
	}
	return data
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
