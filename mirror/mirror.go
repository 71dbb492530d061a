// Package mirror copies swapchain images out of simulated device memory so
// they can be inspected on the desktop.
package mirror

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"github.com/davidrios/openxr-device-simulator/render"
)

// ErrUnsupportedFormat is returned for images that are not 8-bit RGBA or BGRA.
var ErrUnsupportedFormat = errors.New("mirror: unsupported image format")

// Memory gives access to the pixel memory of an image.
type Memory interface {
	MapMemory(img *render.Image, fn func(pixels []byte) error) error
}

type layout int

const (
	layoutRGBA layout = iota
	layoutBGRA
)

func layoutOf(f gputypes.TextureFormat) (layout, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatRGBA8Snorm, gputypes.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA8Sint:
		return layoutRGBA, nil
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return layoutBGRA, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// layerRange returns the byte range of one array layer.
func layerRange(img *render.Image, layer uint32) (int, int, error) {
	if layer >= img.Desc.ArrayLayers {
		return 0, 0, fmt.Errorf("mirror: layer %d of %d", layer, img.Desc.ArrayLayers)
	}
	size := int(img.Desc.Width) * int(img.Desc.Height) * 4
	return int(layer) * size, size, nil
}

// Capture reads one array layer of img into a new RGBA image.
func Capture(mem Memory, img *render.Image, layer uint32) (*image.RGBA, error) {
	l, err := layoutOf(img.Desc.Format)
	if err != nil {
		return nil, err
	}
	off, size, err := layerRange(img, layer)
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, int(img.Desc.Width), int(img.Desc.Height)))
	err = mem.MapMemory(img, func(px []byte) error {
		if len(px) < off+size {
			return fmt.Errorf("mirror: image memory is %d bytes, need %d", len(px), off+size)
		}
		copy(out.Pix, px[off:off+size])
		return nil
	})
	if err != nil {
		return nil, err
	}
	if l == layoutBGRA {
		swapRB(out.Pix)
	}
	return out, nil
}

// Fill writes c to every pixel of one array layer of img.
func Fill(mem Memory, img *render.Image, layer uint32, c color.RGBA) error {
	l, err := layoutOf(img.Desc.Format)
	if err != nil {
		return err
	}
	off, size, err := layerRange(img, layer)
	if err != nil {
		return err
	}
	px := [4]byte{c.R, c.G, c.B, c.A}
	if l == layoutBGRA {
		px[0], px[2] = px[2], px[0]
	}
	return mem.MapMemory(img, func(mapped []byte) error {
		if len(mapped) < off+size {
			return fmt.Errorf("mirror: image memory is %d bytes, need %d", len(mapped), off+size)
		}
		for i := off; i < off+size; i += 4 {
			copy(mapped[i:i+4], px[:])
		}
		return nil
	})
}

func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// Scale resizes src to width x height. A zero dimension keeps the source
// size.
func Scale(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	if width <= 0 {
		width = b.Dx()
	}
	if height <= 0 {
		height = b.Dy()
	}
	if width == b.Dx() && height == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// WriteBMP scales src and encodes it as BMP.
func WriteBMP(w io.Writer, src image.Image, width, height int) error {
	return bmp.Encode(w, Scale(src, width, height))
}

// SaveBMP writes src to a BMP file at path.
func SaveBMP(path string, src image.Image, width, height int) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := WriteBMP(f, src, width, height); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
