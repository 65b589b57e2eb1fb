package media

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	avatarMaxSize = 512
	webpQuality   = 80
)

// NormalizeAvatar decodifica JPEG/PNG, limita a 512px no maior lado
// e reencoda em webp
func NormalizeAvatar(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > avatarMaxSize || h > avatarMaxSize {
		scale := float64(avatarMaxSize) / float64(w)
		if h > w {
			scale = float64(avatarMaxSize) / float64(h)
		}

		dst := image.NewRGBA(image.Rect(
			0, 0,
			int(float64(w)*scale),
			int(float64(h)*scale),
		))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
