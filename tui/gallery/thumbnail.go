package gallery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const maxAssetBytes = 8 << 20

var assetClient = &http.Client{Timeout: 10 * time.Second}

// loadPreview downloads an image asset and renders it as w×h terminal cells.
func loadPreview(ctx context.Context, rawURL string, w, h int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := assetClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("preview status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding preview: %w", err)
	}
	return renderHalfBlocks(img, w, h), nil
}

// renderHalfBlocks draws img with one "▀" per cell, two pixels tall.
// The image keeps its aspect ratio and is centred in the w×h box.
func renderHalfBlocks(img image.Image, w, h int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}
	if w < 4 {
		w = 4
	}
	if h < 2 {
		h = 2
	}

	boxW, boxH := w, h*2
	scale := min(float64(boxW)/float64(b.Dx()), float64(boxH)/float64(b.Dy()))
	tw := max(1, int(float64(b.Dx())*scale))
	th := max(1, int(float64(b.Dy())*scale))
	off := image.Pt((boxW-tw)/2, (boxH-th)/2)

	dst := image.NewNRGBA(image.Rect(0, 0, boxW, boxH))
	draw.ApproxBiLinear.Scale(dst, image.Rectangle{Min: off, Max: off.Add(image.Pt(tw, th))}, img, b, draw.Src, nil)

	var out strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			writeCell(&out, dst.NRGBAAt(x, 2*y), dst.NRGBAAt(x, 2*y+1))
		}
		if y < h-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func writeCell(out *strings.Builder, top, bottom color.NRGBA) {
	switch {
	case top.A == 0 && bottom.A == 0:
		out.WriteByte(' ')
	case bottom.A == 0:
		fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm▀\x1b[0m", top.R, top.G, top.B)
	case top.A == 0:
		fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm▄\x1b[0m", bottom.R, bottom.G, bottom.B)
	default:
		fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀\x1b[0m",
			top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
	}
}
