// Package environment derives the scene's ambient lighting from a fixed set of environment images.
package environment

import (
	"context"
	"fmt"
	"image"
	"image/color"

	// Decoders for the formats environment maps ship in besides PNG and JPEG.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"scatter/internal/download"
	"scatter/internal/logger"
)

// Neutral is the ambient color used when no environment image could be read.
var Neutral = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Map is the environment applied to the whole scene. It is loaded once and never changes.
type Map struct {
	// Ambient is the average color of every image read.
	Ambient color.RGBA
	// Sources are the paths or URLs that were read successfully.
	Sources []string
}

// Load reads every source (paths or URLs, URLs cached under cacheDir) and averages them into an ambient color.
// Unreadable sources are skipped with a warning; if none can be read the map is Neutral.
func Load(ctx context.Context, sources []string, cacheDir string, log *logger.Logger) *Map {
	m := &Map{Ambient: Neutral}
	var sum [3]float64
	for _, src := range sources {
		img, err := open(ctx, src, cacheDir)
		if err != nil {
			log.Warnf("environment: %v", err)
			continue
		}
		avg := Average(img)
		sum[0] += float64(avg.R)
		sum[1] += float64(avg.G)
		sum[2] += float64(avg.B)
		m.Sources = append(m.Sources, src)
	}
	if n := float64(len(m.Sources)); n > 0 {
		m.Ambient = color.RGBA{
			R: uint8(sum[0]/n + 0.5),
			G: uint8(sum[1]/n + 0.5),
			B: uint8(sum[2]/n + 0.5),
			A: 255,
		}
	}
	log.Infof("environment: %d of %d images, ambient #%02x%02x%02x", len(m.Sources), len(sources), m.Ambient.R, m.Ambient.G, m.Ambient.B)
	return m
}

func open(ctx context.Context, src, cacheDir string) (image.Image, error) {
	p := src
	if download.IsURL(src) {
		var err error
		p, err = download.Cached(ctx, src, cacheDir)
		if err != nil {
			return nil, err
		}
	}
	img, err := imgio.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return img, nil
}

// Average returns the mean color of img, computed by box-filtering it down to a single pixel.
func Average(img image.Image) color.RGBA {
	b := img.Bounds()
	if b.Empty() {
		return Neutral
	}
	px := transform.Resize(img, 1, 1, transform.Box)
	c := px.RGBAAt(0, 0)
	c.A = 255
	return c
}
