package display

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"

	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

const dataURIPrefix = "data:image/png;base64,"

// keyTemplate is drawn on a 144x144 canvas and scaled to the target size
const keyTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="144" height="144" viewBox="0 0 144 144">
  <rect x="0" y="0" width="144" height="144" fill="%s"/>
  <rect x="12" y="12" width="120" height="120" rx="20" ry="20" fill="%s"/>
  <circle cx="72" cy="122" r="5" fill="%s"/>
</svg>`

// Renderer renders key images for each key state
type Renderer struct {
	size       int
	background color.RGBA
	colors     map[types.KeyState]color.RGBA

	mu    sync.Mutex
	cache map[types.KeyState]string
}

// NewRenderer creates a new renderer instance
func NewRenderer(cfg types.DisplayConfig) (*Renderer, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("invalid key image size %d", cfg.Size)
	}

	background, err := ParseColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	r := &Renderer{
		size:       cfg.Size,
		background: background,
		colors:     make(map[types.KeyState]color.RGBA, 4),
		cache:      make(map[types.KeyState]string),
	}

	for state, name := range map[types.KeyState]string{
		types.StateIdle:            cfg.Colors.Idle,
		types.StatePressed:         cfg.Colors.Pressed,
		types.StateReleasedPending: cfg.Colors.ReleasedPending,
		types.StateUnknown:         cfg.Colors.Unknown,
	} {
		c, err := ParseColor(name)
		if err != nil {
			return nil, fmt.Errorf("%s colour: %w", state, err)
		}
		r.colors[state] = c
	}

	return r, nil
}

// Size returns the edge length of rendered images in pixels
func (r *Renderer) Size() int {
	return r.size
}

// Color returns the fill colour used for state
func (r *Renderer) Color(state types.KeyState) color.RGBA {
	if c, ok := r.colors[state]; ok {
		return c
	}
	return r.colors[types.StateUnknown]
}

// SVG returns the SVG document for state
func (r *Renderer) SVG(state types.KeyState) string {
	fill := hex(r.Color(state))
	return fmt.Sprintf(keyTemplate, hex(r.background), fill, hex(r.background))
}

// Render rasterises the key image for state
func (r *Renderer) Render(state types.KeyState) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(r.SVG(state)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse key template: %w", err)
	}

	w, h := r.size, r.size
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// PNG renders the key image for state and encodes it as PNG
func (r *Renderer) PNG(state types.KeyState) ([]byte, error) {
	img, err := r.Render(state)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode key image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns the PNG key image for state as a data URI. Results are
// cached per state.
func (r *Renderer) DataURI(state types.KeyState) (string, error) {
	if !state.Valid() {
		state = types.StateUnknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if uri, ok := r.cache[state]; ok {
		return uri, nil
	}

	data, err := r.PNG(state)
	if err != nil {
		return "", err
	}
	uri := dataURIPrefix + base64.StdEncoding.EncodeToString(data)
	r.cache[state] = uri
	return uri, nil
}

// ParseColor parses a CSS colour name or a #rgb / #rrggbb hex string
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty colour")
	}

	if strings.HasPrefix(s, "#") {
		h := s[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) != 6 {
			return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
		}
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
