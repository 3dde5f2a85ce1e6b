// Package renderer draws simulation output with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// InkRenderer uploads the kernel's RGBA pixel buffer to a grid-sized texture
// and stretches it over the screen.
type InkRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	screenW, screenH float32
	initialized      bool
}

// NewInkRenderer creates a renderer for a screenW x screenH window.
func NewInkRenderer(screenW, screenH int32) *InkRenderer {
	return &InkRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the texture (must be called after the raylib window exists).
func (r *InkRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	// Each cell is one texel; keep cell edges hard when scaled up.
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update uploads a width*height*4 RGBA byte buffer.
func (r *InkRenderer) Update(buf []byte, w, h int) {
	if !r.initialized {
		r.Init(w, h)
	}
	if w != r.texW || h != r.texH {
		return
	}
	if PackRGBA(r.pixels, buf) != len(r.pixels) {
		return
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the ink layer over the whole screen.
func (r *InkRenderer) Draw() {
	if !r.initialized {
		return
	}
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *InkRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// PackRGBA copies a flat RGBA byte buffer into dst, one color per 4 bytes.
// It stops at whichever runs out first and returns the number of pixels written.
func PackRGBA(dst []color.RGBA, src []byte) int {
	n := len(src) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		p := src[i*4 : i*4+4 : i*4+4]
		dst[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return n
}
