// Package renderer draws the playfield with raylib.
package renderer

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/systems"
)

// SpriteRenderer uploads the atlas to GPU textures and draws entities with them.
type SpriteRenderer struct {
	bird       [sprites.BirdFrames]rl.Texture2D
	pipeTop    rl.Texture2D
	pipeBottom rl.Texture2D
	base       rl.Texture2D
	background rl.Texture2D

	initialized bool
}

// NewSpriteRenderer uploads every atlas image.
// Must be called after the raylib window is created.
func NewSpriteRenderer(atlas *sprites.Atlas) *SpriteRenderer {
	s := &SpriteRenderer{}
	for i, img := range atlas.Bird {
		s.bird[i] = loadTexture(img)
	}
	s.pipeTop = loadTexture(atlas.PipeTop)
	s.pipeBottom = loadTexture(atlas.PipeBottom)
	s.base = loadTexture(atlas.Base)
	s.background = loadTexture(atlas.Background)
	s.initialized = true
	return s
}

func loadTexture(img image.Image) rl.Texture2D {
	rlImg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rlImg)
	rl.UnloadImage(rlImg)
	return tex
}

// DrawBackground tiles the background image across the screen width.
func (s *SpriteRenderer) DrawBackground(screenW int32) {
	for x := int32(0); x < screenW; x += s.background.Width {
		rl.DrawTexture(s.background, x, 0, rl.White)
	}
}

// DrawPipe draws both halves of a pipe pair.
func (s *SpriteRenderer) DrawPipe(pos components.Position, pipe components.Pipe) {
	rl.DrawTexture(s.pipeTop, int32(pos.X), int32(pipe.Top), rl.White)
	rl.DrawTexture(s.pipeBottom, int32(pos.X), int32(pipe.Bottom), rl.White)
}

// DrawBase draws the two ground strips.
func (s *SpriteRenderer) DrawBase(b systems.Base) {
	rl.DrawTexture(s.base, int32(b.X1), int32(b.Y), rl.White)
	rl.DrawTexture(s.base, int32(b.X2), int32(b.Y), rl.White)
}

// DrawBird draws the current frame rotated by the bird's tilt around its center.
// Positive tilt is nose up; raylib rotates clockwise.
func (s *SpriteRenderer) DrawBird(pos components.Position, kin components.Kinematics, spr components.Sprite, tint rl.Color) {
	frame := min(max(spr.Frame, 0), sprites.BirdFrames-1)
	tex := s.bird[frame]
	w, h := float32(tex.Width), float32(tex.Height)

	src := rl.Rectangle{X: 0, Y: 0, Width: w, Height: h}
	dst := rl.Rectangle{X: float32(pos.X) + w/2, Y: float32(pos.Y) + h/2, Width: w, Height: h}
	origin := rl.Vector2{X: w / 2, Y: h / 2}

	rl.DrawTexturePro(tex, src, dst, origin, float32(-kin.Tilt), tint)
}

// Unload frees GPU textures.
func (s *SpriteRenderer) Unload() {
	if !s.initialized {
		return
	}
	for _, tex := range s.bird {
		rl.UnloadTexture(tex)
	}
	rl.UnloadTexture(s.pipeTop)
	rl.UnloadTexture(s.pipeBottom)
	rl.UnloadTexture(s.base)
	rl.UnloadTexture(s.background)
	s.initialized = false
}
