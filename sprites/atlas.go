package sprites

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// BirdFrames is the number of distinct bird animation frames.
const BirdFrames = 3

// Procedural sprite sizes match the classic asset set.
const (
	BirdWidth        = 34
	BirdHeight       = 24
	PipeWidth        = 52
	PipeHeight       = 320
	BaseWidth        = 336
	BaseHeight       = 112
	BackgroundWidth  = 288
	BackgroundHeight = 512
)

// Atlas holds every sprite image plus the masks derived from them.
// Masks are computed once; collision checks only read them.
type Atlas struct {
	Bird       [BirdFrames]image.Image
	PipeTop    image.Image
	PipeBottom image.Image
	Base       image.Image
	Background image.Image

	BirdMasks      [BirdFrames]*Mask
	PipeTopMask    *Mask
	PipeBottomMask *Mask
}

// Load reads bird1..3.png, pipe.png, base.png and bg.png from dir.
// An empty dir yields the procedural atlas.
func Load(dir string) (*Atlas, error) {
	if dir == "" {
		return Procedural(), nil
	}

	open := func(name string) (image.Image, error) {
		img, err := imaging.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading sprite %s: %w", name, err)
		}
		return img, nil
	}

	a := &Atlas{}
	for i := range a.Bird {
		img, err := open(fmt.Sprintf("bird%d.png", i+1))
		if err != nil {
			return nil, err
		}
		a.Bird[i] = img
	}

	pipe, err := open("pipe.png")
	if err != nil {
		return nil, err
	}
	a.PipeBottom = pipe
	a.PipeTop = imaging.FlipV(pipe)

	if a.Base, err = open("base.png"); err != nil {
		return nil, err
	}
	if a.Background, err = open("bg.png"); err != nil {
		return nil, err
	}

	a.buildMasks()
	return a, nil
}

// Procedural draws a complete sprite set without any asset files.
func Procedural() *Atlas {
	a := &Atlas{}
	wingOffsets := [BirdFrames]float64{-8, 0, 8}
	for i, off := range wingOffsets {
		a.Bird[i] = drawBird(off)
	}
	a.PipeBottom = drawPipe()
	a.PipeTop = imaging.FlipV(a.PipeBottom)
	a.Base = drawBase()
	a.Background = drawBackground()

	a.buildMasks()
	return a
}

func (a *Atlas) buildMasks() {
	for i, img := range a.Bird {
		a.BirdMasks[i] = MaskFromImage(img)
	}
	a.PipeTopMask = MaskFromImage(a.PipeTop)
	a.PipeBottomMask = MaskFromImage(a.PipeBottom)
}

// BirdMask returns the mask for an animation frame, clamped to the valid range.
func (a *Atlas) BirdMask(frame int) *Mask {
	frame = min(max(frame, 0), BirdFrames-1)
	return a.BirdMasks[frame]
}

// BirdHeight returns the height of the first bird frame.
func (a *Atlas) BirdHeight() int { return a.Bird[0].Bounds().Dy() }

// BirdWidth returns the width of the first bird frame.
func (a *Atlas) BirdWidth() int { return a.Bird[0].Bounds().Dx() }

// PipeWidth returns the pipe sprite width.
func (a *Atlas) PipeWidth() int { return a.PipeBottom.Bounds().Dx() }

// PipeHeight returns the pipe sprite height.
func (a *Atlas) PipeHeight() int { return a.PipeBottom.Bounds().Dy() }

// BaseWidth returns the ground strip width.
func (a *Atlas) BaseWidth() int { return a.Base.Bounds().Dx() }

func drawBird(wingOffset float64) image.Image {
	dc := gg.NewContext(BirdWidth, BirdHeight)

	// Body
	dc.SetHexColor("#f5c542")
	dc.DrawEllipse(16, 12, 15, 11)
	dc.Fill()

	// Eye
	dc.SetHexColor("#ffffff")
	dc.DrawCircle(24, 8, 4)
	dc.Fill()
	dc.SetHexColor("#000000")
	dc.DrawCircle(25, 8, 1.5)
	dc.Fill()

	// Beak
	dc.SetHexColor("#e8702a")
	dc.DrawRectangle(26, 12, 8, 5)
	dc.Fill()

	// Wing
	dc.SetHexColor("#fbe9a0")
	dc.DrawEllipse(8, 12+wingOffset, 7, 4)
	dc.Fill()

	return dc.Image()
}

// drawPipe draws the upright (bottom) pipe with its lip at the top edge.
func drawPipe() image.Image {
	dc := gg.NewContext(PipeWidth, PipeHeight)

	dc.SetHexColor("#5eb548")
	dc.DrawRectangle(2, 0, PipeWidth-4, PipeHeight)
	dc.Fill()

	dc.SetHexColor("#74bf2e")
	dc.DrawRectangle(0, 0, PipeWidth, 24)
	dc.Fill()

	dc.SetHexColor("#3a7d2c")
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, PipeWidth-2, 22)
	dc.Stroke()

	return dc.Image()
}

func drawBase() image.Image {
	dc := gg.NewContext(BaseWidth, BaseHeight)

	dc.SetHexColor("#ded895")
	dc.Clear()

	dc.SetHexColor("#73bf2e")
	dc.DrawRectangle(0, 0, BaseWidth, 12)
	dc.Fill()

	// Diagonal stripes make the scroll visible
	dc.SetHexColor("#9ce659")
	for x := 0.0; x < BaseWidth; x += 24 {
		dc.MoveTo(x, 0)
		dc.LineTo(x+12, 0)
		dc.LineTo(x+6, 12)
		dc.LineTo(x-6, 12)
		dc.ClosePath()
		dc.Fill()
	}

	return dc.Image()
}

func drawBackground() image.Image {
	dc := gg.NewContext(BackgroundWidth, BackgroundHeight)

	grad := gg.NewLinearGradient(0, 0, 0, BackgroundHeight)
	grad.AddColorStop(0, color.RGBA{R: 78, G: 192, B: 202, A: 255})
	grad.AddColorStop(1, color.RGBA{R: 200, G: 236, B: 240, A: 255})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, BackgroundWidth, BackgroundHeight)
	dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.8)
	for _, c := range [][3]float64{{40, 330, 30}, {90, 345, 24}, {170, 320, 36}, {240, 340, 28}} {
		dc.DrawCircle(c[0], c[1], c[2])
	}
	dc.Fill()

	return dc.Image()
}
