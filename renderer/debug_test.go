package renderer

import (
	"testing"

	"github.com/pthm-cable/flappy/components"
)

func TestGapEdges(t *testing.T) {
	pos := components.Position{X: 200}
	pipe := components.Pipe{Height: 120, Top: -200, Bottom: 220}

	top, bottom := GapEdges(pos, pipe, 52)

	if top.X != 226 || bottom.X != 226 {
		t.Errorf("x = %v/%v, want the pipe's middle 226", top.X, bottom.X)
	}
	if top.Y != 120 {
		t.Errorf("top y = %v, want gap upper edge 120", top.Y)
	}
	if bottom.Y != 220 {
		t.Errorf("bottom y = %v, want gap lower edge 220", bottom.Y)
	}
}
