package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

func testBirdParams() BirdParams {
	return BirdParamsFromConfig(config.Default())
}

func TestDisplacementFormula(t *testing.T) {
	p := testBirdParams()

	for _, v := range []float64{0, -7.2} {
		for tick := 0; tick <= 20; tick++ {
			want := math.Min(8, v*float64(tick)+1.25*float64(tick*tick))
			got := Displacement(v, tick, p)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("Displacement(%v, %d) = %v, want %v", v, tick, got, want)
			}
		}
	}
}

func TestJumpResetsState(t *testing.T) {
	p := testBirdParams()
	pos := components.Position{X: 70, Y: 200}
	kin := components.Kinematics{Velocity: 0, Ticks: 12}

	Jump(&pos, &kin, p)

	if kin.Ticks != 0 {
		t.Errorf("Ticks = %d, want 0", kin.Ticks)
	}
	if kin.Velocity != -7.2 {
		t.Errorf("Velocity = %v, want -7.2", kin.Velocity)
	}
	if kin.RefHeight != 200 {
		t.Errorf("RefHeight = %v, want 200", kin.RefHeight)
	}
}

func TestMoveAfterJumpRises(t *testing.T) {
	p := testBirdParams()
	pos := components.Position{X: 70, Y: 200}
	kin := components.Kinematics{}
	Jump(&pos, &kin, p)

	d := Move(&pos, &kin, p)

	if math.Abs(d-(-5.95)) > 1e-9 {
		t.Errorf("first displacement after jump = %v, want -5.95", d)
	}
	if math.Abs(pos.Y-194.05) > 1e-9 {
		t.Errorf("y = %v, want 194.05", pos.Y)
	}
	if kin.Tilt != p.MaxRotation {
		t.Errorf("tilt = %v, want %v while rising", kin.Tilt, p.MaxRotation)
	}
}

func TestMoveTerminalVelocity(t *testing.T) {
	p := testBirdParams()
	pos := components.Position{Y: 0}
	kin := components.Kinematics{}

	var prev float64
	for i := 0; i < 50; i++ {
		d := Move(&pos, &kin, p)
		if d > 8 {
			t.Fatalf("tick %d: displacement %v exceeds terminal 8", i, d)
		}
		if i > 0 && d < prev {
			t.Fatalf("tick %d: falling displacement decreased from %v to %v", i, prev, d)
		}
		prev = d
	}
	if prev != 8 {
		t.Errorf("steady-state displacement = %v, want 8", prev)
	}
}

func TestTiltDecaysAndClamps(t *testing.T) {
	p := testBirdParams()
	pos := components.Position{Y: 100}
	kin := components.Kinematics{RefHeight: 100, Tilt: 25}

	// Fall well past the hold band so tilt starts to decay.
	var tilts []float64
	for i := 0; i < 30; i++ {
		Move(&pos, &kin, p)
		tilts = append(tilts, kin.Tilt)
		if kin.Tilt < p.MinTilt {
			t.Fatalf("tilt %v went below floor %v", kin.Tilt, p.MinTilt)
		}
	}

	if tilts[len(tilts)-1] != p.MinTilt {
		t.Errorf("final tilt = %v, want %v", tilts[len(tilts)-1], p.MinTilt)
	}
	t.Logf("tilt sequence: %v", tilts)
}

func TestTiltHoldsNearJumpHeight(t *testing.T) {
	p := testBirdParams()
	pos := components.Position{Y: 100}
	kin := components.Kinematics{RefHeight: 100, Tilt: -40}

	// First tick falls 1.25: still within 50 units of the reference height.
	Move(&pos, &kin, p)
	if kin.Tilt != p.MaxRotation {
		t.Errorf("tilt = %v, want snap to %v within hold band", kin.Tilt, p.MaxRotation)
	}
}
