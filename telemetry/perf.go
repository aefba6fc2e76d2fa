package telemetry

import (
	"log/slog"
	"time"
)

// Phase names, in the order a round tick runs them.
const (
	PhaseDecide    = "decide"
	PhaseScroll    = "scroll"
	PhaseCollision = "collision"
	PhaseBounds    = "bounds"
	PhaseCleanup   = "cleanup"
	PhaseAnimation = "animation"
)

var phases = [...]string{
	PhaseDecide, PhaseScroll, PhaseCollision,
	PhaseBounds, PhaseCleanup, PhaseAnimation,
}

const numPhases = len(phases)

// Phases returns the phase names in tick order.
func Phases() []string {
	return append([]string(nil), phases[:]...)
}

func phaseIndex(name string) int {
	for i, p := range phases {
		if p == name {
			return i
		}
	}
	return -1
}

// tickTiming is the wall time of one tick, or a sum of ticks, split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

func (t *tickTiming) add(o tickTiming) {
	t.total += o.total
	for i := range t.phases {
		t.phases[i] += o.phases[i]
	}
}

// PerfCollector times round ticks. It keeps a rolling window for live display
// and running totals for the current round, which BeginRound clears.
type PerfCollector struct {
	window []tickTiming
	next   int
	filled int

	generation int
	round      tickTiming
	roundTicks int
	roundMin   time.Duration
	roundMax   time.Duration

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      int

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector whose live window spans windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window: make([]tickTiming, windowSize),
		phase:  -1,
	}
}

// BeginRound starts a new round. Round totals and the live window are reset so
// nothing carries over from the previous generation.
func (p *PerfCollector) BeginRound(generation int) {
	p.generation = generation
	p.round = tickTiming{}
	p.roundTicks = 0
	p.roundMin, p.roundMax = 0, 0
	p.next, p.filled = 0, 0
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{}
	p.phase = -1
}

// StartPhase closes the open phase and opens the named one. Names outside
// Phases are timed as part of the tick only.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(name)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phase = -1
}

// EndTick records the tick in the window and the round totals.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))

	p.round.add(p.current)
	if p.roundTicks == 0 || p.current.total < p.roundMin {
		p.roundMin = p.current.total
	}
	p.roundMax = max(p.roundMax, p.current.total)
	p.roundTicks++
}

// RecordFrame records the time since the previous rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes tick timings.
type PerfStats struct {
	Generation int
	Ticks      int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average tick

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarizes the live window.
func (p *PerfCollector) Stats() PerfStats {
	var sum tickTiming
	var lo, hi time.Duration
	for i := 0; i < p.filled; i++ {
		s := p.window[i]
		sum.add(s)
		if i == 0 || s.total < lo {
			lo = s.total
		}
		hi = max(hi, s.total)
	}
	return p.summarize(sum, p.filled, lo, hi)
}

// RoundStats summarizes every tick since BeginRound.
func (p *PerfCollector) RoundStats() PerfStats {
	return p.summarize(p.round, p.roundTicks, p.roundMin, p.roundMax)
}

func (p *PerfCollector) summarize(sum tickTiming, n int, lo, hi time.Duration) PerfStats {
	s := PerfStats{
		Generation:      p.generation,
		Ticks:           n,
		MinTickDuration: lo,
		MaxTickDuration: hi,
		PhaseAvg:        make(map[string]time.Duration, numPhases),
		PhasePct:        make(map[string]float64, numPhases),
		FrameDuration:   p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if n == 0 {
		return s
	}

	s.AvgTickDuration = sum.total / time.Duration(n)
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for i, name := range phases {
		avg := sum.phases[i] / time.Duration(n)
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("generation", s.Generation),
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range phases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Generation   int     `csv:"generation"`
	Ticks        int     `csv:"ticks"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	DecidePct    float64 `csv:"decide_pct"`
	ScrollPct    float64 `csv:"scroll_pct"`
	CollisionPct float64 `csv:"collision_pct"`
	BoundsPct    float64 `csv:"bounds_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	AnimationPct float64 `csv:"animation_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV() PerfStatsCSV {
	return PerfStatsCSV{
		Generation:   s.Generation,
		Ticks:        s.Ticks,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		DecidePct:    s.PhasePct[PhaseDecide],
		ScrollPct:    s.PhasePct[PhaseScroll],
		CollisionPct: s.PhasePct[PhaseCollision],
		BoundsPct:    s.PhasePct[PhaseBounds],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		AnimationPct: s.PhasePct[PhaseAnimation],
	}
}
