package formation

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
)

// CanvasConfig parameterizes the rectangular assembly that text is later painted onto.
type CanvasConfig struct {
	// RowStart and Rows select the participating grid rows.
	RowStart int `yaml:"row_start"`
	Rows     int `yaml:"rows"`
	// Width and Height are the canvas size in cells. Both must be even.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Spacing is the distance between neighbouring cells.
	Spacing float64     `yaml:"spacing"`
	Center  common.Vec3 `yaml:"center"`
	// Start is the assembly start; StartSpread adds up to this many seconds of per-particle delay.
	Start       float64 `yaml:"start"`
	StartSpread float64 `yaml:"start_spread"`
	// AxisDuration is the base time spent on each axis, AxisJitter the random extra.
	AxisDuration float64 `yaml:"axis_duration"`
	AxisJitter   float64 `yaml:"axis_jitter"`
	// PauseBase and PauseJitter shape the rest between consecutive axes.
	PauseBase   float64 `yaml:"pause_base"`
	PauseJitter float64 `yaml:"pause_jitter"`
}

// DefaultCanvasConfig returns the reference show's 64x16 canvas built from the first 32 rows.
func DefaultCanvasConfig() CanvasConfig {
	return CanvasConfig{
		RowStart:     0,
		Rows:         32,
		Width:        64,
		Height:       16,
		Spacing:      1.2,
		Center:       common.Vec3{0, 45, 0},
		Start:        22,
		StartSpread:  2,
		AxisDuration: 2,
		AxisJitter:   1.5,
		PauseBase:    0.3,
		PauseJitter:  0.4,
	}
}

// Cell is a canvas coordinate. X runs left to right, Y top to bottom.
type Cell struct {
	X, Y int
}

// Canvas assembles a band of rows into a flat rectangle facing the audience. Each grid quadrant fills the
// matching canvas quadrant, growing outward from the center lines, so mirrored columns land on mirrored cells.
// Particles travel one axis at a time: vertical, then lateral, then depth.
type Canvas struct {
	cfg     CanvasConfig
	columns int
}

var _ RowClaimer = &Canvas{}

// NewCanvas validates cfg against the grid and builds the formation.
//
// Parameters:
//   - g: the particle grid
//   - cfg: canvas configuration
//
// Returns:
//   - *Canvas: the formation
//   - error: ErrInvalidConfig or ErrCanvasShape
func NewCanvas(g grid.Grid, cfg CanvasConfig) (*Canvas, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width%2 != 0 || cfg.Height%2 != 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d must have positive even sides", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	if cfg.Rows <= 0 || cfg.Rows%2 != 0 || g.Columns()%2 != 0 {
		return nil, fmt.Errorf("%w: canvas needs an even row count and an even column count, got %d rows x %d columns",
			ErrInvalidConfig, cfg.Rows, g.Columns())
	}
	if cfg.Spacing <= 0 || cfg.AxisDuration <= 0 || cfg.AxisJitter < 0 || cfg.PauseBase < 0 || cfg.PauseJitter < 0 || cfg.StartSpread < 0 {
		return nil, fmt.Errorf("%w: canvas spacing and timings must be positive", ErrInvalidConfig)
	}
	if got, want := (cfg.Rows/2)*(g.Columns()/2), (cfg.Width/2)*(cfg.Height/2); got != want {
		return nil, fmt.Errorf("%w: %d particles per quadrant for %d cells per quadrant", ErrCanvasShape, got, want)
	}
	return &Canvas{cfg: cfg, columns: g.Columns()}, nil
}

func (c *Canvas) Name() string { return "canvas" }

func (c *Canvas) Kind() Kind { return KindCanvas }

func (c *Canvas) Rows() (start, end int) {
	return c.cfg.RowStart, c.cfg.RowStart + c.cfg.Rows
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.cfg.Width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.cfg.Height }

// Claims reports whether the canvas owns the given grid row.
func (c *Canvas) Claims(row int) bool {
	return row >= c.cfg.RowStart && row < c.cfg.RowStart+c.cfg.Rows
}

// CellAt maps a grid coordinate onto its canvas cell.
//
// Parameters:
//   - row: absolute grid row
//   - col: grid column
//
// Returns:
//   - Cell: the canvas cell
//   - bool: false when the canvas does not claim the coordinate
func (c *Canvas) CellAt(row, col int) (Cell, bool) {
	if !c.Claims(row) || col < 0 || col >= c.columns {
		return Cell{}, false
	}

	half := c.columns / 2
	halfRows := c.cfg.Rows / 2
	qw := c.cfg.Width / 2
	qh := c.cfg.Height / 2

	local := row - c.cfg.RowStart
	left := col < half
	top := local < halfRows

	colOut := col - half
	if left {
		colOut = half - 1 - col
	}
	rowOut := local - halfRows
	if top {
		rowOut = halfRows - 1 - local
	}

	k := rowOut*half + colOut
	qx, qy := k%qw, k/qw

	cell := Cell{X: qw + qx, Y: qh + qy}
	if left {
		cell.X = qw - 1 - qx
	}
	if top {
		cell.Y = qh - 1 - qy
	}
	return cell, true
}

// Cell maps a particle onto its canvas cell.
func (c *Canvas) Cell(p grid.Particle) (Cell, bool) {
	return c.CellAt(p.Row, p.Col)
}

// SampleRect returns the normalized bitmap rectangle covered by the cell at (row, col).
func (c *Canvas) SampleRect(row, col int) (common.Rect, bool) {
	cell, ok := c.CellAt(row, col)
	if !ok {
		return common.Rect{}, false
	}
	w, h := float64(c.cfg.Width), float64(c.cfg.Height)
	return common.Rect{
		U0: float64(cell.X) / w,
		U1: float64(cell.X+1) / w,
		V0: float64(cell.Y) / h,
		V1: float64(cell.Y+1) / h,
	}, true
}

// BorderDepth returns how deep the particle's cell sits inside the canvas: 0 on the outer ring,
// 1 at the innermost ring. Non-participants report 0.
func (c *Canvas) BorderDepth(p grid.Particle) float64 {
	cell, ok := c.Cell(p)
	if !ok {
		return 0
	}
	d := min(cell.X, c.cfg.Width-1-cell.X, cell.Y, c.cfg.Height-1-cell.Y)
	maxDepth := (min(c.cfg.Width, c.cfg.Height) - 1) / 2
	if maxDepth == 0 {
		return 0
	}
	return float64(d) / float64(maxDepth)
}

// IsBorder reports whether the particle sits on the outer ring of the canvas.
func (c *Canvas) IsBorder(p grid.Particle) bool {
	cell, ok := c.Cell(p)
	if !ok {
		return false
	}
	return cell.X == 0 || cell.Y == 0 || cell.X == c.cfg.Width-1 || cell.Y == c.cfg.Height-1
}

// CellPosition returns the world position of a canvas cell.
func (c *Canvas) CellPosition(cell Cell) common.Vec3 {
	return common.Vec3{
		c.cfg.Center[0] + (float64(cell.X)-float64(c.cfg.Width-1)/2)*c.cfg.Spacing,
		c.cfg.Center[1] + (float64(c.cfg.Height-1)/2-float64(cell.Y))*c.cfg.Spacing,
		c.cfg.Center[2],
	}
}

// legs returns the three axis durations and the two pauses between them.
func (c *Canvas) legs(index int) (vertical, pause1, lateral, pause2, depth float64) {
	vertical = c.cfg.AxisDuration + jitter.At(index, jitter.SaltCanvasVertical)*c.cfg.AxisJitter
	lateral = c.cfg.AxisDuration + jitter.At(index, jitter.SaltCanvasLateral)*c.cfg.AxisJitter
	depth = c.cfg.AxisDuration + jitter.At(index, jitter.SaltCanvasDepth)*c.cfg.AxisJitter
	pause1 = c.cfg.PauseBase + jitter.At(index, jitter.SaltCanvasPause)*c.cfg.PauseJitter
	pause2 = c.cfg.PauseBase + jitter.At(index, jitter.SaltCanvasPause+1)*c.cfg.PauseJitter
	return vertical, pause1, lateral, pause2, depth
}

func (c *Canvas) Plan(p grid.Particle) Plan {
	if !c.Claims(p.Row) {
		return Plan{}
	}
	v, p1, l, p2, d := c.legs(p.Index)
	return Plan{
		Participates: true,
		Start:        c.cfg.Start + jitter.At(p.Index, jitter.SaltCanvasStart)*c.cfg.StartSpread,
		Duration:     v + p1 + l + p2 + d,
	}
}

func (c *Canvas) Target(p grid.Particle, from common.Vec3) Target {
	cell, ok := c.Cell(p)
	if !ok {
		return Target{Position: from}
	}
	return Target{Position: c.CellPosition(cell), Participates: true}
}

func (c *Canvas) Position(p grid.Particle, from common.Vec3, t float64) common.Vec3 {
	target := c.Target(p, from)
	if !target.Participates {
		return from
	}
	plan := c.Plan(p)
	v, p1, l, p2, d := c.legs(p.Index)

	yStart := plan.Start
	xStart := yStart + v + p1
	zStart := xStart + l + p2

	return common.Vec3{
		common.Mix(from[0], target.Position[0], common.Smoothstep(common.Progress(t, xStart, l))),
		common.Mix(from[1], target.Position[1], common.Smoothstep(common.Progress(t, yStart, v))),
		common.Mix(from[2], target.Position[2], common.Smoothstep(common.Progress(t, zStart, d))),
	}
}

// SettledBy returns the latest time any participant is still moving, useful for checking that the
// assembly finishes inside its phase window.
func (c *Canvas) SettledBy() float64 {
	return c.cfg.Start + c.cfg.StartSpread + 3*(c.cfg.AxisDuration+c.cfg.AxisJitter) + 2*(c.cfg.PauseBase+c.cfg.PauseJitter)
}
