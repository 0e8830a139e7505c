package formation

import (
	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
)

// Ground is the launch pad layout: the grid laid flat on y = 0, centered on the origin,
// columns along X and rows along Z.
type Ground struct {
	spacing float64
	columns int
	rows    int
}

// NewGround lays g out with the given spacing between neighbouring drones.
func NewGround(g grid.Grid, spacing float64) Ground {
	return Ground{spacing: spacing, columns: g.Columns(), rows: g.Rows()}
}

// Spacing returns the distance between neighbouring pads.
func (gr Ground) Spacing() float64 { return gr.spacing }

// Position returns the particle's pad position.
func (gr Ground) Position(p grid.Particle) common.Vec3 {
	return common.Vec3{
		(float64(p.Col) - float64(gr.columns-1)/2) * gr.spacing,
		0,
		(float64(p.Row) - float64(gr.rows-1)/2) * gr.spacing,
	}
}
