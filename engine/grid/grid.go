// Package grid assigns each particle its stable index and logical (row, column) coordinate.
package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned when a grid is built with no particles.
	ErrInvalidCount = errors.New("grid: particle count must be positive")
	// ErrInvalidColumns is returned when a grid is built with no columns.
	ErrInvalidColumns = errors.New("grid: column count must be positive")
)

// Particle is one drone's identity. It is derived purely from its index and never changes.
type Particle struct {
	Index int
	Row   int
	Col   int
}

// Grid maps particle indices onto a fixed-width logical grid. The last row may be partial.
// A Grid is immutable and safe for concurrent use.
type Grid struct {
	count   int
	columns int
}

// New creates a Grid for count particles laid out in rows of columns.
//
// Parameters:
//   - count: number of particles, fixed for the life of the show
//   - columns: logical grid width
//
// Returns:
//   - Grid: the grid
//   - error: ErrInvalidCount or ErrInvalidColumns on bad input
func New(count, columns int) (Grid, error) {
	if count <= 0 {
		return Grid{}, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if columns <= 0 {
		return Grid{}, fmt.Errorf("%w: got %d", ErrInvalidColumns, columns)
	}
	return Grid{count: count, columns: columns}, nil
}

// Count returns the number of particles.
func (g Grid) Count() int { return g.count }

// Columns returns the grid width.
func (g Grid) Columns() int { return g.columns }

// Rows returns the number of rows, counting a trailing partial row.
func (g Grid) Rows() int {
	if g.columns == 0 {
		return 0
	}
	return (g.count + g.columns - 1) / g.columns
}

// Contains reports whether index addresses a particle.
func (g Grid) Contains(index int) bool {
	return index >= 0 && index < g.count
}

// Particle returns the identity for index. ok is false when index is out of range, which callers
// turn into the invisible sentinel record.
func (g Grid) Particle(index int) (p Particle, ok bool) {
	if !g.Contains(index) {
		return Particle{}, false
	}
	return Particle{Index: index, Row: index / g.columns, Col: index % g.columns}, true
}

// Index returns the particle index at (row, col), or -1 when the cell holds no particle.
func (g Grid) Index(row, col int) int {
	if row < 0 || col < 0 || col >= g.columns {
		return -1
	}
	i := row*g.columns + col
	if i >= g.count {
		return -1
	}
	return i
}

// MirrorCol returns the column mirrored across the grid's vertical center line.
func (g Grid) MirrorCol(col int) int {
	return g.columns - 1 - col
}
